package extract

import (
	"strings"
	"testing"
)

func TestForFile_Routing(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"act.txt", "*extract.TextExtractor"},
		{"act.md", "*extract.MarkdownExtractor"},
		{"act.markdown", "*extract.MarkdownExtractor"},
		{"act.csv", "*extract.CSVExtractor"},
		{"act.html", "*extract.HTMLExtractor"},
		{"act.HTM", "*extract.HTMLExtractor"},
		{"act.pdf", "*extract.PDFExtractor"},
		{"act.docx", "*extract.DOCXExtractor"},
	}
	for _, c := range cases {
		e, err := ForFile(c.filename)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.filename, err)
			continue
		}
		if got := typeName(e); got != c.want {
			t.Errorf("%s: expected %s, got %s", c.filename, c.want, got)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TextExtractor:
		return "*extract.TextExtractor"
	case *MarkdownExtractor:
		return "*extract.MarkdownExtractor"
	case *CSVExtractor:
		return "*extract.CSVExtractor"
	case *HTMLExtractor:
		return "*extract.HTMLExtractor"
	case *PDFExtractor:
		return "*extract.PDFExtractor"
	case *DOCXExtractor:
		return "*extract.DOCXExtractor"
	}
	return "unknown"
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("act.exe"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("act.exe") {
		t.Error("exe must not be supported")
	}
	if !IsSupportedExtension("act.PDF") {
		t.Error("extension check must be case-insensitive")
	}
}

func TestTextExtractor_PassThrough(t *testing.T) {
	e := &TextExtractor{}
	got, err := e.Extract(strings.NewReader("Section 1 Title\nbody"), "act.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Section 1 Title\nbody" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestMarkdownExtractor_HeadingsOnOwnLines(t *testing.T) {
	input := "# PART I\n\nIntro text.\n\n## Section 1 Short title\n\nThis Act may be cited as the Example Act.\n"
	e := &MarkdownExtractor{}
	got, err := e.Extract(strings.NewReader(input), "act.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(got, "\n")
	found := false
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "Section 1 Short title" {
			found = true
		}
	}
	if !found {
		t.Errorf("heading not emitted as its own line:\n%s", got)
	}
	if !strings.Contains(got, "This Act may be cited") {
		t.Errorf("body text lost:\n%s", got)
	}
	if strings.Contains(got, "#") {
		t.Errorf("markdown markers leaked into output:\n%s", got)
	}
}

func TestMarkdownExtractor_ListItems(t *testing.T) {
	input := "Some intro.\n\n- first item\n- second item\n"
	e := &MarkdownExtractor{}
	got, err := e.Extract(strings.NewReader(input), "act.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "first item") || !strings.Contains(got, "second item") {
		t.Errorf("list content lost:\n%s", got)
	}
}

func TestHTMLExtractor_HeadingsAndParagraphs(t *testing.T) {
	input := `<html><head><title>Act</title><style>p{}</style></head><body>
<h1>PART I</h1><p>Section text here.</p><script>alert(1)</script></body></html>`
	e := &HTMLExtractor{}
	got, err := e.Extract(strings.NewReader(input), "act.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "PART I") {
		t.Errorf("heading lost:\n%s", got)
	}
	if !strings.Contains(got, "Section text here.") {
		t.Errorf("paragraph lost:\n%s", got)
	}
	if strings.Contains(got, "alert") {
		t.Errorf("script content leaked:\n%s", got)
	}
}

func TestCSVExtractor_RowsBecomeLines(t *testing.T) {
	input := "ref,text\nSection 1,Short title\nSection 2,Scope\n"
	e := &CSVExtractor{}
	got, err := e.Extract(strings.NewReader(input), "act.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ref text\nSection 1 Short title\nSection 2 Scope"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPDFExtractor_CorruptInputSurfacesError(t *testing.T) {
	e := &PDFExtractor{}
	if _, err := e.Extract(strings.NewReader("not a pdf at all"), "act.pdf"); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func TestDOCXExtractor_CorruptInputSurfacesError(t *testing.T) {
	e := &DOCXExtractor{}
	if _, err := e.Extract(strings.NewReader("not a docx archive"), "act.docx"); err == nil {
		t.Error("expected error for corrupt docx")
	}
}
