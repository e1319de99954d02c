package report

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/actdiff/internal/unit"
)

// WriteDOCX renders the comparison as a flowing narrative document: title,
// executive summary counts, then one paragraph group per record.
func WriteDOCX(w io.Writer, records []unit.MatchRecord, title string) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Size("36").Bold()
	doc.AddParagraph().AddText("This report summarizes the differences between the old and new versions, organized by topic, subtopic, section and subsection.")

	s := unit.Summarize(records)
	doc.AddParagraph().AddText("Executive Summary").Size("28").Bold()
	doc.AddParagraph().AddText(fmt.Sprintf("Total compared units: %d", s.Total))
	doc.AddParagraph().AddText(fmt.Sprintf("Added: %d, Removed: %d, Modified: %d, Unchanged: %d", s.Added, s.Removed, s.Modified, s.Unchanged))

	doc.AddParagraph().AddText("Detailed Narrative").Size("28").Bold()
	for _, r := range records {
		head := fmt.Sprintf("%s — %s (Similarity: %d%%)", r.Path(), r.Status, int(r.Similarity))
		doc.AddParagraph().AddText(head).Bold()

		switch r.Status {
		case unit.StatusAdded:
			doc.AddParagraph().AddText(r.NewText())
		case unit.StatusRemoved:
			doc.AddParagraph().AddText(r.OldText())
		default:
			doc.AddParagraph().AddText("Old:").Bold()
			doc.AddParagraph().AddText(r.OldText())
			doc.AddParagraph().AddText("New:").Bold()
			doc.AddParagraph().AddText(r.NewText())
		}
		doc.AddParagraph()
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
