package api

import (
	"html"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/actdiff/internal/diff"
	"github.com/dgallion1/actdiff/internal/extract"
	"github.com/dgallion1/actdiff/internal/pipeline"
	"github.com/dgallion1/actdiff/internal/unit"
)

const pageStyle = `
body { font-family: Georgia, serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.5rem; }
form.upload { border: 1px solid #ccc; padding: 1.5rem; border-radius: 4px; }
form.upload label { display: block; margin: 0.75rem 0 0.25rem; font-weight: bold; }
.summary { display: flex; gap: 1rem; margin: 1rem 0; flex-wrap: wrap; }
.summary .card { border: 1px solid #ccc; border-radius: 4px; padding: 0.5rem 1rem; text-align: center; }
.summary .card .n { font-size: 1.4rem; font-weight: bold; }
.record { border: 1px solid #ddd; border-radius: 4px; margin: 0.75rem 0; padding: 0.75rem 1rem; }
.record .path { font-weight: bold; }
.record .text { white-space: pre-wrap; margin: 0.5rem 0 0; font-size: 0.95rem; }
.status { font-size: 0.8rem; padding: 0.1rem 0.5rem; border-radius: 3px; color: #fff; }
.status-added { background: #2e7d32; }
.status-removed { background: #c62828; }
.status-modified { background: #ef6c00; }
.status-unchanged { background: #757575; }
del { background: #ffd7d5; text-decoration: line-through; }
ins { background: #d4f7d4; text-decoration: none; }
.exports a { margin-right: 1rem; }
.phase { color: #666; }
.error { color: #c62828; }
details summary { cursor: pointer; }
`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Act Comparison</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>Act Comparison</h1>
<p>Upload two versions of an act to see what changed between them.</p>
<form class="upload" action="/compare" method="post" enctype="multipart/form-data">
  <label for="old">Old version</label>
  <input type="file" id="old" name="old" required>
  <label for="new">New version</label>
  <input type="file" id="new" name="new" required>
  <p><button type="submit">Compare</button></p>
  <p class="phase">Supported formats: {{.Extensions}}</p>
</form>
</body>
</html>
`))

var resultTmpl = template.Must(template.New("result").Funcs(template.FuncMap{
	"inlineDiff": func(oldText, newText string) template.HTML {
		return template.HTML(diff.Inline(html.EscapeString(oldText), html.EscapeString(newText)))
	},
	"statusClass": func(s unit.Status) string {
		switch s {
		case unit.StatusAdded:
			return "status-added"
		case unit.StatusRemoved:
			return "status-removed"
		case unit.StatusUnchanged:
			return "status-unchanged"
		default:
			return "status-modified"
		}
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{if .Running}}<meta http-equiv="refresh" content="2">{{end}}
<title>Comparison {{.Snap.ID}}</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>Comparison of {{.Snap.OldFilename}} and {{.Snap.NewFilename}}</h1>
{{if .Running}}
<p class="phase">Working: {{.Snap.Phase}}&hellip; this page refreshes automatically.</p>
{{else if .Failed}}
<p class="error">Comparison failed.</p>
<ul>{{range .Snap.Errors}}<li class="error">{{.}}</li>{{end}}</ul>
<p><a href="/">Try again</a></p>
{{else}}
<div class="summary">
  <div class="card"><div class="n">{{.Snap.Summary.Total}}</div>total</div>
  <div class="card"><div class="n">{{.Snap.Summary.Added}}</div>added</div>
  <div class="card"><div class="n">{{.Snap.Summary.Removed}}</div>removed</div>
  <div class="card"><div class="n">{{.Snap.Summary.Modified}}</div>modified</div>
  <div class="card"><div class="n">{{.Snap.Summary.Unchanged}}</div>unchanged</div>
</div>
<p class="exports">Download:
  <a href="/compare/{{.Snap.ID}}/export/xlsx">Excel</a>
  <a href="/compare/{{.Snap.ID}}/export/csv">CSV</a>
  <a href="/compare/{{.Snap.ID}}/export/docx">Word narrative</a>
</p>
{{range .Changed}}
<div class="record">
  <span class="path">{{.Path}}</span>
  <span class="status {{statusClass .Status}}">{{.Status}}</span>
  <span class="phase">{{printf "%.0f" .Similarity}}%</span>
  <p class="text">{{inlineDiff .OldText .NewText}}</p>
</div>
{{end}}
{{range .Added}}
<div class="record">
  <span class="path">{{.Path}}</span>
  <span class="status {{statusClass .Status}}">{{.Status}}</span>
  <p class="text">{{.NewText}}</p>
</div>
{{end}}
{{range .Removed}}
<div class="record">
  <span class="path">{{.Path}}</span>
  <span class="status {{statusClass .Status}}">{{.Status}}</span>
  <p class="text">{{.OldText}}</p>
</div>
{{end}}
{{if .Unchanged}}
<details>
  <summary>{{len .Unchanged}} unchanged units</summary>
  {{range .Unchanged}}
  <div class="record">
    <span class="path">{{.Path}}</span>
    <span class="status {{statusClass .Status}}">{{.Status}}</span>
  </div>
  {{end}}
</details>
{{end}}
<p><a href="/">Compare another pair</a></p>
{{end}}
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Act Comparison</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>Act Comparison</h1>
<p class="error">{{.Message}}</p>
<p><a href="/">Back</a></p>
</body>
</html>
`))

type resultPage struct {
	Snap    pipeline.JobSnapshot
	Running bool
	Failed  bool

	Changed   []unit.MatchRecord
	Added     []unit.MatchRecord
	Removed   []unit.MatchRecord
	Unchanged []unit.MatchRecord
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	exts := make([]string, 0, len(extract.SupportedExtensions))
	for ext := range extract.SupportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Extensions string }{Extensions: strings.Join(exts, ", ")}
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.Error("render index", "error", err)
	}
}

func (s *Server) handleComparePage(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		s.renderError(w, "comparison not found; it may have expired", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	page := resultPage{
		Snap:    snap,
		Running: snap.Status != pipeline.StatusCompleted && snap.Status != pipeline.StatusFailed,
		Failed:  snap.Status == pipeline.StatusFailed,
	}
	for _, rec := range job.Records() {
		switch rec.Status {
		case unit.StatusAdded:
			page.Added = append(page.Added, rec)
		case unit.StatusRemoved:
			page.Removed = append(page.Removed, rec)
		case unit.StatusUnchanged:
			page.Unchanged = append(page.Unchanged, rec)
		default:
			page.Changed = append(page.Changed, rec)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultTmpl.Execute(w, page); err != nil {
		s.log.Error("render result page", "job_id", jobID, "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := errorTmpl.Execute(w, struct{ Message string }{Message: msg}); err != nil {
		s.log.Error("render error page", "error", err)
	}
}
