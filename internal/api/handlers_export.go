package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/actdiff/internal/pipeline"
	"github.com/dgallion1/actdiff/internal/report"
)

// handleExport streams the comparison result in the requested format.
// Shared by the browser UI and the JSON API.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	if snap.Status == pipeline.StatusFailed {
		jsonError(w, "job failed, nothing to export", http.StatusConflict)
		return
	}
	records := job.Records()
	if snap.Status != pipeline.StatusCompleted || records == nil {
		jsonError(w, "comparison still running", http.StatusConflict)
		return
	}

	format := chi.URLParam(r, "format")
	var err error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="act_comparison.csv"`)
		err = report.WriteCSV(w, records)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="act_comparison.xlsx"`)
		err = report.WriteXLSX(w, records)
	case "docx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Header().Set("Content-Disposition", `attachment; filename="act_comparison.docx"`)
		err = report.WriteDOCX(w, records, s.cfg.ReportTitle)
	default:
		jsonError(w, "unknown export format: "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		// Headers are already out; all we can do is log.
		s.log.Error("export failed", "job_id", jobID, "format", format, "error", err)
	}
}
