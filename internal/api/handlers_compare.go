package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgallion1/actdiff/internal/extract"
	"github.com/dgallion1/actdiff/internal/pipeline"
)

type upload struct {
	filename string
	data     []byte
}

// readComparePair pulls the "old" and "new" files out of a multipart
// request. On failure it writes the error response itself and returns
// ok=false.
func (s *Server) readComparePair(w http.ResponseWriter, r *http.Request, htmlErrors bool) (oldUp, newUp upload, ok bool) {
	fail := func(msg string, code int) {
		if htmlErrors {
			s.renderError(w, msg, code)
		} else {
			jsonError(w, msg, code)
		}
	}

	// Two uploads per request, plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		fail("invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	read := func(field string) (upload, error) {
		file, header, err := r.FormFile(field)
		if err != nil {
			return upload{}, fmt.Errorf("%s file is required", field)
		}
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		if !extract.IsSupportedExtension(filename) {
			return upload{}, fmt.Errorf("unsupported file type for %s file: %s", field, filepath.Ext(filename))
		}

		data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			return upload{}, fmt.Errorf("failed to read %s file", field)
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			return upload{}, fmt.Errorf("%s file exceeds max size (%d bytes)", field, s.cfg.MaxUploadBytes)
		}
		return upload{filename: filename, data: data}, nil
	}

	oldUp, err := read("old")
	if err != nil {
		fail(err.Error(), http.StatusBadRequest)
		return upload{}, upload{}, false
	}
	newUp, err = read("new")
	if err != nil {
		fail(err.Error(), http.StatusBadRequest)
		return upload{}, upload{}, false
	}
	return oldUp, newUp, true
}

func (s *Server) submitCompare(oldUp, newUp upload) (*pipeline.Job, error) {
	job := pipeline.NewJob(uuid.NewString(), oldUp.filename, newUp.filename, oldUp.data, newUp.data)
	if err := s.orchestrator.Submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// handleCompareForm serves the browser upload form's POST. It queues the
// comparison and redirects to the results page, which polls via refresh.
func (s *Server) handleCompareForm(w http.ResponseWriter, r *http.Request) {
	oldUp, newUp, ok := s.readComparePair(w, r, true)
	if !ok {
		return
	}

	job, err := s.submitCompare(oldUp, newUp)
	if err != nil {
		s.renderError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	http.Redirect(w, r, "/compare/"+job.ID, http.StatusSeeOther)
}

func (s *Server) handleCompareAPI(w http.ResponseWriter, r *http.Request) {
	oldUp, newUp, ok := s.readComparePair(w, r, false)
	if !ok {
		return
	}

	job, err := s.submitCompare(oldUp, newUp)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/compare/%s", job.ID),
	})
}

func (s *Server) handleCompareStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()

	resp := map[string]any{
		"job_id":       snap.ID,
		"status":       snap.Status,
		"phase":        snap.Phase,
		"old_filename": snap.OldFilename,
		"new_filename": snap.NewFilename,
		"old_units":    snap.OldUnits,
		"new_units":    snap.NewUnits,
		"errors":       snap.Errors,
	}
	if snap.Status == pipeline.StatusCompleted {
		resp["summary"] = snap.Summary
		resp["records"] = job.Records()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
