package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/actdiff/internal/config"
	"github.com/dgallion1/actdiff/internal/pipeline"
)

const oldAct = `CHAPTER I
PRELIMINARY

Section 1 Short title
This Act may be cited as the Revenue Act.

Section 5 Penalty
(1) A fine of 100 dollars applies.
`

const newAct = `CHAPTER I
PRELIMINARY

Section 1 Short title
This Act may be cited as the Revenue Act.

Section 5 Penalty
(1) A fine of 500 dollars applies.
`

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         apiKey,
		WorkerCount:    2,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		ReportTitle:    "Act Comparison Report",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func multipartPair(t *testing.T, oldName, oldBody, newName, newBody string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range []struct{ field, name, body string }{
		{"old", oldName, oldBody},
		{"new", newName, newBody},
	} {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("CreateFormFile(%s): %v", f.field, err)
		}
		fw.Write([]byte(f.body))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func waitForCompletion(t *testing.T, s *Server, jobID string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := s.orchestrator.GetJob(jobID)
		if job == nil {
			t.Fatalf("job %s disappeared", jobID)
		}
		snap := job.Snapshot()
		switch snap.Status {
		case pipeline.StatusCompleted:
			return
		case pipeline.StatusFailed:
			t.Fatalf("job failed: %v", snap.Errors)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not complete in time")
}

func TestCompareAPIEndToEnd(t *testing.T) {
	s := newTestServer(t, "")

	body, contentType := multipartPair(t, "old.txt", oldAct, "new.txt", newAct)
	req := httptest.NewRequest(http.MethodPost, "/api/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /api/compare = %d, body %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.JobID == "" || accepted.PollURL == "" {
		t.Fatalf("incomplete accept response: %+v", accepted)
	}

	waitForCompletion(t, s, accepted.JobID)

	req = httptest.NewRequest(http.MethodGet, accepted.PollURL, nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", accepted.PollURL, rec.Code)
	}
	var status struct {
		Status  pipeline.JobStatus `json:"status"`
		Records []json.RawMessage  `json:"records"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != pipeline.StatusCompleted {
		t.Errorf("status = %q, want completed", status.Status)
	}
	if len(status.Records) == 0 || status.Summary.Total != len(status.Records) {
		t.Errorf("records = %d, summary total = %d", len(status.Records), status.Summary.Total)
	}

	// CSV export carries the column header.
	req = httptest.NewRequest(http.MethodGet, "/api/compare/"+accepted.JobID+"/export/csv", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv export = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "status,similarity") {
		t.Errorf("csv export missing header, got %q", firstLine(rec.Body.String()))
	}

	// XLSX and DOCX exports are zip containers.
	for _, format := range []string{"xlsx", "docx"} {
		req = httptest.NewRequest(http.MethodGet, "/api/compare/"+accepted.JobID+"/export/"+format, nil)
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s export = %d", format, rec.Code)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
			t.Errorf("%s export is not a zip container", format)
		}
	}
}

func TestCompareFormRedirectsToResultsPage(t *testing.T) {
	s := newTestServer(t, "")

	body, contentType := multipartPair(t, "old.txt", oldAct, "new.txt", newAct)
	req := httptest.NewRequest(http.MethodPost, "/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /compare = %d, body %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/compare/") {
		t.Fatalf("redirect location = %q", loc)
	}

	jobID := strings.TrimPrefix(loc, "/compare/")
	waitForCompletion(t, s, jobID)

	req = httptest.NewRequest(http.MethodGet, loc, nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", loc, rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "old.txt") || !strings.Contains(page, "new.txt") {
		t.Errorf("results page missing filenames")
	}
	if !strings.Contains(page, "export/xlsx") {
		t.Errorf("results page missing export links")
	}
	if !strings.Contains(page, "<del>") || !strings.Contains(page, "<ins>") {
		t.Errorf("results page missing inline diff markers for changed penalty")
	}
}

func TestCompareRejectsUnsupportedExtension(t *testing.T) {
	s := newTestServer(t, "")

	body, contentType := multipartPair(t, "old.exe", "a", "new.txt", "b")
	req := httptest.NewRequest(http.MethodPost, "/api/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompareRequiresBothFiles(t *testing.T) {
	s := newTestServer(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("old", "old.txt")
	fw.Write([]byte(oldAct))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/compare", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportUnknownJob(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/compare/nope/export/csv", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAPIKeyGuardsJSONAPIOnly(t *testing.T) {
	s := newTestServer(t, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/compare", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated API call = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/compare", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad key API call = %d, want 401", rec.Code)
	}

	// Browser surface stays open.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET / with API key set = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
