package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/actdiff/internal/config"
	"github.com/dgallion1/actdiff/internal/unit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const oldAct = `CHAPTER I
PRELIMINARY

Section 1 Short title
This Act may be cited as the Revenue Act.

Section 5 Penalty
(1) A fine of 100 dollars applies.
(2) Repeat offences double the fine.
`

const newAct = `CHAPTER I
PRELIMINARY

Section 1 Short title
This Act may be cited as the Revenue Act.

Section 5 Penalty
(1) A fine of 500 dollars applies.
(2) Repeat offences double the fine.
`

func TestJobLifecycle(t *testing.T) {
	job := NewJob("j1", "old.txt", "new.txt", []byte(oldAct), []byte(newAct))

	if job.Status != StatusQueued {
		t.Fatalf("new job status = %q, want %q", job.Status, StatusQueued)
	}
	if job.Records() != nil {
		t.Errorf("new job should have no records yet")
	}

	job.SetStatus(StatusExtracting, "extracting")
	snap := job.Snapshot()
	if snap.Status != StatusExtracting || snap.Phase != "extracting" {
		t.Errorf("snapshot = %q/%q, want extracting/extracting", snap.Status, snap.Phase)
	}
	if snap.Errors == nil {
		t.Errorf("snapshot errors should be non-nil for JSON encoding")
	}

	job.SetResult([]unit.MatchRecord{{Status: unit.StatusUnchanged, Similarity: 100}})
	oldData, newData := job.Input()
	if oldData != nil || newData != nil {
		t.Errorf("SetResult should release upload bytes")
	}
	if got := len(job.Records()); got != 1 {
		t.Errorf("records = %d, want 1", got)
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	stale := NewJob("stale", "a.txt", "b.txt", nil, nil)
	stale.mu.Lock()
	stale.UpdatedAt = time.Now().Add(-time.Minute)
	stale.mu.Unlock()
	store.Put(stale)

	fresh := NewJob("fresh", "a.txt", "b.txt", nil, nil)
	store.Put(fresh)

	store.Cleanup()

	if store.Get("stale") != nil {
		t.Errorf("expired job should be evicted")
	}
	if store.Get("fresh") == nil {
		t.Errorf("fresh job should survive cleanup")
	}
}

func TestWorkerProcess(t *testing.T) {
	job := NewJob("j1", "old.txt", "new.txt", []byte(oldAct), []byte(newAct))
	w := NewWorker(testLogger(), false)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q (errors: %v)", snap.Status, StatusCompleted, snap.Errors)
	}
	if snap.OldUnits == 0 || snap.NewUnits == 0 {
		t.Fatalf("unit counts = %d/%d, want both > 0", snap.OldUnits, snap.NewUnits)
	}

	records := job.Records()
	if len(records) == 0 {
		t.Fatal("completed job has no records")
	}

	var sawModified, sawUnchanged bool
	for _, r := range records {
		switch r.Status {
		case unit.StatusModified, unit.StatusMinorEdit, unit.StatusSubstantial:
			sawModified = true
		case unit.StatusUnchanged:
			sawUnchanged = true
		}
	}
	if !sawModified {
		t.Errorf("changed penalty amount should produce a modified record")
	}
	if !sawUnchanged {
		t.Errorf("identical short title should produce an unchanged record")
	}
}

func TestWorkerProcessUnsupportedExtension(t *testing.T) {
	job := NewJob("j1", "old.xyz", "new.txt", []byte("a"), []byte("b"))
	w := NewWorker(testLogger(), false)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("status = %q, want %q", snap.Status, StatusFailed)
	}
	if len(snap.Errors) == 0 {
		t.Errorf("failed job should carry an error")
	}
}

func TestWorkerProcessCanceledContext(t *testing.T) {
	job := NewJob("j1", "old.txt", "new.txt", []byte(oldAct), []byte(newAct))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewWorker(testLogger(), false).Process(ctx, job)

	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("status = %q, want %q", got, StatusFailed)
	}
}

func TestOrchestratorEndToEnd(t *testing.T) {
	cfg := config.Config{
		WorkerCount:  2,
		MaxQueueSize: 10,
		JobTTL:       time.Hour,
	}
	o := NewOrchestrator(cfg, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("j1", "old.txt", "new.txt", []byte(oldAct), []byte(newAct))
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		snap := o.GetJob("j1").Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed {
			t.Fatalf("job failed: %v", snap.Errors)
		}
		select {
		case <-deadline:
			t.Fatalf("job did not complete, status %q", snap.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestOrchestratorQueueFull(t *testing.T) {
	cfg := config.Config{
		WorkerCount:  1,
		MaxQueueSize: 1,
		JobTTL:       time.Hour,
	}
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, testLogger())

	if err := o.Submit(NewJob("j1", "a.txt", "b.txt", nil, nil)); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	err := o.Submit(NewJob("j2", "a.txt", "b.txt", nil, nil))
	if err == nil {
		t.Fatal("expected queue-full error")
	}
	if got := o.GetJob("j2").Snapshot().Status; got != StatusFailed {
		t.Errorf("rejected job status = %q, want %q", got, StatusFailed)
	}
}
