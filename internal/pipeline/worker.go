package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/actdiff/internal/align"
	"github.com/dgallion1/actdiff/internal/extract"
	"github.com/dgallion1/actdiff/internal/segment"
)

// Worker runs one comparison job end to end: extract both uploads,
// segment both texts, align the two unit sequences.
type Worker struct {
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{log: log, pdfFallback: pdfFallback}
}

// Process runs the full comparison pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	// Phase 1: extract both sides concurrently. Extraction dominates run
	// time for PDFs; everything after it is cheap.
	job.SetStatus(StatusExtracting, "extracting")
	oldData, newData := job.Input()

	var oldText, newText string
	var g errgroup.Group
	g.Go(func() error {
		var err error
		oldText, err = w.extractOne(job.OldFilename, oldData)
		if err != nil {
			return fmt.Errorf("old document %s: %w", job.OldFilename, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		newText, err = w.extractOne(job.NewFilename, newData)
		if err != nil {
			return fmt.Errorf("new document %s: %w", job.NewFilename, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: segment. Never fails; structureless text degrades to a
	// single unit per side.
	job.SetStatus(StatusSegmenting, "segmenting")
	oldUnits := segment.Segment(oldText)
	newUnits := segment.Segment(newText)
	job.SetUnitCounts(len(oldUnits), len(newUnits))
	log.Info("segmented documents", "old_units", len(oldUnits), "new_units", len(newUnits))

	// Phase 3: align.
	job.SetStatus(StatusAligning, "aligning")
	records := align.Align(oldUnits, newUnits)
	job.SetResult(records)
	job.SetStatus(StatusCompleted, "done")
	log.Info("comparison complete", "records", len(records))
}

func (w *Worker) extractOne(filename string, data []byte) (string, error) {
	e, err := extract.ForFile(filename)
	if err != nil {
		return "", err
	}
	if p, ok := e.(*extract.PDFExtractor); ok {
		p.FallbackPdftotext = w.pdfFallback
	}
	return e.Extract(bytes.NewReader(data), filename)
}
