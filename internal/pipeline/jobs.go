package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/actdiff/internal/unit"
)

// JobStatus represents the state of a comparison job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusSegmenting JobStatus = "segmenting"
	StatusAligning   JobStatus = "aligning"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single old-vs-new comparison. The two uploads
// are held only until the worker has extracted their text; the result is
// held until the job store evicts the job.
type Job struct {
	mu sync.Mutex

	ID string

	Status JobStatus
	Phase  string

	OldFilename string
	NewFilename string

	OldUnits int
	NewUnits int

	CreatedAt time.Time
	UpdatedAt time.Time

	oldData []byte
	newData []byte
	records []unit.MatchRecord
	errors  []string
}

// NewJob creates a queued comparison job over two uploads.
func NewJob(id, oldFilename, newFilename string, oldData, newData []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          id,
		Status:      StatusQueued,
		Phase:       "queued",
		OldFilename: oldFilename,
		NewFilename: newFilename,
		oldData:     oldData,
		newData:     newData,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetUnitCounts records how many units each side segmented into.
func (j *Job) SetUnitCounts(oldCount, newCount int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OldUnits = oldCount
	j.NewUnits = newCount
	j.UpdatedAt = time.Now()
}

// Input returns the raw upload bytes for both sides.
func (j *Job) Input() (oldData, newData []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.oldData, j.newData
}

// SetResult stores the aligned records and releases the upload bytes.
func (j *Job) SetResult(records []unit.MatchRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = records
	j.oldData = nil
	j.newData = nil
	j.UpdatedAt = time.Now()
}

// Records returns the comparison result, or nil while the job is running or
// after it failed.
func (j *Job) Records() []unit.MatchRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.records
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string       `json:"job_id"`
	Status      JobStatus    `json:"status"`
	Phase       string       `json:"phase"`
	OldFilename string       `json:"old_filename"`
	NewFilename string       `json:"new_filename"`
	OldUnits    int          `json:"old_units"`
	NewUnits    int          `json:"new_units"`
	Summary     unit.Summary `json:"summary"`
	Errors      []string     `json:"errors"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		OldFilename: j.OldFilename,
		NewFilename: j.NewFilename,
		OldUnits:    j.OldUnits,
		NewUnits:    j.NewUnits,
		Summary:     unit.Summarize(j.records),
		Errors:      errs,
		CreatedAt:   j.CreatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
// Comparison results live here between completion and download; nothing is
// persisted.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		stale := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if stale {
			delete(s.jobs, id)
		}
	}
}
