package receipt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendhub/receiptd/internal/parsing"
)

// ErrJobNotFound is returned by Get for unknown job identifiers.
var ErrJobNotFound = errors.New("parse job not found")

// DefaultMaxJobs bounds in-memory job retention when no explicit capacity
// is configured.
const DefaultMaxJobs = 1000

// IDGenerator generates unique job identifiers
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidGenerator generates identifiers using random UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// wallClock provides the current time
type wallClock struct{}

func (t *wallClock) Now() time.Time {
	return time.Now()
}

// JobStore owns the job table. It is safe for concurrent use; jobs live in
// memory for the life of the process, bounded by maxJobs with the oldest
// evicted first.
type JobStore struct {
	parser      *parsing.Parser
	idGenerator IDGenerator
	timeSource  TimeSource
	maxJobs     int

	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string // job IDs in creation order, for eviction
}

// NewJobStore creates a new JobStore with default ID generator and time
// source. maxJobs values below one fall back to DefaultMaxJobs.
func NewJobStore(parser *parsing.Parser, maxJobs int) *JobStore {
	return NewJobStoreWithDeps(parser, maxJobs, &uuidGenerator{}, &wallClock{})
}

// NewJobStoreWithDeps creates a new JobStore with custom dependencies for
// testing.
func NewJobStoreWithDeps(parser *parsing.Parser, maxJobs int, idGen IDGenerator, timeSrc TimeSource) *JobStore {
	if maxJobs < 1 {
		maxJobs = DefaultMaxJobs
	}
	return &JobStore{
		parser:      parser,
		idGenerator: idGen,
		timeSource:  timeSrc,
		maxJobs:     maxJobs,
		jobs:        make(map[string]*Job),
	}
}

// Submit parses the text synchronously and records the terminal result.
// Pipeline failures become FAILED jobs with the error message preserved;
// Submit itself never fails. A retry without changed input would parse
// identically, so none is offered.
func (s *JobStore) Submit(text string) *Job {
	job := &Job{
		ID:        s.idGenerator.Generate(),
		Status:    StatusPending,
		CreatedAt: s.timeSource.Now(),
	}

	parsed, err := s.parser.Parse(text)
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = StatusDone
		job.Parsed = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	for len(s.order) > s.maxJobs {
		delete(s.jobs, s.order[0])
		s.order = s.order[1:]
	}

	return job
}

// Get returns a stored job. Retrieval has no side effects.
func (s *JobStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, nil
}

// List returns all retained jobs, newest first.
func (s *JobStore) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		jobs = append(jobs, s.jobs[s.order[i]])
	}
	return jobs
}
