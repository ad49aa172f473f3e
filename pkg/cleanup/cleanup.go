// Package cleanup runs shutdown jobs in reverse registration order.
package cleanup

import (
	"log/slog"
	"sync"
)

type Job struct {
	Name string
	F    func() error
}

type Stack struct {
	mu     sync.Mutex
	jobs   []*Job
	logger *slog.Logger
}

func New(logger *slog.Logger) *Stack {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stack{logger: logger}
}

func (s *Stack) Register(name string, f func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &Job{Name: name, F: f})
}

// Run executes every job once, last registered first, and keeps going when
// a job fails. It returns the number of failed jobs.
func (s *Stack) Run() int {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = nil
	s.mu.Unlock()

	failed := 0
	for i := len(jobs) - 1; i >= 0; i-- {
		j := jobs[i]
		s.logger.Info("cleanup job started", slog.String("job", j.Name))
		if err := j.F(); err != nil {
			failed++
			s.logger.Error("cleanup job failed", slog.String("job", j.Name), slog.String("error", err.Error()))
			continue
		}
		s.logger.Info("cleaned", slog.String("job", j.Name))
	}
	return failed
}
