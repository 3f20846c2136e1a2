package services

import (
	"context"
	"log/slog"
	"sync"

	"bankfacts/internal/dataprocessing"
)

// PipelineService exposes pipeline runs to the HTTP surface. Runs are
// serialized: the pipeline itself is a single-threaded batch computation, so
// concurrent triggers queue up rather than interleave. The latest completed
// result is retained for read endpoints.
type PipelineService struct {
	processor *dataprocessing.Processor
	logger    *slog.Logger

	runMu sync.Mutex

	mu     sync.RWMutex
	latest *dataprocessing.RunResult
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(processor *dataprocessing.Processor, logger *slog.Logger) *PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineService{processor: processor, logger: logger}
}

// Run executes the pipeline once and retains the result on success.
func (s *PipelineService) Run(ctx context.Context) (*dataprocessing.RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	result, err := s.processor.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	return result, nil
}

// Latest returns the most recent completed run result, if any.
func (s *PipelineService) Latest() (*dataprocessing.RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}
