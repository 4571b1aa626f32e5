package memstore

import (
	"context"
	"sync"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

// ReportStore keeps bulk-import reports in memory. Counterpart of the Redis
// report store for tests and development mode.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]domain.ImportReport
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]domain.ImportReport)}
}

func (s *ReportStore) Save(_ context.Context, report *domain.ImportReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.JobID] = *report
	return nil
}

func (s *ReportStore) Find(_ context.Context, jobID string) (*domain.ImportReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[jobID]
	if !ok {
		return nil, domain.ErrImportJobNotFound
	}
	return &report, nil
}
