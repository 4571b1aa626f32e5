package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

const reportTTL = 24 * time.Hour

// ReportStore keeps bulk-import reports in Redis.
// Key format: import:<job_id>
type ReportStore struct {
	client *redis.Client
}

func NewReportStore(client *redis.Client) *ReportStore {
	return &ReportStore{client: client}
}

func (s *ReportStore) Save(ctx context.Context, report *domain.ImportReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}
	if err := s.client.Set(ctx, s.key(report.JobID), raw, reportTTL).Err(); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *ReportStore) Find(ctx context.Context, jobID string) (*domain.ImportReport, error) {
	raw, err := s.client.Get(ctx, s.key(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrImportJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}

	var report domain.ImportReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("deserialize report: %w", err)
	}
	return &report, nil
}

func (s *ReportStore) key(jobID string) string {
	return fmt.Sprintf("import:%s", jobID)
}
