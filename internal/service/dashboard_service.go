package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardSummary is the admin landing-page snapshot.
type DashboardSummary struct {
	FacultyCount      int       `json:"faculty_count"`
	LedgerEntryCount  int       `json:"ledger_entry_count"`
	LowBalanceCount   int       `json:"low_balance_count"`
	UpcomingLectures  int       `json:"upcoming_lectures"`
	InvigilationCount int       `json:"invigilation_count"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// DashboardService assembles the admin summary. The summary is cached with
// a short TTL; the schedule projection feeding it is still recomputed on
// every cache miss, never stored.
type DashboardService struct {
	reports      *ReportService
	schedule     *ScheduleService
	invigilation invigilationRepository
	cache        *redis.Client
	ttl          time.Duration
	logger       *zap.Logger
}

// NewDashboardService constructs a DashboardService. cache may be nil, in
// which case every call recomputes.
func NewDashboardService(reports *ReportService, schedule *ScheduleService, invigilation invigilationRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		reports:      reports,
		schedule:     schedule,
		invigilation: invigilation,
		cache:        cache,
		ttl:          ttl,
		logger:       logger,
	}
}

// Summary returns the cached snapshot, rebuilding it on miss.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var cached DashboardSummary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}

	return summary, nil
}

func (s *DashboardService) build(ctx context.Context) (*DashboardSummary, error) {
	rows, err := s.reports.BuildReport(ctx, models.FacultyFilter{})
	if err != nil {
		return nil, err
	}

	lowBalance := 0
	ledgerEntries := 0
	for _, row := range rows {
		if row.LowBalance {
			lowBalance++
		}
		ledgerEntries += len(row.History)
	}

	projection, err := s.schedule.Projection(ctx, time.Now().UTC(), 0)
	if err != nil {
		return nil, err
	}

	duties, err := s.invigilation.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invigilation duties")
	}

	return &DashboardSummary{
		FacultyCount:      len(rows),
		LedgerEntryCount:  ledgerEntries,
		LowBalanceCount:   lowBalance,
		UpcomingLectures:  len(projection),
		InvigilationCount: len(duties),
		GeneratedAt:       time.Now().UTC(),
	}, nil
}
