package service

import (
	"context"
	"fmt"

	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
	"github.com/gutcheck-app/gutcheck/backend/internal/repository"
	"github.com/gutcheck-app/gutcheck/backend/internal/trends"
)

type trendsService struct {
	repo repository.ObservationRepository
	opts Options
}

// NewTrendsService creates a new trends service
func NewTrendsService(repo repository.ObservationRepository, opts Options) TrendsService {
	return &trendsService{repo: repo, opts: opts.withDefaults()}
}

// GetTrends fetches the window's observations in a single query and runs the
// aggregation pipeline over them. Nothing is cached; every call recomputes.
func (s *trendsService) GetTrends(ctx context.Context, days int, deviceID string) (*models.TrendsResponse, error) {
	days = s.opts.ResolveDays(days)
	deviceID = NormalizeDeviceID(deviceID)

	now := s.opts.Now()
	start, end := trends.QueryRange(now, days)

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	observations, err := s.repo.GetByDateRange(qctx, start, end, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	resp := trends.Build(observations, trends.NewWindow(now, days))

	logger.Ctx(ctx).Debug("trends computed",
		logger.Days(days),
		logger.DeviceID(deviceID),
		logger.Int("observations", len(observations)),
		logger.Int("weeks", len(resp.WeeklyTrends)),
	)

	return &resp, nil
}
