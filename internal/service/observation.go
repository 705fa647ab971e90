package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
	"github.com/gutcheck-app/gutcheck/backend/internal/repository"
	"github.com/gutcheck-app/gutcheck/backend/internal/trends"
)

var (
	// ErrInvalidTimestamp indicates the timestamp is not RFC 3339
	ErrInvalidTimestamp = errors.New("timestamp must be RFC 3339")
	// ErrInvalidID wraps any rejection of a client-supplied observation id
	ErrInvalidID = errors.New("invalid observation id")
)

type observationService struct {
	repo repository.ObservationRepository
	opts Options
}

// NewObservationService creates a new observation service
func NewObservationService(repo repository.ObservationRepository, opts Options) ObservationService {
	return &observationService{repo: repo, opts: opts.withDefaults()}
}

// CreateObservation records a manual or simulated observation. Field ranges
// are enforced by the handler's validator; this applies the rules that need
// the clock or normalisation.
func (s *observationService) CreateObservation(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error) {
	now := s.opts.Now().UTC()

	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(req.Timestamp))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	if err := checkNotFuture(ts, now); err != nil {
		return nil, err
	}

	var id string
	if req.ID != nil {
		if err := ValidateUUIDv7(*req.ID, now); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidID, err)
		}
		id = *req.ID
	} else {
		id, err = NewObservationID()
		if err != nil {
			return nil, err
		}
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		deviceID = models.DefaultDeviceID
	}

	obs := &models.Observation{
		ID:             id,
		DeviceID:       deviceID,
		Timestamp:      ts.UTC(),
		BristolScore:   req.BristolScore,
		HydrationIndex: req.HydrationIndex,
		Flags:          NormalizeFlags(req.Flags),
		CreatedAt:      now,
	}
	if req.VolumeEstimate != nil {
		v := models.VolumeEstimate(*req.VolumeEstimate)
		obs.VolumeEstimate = &v
	}

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	created, err := s.repo.Create(qctx, obs)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("observation recorded",
		logger.ObservationID(created.ID),
		logger.DeviceID(created.DeviceID),
		logger.Time("timestamp", created.Timestamp),
	)
	return created, nil
}

func (s *observationService) ListObservations(ctx context.Context, days int, deviceID string) ([]models.Observation, error) {
	days = s.opts.ResolveDays(days)
	start, end := trends.QueryRange(s.opts.Now(), days)

	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	observations, err := s.repo.GetByDateRange(qctx, start, end, NormalizeDeviceID(deviceID))
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	return observations, nil
}

func (s *observationService) ListDevices(ctx context.Context) ([]string, error) {
	qctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	return s.repo.ListDevices(qctx)
}

// NormalizeFlags trims each flag, drops blanks and duplicates, and keeps
// first-seen order. The result is never nil.
func NormalizeFlags(flags []string) []string {
	out := make([]string, 0, len(flags))
	seen := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
