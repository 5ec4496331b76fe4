package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type remoteFetcher interface {
	Fetch(ctx context.Context, endpoint string) (*models.RemotePayload, error)
}

// SyncConfig tunes sync behaviour.
type SyncConfig struct {
	// NoticeTTL is how long a failure stays visible in Status.
	NoticeTTL time.Duration
}

// SyncService pulls the spreadsheet and swaps the reconciled collections into state.
// Only one sync runs at a time; overlapping calls fail with ErrSyncInFlight.
type SyncService struct {
	remote    remoteFetcher
	state     *AppState
	metrics   *MetricsService
	logger    *zap.Logger
	noticeTTL time.Duration
	now       func() time.Time

	running atomic.Bool
	mu      sync.RWMutex
	status  models.SyncStatus
}

// NewSyncService constructs the sync orchestrator.
func NewSyncService(remote remoteFetcher, state *AppState, metrics *MetricsService, logger *zap.Logger, cfg SyncConfig) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = 5 * time.Second
	}
	return &SyncService{
		remote:    remote,
		state:     state,
		metrics:   metrics,
		logger:    logger,
		noticeTTL: cfg.NoticeTTL,
		now:       time.Now,
	}
}

// Sync fetches, reconciles and commits. On failure the previous collections stay in place.
func (s *SyncService) Sync(ctx context.Context) (*models.SyncStatus, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, appErrors.ErrSyncInFlight
	}
	defer s.running.Store(false)

	start := s.now()
	err := s.run(ctx)
	duration := s.now().Sub(start)

	s.mu.Lock()
	if err != nil {
		at := s.now().UTC()
		s.status.LastError = appErrors.FromError(err).Message
		s.status.LastErrorAt = &at
	} else {
		at := s.now().UTC()
		s.status.LastSuccessAt = &at
		s.status.LastError = ""
		s.status.LastErrorAt = nil
		s.status.Generation++
		s.status.Counts = s.state.Counts()
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordSync("failure", duration)
		s.logger.Warn("sync failed", zap.Error(err), zap.Duration("duration", duration))
		return nil, err
	}
	s.metrics.RecordSync("success", duration)
	s.publishGauges()
	s.logger.Info("sync completed", zap.Duration("duration", duration), zap.Any("counts", s.state.Counts()))

	status := s.Status()
	return &status, nil
}

func (s *SyncService) run(ctx context.Context) error {
	payload, err := s.remote.Fetch(ctx, s.state.Settings().ScriptURL)
	if err != nil {
		return err
	}
	result := SyncResult{
		Dataset:      Reconcile(payload.Base, payload.Classes, payload.Attendance),
		TrialLessons: parseTrialLessons(payload.TrialLessons),
		Users:        parseUsers(payload.Users),
	}
	return s.state.ApplySync(ctx, result)
}

// SyncInBackground runs a sync without blocking the caller, for startup.
func (s *SyncService) SyncInBackground(ctx context.Context) {
	go func() {
		if _, err := s.Sync(ctx); err != nil {
			s.logger.Warn("startup sync did not complete, serving cached data", zap.Error(err))
		}
	}()
}

// Status reports the latest outcome. A failure notice expires after NoticeTTL.
func (s *SyncService) Status() models.SyncStatus {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	status.Running = s.running.Load()
	if status.LastErrorAt != nil && s.now().UTC().Sub(*status.LastErrorAt) > s.noticeTTL {
		status.LastError = ""
		status.LastErrorAt = nil
	}
	if status.Counts != nil {
		counts := make(map[string]int, len(status.Counts))
		for k, v := range status.Counts {
			counts[k] = v
		}
		status.Counts = counts
	}
	return status
}

func (s *SyncService) publishGauges() {
	for collection, size := range s.state.Counts() {
		s.metrics.SetCollectionSize(collection, size)
	}
	alerts := ComputeChurnAlerts(s.state.Attendance(), s.state.RetentionActions())
	s.metrics.SetOpenAlerts(len(OpenAlerts(alerts)))
}
