package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/jobs"
)

type remotePusher interface {
	Push(ctx context.Context, endpoint string, push models.RemotePush) error
}

type settingsProvider interface {
	Settings() models.Settings
}

// PushService sends point updates to the spreadsheet in the background.
// Callers never wait on the remote; local state is already committed.
type PushService struct {
	queue    *jobs.Queue
	remote   remotePusher
	settings settingsProvider
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewPushService builds the service around a jobs queue.
func NewPushService(remote remotePusher, settings settingsProvider, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *PushService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &PushService{remote: remote, settings: settings, metrics: metrics, logger: logger}
	cfg.Logger = logger
	cfg.OnExhausted = func(job jobs.Job, err error) {
		svc.metrics.RecordPush(job.Type, "dropped")
		svc.logger.Warn("remote push abandoned", zap.String("job_id", job.ID), zap.String("action", job.Type), zap.Error(err))
	}
	svc.queue = jobs.NewQueue("remote-push", svc.handle, cfg)
	metrics.ObservePushBacklog(svc.Pending)
	return svc
}

// Start launches the workers.
func (s *PushService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight pushes to return.
func (s *PushService) Stop() {
	s.queue.Stop()
}

// Pending reports pushes not yet delivered.
func (s *PushService) Pending() int64 {
	return s.queue.Pending()
}

// Enqueue schedules a push. Without a configured endpoint the push is skipped;
// a full queue is logged and reported to the caller.
func (s *PushService) Enqueue(action models.RemoteAction, data interface{}) error {
	if s.settings.Settings().ScriptURL == "" {
		s.logger.Debug("remote push skipped, endpoint not configured", zap.String("action", string(action)))
		s.metrics.RecordPush(string(action), "skipped")
		return nil
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(action),
		Payload: models.RemotePush{Action: action, Data: data},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordPush(string(action), "rejected")
		s.logger.Warn("remote push not queued", zap.String("action", string(action)), zap.Error(err))
		return err
	}
	return nil
}

func (s *PushService) handle(ctx context.Context, job jobs.Job) error {
	push, ok := job.Payload.(models.RemotePush)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	if err := s.remote.Push(ctx, s.settings.Settings().ScriptURL, push); err != nil {
		s.metrics.RecordPush(job.Type, "error")
		return err
	}
	s.metrics.RecordPush(job.Type, "ok")
	return nil
}
