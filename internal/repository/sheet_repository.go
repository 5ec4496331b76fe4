package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

// SheetRepository talks to the spreadsheet script endpoint. The endpoint is
// passed per call because it can be changed at runtime through settings.
type SheetRepository struct {
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewSheetRepository constructs the remote spreadsheet adapter.
func NewSheetRepository(timeout time.Duration, logger *zap.Logger) *SheetRepository {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetRepository{
		client: &http.Client{Timeout: timeout},
		logger: logger,
		now:    time.Now,
	}
}

// Fetch downloads every sheet. A cache-busting t parameter is appended since
// script deployments are served through caching proxies.
func (r *SheetRepository) Fetch(ctx context.Context, endpoint string) (*models.RemotePayload, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "spreadsheet endpoint not configured")
	}
	target, err := url.Parse(endpoint)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotConfigured.Code, appErrors.ErrNotConfigured.Status, "invalid spreadsheet endpoint")
	}
	query := target.Query()
	query.Set("t", strconv.FormatInt(r.now().UnixMilli(), 10))
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "spreadsheet fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, appErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "spreadsheet fetch failed")
	}

	var payload models.RemotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "invalid spreadsheet payload")
	}
	r.logger.Debug("spreadsheet fetched",
		zap.Int("base", len(payload.Base)),
		zap.Int("turmas", len(payload.Classes)),
		zap.Int("frequencia", len(payload.Attendance)),
		zap.Duration("latency", time.Since(start)),
	)
	return &payload, nil
}

// Push posts a write action. The response body is drained and ignored.
func (r *SheetRepository) Push(ctx context.Context, endpoint string, push models.RemotePush) error {
	if strings.TrimSpace(endpoint) == "" {
		return appErrors.Clone(appErrors.ErrNotConfigured, "spreadsheet endpoint not configured")
	}
	body, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", push.Action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	// Script endpoints reject JSON content types on POST.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := r.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "spreadsheet push failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return appErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "spreadsheet push failed")
	}
	return nil
}
