package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type fakeAuthSrv struct{}

func (fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &models.LoginResponse{AccessToken: "tok-" + req.Login}, nil
}

type fakeSettingsSrv struct{}

func (fakeSettingsSrv) Get() models.Settings {
	return models.Settings{MessagingToken: "********"}
}

func (fakeSettingsSrv) Update(context.Context, *models.JWTClaims, dto.UpdateSettingsRequest) (*models.Settings, error) {
	return &models.Settings{}, nil
}

type tokenTable map[string]*models.JWTClaims

func (t tokenTable) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := t[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := Handlers{
		Auth:         NewAuthHandler(fakeAuthSrv{}),
		Sync:         NewSyncHandler(&fakeSyncSrv{}),
		Students:     NewStudentHandler(&fakeStudentSrv{}),
		Classes:      NewClassHandler(nil, nil),
		Attendance:   NewAttendanceHandler(&fakeAttendanceSrv{}),
		TrialLessons: NewTrialLessonHandler(nil),
		Retention:    NewRetentionHandler(&fakeRetentionSrv{}),
		Messages:     NewMessageHandler(nil),
		Settings:     NewSettingsHandler(fakeSettingsSrv{}),
		Dashboard:    NewDashboardHandler(nil),
		Metrics:      NewMetricsHandler(nil, nil),
	}
	tokens := tokenTable{
		"admin-token": {Login: "admin", Role: models.RoleAdmin, Units: "todas"},
		"staff-token": {Login: "prof", Role: models.RoleStaff, Units: "Centro"},
	}
	RegisterRoutes(r, "/api/v1", h, tokens)
	return r
}

func serve(r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutesLoginIsPublic(t *testing.T) {
	r := newTestRouter()

	rec := serve(r, http.MethodPost, "/api/v1/auth/login", "", []byte(`{"login":"ana","password":"secret"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tok-ana")

	rec = serve(r, http.MethodPost, "/api/v1/auth/login", "", []byte(`{"login":"ana","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/students", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/students", "forged", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/students", "staff-token", nil).Code)
}

func TestRoutesSettingsAdminOnly(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v1/settings", "staff-token", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPut, "/api/v1/settings", "staff-token", []byte(`{}`)).Code)

	rec := serve(r, http.MethodGet, "/api/v1/settings", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "********")
}

func TestRoutesExportIsNotShadowedByAlertID(t *testing.T) {
	r := newTestRouter()

	rec := serve(r, http.MethodGet, "/api/v1/retention/alerts/export", "staff-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "alertas.csv")
}

func TestRoutesProbesArePublic(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/metrics", "", nil).Code)
}
