package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/middleware"
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/internal/service"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func testContext(method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

var staff = &models.JWTClaims{Login: "prof", Role: models.RoleStaff, Units: "Centro"}

type fakeStudentSrv struct {
	lastFilter models.StudentFilter
	detail     *models.StudentDetail
	err        error
}

func (f *fakeStudentSrv) List(_ *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination) {
	f.lastFilter = filter
	return []models.Student{{ID: "aluno-ana-centro", Name: "Ana"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}
}

func (f *fakeStudentSrv) Get(_ *models.JWTClaims, _ string) (*models.StudentDetail, error) {
	return f.detail, f.err
}

func TestStudentHandlerListParsesQuery(t *testing.T) {
	srv := &fakeStudentSrv{}
	h := NewStudentHandler(srv)
	c, rec := testContext(http.MethodGet, "/students?search=ana&unit=Centro&status=Active&page=2&page_size=5", nil, staff)

	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StudentFilter{Search: "ana", Unit: "Centro", Status: models.EnrollmentStatusActive, Page: 2, PageSize: 5}, srv.lastFilter)
	envelope := decode(t, rec)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestStudentHandlerRequiresClaims(t *testing.T) {
	h := NewStudentHandler(&fakeStudentSrv{})
	c, rec := testContext(http.MethodGet, "/students", nil, nil)

	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	h := NewStudentHandler(&fakeStudentSrv{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")})
	c, rec := testContext(http.MethodGet, "/students/x", nil, staff)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)
}

type fakeAttendanceSrv struct {
	lastReq dto.RecordAttendanceRequest
	err     error
}

func (f *fakeAttendanceSrv) List(*models.JWTClaims, models.AttendanceFilter) []models.AttendanceRecord {
	return []models.AttendanceRecord{{ID: "1"}, {ID: "2"}}
}

func (f *fakeAttendanceSrv) Record(_ context.Context, _ *models.JWTClaims, req dto.RecordAttendanceRequest) ([]models.AttendanceRecord, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return []models.AttendanceRecord{{ID: "freq-1"}}, nil
}

func TestAttendanceHandlerRecord(t *testing.T) {
	srv := &fakeAttendanceSrv{}
	h := NewAttendanceHandler(srv)
	body := dto.RecordAttendanceRequest{Unit: "Centro", ClassName: "Judô", Date: "2024-03-05", Entries: []dto.AttendanceEntry{{StudentName: "Ana", Status: "Present"}}}
	c, rec := testContext(http.MethodPost, "/attendance", body, staff)

	h.Record(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Judô", srv.lastReq.ClassName)
}

func TestAttendanceHandlerRejectsMalformedBody(t *testing.T) {
	h := NewAttendanceHandler(&fakeAttendanceSrv{})
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString("{"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, staff)

	h.Record(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerListCountsRecords(t *testing.T) {
	h := NewAttendanceHandler(&fakeAttendanceSrv{})
	c, rec := testContext(http.MethodGet, "/attendance?from=01/03/2024", nil, staff)

	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec).Meta["count"])
}

type fakeRetentionSrv struct {
	lastFormat string
}

func (f *fakeRetentionSrv) Alerts(*models.JWTClaims, string, bool) []models.RiskAlert {
	return []models.RiskAlert{}
}

func (f *fakeRetentionSrv) MarkHandled(_ context.Context, claims *models.JWTClaims, alertID string, req dto.RetentionActionRequest) (*models.RetentionAction, error) {
	return &models.RetentionAction{AlertID: alertID, ActorLogin: claims.Login, Note: req.Note}, nil
}

func (f *fakeRetentionSrv) Notify(context.Context, *models.JWTClaims, string) (*models.MessageResult, error) {
	return nil, appErrors.Clone(appErrors.ErrValidation, "student has no guardian phone")
}

func (f *fakeRetentionSrv) Export(_ *models.JWTClaims, _ string, format string) (*service.ExportFile, error) {
	f.lastFormat = format
	return &service.ExportFile{Filename: "alertas.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Aluno;Unidade\n")}, nil
}

func TestRetentionHandlerExportStreamsFile(t *testing.T) {
	srv := &fakeRetentionSrv{}
	h := NewRetentionHandler(srv)
	c, rec := testContext(http.MethodGet, "/retention/alerts/export?format=CSV", nil, staff)

	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, `attachment; filename="alertas.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Aluno;Unidade\n", rec.Body.String())
}

func TestRetentionHandlerMarkHandledAcceptsEmptyBody(t *testing.T) {
	h := NewRetentionHandler(&fakeRetentionSrv{})
	c, rec := testContext(http.MethodPost, "/retention/alerts/risk-1/actions", nil, staff)
	c.Params = gin.Params{{Key: "id", Value: "risk-1"}}

	h.MarkHandled(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var action models.RetentionAction
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &action))
	assert.Equal(t, "risk-1", action.AlertID)
	assert.Equal(t, "prof", action.ActorLogin)
}

func TestRetentionHandlerNotifyError(t *testing.T) {
	h := NewRetentionHandler(&fakeRetentionSrv{})
	c, rec := testContext(http.MethodPost, "/retention/alerts/risk-1/notify", nil, staff)

	h.Notify(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeSyncSrv struct {
	err error
}

func (f *fakeSyncSrv) Sync(context.Context) (*models.SyncStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SyncStatus{Generation: 1}, nil
}

func (f *fakeSyncSrv) Status() models.SyncStatus {
	return models.SyncStatus{Running: true}
}

func TestSyncHandlerTriggerConflict(t *testing.T) {
	h := NewSyncHandler(&fakeSyncSrv{err: appErrors.ErrSyncInFlight})
	c, rec := testContext(http.MethodPost, "/sync", nil, staff)

	h.Trigger(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SYNC_IN_FLIGHT", decode(t, rec).Error.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), &fakeSyncSrv{})
	c, rec := testContext(http.MethodGet, "/ready", nil, nil)

	h.Ready(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sync_running":true`)
}
