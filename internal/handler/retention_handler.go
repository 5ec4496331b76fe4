package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/internal/service"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
	"github.com/noah-isme/sports-school-ops/pkg/response"
)

type retentionService interface {
	Alerts(claims *models.JWTClaims, unit string, includeHandled bool) []models.RiskAlert
	MarkHandled(ctx context.Context, claims *models.JWTClaims, alertID string, req dto.RetentionActionRequest) (*models.RetentionAction, error)
	Notify(ctx context.Context, claims *models.JWTClaims, alertID string) (*models.MessageResult, error)
	Export(claims *models.JWTClaims, unit, format string) (*service.ExportFile, error)
}

// RetentionHandler exposes churn alerts.
type RetentionHandler struct {
	service retentionService
}

// NewRetentionHandler constructs the handler.
func NewRetentionHandler(svc retentionService) *RetentionHandler {
	return &RetentionHandler{service: svc}
}

// Alerts godoc
// @Summary List churn alerts
// @Tags Retention
// @Produce json
// @Param unit query string false "Unit"
// @Param include_handled query bool false "Include handled alerts"
// @Success 200 {object} response.Envelope
// @Router /retention/alerts [get]
func (h *RetentionHandler) Alerts(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	includeHandled := strings.EqualFold(c.Query("include_handled"), "true")
	alerts := h.service.Alerts(claims, strings.TrimSpace(c.Query("unit")), includeHandled)
	response.JSON(c, http.StatusOK, alerts, nil, map[string]interface{}{"count": len(alerts)})
}

// Export godoc
// @Summary Export open churn alerts
// @Tags Retention
// @Produce text/csv
// @Produce application/pdf
// @Param unit query string false "Unit"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /retention/alerts/export [get]
func (h *RetentionHandler) Export(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	file, err := h.service.Export(claims, strings.TrimSpace(c.Query("unit")), strings.ToLower(strings.TrimSpace(c.Query("format"))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// MarkHandled godoc
// @Summary Log a retention action
// @Tags Retention
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param payload body dto.RetentionActionRequest false "Note"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /retention/alerts/{id}/actions [post]
func (h *RetentionHandler) MarkHandled(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.RetentionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	action, err := h.service.MarkHandled(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, action)
}

// Notify godoc
// @Summary Message the guardian of an at-risk student
// @Tags Retention
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} response.Envelope
// @Router /retention/alerts/{id}/notify [post]
func (h *RetentionHandler) Notify(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	result, err := h.service.Notify(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
