package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/dateparse"
	"github.com/noah-isme/sports-school-ops/pkg/response"
)

type trialLessonService interface {
	List(claims *models.JWTClaims, filter models.TrialLessonFilter) []models.TrialLesson
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateTrialLessonRequest) (*models.TrialLesson, error)
	Notify(ctx context.Context, claims *models.JWTClaims, id string, req dto.NotifyTrialLessonRequest) (*models.MessageResult, error)
}

// TrialLessonHandler exposes the trial lesson funnel.
type TrialLessonHandler struct {
	service trialLessonService
}

// NewTrialLessonHandler constructs the handler.
func NewTrialLessonHandler(svc trialLessonService) *TrialLessonHandler {
	return &TrialLessonHandler{service: svc}
}

// List godoc
// @Summary List trial lessons
// @Tags TrialLessons
// @Produce json
// @Param unit query string false "Unit"
// @Param status query string false "Pending, Present, Absent or Rescheduled"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Success 200 {object} response.Envelope
// @Router /trial-lessons [get]
func (h *TrialLessonHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	lessons := h.service.List(claims, models.TrialLessonFilter{
		Unit:     strings.TrimSpace(c.Query("unit")),
		Status:   models.TrialStatus(strings.TrimSpace(c.Query("status"))),
		DateFrom: dateparse.ParseFlexibleDate(c.Query("from")),
		DateTo:   dateparse.ParseFlexibleDate(c.Query("to")),
	})
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Update godoc
// @Summary Update a trial lesson
// @Tags TrialLessons
// @Accept json
// @Produce json
// @Param id path string true "Trial lesson ID"
// @Param payload body dto.UpdateTrialLessonRequest true "Patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trial-lessons/{id} [patch]
func (h *TrialLessonHandler) Update(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.UpdateTrialLessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Notify godoc
// @Summary Message the guardian about a trial lesson
// @Tags TrialLessons
// @Accept json
// @Produce json
// @Param id path string true "Trial lesson ID"
// @Param payload body dto.NotifyTrialLessonRequest true "Notice kind"
// @Success 200 {object} response.Envelope
// @Router /trial-lessons/{id}/notify [post]
func (h *TrialLessonHandler) Notify(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.NotifyTrialLessonRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Notify(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
