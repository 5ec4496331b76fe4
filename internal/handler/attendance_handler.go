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

type attendanceService interface {
	List(claims *models.JWTClaims, filter models.AttendanceFilter) []models.AttendanceRecord
	Record(ctx context.Context, claims *models.JWTClaims, req dto.RecordAttendanceRequest) ([]models.AttendanceRecord, error)
}

// AttendanceHandler exposes roll call endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param unit query string false "Unit"
// @Param student_id query string false "Student ID"
// @Param class query string false "Class name"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param status query string false "Present or Absent"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	filter := models.AttendanceFilter{
		Unit:      strings.TrimSpace(c.Query("unit")),
		StudentID: strings.TrimSpace(c.Query("student_id")),
		ClassName: strings.TrimSpace(c.Query("class")),
		DateFrom:  dateparse.ParseFlexibleDate(c.Query("from")),
		DateTo:    dateparse.ParseFlexibleDate(c.Query("to")),
		Status:    models.AttendanceStatus(strings.TrimSpace(c.Query("status"))),
	}
	records := h.service.List(claims, filter)
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"count": len(records)})
}

// Record godoc
// @Summary Record a roll call
// @Description Stores the marks locally and queues them for the spreadsheet
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.RecordAttendanceRequest true "Roll call"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.RecordAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := h.service.Record(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, records)
}
