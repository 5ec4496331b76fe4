package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/response"
)

type classService interface {
	List(claims *models.JWTClaims, filter models.ClassFilter) []models.Class
}

type enrollmentService interface {
	List(claims *models.JWTClaims, filter models.EnrollmentFilter) []models.Enrollment
}

// ClassHandler exposes class and enrollment listings.
type ClassHandler struct {
	classes     classService
	enrollments enrollmentService
}

// NewClassHandler constructs the handler.
func NewClassHandler(classes classService, enrollments enrollmentService) *ClassHandler {
	return &ClassHandler{classes: classes, enrollments: enrollments}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param unit query string false "Unit"
// @Param search query string false "Name or teacher"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	classes := h.classes.List(claims, models.ClassFilter{
		Unit:   strings.TrimSpace(c.Query("unit")),
		Search: strings.TrimSpace(c.Query("search")),
	})
	response.JSON(c, http.StatusOK, classes, nil)
}

// Enrollments godoc
// @Summary List active enrollments
// @Tags Classes
// @Produce json
// @Param unit query string false "Unit"
// @Param student_id query string false "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *ClassHandler) Enrollments(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	enrollments := h.enrollments.List(claims, models.EnrollmentFilter{
		Unit:      strings.TrimSpace(c.Query("unit")),
		StudentID: strings.TrimSpace(c.Query("student_id")),
	})
	response.JSON(c, http.StatusOK, enrollments, nil)
}
