package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/response"
)

type studentService interface {
	List(claims *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination)
	Get(claims *models.JWTClaims, id string) (*models.StudentDetail, error)
}

// StudentHandler manages student endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Name search"
// @Param unit query string false "Unit"
// @Param status query string false "Active or Cancelled"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	filter := models.StudentFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Unit:     strings.TrimSpace(c.Query("unit")),
		Status:   models.EnrollmentStatus(strings.TrimSpace(c.Query("status"))),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	students, pagination := h.service.List(claims, filter)
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	detail, err := h.service.Get(claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
