package service

import (
	"sort"

	"github.com/noah-isme/sports-school-ops/internal/models"
)

type enrollmentDirectory interface {
	Enrollments() []models.Enrollment
}

// EnrollmentService lists active course enrollments.
type EnrollmentService struct {
	state enrollmentDirectory
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(state enrollmentDirectory) *EnrollmentService {
	return &EnrollmentService{state: state}
}

// List returns visible enrollments, optionally for one student.
func (s *EnrollmentService) List(claims *models.JWTClaims, filter models.EnrollmentFilter) []models.Enrollment {
	scope := newUnitScope(claims.Units)
	enrollments := filterByUnit(s.state.Enrollments(), scope, filter.Unit, func(e models.Enrollment) string { return e.Unit })
	out := enrollments[:0]
	for _, e := range enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
