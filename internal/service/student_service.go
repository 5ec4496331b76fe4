package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/dateparse"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type studentDirectory interface {
	Students() []models.Student
	Classes() []models.Class
	Enrollments() []models.Enrollment
	Attendance() []models.AttendanceRecord
}

// StudentService handles student listings and detail views.
type StudentService struct {
	state  studentDirectory
	logger *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(state studentDirectory, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{state: state, logger: logger}
}

// List returns visible students and pagination metadata, ordered by name.
func (s *StudentService) List(claims *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination) {
	scope := newUnitScope(claims.Units)
	search := textnorm.Normalize(filter.Search)

	students := filterByUnit(s.state.Students(), scope, filter.Unit, func(st models.Student) string { return st.Unit })
	matched := students[:0]
	for _, st := range students {
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if search != "" && !textnorm.Contains(st.Name, search) {
			continue
		}
		matched = append(matched, st)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return textnorm.Normalize(matched[i].Name) < textnorm.Normalize(matched[j].Name)
	})

	page, size := normalizePage(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return paginate(matched, page, size), pagination
}

// Get returns detailed student information with each active course resolved to a
// class, the earliest enrollment date across active and cancelled courses and the
// most recent attendance mark.
func (s *StudentService) Get(claims *models.JWTClaims, id string) (*models.StudentDetail, error) {
	var student *models.Student
	for _, st := range s.state.Students() {
		if st.ID == id {
			st := st
			student = &st
			break
		}
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if !HasAccess(claims.Units, student.Unit) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unit not accessible")
	}

	classes := s.state.Classes()
	detail := &models.StudentDetail{Student: *student, Courses: []models.StudentCourse{}}
	var enrolledOn []string
	for _, enrollment := range s.state.Enrollments() {
		if enrollment.StudentID != id {
			continue
		}
		detail.Courses = append(detail.Courses, models.StudentCourse{
			EnrollmentID:   enrollment.ID,
			Course:         enrollment.Course,
			EnrollmentDate: enrollment.EnrollmentDate,
			Class:          ResolveClass(enrollment, classes),
		})
		enrolledOn = append(enrolledOn, enrollment.EnrollmentDate)
	}
	for _, cancelled := range student.CancelledCourses {
		enrolledOn = append(enrolledOn, cancelled.EnrollmentDate)
	}
	if first, ok := dateparse.Earliest(enrolledOn...); ok {
		detail.FirstEnrollmentDate = first.Format(dateparse.ISOLayout)
	}

	var attendedOn []string
	for _, record := range s.state.Attendance() {
		if record.StudentID == id {
			attendedOn = append(attendedOn, record.Date)
		}
	}
	if last, ok := dateparse.Latest(attendedOn...); ok {
		detail.LastAttendanceDate = last.Format(dateparse.ISOLayout)
	}
	return detail, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// paginate expects normalized arguments. Pages past the end are empty; the
// bound is checked before multiplying so huge page numbers cannot overflow.
func paginate[T any](items []T, page, size int) []T {
	if page-1 >= (len(items)+size-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}
