package service

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/dateparse"
)

const attendanceWindowDays = 30

type dashboardSource interface {
	Students() []models.Student
	Classes() []models.Class
	Enrollments() []models.Enrollment
	Attendance() []models.AttendanceRecord
	TrialLessons() []models.TrialLesson
	RetentionActions() []models.RetentionAction
}

// DashboardService aggregates the home screen figures.
type DashboardService struct {
	state  dashboardSource
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(state dashboardSource, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{state: state, logger: logger, now: time.Now}
}

// Summary computes the figures visible to claims, optionally narrowed to unit.
func (s *DashboardService) Summary(claims *models.JWTClaims, unit string) *models.DashboardSummary {
	scope := newUnitScope(claims.Units)
	students := filterByUnit(s.state.Students(), scope, unit, func(st models.Student) string { return st.Unit })
	classes := filterByUnit(s.state.Classes(), scope, unit, func(c models.Class) string { return c.Unit })
	enrollments := filterByUnit(s.state.Enrollments(), scope, unit, func(e models.Enrollment) string { return e.Unit })
	attendance := filterByUnit(s.state.Attendance(), scope, unit, func(r models.AttendanceRecord) string { return r.Unit })
	trials := filterByUnit(s.state.TrialLessons(), scope, unit, func(l models.TrialLesson) string { return l.Unit })

	summary := &models.DashboardSummary{
		Unit:        unit,
		Classes:     len(classes),
		Enrollments: len(enrollments),
		Occupancy:   occupancy(classes, enrollments),
	}
	for _, st := range students {
		if st.Status == models.EnrollmentStatusActive {
			summary.ActiveStudents++
		} else {
			summary.CancelledStudents++
		}
	}

	since, _ := dateparse.ParseDate(s.now().AddDate(0, 0, -attendanceWindowDays))
	summary.AttendanceRate30d = attendanceRate(attendance, since)

	for _, alert := range OpenAlerts(ComputeChurnAlerts(attendance, s.state.RetentionActions())) {
		summary.OpenAlerts++
		if alert.Critical {
			summary.CriticalAlerts++
		}
	}

	for _, l := range trials {
		switch l.Status {
		case models.TrialStatusPresent:
			summary.Trials.Present++
		case models.TrialStatusAbsent:
			summary.Trials.Absent++
		case models.TrialStatusRescheduled:
			summary.Trials.Rescheduled++
		default:
			summary.Trials.Pending++
		}
		if l.Converted {
			summary.Trials.Converted++
		}
	}
	return summary
}

// attendanceRate is the percentage of present marks on or after since, one decimal.
// Records whose date cannot be read are left out.
func attendanceRate(records []models.AttendanceRecord, since time.Time) float64 {
	var present, total int
	for _, r := range records {
		date, ok := dateparse.ParseDate(r.Date)
		if !ok || date.Before(since) {
			continue
		}
		total++
		if r.Status == models.AttendanceStatusPresent {
			present++
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

func occupancy(classes []models.Class, enrollments []models.Enrollment) []models.ClassOccupancy {
	counts := make(map[string]int, len(classes))
	for _, e := range enrollments {
		if class := ResolveClass(e, classes); class != nil {
			counts[class.ID]++
		}
	}
	out := make([]models.ClassOccupancy, 0, len(classes))
	for _, c := range classes {
		capacity := c.Capacity
		if capacity <= 0 {
			capacity = models.DefaultClassCapacity
		}
		enrolled := counts[c.ID]
		out = append(out, models.ClassOccupancy{
			ClassID:  c.ID,
			Name:     c.Name,
			Unit:     c.Unit,
			Enrolled: enrolled,
			Capacity: capacity,
			Rate:     math.Round(float64(enrolled)/float64(capacity)*1000) / 10,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out
}
