package models

// TrialFunnel counts trial lessons per funnel stage.
type TrialFunnel struct {
	Pending     int `json:"pending"`
	Present     int `json:"present"`
	Absent      int `json:"absent"`
	Rescheduled int `json:"rescheduled"`
	Converted   int `json:"converted"`
}

// ClassOccupancy compares enrollments resolved to a class against its capacity.
type ClassOccupancy struct {
	ClassID  string  `json:"class_id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Enrolled int     `json:"enrolled"`
	Capacity int     `json:"capacity"`
	Rate     float64 `json:"rate"`
}

// DashboardSummary aggregates the visible collections for one user.
type DashboardSummary struct {
	Unit              string           `json:"unit,omitempty"`
	ActiveStudents    int              `json:"active_students"`
	CancelledStudents int              `json:"cancelled_students"`
	Classes           int              `json:"classes"`
	Enrollments       int              `json:"enrollments"`
	AttendanceRate30d float64          `json:"attendance_rate_30d"`
	OpenAlerts        int              `json:"open_alerts"`
	CriticalAlerts    int              `json:"critical_alerts"`
	Trials            TrialFunnel      `json:"trials"`
	Occupancy         []ClassOccupancy `json:"occupancy"`
}
