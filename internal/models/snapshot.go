package models

import "time"

// Store keys of the local persistence cache.
const (
	StoreKeyStudents         = "students"
	StoreKeyClasses          = "classes"
	StoreKeyEnrollments      = "enrollments"
	StoreKeyAttendance       = "attendance"
	StoreKeyUsers            = "users"
	StoreKeyTrialLessons     = "trial_lessons"
	StoreKeyRetentionActions = "retention_actions"
	StoreKeySettings         = "settings"
)

// Dataset is the output of one reconciliation pass.
type Dataset struct {
	Students    []Student          `json:"students"`
	Classes     []Class            `json:"classes"`
	Enrollments []Enrollment       `json:"enrollments"`
	Attendance  []AttendanceRecord `json:"attendance"`
}

// SyncStatus reports the outcome of the latest synchronization.
type SyncStatus struct {
	Running       bool           `json:"running"`
	Generation    int            `json:"generation"`
	LastSuccessAt *time.Time     `json:"last_success_at,omitempty"`
	LastError     string         `json:"last_error,omitempty"`
	LastErrorAt   *time.Time     `json:"last_error_at,omitempty"`
	Counts        map[string]int `json:"counts,omitempty"`
}
