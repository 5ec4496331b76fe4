package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusAbsent
}

// AlarmSent is the normalized value of the sheet's alarm column once a notice went out.
const AlarmSent = "enviado"

// AttendanceRecord (presença) accumulates across syncs.
// StudentName and ClassName keep the sheet's display labels; the churn analyzer groups on them.
type AttendanceRecord struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"student_id"`
	ClassID     string           `json:"class_id"`
	Unit        string           `json:"unit"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Note        string           `json:"note,omitempty"`
	StudentName string           `json:"student_name"`
	ClassName   string           `json:"class_name"`
	Alarm       string           `json:"alarm,omitempty"`
}

// AttendanceFilter scopes listing queries. Dates are ISO and inclusive.
type AttendanceFilter struct {
	Unit      string
	StudentID string
	ClassName string
	DateFrom  string
	DateTo    string
	Status    AttendanceStatus
}
