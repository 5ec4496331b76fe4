package dto

// AttendanceEntry is one student's mark inside a class roll call.
type AttendanceEntry struct {
	StudentName string `json:"student_name" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=Present Absent"`
	Note        string `json:"note"`
}

// RecordAttendanceRequest records a roll call for a class on a date.
type RecordAttendanceRequest struct {
	Unit      string            `json:"unit" validate:"required"`
	ClassName string            `json:"class_name" validate:"required"`
	Date      string            `json:"date" validate:"required"`
	Entries   []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}
