package models

// Enrollment (matrícula) links a student to an active course.
// ClassID is slug(course)-slug(unit) and is not a Class.ID; classes are resolved by fuzzy match.
type Enrollment struct {
	ID             string `json:"id"`
	StudentID      string `json:"student_id"`
	ClassID        string `json:"class_id"`
	Course         string `json:"course"`
	Unit           string `json:"unit"`
	EnrollmentDate string `json:"enrollment_date,omitempty"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	Unit      string
}
