package models

// EnrollmentStatus is the overall status of a student across all course rows.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "Active"
	EnrollmentStatusCancelled EnrollmentStatus = "Cancelled"
)

// CancelledCourse records a course the student left. Unique per (CourseName, CancellationDate).
type CancelledCourse struct {
	CourseName       string `json:"course_name"`
	Unit             string `json:"unit"`
	EnrollmentDate   string `json:"enrollment_date,omitempty"`
	CancellationDate string `json:"cancellation_date,omitempty"`
}

// Student is one learner per distinct (normalized name, normalized unit) pair.
type Student struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Unit             string            `json:"unit"`
	BirthDate        string            `json:"birth_date,omitempty"`
	Status           EnrollmentStatus  `json:"status"`
	Guardian1        string            `json:"guardian1,omitempty"`
	Phone1           string            `json:"phone1,omitempty"`
	Guardian2        string            `json:"guardian2,omitempty"`
	Phone2           string            `json:"phone2,omitempty"`
	Email            string            `json:"email,omitempty"`
	Stage            string            `json:"stage,omitempty"`
	SchoolYear       string            `json:"school_year,omitempty"`
	SchoolClass      string            `json:"school_class,omitempty"`
	ActiveCourses    []string          `json:"active_courses"`
	CancelledCourses []CancelledCourse `json:"cancelled_courses"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Unit     string
	Status   EnrollmentStatus
	Page     int
	PageSize int
}

// StudentCourse is an active course of a student with its resolved class, if any.
type StudentCourse struct {
	EnrollmentID   string `json:"enrollment_id"`
	Course         string `json:"course"`
	EnrollmentDate string `json:"enrollment_date,omitempty"`
	Class          *Class `json:"class,omitempty"`
}

// StudentDetail contains student information with course context.
type StudentDetail struct {
	Student
	Courses             []StudentCourse `json:"courses"`
	FirstEnrollmentDate string          `json:"first_enrollment_date,omitempty"`
	LastAttendanceDate  string          `json:"last_attendance_date,omitempty"`
}
