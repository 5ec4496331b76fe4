package models

// RetentionAction marks a churn alert as handled. The log is append-only.
type RetentionAction struct {
	AlertID    string `json:"alert_id"`
	ActionDate string `json:"action_date"`
	ActorLogin string `json:"actor_login"`
	Unit       string `json:"unit"`
	Note       string `json:"note,omitempty"`
}

// RiskLevel classifies a churn alert.
type RiskLevel string

const (
	RiskLevelCritical     RiskLevel = "critical"
	RiskLevelLowFrequency RiskLevel = "low_frequency"
)

// RiskAlert is produced per (student, unit, class) attendance group that trips a rule.
type RiskAlert struct {
	ID             string    `json:"id"`
	GroupKey       string    `json:"group_key"`
	StudentID      string    `json:"student_id"`
	StudentName    string    `json:"student_name"`
	ClassName      string    `json:"class_name"`
	Unit           string    `json:"unit"`
	Level          RiskLevel `json:"level"`
	Critical       bool      `json:"critical"`
	LowFrequency   bool      `json:"low_frequency"`
	AbsenceRate    int       `json:"absence_rate"`
	RecentAbsences int       `json:"recent_absences"`
	TotalRecords   int       `json:"total_records"`
	LastDate       string    `json:"last_date"`
	Handled        bool      `json:"handled"`
	Guardian       string    `json:"guardian,omitempty"`
	Phone          string    `json:"phone,omitempty"`
}
