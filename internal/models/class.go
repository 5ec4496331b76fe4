package models

// DefaultClassCapacity applies when the sheet leaves capacity blank or invalid.
const DefaultClassCapacity = 20

// Class (turma) is a scheduled course offering at a unit. Replaced wholesale on every sync.
type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Unit       string   `json:"unit"`
	Schedule   string   `json:"schedule,omitempty"`
	Teacher    string   `json:"teacher,omitempty"`
	Capacity   int      `json:"capacity"`
	MonthlyFee *float64 `json:"monthly_fee,omitempty"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Unit   string
	Search string
}
