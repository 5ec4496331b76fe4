package dto

// RetentionActionRequest marks a churn alert as handled.
type RetentionActionRequest struct {
	Note string `json:"note" validate:"max=500"`
}
