package dto

// UpdateSettingsRequest patches integration settings. Nil fields are kept.
type UpdateSettingsRequest struct {
	ScriptURL         *string `json:"script_url" validate:"omitempty,url"`
	MessagingURL      *string `json:"messaging_url" validate:"omitempty,url"`
	MessagingToken    *string `json:"messaging_token"`
	RetentionTemplate *string `json:"retention_template" validate:"omitempty,max=2000"`
	TrialTemplate     *string `json:"trial_template" validate:"omitempty,max=2000"`
	GeneralTemplate   *string `json:"general_template" validate:"omitempty,max=2000"`
}
