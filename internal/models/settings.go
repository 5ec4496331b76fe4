package models

import "time"

// Settings are the runtime-editable integration parameters.
type Settings struct {
	ScriptURL         string     `json:"script_url"`
	MessagingURL      string     `json:"messaging_url"`
	MessagingToken    string     `json:"messaging_token"`
	RetentionTemplate string     `json:"retention_template"`
	TrialTemplate     string     `json:"trial_template"`
	GeneralTemplate   string     `json:"general_template"`
	UpdatedBy         string     `json:"updated_by,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// MessagingConfigured reports whether webhook delivery is possible.
func (s Settings) MessagingConfigured() bool {
	return s.MessagingURL != "" && s.MessagingToken != ""
}
