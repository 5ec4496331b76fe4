package models

// MessageMode tells how an outreach message was delivered.
type MessageMode string

const (
	MessageModeWebhook MessageMode = "webhook"
	MessageModeLink    MessageMode = "link"
)

// TemplateKind selects one of the configured outreach templates.
type TemplateKind string

const (
	TemplateRetention TemplateKind = "retention"
	TemplateTrial     TemplateKind = "trial"
	TemplateGeneral   TemplateKind = "general"
)

// TemplateVars are the values substituted into {{placeholders}}.
type TemplateVars struct {
	Guardian string `json:"responsavel"`
	Student  string `json:"estudante"`
	Unit     string `json:"unidade"`
	Course   string `json:"curso"`
}

// MessageResult describes a dispatched (or link-fallback) message.
type MessageResult struct {
	Mode    MessageMode `json:"mode"`
	Phone   string      `json:"phone"`
	Message string      `json:"message"`
	Link    string      `json:"link,omitempty"`
}
