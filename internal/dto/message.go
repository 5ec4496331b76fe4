package dto

// MessageVars are the placeholder values supplied by the caller.
type MessageVars struct {
	Guardian string `json:"responsavel"`
	Student  string `json:"estudante"`
	Unit     string `json:"unidade"`
	Course   string `json:"curso"`
}

// PreviewMessageRequest renders a template without sending. Text overrides Template.
type PreviewMessageRequest struct {
	Template string      `json:"template" validate:"omitempty,oneof=retention trial general"`
	Text     string      `json:"text"`
	Vars     MessageVars `json:"vars"`
}

// SendMessageRequest renders and dispatches a message to a phone number.
type SendMessageRequest struct {
	Phone    string      `json:"phone" validate:"required"`
	Template string      `json:"template" validate:"omitempty,oneof=retention trial general"`
	Text     string      `json:"text"`
	Vars     MessageVars `json:"vars"`
}
