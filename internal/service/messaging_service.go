package service

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

const countryCode = "55"

type messageSender interface {
	Send(ctx context.Context, webhookURL, token, phone, message string) error
}

// MessagingService renders outreach templates and delivers them over WhatsApp.
// Without a webhook URL and token it degrades to a wa.me link the operator opens.
type MessagingService struct {
	sender    messageSender
	settings  settingsProvider
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewMessagingService constructs the messaging service.
func NewMessagingService(sender messageSender, settings settingsProvider, metrics *MetricsService, logger *zap.Logger) *MessagingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingService{sender: sender, settings: settings, validator: validator.New(), metrics: metrics, logger: logger}
}

// NormalizePhone keeps digits and prefixes the Brazilian country code once.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, countryCode) && len(digits) > 11 {
		return digits
	}
	return countryCode + digits
}

// WhatsAppLink builds the click-to-chat fallback link.
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// Template returns the configured template text for kind.
func (s *MessagingService) Template(kind models.TemplateKind) string {
	settings := s.settings.Settings()
	switch kind {
	case models.TemplateRetention:
		return settings.RetentionTemplate
	case models.TemplateTrial:
		return settings.TrialTemplate
	default:
		return settings.GeneralTemplate
	}
}

// Render fills a template; guardian and student are reduced to first names.
func (s *MessagingService) Render(text string, kind models.TemplateKind, vars models.TemplateVars) string {
	if strings.TrimSpace(text) == "" {
		text = s.Template(kind)
	}
	vars.Guardian = FirstName(vars.Guardian)
	vars.Student = FirstName(vars.Student)
	return RenderTemplate(text, vars)
}

// Send delivers message to phone through the webhook, or returns a link when
// messaging is not configured.
func (s *MessagingService) Send(ctx context.Context, phone, message string) (*models.MessageResult, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "phone number missing")
	}

	settings := s.settings.Settings()
	if !settings.MessagingConfigured() {
		s.metrics.RecordMessage(string(models.MessageModeLink), "ok")
		return &models.MessageResult{
			Mode:    models.MessageModeLink,
			Phone:   normalized,
			Message: message,
			Link:    WhatsAppLink(normalized, message),
		}, nil
	}

	if err := s.sender.Send(ctx, settings.MessagingURL, settings.MessagingToken, normalized, message); err != nil {
		s.metrics.RecordMessage(string(models.MessageModeWebhook), "error")
		s.logger.Warn("message delivery failed", zap.String("phone", normalized), zap.Error(err))
		return nil, err
	}
	s.metrics.RecordMessage(string(models.MessageModeWebhook), "ok")
	return &models.MessageResult{Mode: models.MessageModeWebhook, Phone: normalized, Message: message}, nil
}

// Preview renders a message without sending it.
func (s *MessagingService) Preview(req dto.PreviewMessageRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	return s.Render(req.Text, templateKind(req.Template), templateVars(req.Vars)), nil
}

// Deliver renders and sends a free-form or templated message.
func (s *MessagingService) Deliver(ctx context.Context, req dto.SendMessageRequest) (*models.MessageResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	text := s.Render(req.Text, templateKind(req.Template), templateVars(req.Vars))
	if strings.TrimSpace(text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message is empty")
	}
	return s.Send(ctx, req.Phone, text)
}

func templateKind(name string) models.TemplateKind {
	if name == "" {
		return models.TemplateGeneral
	}
	return models.TemplateKind(name)
}

func templateVars(v dto.MessageVars) models.TemplateVars {
	return models.TemplateVars{Guardian: v.Guardian, Student: v.Student, Unit: v.Unit, Course: v.Course}
}
