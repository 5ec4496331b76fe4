package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(11) 98888-7777":   "5511988887777",
		"5511988887777":     "5511988887777",
		"+55 11 98888-7777": "5511988887777",
		"11988887777":       "5511988887777",
		"5598888777":        "555598888777",
		"":                  "",
		"sem telefone":      "",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizePhone(input), input)
	}
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511988887777?text=Ol%C3%A1%20Rita%21", WhatsAppLink("5511988887777", "Olá Rita!"))
}

func TestMessagingServiceLinkModeWhenNotConfigured(t *testing.T) {
	sender := &fakeSender{}
	metrics := NewMetricsService()
	svc := NewMessagingService(sender, staticSettings{models.Settings{MessagingURL: "https://hook.example"}}, metrics, nil)

	result, err := svc.Send(context.Background(), "(11) 98888-7777", "Oi")
	require.NoError(t, err)
	assert.Equal(t, models.MessageModeLink, result.Mode)
	assert.Equal(t, "https://wa.me/5511988887777?text=Oi", result.Link)
	assert.Empty(t, sender.sent)
}

func TestMessagingServiceWebhookMode(t *testing.T) {
	sender := &fakeSender{}
	svc := NewMessagingService(sender, staticSettings{models.Settings{MessagingURL: "https://hook.example", MessagingToken: "tok"}}, nil, nil)

	result, err := svc.Send(context.Background(), "11988887777", "Oi")
	require.NoError(t, err)
	assert.Equal(t, models.MessageModeWebhook, result.Mode)
	assert.Empty(t, result.Link)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentMessage{url: "https://hook.example", token: "tok", phone: "5511988887777", message: "Oi"}, sender.sent[0])
}

func TestMessagingServiceWebhookFailure(t *testing.T) {
	sender := &fakeSender{err: appErrors.Clone(appErrors.ErrRemoteUnavailable, "webhook returned 500")}
	svc := NewMessagingService(sender, staticSettings{models.Settings{MessagingURL: "https://hook.example", MessagingToken: "tok"}}, nil, nil)

	_, err := svc.Send(context.Background(), "11988887777", "Oi")
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
}

func TestMessagingServiceRequiresPhone(t *testing.T) {
	svc := NewMessagingService(&fakeSender{}, staticSettings{}, nil, nil)
	_, err := svc.Send(context.Background(), " - ", "Oi")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestMessagingServiceRenderUsesFirstNamesAndTemplates(t *testing.T) {
	svc := NewMessagingService(&fakeSender{}, staticSettings{testDefaults.Settings}, nil, nil)

	text := svc.Render("", models.TemplateRetention, models.TemplateVars{Guardian: "Rita Lima", Student: "Ana Silva", Course: "Ballet"})
	assert.Equal(t, "Olá Rita, sentimos falta de Ana em Ballet.", text)

	text = svc.Render("Oi {{estudante}} - {{unidade}}", models.TemplateGeneral, models.TemplateVars{Student: "Ana Silva", Unit: "Centro"})
	assert.Equal(t, "Oi Ana - Centro", text)
}

func TestMessagingServicePreviewAndDeliver(t *testing.T) {
	sender := &fakeSender{}
	svc := NewMessagingService(sender, staticSettings{testDefaults.Settings}, nil, nil)

	text, err := svc.Preview(dto.PreviewMessageRequest{Template: "trial", Vars: dto.MessageVars{Guardian: "Rita", Student: "Caio Lima", Course: "Judô", Unit: "Centro"}})
	require.NoError(t, err)
	assert.Equal(t, "Olá Rita! Aula experimental de Caio em Judô (Centro).", text)

	_, err = svc.Preview(dto.PreviewMessageRequest{Template: "unknown"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	result, err := svc.Deliver(context.Background(), dto.SendMessageRequest{Phone: "11 98888-7777", Text: "Oi {{responsavel}}", Vars: dto.MessageVars{Guardian: "Rita Lima"}})
	require.NoError(t, err)
	assert.Equal(t, models.MessageModeLink, result.Mode)
	assert.Equal(t, "Oi Rita", result.Message)
}
