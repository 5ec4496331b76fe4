package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

func seededRetentionState(t *testing.T) *AppState {
	t.Helper()
	state := newTestState(newMemStore())
	attendance := append(history("Ana Silva", "Centro", "Ballet", ab, ab, ab),
		history("Bruno Costa", "Norte", "Judô", ab, ab, ab, pr)...)
	require.NoError(t, state.ApplySync(context.Background(), SyncResult{
		Dataset: models.Dataset{
			Students: []models.Student{
				{ID: StudentID("Ana Silva", "Centro"), Name: "Ana Silva", Unit: "Centro", Guardian1: "Rita Silva", Phone1: "(11) 98888-7777"},
				{ID: StudentID("Bruno Costa", "Norte"), Name: "Bruno Costa", Unit: "Norte", Guardian2: "Paulo", Phone2: "11977776666"},
			},
			Attendance: attendance,
		},
	}))
	return state
}

func newTestRetentionService(state *AppState) *RetentionService {
	messages := NewMessagingService(&fakeSender{}, staticSettings{testDefaults.Settings}, nil, nil)
	svc := NewRetentionService(state, messages, nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestRetentionServiceAlertsAreScopedAndEnriched(t *testing.T) {
	svc := newTestRetentionService(seededRetentionState(t))

	alerts := svc.Alerts(adminClaims(), "", false)
	require.Len(t, alerts, 2)

	centro := svc.Alerts(staffClaims("Centro"), "", false)
	require.Len(t, centro, 1)
	assert.Equal(t, "Rita Silva", centro[0].Guardian)
	assert.Equal(t, "(11) 98888-7777", centro[0].Phone)

	norte := svc.Alerts(adminClaims(), "Norte", false)
	require.Len(t, norte, 1)
	assert.Equal(t, "Paulo", norte[0].Guardian, "falls back to the second guardian")
}

func TestRetentionServiceMarkHandled(t *testing.T) {
	state := seededRetentionState(t)
	svc := newTestRetentionService(state)
	ctx := context.Background()
	alert := svc.Alerts(staffClaims("Centro"), "", false)[0]

	action, err := svc.MarkHandled(ctx, staffClaims("Centro"), alert.ID, dto.RetentionActionRequest{Note: "ligamos"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-29", action.ActionDate)
	assert.Equal(t, "prof", action.ActorLogin)
	assert.Equal(t, "Centro", action.Unit)

	assert.Empty(t, svc.Alerts(staffClaims("Centro"), "", false))
	handled := svc.Alerts(staffClaims("Centro"), "", true)
	require.Len(t, handled, 1)
	assert.True(t, handled[0].Handled)

	_, err = svc.MarkHandled(ctx, staffClaims("Centro"), alert.ID, dto.RetentionActionRequest{})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.MarkHandled(ctx, staffClaims("Norte"), alert.ID, dto.RetentionActionRequest{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "alerts outside the user's units are invisible")

	_, err = svc.MarkHandled(ctx, adminClaims(), alert.ID, dto.RetentionActionRequest{Note: strings.Repeat("x", 501)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRetentionServiceNotifySendsAndMarksHandled(t *testing.T) {
	state := seededRetentionState(t)
	svc := newTestRetentionService(state)
	alert := svc.Alerts(adminClaims(), "Centro", false)[0]

	result, err := svc.Notify(context.Background(), adminClaims(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, "5511988887777", result.Phone)
	assert.Equal(t, "Olá Rita, sentimos falta de Ana em Ballet.", result.Message)

	actions := state.RetentionActions()
	require.Len(t, actions, 1)
	assert.Equal(t, alert.ID, actions[0].AlertID)

	_, err = svc.Notify(context.Background(), adminClaims(), alert.ID)
	require.NoError(t, err)
	assert.Len(t, state.RetentionActions(), 1, "a repeated notice does not log a second action")
}

func TestRetentionServiceExport(t *testing.T) {
	svc := newTestRetentionService(seededRetentionState(t))

	file, err := svc.Export(adminClaims(), "Centro", "csv")
	require.NoError(t, err)
	assert.Equal(t, "alertas-evasao-centro-20240329.csv", file.Filename)
	body := string(file.Body)
	assert.Contains(t, body, "Aluno;Unidade;Turma")
	assert.Contains(t, body, "Ana Silva;Centro;Ballet;Crítico;100;3")
	assert.NotContains(t, body, "Bruno")

	pdf, err := svc.Export(adminClaims(), "", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Body), "%PDF"))

	_, err = svc.Export(adminClaims(), "", "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
