package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

func TestSettingsServiceUpdateAndMask(t *testing.T) {
	store := newMemStore()
	state := newTestState(store)
	svc := NewSettingsService(state, nil, nil)
	fixed := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	updated, err := svc.Update(context.Background(), adminClaims(), dto.UpdateSettingsRequest{
		ScriptURL:      strPtr(" https://script.example/exec "),
		MessagingURL:   strPtr("https://hook.example/send"),
		MessagingToken: strPtr("abc123"),
	})
	require.NoError(t, err)
	assert.Equal(t, MaskedToken, updated.MessagingToken)
	assert.Equal(t, "admin", updated.UpdatedBy)
	assert.Equal(t, fixed, *updated.UpdatedAt)

	stored := state.Settings()
	assert.Equal(t, "https://script.example/exec", stored.ScriptURL)
	assert.Equal(t, "abc123", stored.MessagingToken)
	assert.Equal(t, testDefaults.Settings.RetentionTemplate, stored.RetentionTemplate)
	assert.Contains(t, store.raw(models.StoreKeySettings), "abc123")

	assert.Equal(t, MaskedToken, svc.Get().MessagingToken)
}

func TestSettingsServiceKeepsTokenWhenMaskedValueSubmitted(t *testing.T) {
	state := newTestState(newMemStore())
	svc := NewSettingsService(state, nil, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, adminClaims(), dto.UpdateSettingsRequest{MessagingToken: strPtr("abc123")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, adminClaims(), dto.UpdateSettingsRequest{MessagingToken: strPtr(MaskedToken), TrialTemplate: strPtr("Oi {{responsavel}}")})
	require.NoError(t, err)

	assert.Equal(t, "abc123", state.Settings().MessagingToken)
	assert.Equal(t, "Oi {{responsavel}}", state.Settings().TrialTemplate)
}

func TestSettingsServiceRejections(t *testing.T) {
	svc := NewSettingsService(newTestState(newMemStore()), nil, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, staffClaims(models.AllUnits), dto.UpdateSettingsRequest{ScriptURL: strPtr("https://x.example")})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Update(ctx, adminClaims(), dto.UpdateSettingsRequest{ScriptURL: strPtr("not a url")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSettingsServiceGetWithoutToken(t *testing.T) {
	svc := NewSettingsService(newTestState(newMemStore()), nil, nil)
	assert.Empty(t, svc.Get().MessagingToken)
}
