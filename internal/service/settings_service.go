package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

// MaskedToken replaces the messaging token in responses. Submitting it back
// leaves the stored token untouched.
const MaskedToken = "********"

type settingsStore interface {
	Settings() models.Settings
	UpdateSettings(ctx context.Context, settings models.Settings) error
}

// SettingsService reads and edits the integration settings.
type SettingsService struct {
	state     settingsStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSettingsService constructs the service.
func NewSettingsService(state settingsStore, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{state: state, validator: validate, logger: logger, now: time.Now}
}

// Get returns the settings with the token masked.
func (s *SettingsService) Get() models.Settings {
	return maskSettings(s.state.Settings())
}

// Update applies the non-nil fields of req. Only admins may change settings.
func (s *SettingsService) Update(ctx context.Context, claims *models.JWTClaims, req dto.UpdateSettingsRequest) (*models.Settings, error) {
	if claims == nil || claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators can change settings")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	settings := s.state.Settings()
	patch(&settings.ScriptURL, req.ScriptURL)
	patch(&settings.MessagingURL, req.MessagingURL)
	if req.MessagingToken != nil && *req.MessagingToken != MaskedToken {
		settings.MessagingToken = strings.TrimSpace(*req.MessagingToken)
	}
	patch(&settings.RetentionTemplate, req.RetentionTemplate)
	patch(&settings.TrialTemplate, req.TrialTemplate)
	patch(&settings.GeneralTemplate, req.GeneralTemplate)

	now := s.now().UTC()
	settings.UpdatedBy = claims.Login
	settings.UpdatedAt = &now

	if err := s.state.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("settings updated", zap.String("actor", claims.Login), zap.Bool("messaging_configured", settings.MessagingConfigured()))

	masked := maskSettings(settings)
	return &masked, nil
}

func patch(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func maskSettings(settings models.Settings) models.Settings {
	if settings.MessagingToken != "" {
		settings.MessagingToken = MaskedToken
	}
	return settings
}
