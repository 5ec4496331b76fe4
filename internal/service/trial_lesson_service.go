package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type trialLessonStore interface {
	TrialLessons() []models.TrialLesson
	UpdateTrialLesson(ctx context.Context, id string, mutate func(*models.TrialLesson) error) (models.TrialLesson, error)
}

type outreachSender interface {
	Render(text string, kind models.TemplateKind, vars models.TemplateVars) string
	Send(ctx context.Context, phone, message string) (*models.MessageResult, error)
}

// TrialLessonService drives the trial lesson funnel.
type TrialLessonService struct {
	state     trialLessonStore
	pushes    pushQueue
	messages  outreachSender
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrialLessonService constructs the service.
func NewTrialLessonService(state trialLessonStore, pushes pushQueue, messages outreachSender, validate *validator.Validate, logger *zap.Logger) *TrialLessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrialLessonService{state: state, pushes: pushes, messages: messages, validator: validate, logger: logger}
}

// List returns visible trial lessons ordered by scheduled date, soonest first.
func (s *TrialLessonService) List(claims *models.JWTClaims, filter models.TrialLessonFilter) []models.TrialLesson {
	scope := newUnitScope(claims.Units)
	lessons := filterByUnit(s.state.TrialLessons(), scope, filter.Unit, func(l models.TrialLesson) string { return l.Unit })
	out := lessons[:0]
	for _, l := range lessons {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.DateFrom != "" && l.ScheduledDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && l.ScheduledDate > filter.DateTo {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate < out[j].ScheduledDate })
	return out
}

// Update patches status, note or flags and pushes the row to the spreadsheet.
func (s *TrialLessonService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateTrialLessonRequest) (*models.TrialLesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trial lesson payload")
	}
	lesson, err := s.state.UpdateTrialLesson(ctx, id, func(l *models.TrialLesson) error {
		if !HasAccess(claims.Units, l.Unit) {
			return appErrors.Clone(appErrors.ErrForbidden, "unit not accessible")
		}
		if req.Status != nil {
			l.Status = models.TrialStatus(*req.Status)
		}
		if req.TeacherNote != nil {
			l.TeacherNote = *req.TeacherNote
		}
		setFlag(&l.FollowUpSent, req.FollowUpSent)
		setFlag(&l.ReminderSent, req.ReminderSent)
		setFlag(&l.RescheduleSent, req.RescheduleSent)
		setFlag(&l.Converted, req.Converted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.push(lesson)
	return &lesson, nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Notify sends the trial template to the guardian and marks the matching flag.
func (s *TrialLessonService) Notify(ctx context.Context, claims *models.JWTClaims, id string, req dto.NotifyTrialLessonRequest) (*models.MessageResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice kind")
	}
	lesson, ok := s.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trial lesson not found")
	}
	if !HasAccess(claims.Units, lesson.Unit) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unit not accessible")
	}

	text := s.messages.Render("", models.TemplateTrial, models.TemplateVars{
		Guardian: lesson.Guardian,
		Student:  lesson.StudentName,
		Unit:     lesson.Unit,
		Course:   lesson.Course,
	})
	result, err := s.messages.Send(ctx, lesson.Phone, text)
	if err != nil {
		return nil, err
	}

	updated, err := s.state.UpdateTrialLesson(ctx, id, func(l *models.TrialLesson) error {
		switch models.TrialNotice(req.Kind) {
		case models.TrialNoticeReminder:
			l.ReminderSent = true
		case models.TrialNoticeFollowUp:
			l.FollowUpSent = true
		case models.TrialNoticeReschedule:
			l.RescheduleSent = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.push(updated)
	return result, nil
}

func (s *TrialLessonService) find(id string) (models.TrialLesson, bool) {
	for _, l := range s.state.TrialLessons() {
		if l.ID == id {
			return l, true
		}
	}
	return models.TrialLesson{}, false
}

func (s *TrialLessonService) push(lesson models.TrialLesson) {
	if err := s.pushes.Enqueue(models.RemoteActionSaveTrialLesson, trialSheetRow(lesson)); err != nil {
		s.logger.Warn("trial lesson saved locally only", zap.String("id", lesson.ID), zap.Error(err))
	}
}
