package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/dateparse"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

type attendanceStore interface {
	Attendance() []models.AttendanceRecord
	UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) error
}

type pushQueue interface {
	Enqueue(action models.RemoteAction, data interface{}) error
}

// AttendanceService lists and records roll calls.
type AttendanceService struct {
	state     attendanceStore
	pushes    pushQueue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(state attendanceStore, pushes pushQueue, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{state: state, pushes: pushes, validator: validate, logger: logger}
}

// List returns the visible records matching filter, most recent first.
func (s *AttendanceService) List(claims *models.JWTClaims, filter models.AttendanceFilter) []models.AttendanceRecord {
	scope := newUnitScope(claims.Units)
	class := textnorm.Normalize(filter.ClassName)

	records := filterByUnit(s.state.Attendance(), scope, filter.Unit, func(r models.AttendanceRecord) string { return r.Unit })
	out := records[:0]
	for _, r := range records {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if class != "" && !textnorm.Contains(r.ClassName, class) {
			continue
		}
		if filter.DateFrom != "" && r.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && r.Date > filter.DateTo {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// Record stores a roll call and queues it for the spreadsheet. Re-recording
// the same student, class and date replaces the earlier mark.
func (s *AttendanceService) Record(ctx context.Context, claims *models.JWTClaims, req dto.RecordAttendanceRequest) ([]models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if !HasAccess(claims.Units, req.Unit) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unit not accessible")
	}
	date := dateparse.ParseFlexibleDate(req.Date)
	if date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance date")
	}

	records := make([]models.AttendanceRecord, 0, len(req.Entries))
	for _, entry := range req.Entries {
		records = append(records, models.AttendanceRecord{
			ID:          AttendanceID(entry.StudentName, req.Unit, req.ClassName, date),
			StudentID:   StudentID(entry.StudentName, req.Unit),
			ClassID:     CourseClassID(req.ClassName, req.Unit),
			Unit:        req.Unit,
			Date:        date,
			Status:      models.AttendanceStatus(entry.Status),
			Note:        entry.Note,
			StudentName: entry.StudentName,
			ClassName:   req.ClassName,
		})
	}

	if err := s.state.UpsertAttendance(ctx, records); err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, attendanceSheetRow(r))
	}
	if err := s.pushes.Enqueue(models.RemoteActionSaveAttendance, rows); err != nil {
		s.logger.Warn("attendance saved locally only", zap.String("class", req.ClassName), zap.Error(err))
	}
	s.logger.Info("attendance recorded",
		zap.String("actor", claims.Login),
		zap.String("unit", req.Unit),
		zap.String("class", req.ClassName),
		zap.String("date", date),
		zap.Int("entries", len(records)),
	)
	return records, nil
}
