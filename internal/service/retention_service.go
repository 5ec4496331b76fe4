package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/dto"
	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
	"github.com/noah-isme/sports-school-ops/pkg/export"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

type retentionStore interface {
	Attendance() []models.AttendanceRecord
	Students() []models.Student
	RetentionActions() []models.RetentionAction
	AppendRetentionAction(ctx context.Context, action models.RetentionAction) error
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// Export formats for the retention report.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered report.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// RetentionService exposes churn alerts and the actions taken on them.
type RetentionService struct {
	state     retentionStore
	messages  outreachSender
	csv       tableRenderer
	pdf       tableRenderer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewRetentionService constructs the service.
func NewRetentionService(state retentionStore, messages outreachSender, csv, pdf tableRenderer, metrics *MetricsService, logger *zap.Logger) *RetentionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &RetentionService{state: state, messages: messages, csv: csv, pdf: pdf, validator: validator.New(), metrics: metrics, logger: logger, now: time.Now}
}

// Alerts computes churn alerts over the attendance visible to claims,
// optionally narrowed to unit, with guardian contacts attached.
func (s *RetentionService) Alerts(claims *models.JWTClaims, unit string, includeHandled bool) []models.RiskAlert {
	scope := newUnitScope(claims.Units)
	records := filterByUnit(s.state.Attendance(), scope, unit, func(r models.AttendanceRecord) string { return r.Unit })
	alerts := ComputeChurnAlerts(records, s.state.RetentionActions())
	enrichAlerts(alerts, s.state.Students())
	if includeHandled {
		return alerts
	}
	return OpenAlerts(alerts)
}

// enrichAlerts copies the first guardian contact that has a phone.
func enrichAlerts(alerts []models.RiskAlert, students []models.Student) {
	byID := make(map[string]models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}
	for i := range alerts {
		st, ok := byID[alerts[i].StudentID]
		if !ok {
			continue
		}
		alerts[i].Guardian = st.Guardian1
		alerts[i].Phone = st.Phone1
		if alerts[i].Phone == "" {
			alerts[i].Guardian = st.Guardian2
			alerts[i].Phone = st.Phone2
		}
	}
}

func (s *RetentionService) findAlert(claims *models.JWTClaims, alertID string) (models.RiskAlert, error) {
	for _, alert := range s.Alerts(claims, "", true) {
		if alert.ID == alertID {
			return alert, nil
		}
	}
	return models.RiskAlert{}, appErrors.Clone(appErrors.ErrNotFound, "alert not found")
}

// MarkHandled appends a retention action for the alert.
func (s *RetentionService) MarkHandled(ctx context.Context, claims *models.JWTClaims, alertID string, req dto.RetentionActionRequest) (*models.RetentionAction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid retention action")
	}
	alert, err := s.findAlert(claims, alertID)
	if err != nil {
		return nil, err
	}
	for _, action := range s.state.RetentionActions() {
		if action.AlertID == alertID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "alert already handled")
		}
	}
	return s.appendAction(ctx, claims, alert, req.Note)
}

func (s *RetentionService) appendAction(ctx context.Context, claims *models.JWTClaims, alert models.RiskAlert, note string) (*models.RetentionAction, error) {
	action := models.RetentionAction{
		AlertID:    alert.ID,
		ActionDate: today(s.now()),
		ActorLogin: claims.Login,
		Unit:       alert.Unit,
		Note:       note,
	}
	if err := s.state.AppendRetentionAction(ctx, action); err != nil {
		return nil, err
	}
	s.refreshGauge()
	s.logger.Info("retention action logged", zap.String("alert_id", alert.ID), zap.String("actor", claims.Login))
	return &action, nil
}

// Notify messages the guardian with the retention template, then logs the
// action unless the alert was already handled.
func (s *RetentionService) Notify(ctx context.Context, claims *models.JWTClaims, alertID string) (*models.MessageResult, error) {
	alert, err := s.findAlert(claims, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Phone == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student has no guardian phone")
	}

	text := s.messages.Render("", models.TemplateRetention, models.TemplateVars{
		Guardian: alert.Guardian,
		Student:  alert.StudentName,
		Unit:     alert.Unit,
		Course:   alert.ClassName,
	})
	result, err := s.messages.Send(ctx, alert.Phone, text)
	if err != nil {
		return nil, err
	}
	if !alert.Handled {
		if _, err := s.appendAction(ctx, claims, alert, "whatsapp"); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *RetentionService) refreshGauge() {
	alerts := ComputeChurnAlerts(s.state.Attendance(), s.state.RetentionActions())
	s.metrics.SetOpenAlerts(len(OpenAlerts(alerts)))
}

var alertExportHeaders = []string{"Aluno", "Unidade", "Turma", "Risco", "Faltas (%)", "Faltas seguidas", "Última aula", "Responsável", "Telefone"}

// Export renders the open alerts as CSV or PDF.
func (s *RetentionService) Export(claims *models.JWTClaims, unit, format string) (*ExportFile, error) {
	alerts := s.Alerts(claims, unit, false)
	table := export.Table{
		Title:   "Alertas de evasão",
		Headers: alertExportHeaders,
		Rows:    make([][]string, 0, len(alerts)),
	}
	if unit != "" {
		table.Title += " - " + unit
	}
	for _, a := range alerts {
		table.Rows = append(table.Rows, []string{
			a.StudentName,
			a.Unit,
			a.ClassName,
			riskLabel(a.Level),
			strconv.Itoa(a.AbsenceRate),
			strconv.Itoa(a.RecentAbsences),
			a.LastDate,
			a.Guardian,
			a.Phone,
		})
	}

	stamp := s.now().Format("20060102")
	name := "alertas-evasao"
	if slug := textnorm.Slugify(unit); slug != "" {
		name += "-" + slug
	}

	switch format {
	case "", ExportFormatCSV:
		body, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: fmt.Sprintf("%s-%s.csv", name, stamp), ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case ExportFormatPDF:
		body, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: fmt.Sprintf("%s-%s.pdf", name, stamp), ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func riskLabel(level models.RiskLevel) string {
	if level == models.RiskLevelCritical {
		return "Crítico"
	}
	return "Baixa frequência"
}
