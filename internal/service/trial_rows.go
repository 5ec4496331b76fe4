package service

import (
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// parseTrialLessons reads the experimental sheet.
func parseTrialLessons(rows []models.Row) []models.TrialLesson {
	lessons := make([]models.TrialLesson, 0, len(rows))
	for _, row := range rows {
		f := newRowFields(row)
		name := f.text(fieldStudentName)
		if name == "" {
			continue
		}
		unit := f.text(fieldUnit)
		date := f.date(fieldTrialDate)
		id := f.text(fieldID)
		if id == "" {
			id = "exp-" + textnorm.Slugify(name) + "-" + textnorm.Slugify(unit) + "-" + date
		}
		lessons = append(lessons, models.TrialLesson{
			ID:             id,
			StudentName:    name,
			Unit:           unit,
			Course:         f.text(fieldCourse),
			ScheduledDate:  date,
			Guardian:       f.text(fieldGuardian1),
			Phone:          f.text(fieldPhone1),
			Email:          f.text(fieldEmail),
			Status:         parseTrialStatus(f.text(fieldTrialStatus)),
			TeacherNote:    f.text(fieldTrialNote),
			FollowUpSent:   f.flag(fieldTrialFollowUp),
			ReminderSent:   f.flag(fieldTrialReminder),
			RescheduleSent: f.flag(fieldTrialReschedule),
			Converted:      f.flag(fieldTrialConverted),
		})
	}
	return lessons
}

func parseTrialStatus(raw string) models.TrialStatus {
	switch textnorm.Normalize(raw) {
	case "presente", "compareceu", "realizada":
		return models.TrialStatusPresent
	case "ausente", "faltou", "falta", "nao compareceu":
		return models.TrialStatusAbsent
	case "reagendada", "reagendado", "reagendar", "remarcada":
		return models.TrialStatusRescheduled
	default:
		return models.TrialStatusPending
	}
}

var trialStatusLabels = map[models.TrialStatus]string{
	models.TrialStatusPending:     "Pendente",
	models.TrialStatusPresent:     "Presente",
	models.TrialStatusAbsent:      "Ausente",
	models.TrialStatusRescheduled: "Reagendada",
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}

// trialSheetRow is the save_experimental payload, using the sheet's column names.
func trialSheetRow(l models.TrialLesson) map[string]string {
	return map[string]string{
		"id":            l.ID,
		"aluno":         l.StudentName,
		"unidade":       l.Unit,
		"curso":         l.Course,
		"data":          l.ScheduledDate,
		"responsavel":   l.Guardian,
		"telefone":      l.Phone,
		"status":        trialStatusLabels[l.Status],
		"feedback":      l.TeacherNote,
		"followup":      yesNo(l.FollowUpSent),
		"lembrete":      yesNo(l.ReminderSent),
		"reagendamento": yesNo(l.RescheduleSent),
		"convertido":    yesNo(l.Converted),
	}
}

// attendanceSheetRow is the save_frequencia payload for one record.
func attendanceSheetRow(r models.AttendanceRecord) map[string]string {
	status := "Falta"
	if r.Status == models.AttendanceStatusPresent {
		status = "Presente"
	}
	return map[string]string{
		"id":         r.ID,
		"data":       r.Date,
		"aluno":      r.StudentName,
		"turma":      r.ClassName,
		"unidade":    r.Unit,
		"status":     status,
		"observacao": r.Note,
	}
}
