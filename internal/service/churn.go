package service

import (
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

const (
	criticalWindow     = 3
	lowFrequencyWindow = 9
	lowFrequencyRate   = 50
)

// ChurnGroupKey identifies an attendance history by its spreadsheet labels.
func ChurnGroupKey(studentName, unit, className string) string {
	return textnorm.Slugify(studentName) + "|" + textnorm.Slugify(unit) + "|" + textnorm.Slugify(className)
}

// ComputeChurnAlerts flags (student, unit, class) groups whose recent
// attendance trips either rule:
//   - critical: at least 3 records and the 3 most recent are all absences;
//   - low frequency: at least 9 records and the rounded absence percentage of
//     the 9 most recent is 50 or more.
//
// An alert is handled when a retention action references its id or when the
// latest record's alarm column already reads "enviado". Unresolved alerts come
// first, critical before low frequency, then most recent first.
func ComputeChurnAlerts(records []models.AttendanceRecord, actions []models.RetentionAction) []models.RiskAlert {
	groups := make(map[string][]models.AttendanceRecord)
	var keys []string
	for _, record := range records {
		key := ChurnGroupKey(record.StudentName, record.Unit, record.ClassName)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], record)
	}

	handled := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		handled[action.AlertID] = struct{}{}
	}

	alerts := make([]models.RiskAlert, 0)
	for _, key := range keys {
		history := groups[key]
		sort.SliceStable(history, func(i, j int) bool { return history[i].Date > history[j].Date })

		critical := len(history) >= criticalWindow && allAbsent(history[:criticalWindow])
		rate := absenceRate(history[:min(len(history), lowFrequencyWindow)])
		lowFrequency := len(history) >= lowFrequencyWindow && rate >= lowFrequencyRate
		if !critical && !lowFrequency {
			continue
		}

		latest := history[0]
		alert := models.RiskAlert{
			ID:             "risk|" + key + "|" + latest.Date,
			GroupKey:       key,
			StudentID:      latest.StudentID,
			StudentName:    latest.StudentName,
			ClassName:      latest.ClassName,
			Unit:           latest.Unit,
			Level:          models.RiskLevelLowFrequency,
			Critical:       critical,
			LowFrequency:   lowFrequency,
			AbsenceRate:    rate,
			RecentAbsences: leadingAbsences(history),
			TotalRecords:   len(history),
			LastDate:       latest.Date,
		}
		if critical {
			alert.Level = models.RiskLevelCritical
		}
		if alert.StudentID == "" {
			alert.StudentID = StudentID(latest.StudentName, latest.Unit)
		}
		_, acted := handled[alert.ID]
		alert.Handled = acted || textnorm.Normalize(latest.Alarm) == models.AlarmSent
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Handled != b.Handled {
			return !a.Handled
		}
		if a.Critical != b.Critical {
			return a.Critical
		}
		if a.LastDate != b.LastDate {
			return a.LastDate > b.LastDate
		}
		return strings.Compare(a.ID, b.ID) < 0
	})
	return alerts
}

// OpenAlerts drops handled alerts, preserving order.
func OpenAlerts(alerts []models.RiskAlert) []models.RiskAlert {
	open := make([]models.RiskAlert, 0, len(alerts))
	for _, alert := range alerts {
		if !alert.Handled {
			open = append(open, alert)
		}
	}
	return open
}

func allAbsent(records []models.AttendanceRecord) bool {
	for _, r := range records {
		if r.Status != models.AttendanceStatusAbsent {
			return false
		}
	}
	return true
}

// absenceRate is the absence share as a whole percentage, rounded half away from zero.
func absenceRate(records []models.AttendanceRecord) int {
	if len(records) == 0 {
		return 0
	}
	absent := 0
	for _, r := range records {
		if r.Status == models.AttendanceStatusAbsent {
			absent++
		}
	}
	return int(math.Round(float64(absent) / float64(len(records)) * 100))
}

func leadingAbsences(records []models.AttendanceRecord) int {
	n := 0
	for _, r := range records {
		if r.Status != models.AttendanceStatusAbsent {
			break
		}
		n++
	}
	return n
}
