package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/dateparse"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// Column fallback chains. Candidates are slugs of the spreadsheet headers, tried in order.
var (
	fieldID               = []string{"id"}
	fieldStudentName      = []string{"estudante", "aluno", "nome", "nomedoaluno", "nomedoestudante"}
	fieldUnit             = []string{"unidade", "escola", "unit"}
	fieldStatus           = []string{"status", "situacao"}
	fieldCourse           = []string{"curso", "modalidade", "turma"}
	fieldBirthDate        = []string{"datadenascimento", "nascimento", "dtnascimento", "datanascimento"}
	fieldGuardian1        = []string{"responsavel1", "responsavel", "nomeresponsavel", "nomedoresponsavel"}
	fieldPhone1           = []string{"telefone1", "whatsapp1", "telefone", "whatsapp", "celular"}
	fieldGuardian2        = []string{"responsavel2", "nomeresponsavel2"}
	fieldPhone2           = []string{"telefone2", "whatsapp2", "celular2"}
	fieldEmail            = []string{"email", "emailresponsavel", "emaildoresponsavel"}
	fieldStage            = []string{"etapa", "etapaescolar", "estagio", "estagioanoescolar"}
	fieldSchoolYear       = []string{"anoescolar", "serie", "ano"}
	fieldSchoolClass      = []string{"turmaescolar", "turmadaescola", "classe"}
	fieldEnrollmentDate   = []string{"datadamatricula", "datamatricula", "dtmatricula"}
	fieldCancellationDate = []string{"dtcancelamento", "datadecancelamento", "datacancelamento", "datadocancelamento"}

	fieldClassName = []string{"nome", "turma", "curso", "modalidade"}
	fieldSchedule  = []string{"horario", "diasehorario", "diaehorario", "dias"}
	fieldTeacher   = []string{"professor", "professora", "instrutor"}
	fieldCapacity  = []string{"capacidade", "vagas", "limite"}
	fieldFee       = []string{"mensalidade", "valor", "valormensal"}

	fieldAttendanceStudent = []string{"aluno", "estudante", "nome"}
	fieldAttendanceClass   = []string{"turma", "curso", "modalidade"}
	fieldDate              = []string{"data", "dataaula", "datadaaula"}
	fieldAttendanceStatus  = []string{"status", "presenca", "situacao"}
	fieldNote              = []string{"observacao", "obs", "observacoes", "nota"}
	fieldAlarm             = []string{"alarme", "alerta"}

	fieldLogin     = []string{"login", "usuario", "user"}
	fieldPassword  = []string{"senha", "password"}
	fieldUserName  = []string{"nome", "name"}
	fieldUserUnits = []string{"unidades", "unidade", "units"}
	fieldRole      = []string{"perfil", "papel", "role", "tipo"}

	fieldTrialDate       = []string{"dataaula", "data", "dataagendada", "datadaaula"}
	fieldTrialStatus     = []string{"status", "presenca", "situacao"}
	fieldTrialNote       = []string{"feedback", "observacao", "obs", "observacaoprofessor"}
	fieldTrialFollowUp   = []string{"followup", "posaula", "followupenviado"}
	fieldTrialReminder   = []string{"lembrete", "lembreteenviado"}
	fieldTrialReschedule = []string{"reagendamento", "reagendamentoenviado"}
	fieldTrialConverted  = []string{"convertido", "matriculou", "conversao"}
)

// rowFields indexes a row by slugified header, so "Data da Matrícula" and
// "datadamatricula" resolve to the same cell. On header collisions the first
// non-empty cell in byte order of the raw headers wins.
type rowFields map[string]interface{}

func newRowFields(row models.Row) rowFields {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make(rowFields, len(row))
	for _, key := range keys {
		value := row[key]
		slug := textnorm.Slugify(key)
		if slug == "" {
			continue
		}
		if existing, ok := fields[slug]; ok && strings.TrimSpace(textnorm.String(existing)) != "" {
			continue
		}
		fields[slug] = value
	}
	return fields
}

// value returns the first candidate cell that renders as non-blank text.
func (f rowFields) value(keys []string) interface{} {
	for _, key := range keys {
		v, ok := f[key]
		if !ok || v == nil {
			continue
		}
		if strings.TrimSpace(textnorm.String(v)) == "" {
			continue
		}
		return v
	}
	return nil
}

func (f rowFields) text(keys []string) string {
	return strings.TrimSpace(textnorm.String(f.value(keys)))
}

func (f rowFields) date(keys []string) string {
	return dateparse.ParseFlexibleDate(f.value(keys))
}

// integer returns 0 for blank or non-numeric cells.
func (f rowFields) integer(keys []string) int {
	switch v := f.value(keys).(type) {
	case float64:
		return int(v)
	case nil:
		return 0
	default:
		n, err := strconv.Atoi(strings.TrimSpace(textnorm.String(v)))
		if err != nil {
			return 0
		}
		return n
	}
}

// money reads Brazilian-formatted amounts such as "R$ 1.250,50".
func (f rowFields) money(keys []string) *float64 {
	switch v := f.value(keys).(type) {
	case nil:
		return nil
	case float64:
		return &v
	default:
		amount, ok := parseMoney(textnorm.String(v))
		if !ok {
			return nil
		}
		return &amount
	}
}

func (f rowFields) flag(keys []string) bool {
	switch v := f.value(keys).(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		switch textnorm.NormalizeValue(v) {
		case "sim", "s", "true", "x", "1", "ok", "enviado", "enviada", "yes":
			return true
		}
		return false
	}
}

func parseMoney(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "R$", ""))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, false
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
