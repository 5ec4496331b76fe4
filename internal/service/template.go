package service

import (
	"regexp"
	"strings"

	"github.com/noah-isme/sports-school-ops/internal/models"
)

var placeholderPattern = regexp.MustCompile(`(?i)\{\{\s*(\w+)\s*\}\}`)

// RenderTemplate replaces {{responsavel}}, {{estudante}}, {{unidade}} and {{curso}}
// case-insensitively. Unknown or empty placeholders render as "".
func RenderTemplate(template string, vars models.TemplateVars) string {
	values := map[string]string{
		"responsavel": vars.Guardian,
		"estudante":   vars.Student,
		"unidade":     vars.Unit,
		"curso":       vars.Course,
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return values[strings.ToLower(name)]
	})
}

// FirstName returns the first word of a full name, used when greeting guardians.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
