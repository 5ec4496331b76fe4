package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sports-school-ops/internal/models"
)

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("Olá {{responsavel}}, sobre {{estudante}}", models.TemplateVars{
		Guardian: FirstName("Maria Souza"),
		Student:  FirstName("João Pedro"),
	})
	assert.Equal(t, "Olá Maria, sobre João", got)
}

func TestRenderTemplateCaseInsensitiveAndGlobal(t *testing.T) {
	got := RenderTemplate("{{ ESTUDANTE }} / {{Estudante}} em {{unidade}}", models.TemplateVars{Student: "Ana", Unit: "Centro"})
	assert.Equal(t, "Ana / Ana em Centro", got)
}

func TestRenderTemplateDropsUnresolvedPlaceholders(t *testing.T) {
	got := RenderTemplate("Curso: {{curso}}{{desconhecido}}.", models.TemplateVars{})
	assert.Equal(t, "Curso: .", got)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Maria", FirstName("  Maria  Souza "))
	assert.Equal(t, "", FirstName(" "))
}
