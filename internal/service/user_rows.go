package service

import (
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// parseUsers reads the usuarios sheet. Rows without a login are skipped.
func parseUsers(rows []models.Row) []models.User {
	users := make([]models.User, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		f := newRowFields(row)
		login := f.text(fieldLogin)
		if login == "" {
			continue
		}
		key := textnorm.Normalize(login)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		units := f.text(fieldUserUnits)
		users = append(users, models.User{
			Login:    login,
			Password: f.text(fieldPassword),
			Name:     f.text(fieldUserName),
			Units:    units,
			Role:     parseRole(f.text(fieldRole), units),
		})
	}
	return users
}

func parseRole(raw, units string) models.UserRole {
	switch textnorm.Normalize(raw) {
	case "admin", "administrador", "administradora", "gestor", "gestora", "diretoria":
		return models.RoleAdmin
	case "":
		for _, token := range ParseUnitTokens(units) {
			if token == models.AllUnits {
				return models.RoleAdmin
			}
		}
	}
	return models.RoleStaff
}
