package service

import (
	"sort"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

type classDirectory interface {
	Classes() []models.Class
}

// ClassService lists classes.
type ClassService struct {
	state classDirectory
}

// NewClassService constructs the class service.
func NewClassService(state classDirectory) *ClassService {
	return &ClassService{state: state}
}

// List returns visible classes ordered by unit and name.
func (s *ClassService) List(claims *models.JWTClaims, filter models.ClassFilter) []models.Class {
	scope := newUnitScope(claims.Units)
	search := textnorm.Normalize(filter.Search)

	classes := filterByUnit(s.state.Classes(), scope, filter.Unit, func(c models.Class) string { return c.Unit })
	out := classes[:0]
	for _, c := range classes {
		if search != "" && !textnorm.Contains(c.Name, search) && !textnorm.Contains(c.Teacher, search) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Unit != out[j].Unit {
			return out[i].Unit < out[j].Unit
		}
		return out[i].Name < out[j].Name
	})
	return out
}
