package service

import (
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// ResolveClass finds the class an enrollment refers to. Enrollments carry a
// course slug rather than a Class.ID, so the match is by name containment
// (either direction) within the same unit. A nil result is not an error.
func ResolveClass(enrollment models.Enrollment, classes []models.Class) *models.Class {
	course := textnorm.Normalize(enrollment.Course)
	for i := range classes {
		if classes[i].ID == enrollment.ClassID {
			return &classes[i]
		}
	}
	if course == "" {
		return nil
	}
	for i := range classes {
		c := &classes[i]
		if !matchUnitTokens([]string{textnorm.Normalize(c.Unit)}, enrollment.Unit) {
			continue
		}
		name := textnorm.Normalize(c.Name)
		if name == "" {
			continue
		}
		if textnorm.Contains(name, course) || textnorm.Contains(course, name) {
			return c
		}
	}
	return nil
}
