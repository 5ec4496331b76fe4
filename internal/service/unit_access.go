package service

import (
	"strings"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// ParseUnitTokens splits a user's unit permission string on commas into normalized tokens.
func ParseUnitTokens(userUnits string) []string {
	parts := strings.Split(userUnits, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := textnorm.Normalize(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// HasAccess reports whether recordUnit is visible to a user holding userUnits.
//
// The match is a bidirectional substring test on normalized names so that
// "Dom Pedrinho" and "Escola Dom Pedrinho" are the same unit. Distinct units
// whose names contain one another therefore also match; that is accepted.
// A record without a unit is contained in every token and is visible to all.
func HasAccess(userUnits, recordUnit string) bool {
	return matchUnitTokens(ParseUnitTokens(userUnits), recordUnit)
}

func matchUnitTokens(tokens []string, recordUnit string) bool {
	unit := textnorm.Normalize(recordUnit)
	for _, token := range tokens {
		if token == models.AllUnits {
			return true
		}
	}
	for _, token := range tokens {
		if strings.Contains(unit, token) || strings.Contains(token, unit) {
			return true
		}
	}
	return false
}

// unitScope is a parsed permission string, reusable across a listing.
type unitScope struct {
	tokens []string
}

func newUnitScope(userUnits string) unitScope {
	return unitScope{tokens: ParseUnitTokens(userUnits)}
}

func (s unitScope) allows(recordUnit string) bool {
	return matchUnitTokens(s.tokens, recordUnit)
}

// allowsWithin additionally requires the record to match an explicitly requested unit.
func (s unitScope) allowsWithin(recordUnit, requested string) bool {
	if !s.allows(recordUnit) {
		return false
	}
	if strings.TrimSpace(requested) == "" {
		return true
	}
	return matchUnitTokens([]string{textnorm.Normalize(requested)}, recordUnit)
}

// filterByUnit keeps the items whose unit is visible in scope.
func filterByUnit[T any](items []T, scope unitScope, requested string, unitOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if scope.allowsWithin(unitOf(item), requested) {
			out = append(out, item)
		}
	}
	return out
}
