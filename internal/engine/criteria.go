package engine

import (
	"fmt"
	"strings"
	"time"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// Criteria is the per-call request: what kind of work, how time-sensitive,
// and optional budget/deadline hints.
type Criteria struct {
	Category      string     `json:"category"`
	Urgency       Urgency    `json:"urgency"`
	BudgetCeiling *float64   `json:"budget_ceiling,omitempty"`
	RequiredBy    *time.Time `json:"required_by,omitempty"`
}

// Validate fails fast on caller contract violations; this is checked before
// any candidate processing begins.
func (c Criteria) Validate() error {
	if !c.Urgency.Valid() {
		return fmt.Errorf("invalid urgency %q: must be one of low, medium, high, urgent", c.Urgency)
	}
	if c.BudgetCeiling != nil && *c.BudgetCeiling < 0 {
		return fmt.Errorf("budget ceiling must be non-negative, got %f", *c.BudgetCeiling)
	}
	return nil
}

// categoryMatches implements the shared match rule: case-insensitive
// substring containment in either direction. An empty requested category
// matches every provider.
func categoryMatches(providerCategory, requested string) bool {
	p := strings.ToLower(strings.TrimSpace(providerCategory))
	r := strings.ToLower(strings.TrimSpace(requested))
	return strings.Contains(p, r) || strings.Contains(r, p)
}
