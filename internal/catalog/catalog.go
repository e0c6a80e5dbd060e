// Package catalog holds the static specialization catalog: canonical trade
// categories and their common aliases. It is configuration, not scoring
// logic; the engine's match rule works on raw labels and is unaffected by
// entries here.
package catalog

import "strings"

type Category struct {
	Slug    string   `json:"slug"`
	Label   string   `json:"label"`
	Aliases []string `json:"aliases,omitempty"`
}

var categories = []Category{
	{Slug: "plumbing", Label: "Plumbing", Aliases: []string{"plumber", "pipefitting"}},
	{Slug: "electrical", Label: "Electrical", Aliases: []string{"electrician", "wiring"}},
	{Slug: "hvac", Label: "HVAC", Aliases: []string{"heating", "cooling", "air conditioning", "ventilation"}},
	{Slug: "roofing", Label: "Roofing", Aliases: []string{"roofer"}},
	{Slug: "painting", Label: "Painting", Aliases: []string{"painter", "decorating"}},
	{Slug: "carpentry", Label: "Carpentry", Aliases: []string{"carpenter", "joinery"}},
	{Slug: "landscaping", Label: "Landscaping", Aliases: []string{"gardening", "grounds"}},
	{Slug: "cleaning", Label: "Cleaning", Aliases: []string{"janitorial", "housekeeping"}},
	{Slug: "pest-control", Label: "Pest Control", Aliases: []string{"exterminator", "fumigation"}},
	{Slug: "general", Label: "General Maintenance", Aliases: []string{"handyman", "general contractor"}},
}

// All returns the catalog in declaration order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Normalize maps a free-form label to its canonical slug when a catalog entry
// or alias matches; unknown labels pass through lowercased so the engine's
// substring rule still has something to work with.
func Normalize(label string) string {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return ""
	}
	for _, c := range categories {
		if needle == c.Slug || needle == strings.ToLower(c.Label) {
			return c.Slug
		}
		for _, a := range c.Aliases {
			if needle == strings.ToLower(a) {
				return c.Slug
			}
		}
	}
	return needle
}

// Known reports whether a label resolves to a catalog entry.
func Known(label string) bool {
	slug := Normalize(label)
	for _, c := range categories {
		if slug == c.Slug {
			return true
		}
	}
	return false
}
