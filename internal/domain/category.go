// Package domain defines the core domain models for the helpdesk orchestrator.
package domain

import "strings"

// Category is one of the three fixed domains a query can be routed to.
type Category string

const (
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategoryPolicy    Category = "policy"
)

// Categories lists all valid categories in declaration order.
var Categories = []Category{CategoryBilling, CategoryTechnical, CategoryPolicy}

// ParseCategory normalizes a raw classifier label and reports whether it names
// a valid category. Callers decide the fallback for invalid labels.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CategoryBilling, CategoryTechnical, CategoryPolicy:
		return c, true
	}
	return "", false
}

// Valid reports whether the category is one of the three known domains.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}
