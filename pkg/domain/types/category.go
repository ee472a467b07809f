package types

import (
	"fmt"
	"strings"
)

// Category identifies one controlled vocabulary governed by the master registry
type Category string

const (
	CategoryArea     Category = "Area"
	CategoryType     Category = "Type"
	CategoryState    Category = "State"
	CategoryPriority Category = "Priority"
	CategoryOrigin   Category = "Origin"
)

// AllCategories returns all governed categories
func AllCategories() []Category {
	return []Category{
		CategoryArea,
		CategoryType,
		CategoryState,
		CategoryPriority,
		CategoryOrigin,
	}
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryArea,
		CategoryType,
		CategoryState,
		CategoryPriority,
		CategoryOrigin:
		return true
	default:
		return false
	}
}

// IsSystemLocked reports whether values seeded into this category are locked.
// The workflow-state category mirrors the remote system's protocol and its
// values must never drift locally.
func (c Category) IsSystemLocked() bool {
	return c == CategoryState
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category, case-insensitively
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid master category: %s", s)
}
