// models/category.go
package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category scopes; the admin surface keeps a separate label pool per role.
const (
	CategoryScopeAgent     = "agent"
	CategoryScopeCandidate = "candidate"
)

// ErrDuplicateCategory is returned when adding a name that already exists in
// the scope's set (case-sensitive, compared after trimming).
var ErrDuplicateCategory = errors.New("category already exists in scope")

// CategorySet is the pool of labels available for tagging accounts of one
// scope. Persisted as a single document per scope.
type CategorySet struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Scope     string             `json:"scope" bson:"scope"`
	Names     []string           `json:"names" bson:"names"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ValidCategoryScope reports whether scope is a known tagging scope.
func ValidCategoryScope(scope string) bool {
	return scope == CategoryScopeAgent || scope == CategoryScopeCandidate
}

// Add appends a trimmed name to the set. Empty names are rejected and
// duplicates fail with ErrDuplicateCategory.
func (cs *CategorySet) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("category name is required")
	}
	for _, existing := range cs.Names {
		if existing == name {
			return ErrDuplicateCategory
		}
	}
	cs.Names = append(cs.Names, name)
	return nil
}

// NormalizeCategories trims the given names and drops empties and
// duplicates, preserving first-seen order. Used when replacing an account's
// category set wholesale; no check against the scope's available set is made,
// stale tags are tolerated.
func NormalizeCategories(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// MatchesAnyCategory implements the any-of filter semantics: an account
// matches when its set intersects the requested set non-emptily. An empty
// filter matches everything.
func MatchesAnyCategory(accountCategories, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	have := make(map[string]bool, len(accountCategories))
	for _, c := range accountCategories {
		have[c] = true
	}
	for _, want := range filter {
		if have[want] {
			return true
		}
	}
	return false
}
