package models

import (
	"fmt"
	"regexp"
	"time"
)

// Term is a single revision of a terms-of-service document.
// A Term only exists as the result of a successful lookup or publish;
// "no such terms" is represented by a nil pointer, never a zero Term.
type Term struct {
	Name      string    `json:"name"`
	Owner     string    `json:"owner,omitempty"`
	Title     string    `json:"title"`
	Revision  int       `json:"revision"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TermID returns the canonical "name/revision" identifier for a term.
func (t *Term) TermID() string {
	return fmt.Sprintf("%s/%d", t.Name, t.Revision)
}

// termNamePattern matches lowercase alphanumeric names with interior hyphens,
// the same shape enforced for document names on publish.
var termNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateTermName checks that a document name is acceptable for publishing.
// Returns an empty string when valid, otherwise a human-readable reason.
func ValidateTermName(name string) string {
	if name == "" {
		return "term name is required"
	}
	if len(name) > 128 {
		return "term name must be 128 characters or fewer"
	}
	if !termNamePattern.MatchString(name) {
		return "term name must be lowercase alphanumeric with interior hyphens"
	}
	return ""
}
