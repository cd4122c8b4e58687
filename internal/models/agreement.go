package models

import (
	"fmt"
	"time"
)

// Agreement records a user's acceptance of a specific revision of a
// terms document. Re-agreeing to the same revision is idempotent: the
// original record is returned unchanged.
type Agreement struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Term      string    `json:"term"`
	Revision  int       `json:"revision"`
	CreatedAt time.Time `json:"created_at"`
}

// AgreementID returns the canonical "user/term/revision" identifier.
func (a *Agreement) AgreementID() string {
	return fmt.Sprintf("%s/%s/%d", a.User, a.Term, a.Revision)
}
