package interfaces

import (
	"context"

	"github.com/bobmcallan/terms/internal/models"
)

// TermsService manages terms documents and their revisions
type TermsService interface {
	// Lookup fetches a terms document. Without WithRevision the latest
	// revision is returned. Unknown names return nil, nil.
	Lookup(ctx context.Context, name string, opts ...TermsOption) (*models.Term, error)

	// List returns the latest revision of every published document
	List(ctx context.Context) ([]*models.Term, error)

	// Revisions returns every revision of a document, oldest first
	Revisions(ctx context.Context, name string) ([]*models.Term, error)

	// Publish stores content as the next revision of the named document
	// and returns the stored term. The first revision of a new document
	// is revision 1.
	Publish(ctx context.Context, owner, name, title, content string) (*models.Term, error)
}

// AgreementService records and reports user agreements
type AgreementService interface {
	// Record stores the user's agreement to a revision. Recording the
	// same agreement twice returns the existing record.
	Record(ctx context.Context, userID, name string, revision int) (*models.Agreement, error)

	// List returns all agreements recorded for the user
	List(ctx context.Context, userID string) ([]*models.Agreement, error)

	// ListByTerms returns the user's agreements for the named documents
	ListByTerms(ctx context.Context, userID string, names []string) ([]*models.Agreement, error)
}
