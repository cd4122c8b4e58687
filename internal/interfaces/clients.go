// Package interfaces defines service contracts for the terms service
package interfaces

import (
	"context"

	"github.com/bobmcallan/terms/internal/models"
)

// Transport sends authenticated HTTP requests and returns raw response
// bodies. Implementations own auth, rate limiting, and failure
// classification; callers own URL construction and payload decoding.
type Transport interface {
	// SendGetRequest performs a GET and returns the response body.
	SendGetRequest(ctx context.Context, url string) ([]byte, error)

	// SendPostRequest performs a POST with a JSON body and returns the
	// response body.
	SendPostRequest(ctx context.Context, url string, body []byte) ([]byte, error)
}

// TermsClient provides access to the terms service API
type TermsClient interface {
	// ShowTerms retrieves a terms document. Without WithRevision the most
	// recent revision is returned. A nil result with nil error means the
	// named terms do not exist.
	ShowTerms(ctx context.Context, name string, opts ...TermsOption) (*models.Term, error)

	// GetAgreements retrieves all agreements for the authenticated user
	GetAgreements(ctx context.Context) ([]*models.Agreement, error)

	// GetAgreementsByTerms retrieves the user's agreements for the named documents
	GetAgreementsByTerms(ctx context.Context, names []string) ([]*models.Agreement, error)

	// SaveAgreement records agreement to a specific revision
	SaveAgreement(ctx context.Context, name string, revision int) (*models.Agreement, error)

	// PublishTerm publishes content as the next revision of a document
	PublishTerm(ctx context.Context, name, title, content string) (*models.Term, error)
}

// TermsOption configures terms lookups
type TermsOption func(*TermsParams)

// TermsParams holds terms lookup parameters. HasRevision distinguishes
// an explicit revision 0 from "no revision requested".
type TermsParams struct {
	Revision    int
	HasRevision bool
}

// WithRevision requests a specific revision. Revision 0 is a valid
// explicit revision, distinct from omitting the option.
func WithRevision(revision int) TermsOption {
	return func(p *TermsParams) {
		p.Revision = revision
		p.HasRevision = true
	}
}
