package interfaces

import (
	"context"

	"github.com/bobmcallan/terms/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	TermsStore() TermsStore
	AgreementStore() AgreementStore
	UserStore() UserStore

	// Lifecycle
	Close() error
}

// TermsStore persists terms documents keyed by name and revision.
type TermsStore interface {
	// GetTerm retrieves a specific revision. Returns nil, nil when absent.
	GetTerm(ctx context.Context, name string, revision int) (*models.Term, error)

	// GetLatestTerm retrieves the highest revision of a document.
	// Returns nil, nil when the document does not exist.
	GetLatestTerm(ctx context.Context, name string) (*models.Term, error)

	// GetRevisions returns all revisions of a document, oldest first.
	GetRevisions(ctx context.Context, name string) ([]*models.Term, error)

	// ListLatest returns the latest revision of every document.
	ListLatest(ctx context.Context) ([]*models.Term, error)

	// SaveTerm persists a term at its name and revision.
	SaveTerm(ctx context.Context, term *models.Term) error
}

// AgreementStore persists user agreements keyed by user, term, and revision.
type AgreementStore interface {
	// GetAgreement retrieves one agreement. Returns nil, nil when absent.
	GetAgreement(ctx context.Context, userID, term string, revision int) (*models.Agreement, error)

	// SaveAgreement persists an agreement record.
	SaveAgreement(ctx context.Context, agreement *models.Agreement) error

	// ListByUser returns all agreements for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Agreement, error)

	// ListByUserAndTerms returns the user's agreements for the named documents.
	ListByUserAndTerms(ctx context.Context, userID string, terms []string) ([]*models.Agreement, error)
}

// UserStore manages user accounts and system-level KV.
type UserStore interface {
	// User accounts
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	// System key-value (non-user-scoped)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error
}
