// Package agreement provides user agreement recording services
package agreement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/models"
)

// Compile-time interface check
var _ interfaces.AgreementService = (*Service)(nil)

// ErrTermNotFound reports that the named revision has never been
// published, so there is nothing to agree to.
var ErrTermNotFound = errors.New("term revision not found")

// Service implements AgreementService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new agreement service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Record stores the user's agreement to a revision. The revision must
// exist. Recording the same agreement twice returns the original record.
func (s *Service) Record(ctx context.Context, userID, name string, revision int) (*models.Agreement, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required")
	}
	if name == "" {
		return nil, fmt.Errorf("term name is required")
	}

	term, err := s.storage.TermsStore().GetTerm(ctx, name, revision)
	if err != nil {
		return nil, fmt.Errorf("failed to look up term: %w", err)
	}
	if term == nil {
		return nil, fmt.Errorf("%w: %s/%d", ErrTermNotFound, name, revision)
	}

	// Idempotent: re-agreeing returns the original record
	existing, err := s.storage.AgreementStore().GetAgreement(ctx, userID, name, revision)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing agreement: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	agreement := &models.Agreement{
		ID:        uuid.New().String(),
		User:      userID,
		Term:      name,
		Revision:  revision,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.AgreementStore().SaveAgreement(ctx, agreement); err != nil {
		return nil, fmt.Errorf("failed to save agreement: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("term", name).Int("revision", revision).Msg("Agreement recorded")
	return agreement, nil
}

// List returns all agreements recorded for the user, newest first
func (s *Service) List(ctx context.Context, userID string) ([]*models.Agreement, error) {
	agreements, err := s.storage.AgreementStore().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	return agreements, nil
}

// ListByTerms returns the user's agreements for the named documents
func (s *Service) ListByTerms(ctx context.Context, userID string, names []string) ([]*models.Agreement, error) {
	agreements, err := s.storage.AgreementStore().ListByUserAndTerms(ctx, userID, names)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements by terms: %w", err)
	}
	return agreements, nil
}
