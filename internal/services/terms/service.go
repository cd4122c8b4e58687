// Package terms provides terms document management services
package terms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/models"
)

// Compile-time interface check
var _ interfaces.TermsService = (*Service)(nil)

// Service implements TermsService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger

	// publishMu serializes revision allocation so concurrent publishes
	// of the same document cannot claim the same revision number.
	publishMu sync.Mutex
}

// NewService creates a new terms service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Lookup fetches a terms document. Without WithRevision the latest
// revision is returned. Unknown names return nil, nil.
func (s *Service) Lookup(ctx context.Context, name string, opts ...interfaces.TermsOption) (*models.Term, error) {
	params := &interfaces.TermsParams{}
	for _, opt := range opts {
		opt(params)
	}

	if params.HasRevision {
		term, err := s.storage.TermsStore().GetTerm(ctx, name, params.Revision)
		if err != nil {
			return nil, fmt.Errorf("failed to get term: %w", err)
		}
		return term, nil
	}

	term, err := s.storage.TermsStore().GetLatestTerm(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest term: %w", err)
	}
	return term, nil
}

// List returns the latest revision of every published document
func (s *Service) List(ctx context.Context) ([]*models.Term, error) {
	terms, err := s.storage.TermsStore().ListLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	return terms, nil
}

// Revisions returns every revision of a document, oldest first
func (s *Service) Revisions(ctx context.Context, name string) ([]*models.Term, error) {
	revisions, err := s.storage.TermsStore().GetRevisions(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get revisions: %w", err)
	}
	return revisions, nil
}

// Publish stores content as the next revision of the named document.
// The first revision of a new document is 1.
func (s *Service) Publish(ctx context.Context, owner, name, title, content string) (*models.Term, error) {
	if reason := models.ValidateTermName(name); reason != "" {
		return nil, fmt.Errorf("invalid term name %q: %s", name, reason)
	}
	if content == "" {
		return nil, fmt.Errorf("term content is required")
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	latest, err := s.storage.TermsStore().GetLatestTerm(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up latest revision: %w", err)
	}

	revision := 1
	if latest != nil {
		revision = latest.Revision + 1
	}

	term := &models.Term{
		Name:      name,
		Owner:     owner,
		Title:     title,
		Revision:  revision,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.TermsStore().SaveTerm(ctx, term); err != nil {
		return nil, fmt.Errorf("failed to save term: %w", err)
	}

	s.logger.Info().Str("name", name).Int("revision", revision).Str("owner", owner).Msg("Term published")
	return term, nil
}
