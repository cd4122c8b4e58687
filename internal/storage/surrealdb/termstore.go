package surrealdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// TermStore implements interfaces.TermsStore on SurrealDB.
type TermStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTermStore(db *surrealdb.DB, logger *common.Logger) *TermStore {
	return &TermStore{
		db:     db,
		logger: logger,
	}
}

// Term record ID format: term:<name>_<revision>
func termRecordID(name string, revision int) string {
	return fmt.Sprintf("%s_%d", name, revision)
}

func (s *TermStore) GetTerm(ctx context.Context, name string, revision int) (*models.Term, error) {
	term, err := surrealdb.Select[models.Term](ctx, s.db, surrealmodels.NewRecordID("term", termRecordID(name, revision)))
	if err != nil {
		return nil, fmt.Errorf("failed to select term: %w", err)
	}
	if term == nil || term.Name == "" {
		return nil, nil
	}
	return term, nil
}

func (s *TermStore) GetLatestTerm(ctx context.Context, name string) (*models.Term, error) {
	revisions, err := s.GetRevisions(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, nil
	}
	return revisions[len(revisions)-1], nil
}

func (s *TermStore) GetRevisions(ctx context.Context, name string) ([]*models.Term, error) {
	sql := "SELECT * FROM term WHERE name = $name"
	vars := map[string]any{"name": name}

	results, err := surrealdb.Query[[]models.Term](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions of '%s': %w", name, err)
	}

	var mapped []*models.Term
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	sort.Slice(mapped, func(i, j int) bool {
		return mapped[i].Revision < mapped[j].Revision
	})
	return mapped, nil
}

func (s *TermStore) ListLatest(ctx context.Context) ([]*models.Term, error) {
	list, err := surrealdb.Select[[]models.Term](ctx, s.db, surrealmodels.Table("term"))
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}

	latest := make(map[string]*models.Term)
	if list != nil {
		for i := range *list {
			term := (*list)[i]
			if current, ok := latest[term.Name]; !ok || term.Revision > current.Revision {
				latest[term.Name] = &term
			}
		}
	}

	result := make([]*models.Term, 0, len(latest))
	for _, term := range latest {
		result = append(result, term)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *TermStore) SaveTerm(ctx context.Context, term *models.Term) error {
	if term.Name == "" {
		return fmt.Errorf("term name is required")
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now().UTC()
	}

	sql := "UPSERT type::record('term', $id) CONTENT $term"
	vars := map[string]any{"id": termRecordID(term.Name, term.Revision), "term": term}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Term](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save term after retries: %w", err)
		}
	}
	return nil
}
