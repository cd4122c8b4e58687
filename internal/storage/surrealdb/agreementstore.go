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

// AgreementStore implements interfaces.AgreementStore on SurrealDB.
type AgreementStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAgreementStore(db *surrealdb.DB, logger *common.Logger) *AgreementStore {
	return &AgreementStore{
		db:     db,
		logger: logger,
	}
}

// Agreement record ID format: agreement:<user>_<term>_<revision>
func agreementRecordID(userID, term string, revision int) string {
	return fmt.Sprintf("%s_%s_%d", userID, term, revision)
}

func (s *AgreementStore) GetAgreement(ctx context.Context, userID, term string, revision int) (*models.Agreement, error) {
	agreement, err := surrealdb.Select[models.Agreement](ctx, s.db, surrealmodels.NewRecordID("agreement", agreementRecordID(userID, term, revision)))
	if err != nil {
		return nil, fmt.Errorf("failed to select agreement: %w", err)
	}
	if agreement == nil || agreement.User == "" {
		return nil, nil
	}
	return agreement, nil
}

func (s *AgreementStore) SaveAgreement(ctx context.Context, agreement *models.Agreement) error {
	if agreement.User == "" || agreement.Term == "" {
		return fmt.Errorf("agreement user and term are required")
	}
	if agreement.ID == "" {
		agreement.ID = agreement.AgreementID()
	}
	if agreement.CreatedAt.IsZero() {
		agreement.CreatedAt = time.Now().UTC()
	}

	sql := "UPSERT type::record('agreement', $id) CONTENT $agreement"
	vars := map[string]any{
		"id":        agreementRecordID(agreement.User, agreement.Term, agreement.Revision),
		"agreement": agreement,
	}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Agreement](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save agreement after retries: %w", err)
		}
	}
	return nil
}

func (s *AgreementStore) ListByUser(ctx context.Context, userID string) ([]*models.Agreement, error) {
	sql := "SELECT * FROM agreement WHERE user = $user"
	vars := map[string]any{"user": userID}

	results, err := surrealdb.Query[[]models.Agreement](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements for user '%s': %w", userID, err)
	}

	var mapped []*models.Agreement
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	sort.Slice(mapped, func(i, j int) bool {
		return mapped[i].CreatedAt.After(mapped[j].CreatedAt)
	})
	return mapped, nil
}

func (s *AgreementStore) ListByUserAndTerms(ctx context.Context, userID string, terms []string) ([]*models.Agreement, error) {
	all, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(terms))
	for _, term := range terms {
		wanted[term] = true
	}
	var result []*models.Agreement
	for _, agreement := range all {
		if wanted[agreement.Term] {
			result = append(result, agreement)
		}
	}
	return result, nil
}
