// Package termsdb implements the terms, agreement, and user stores
// using BadgerHold in a single embedded database.
package termsdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// Store implements interfaces.TermsStore, interfaces.AgreementStore,
// and interfaces.UserStore on one BadgerHold database.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// systemUserID is the sentinel UserID for system-level key-value pairs.
// Uses a prefix that cannot be a valid user ID to prevent namespace collision.
const systemUserID = "__system__"

// keySep is the composite key separator. A null byte cannot appear in
// user IDs or term names, so composite keys never collide.
const keySep = "\x00"

// termKey builds the composite key for a term revision. The revision is
// zero padded so lexical key order matches numeric revision order.
func termKey(name string, revision int) string {
	return name + keySep + fmt.Sprintf("%010d", revision)
}

// agreementKey builds the composite key for an agreement record.
func agreementKey(userID, term string, revision int) string {
	return userID + keySep + term + keySep + fmt.Sprintf("%010d", revision)
}

// NewStore creates a store backed by BadgerHold at the given path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create terms db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open terms db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("TermsDB opened")
	return &Store{db: db, logger: logger}, nil
}

// --- Terms ---

func (s *Store) GetTerm(_ context.Context, name string, revision int) (*models.Term, error) {
	var term models.Term
	if err := s.db.Get(termKey(name, revision), &term); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get term '%s' revision %d: %w", name, revision, err)
	}
	return &term, nil
}

func (s *Store) GetLatestTerm(ctx context.Context, name string) (*models.Term, error) {
	revisions, err := s.GetRevisions(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, nil
	}
	return revisions[len(revisions)-1], nil
}

func (s *Store) GetRevisions(_ context.Context, name string) ([]*models.Term, error) {
	var all []models.Term
	if err := s.db.Find(&all, badgerhold.Where("Name").Eq(name)); err != nil {
		return nil, fmt.Errorf("failed to list revisions of '%s': %w", name, err)
	}
	result := make([]*models.Term, len(all))
	for i := range all {
		term := all[i]
		result[i] = &term
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Revision < result[j].Revision
	})
	return result, nil
}

func (s *Store) ListLatest(_ context.Context) ([]*models.Term, error) {
	var all []models.Term
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}

	latest := make(map[string]models.Term)
	for _, term := range all {
		if current, ok := latest[term.Name]; !ok || term.Revision > current.Revision {
			latest[term.Name] = term
		}
	}

	result := make([]*models.Term, 0, len(latest))
	for name := range latest {
		term := latest[name]
		result = append(result, &term)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *Store) SaveTerm(_ context.Context, term *models.Term) error {
	if term.Name == "" {
		return fmt.Errorf("term name is required")
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now().UTC()
	}
	if err := s.db.Upsert(termKey(term.Name, term.Revision), term); err != nil {
		return fmt.Errorf("failed to save term '%s' revision %d: %w", term.Name, term.Revision, err)
	}
	s.logger.Debug().Str("name", term.Name).Int("revision", term.Revision).Msg("Term saved")
	return nil
}

// --- Agreements ---

func (s *Store) GetAgreement(_ context.Context, userID, term string, revision int) (*models.Agreement, error) {
	var agreement models.Agreement
	if err := s.db.Get(agreementKey(userID, term, revision), &agreement); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agreement '%s/%s/%d': %w", userID, term, revision, err)
	}
	return &agreement, nil
}

func (s *Store) SaveAgreement(_ context.Context, agreement *models.Agreement) error {
	if agreement.User == "" || agreement.Term == "" {
		return fmt.Errorf("agreement user and term are required")
	}
	if agreement.ID == "" {
		agreement.ID = agreement.AgreementID()
	}
	if agreement.CreatedAt.IsZero() {
		agreement.CreatedAt = time.Now().UTC()
	}
	key := agreementKey(agreement.User, agreement.Term, agreement.Revision)
	if err := s.db.Upsert(key, agreement); err != nil {
		return fmt.Errorf("failed to save agreement '%s': %w", agreement.ID, err)
	}
	s.logger.Debug().Str("agreement_id", agreement.ID).Msg("Agreement saved")
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]*models.Agreement, error) {
	var all []models.Agreement
	if err := s.db.Find(&all, badgerhold.Where("User").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list agreements for user '%s': %w", userID, err)
	}
	result := make([]*models.Agreement, len(all))
	for i := range all {
		agreement := all[i]
		result[i] = &agreement
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) ListByUserAndTerms(ctx context.Context, userID string, terms []string) ([]*models.Agreement, error) {
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

// --- User accounts ---

func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Get(userID, &user); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	var users []models.User
	if err := s.db.Find(&users, badgerhold.Where("Email").Eq(email)); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *Store) SaveUser(_ context.Context, user *models.User) error {
	if user.UserID == systemUserID {
		return fmt.Errorf("user ID '%s' is reserved for system use", systemUserID)
	}
	now := time.Now()
	var existing models.User
	if err := s.db.Get(user.UserID, &existing); err == nil {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.ModifiedAt = now

	if err := s.db.Upsert(user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user '%s': %w", user.UserID, err)
	}
	s.logger.Debug().Str("user_id", user.UserID).Msg("User saved")
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	if err := s.db.Delete(userID, models.User{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	s.logger.Debug().Str("user_id", userID).Msg("User deleted")
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	var users []models.User
	if err := s.db.Find(&users, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.UserID
	}
	sort.Strings(ids)
	return ids, nil
}

// --- System key-value ---

func (s *Store) GetSystemKV(_ context.Context, key string) (string, error) {
	var kv models.SystemKeyValue
	if err := s.db.Get(systemUserID+keySep+key, &kv); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get system kv '%s': %w", key, err)
	}
	return kv.Value, nil
}

func (s *Store) SetSystemKV(_ context.Context, key, value string) error {
	compositeKey := systemUserID + keySep + key

	var existing models.SystemKeyValue
	version := 1
	if err := s.db.Get(compositeKey, &existing); err == nil {
		version = existing.Version + 1
	}

	kv := &models.SystemKeyValue{
		Key:      key,
		Value:    value,
		Version:  version,
		DateTime: time.Now(),
	}
	if err := s.db.Upsert(compositeKey, kv); err != nil {
		return fmt.Errorf("failed to set system kv '%s': %w", key, err)
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
