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

// UserStore implements interfaces.UserStore on SurrealDB.
type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// systemUserID is the reserved UserID guarding the system KV namespace.
const systemUserID = "__system__"

func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: logger,
	}
}

func (s *UserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, surrealmodels.NewRecordID("user", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	if user == nil || user.UserID == "" {
		return nil, nil
	}
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := "SELECT * FROM user WHERE email = $email"
	vars := map[string]any{"email": email}

	results, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *UserStore) SaveUser(ctx context.Context, user *models.User) error {
	if user.UserID == systemUserID {
		return fmt.Errorf("user ID '%s' is reserved for system use", systemUserID)
	}

	now := time.Now()
	if existing, err := s.GetUser(ctx, user.UserID); err == nil && existing != nil {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.ModifiedAt = now

	sql := "UPSERT type::record('user', $id) CONTENT $user"
	vars := map[string]any{"id": user.UserID, "user": user}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save user after retries: %w", err)
		}
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[models.User](ctx, s.db, surrealmodels.NewRecordID("user", userID))
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]string, error) {
	list, err := surrealdb.Select[[]models.User](ctx, s.db, surrealmodels.Table("user"))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var userIDs []string
	if list != nil {
		for _, u := range *list {
			if u.UserID != "" {
				userIDs = append(userIDs, u.UserID)
			}
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

func (s *UserStore) GetSystemKV(ctx context.Context, key string) (string, error) {
	kv, err := surrealdb.Select[models.SystemKeyValue](ctx, s.db, surrealmodels.NewRecordID("system_kv", key))
	if err != nil {
		return "", fmt.Errorf("failed to select system KV: %w", err)
	}
	if kv == nil || kv.Key == "" {
		return "", nil
	}
	return kv.Value, nil
}

func (s *UserStore) SetSystemKV(ctx context.Context, key, value string) error {
	version := 1
	if existing, err := surrealdb.Select[models.SystemKeyValue](ctx, s.db, surrealmodels.NewRecordID("system_kv", key)); err == nil && existing != nil && existing.Key != "" {
		version = existing.Version + 1
	}

	kv := models.SystemKeyValue{
		Key:      key,
		Value:    value,
		Version:  version,
		DateTime: time.Now(),
	}

	sql := "UPSERT type::record('system_kv', $id) CONTENT $kv"
	vars := map[string]any{"id": key, "kv": kv}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.SystemKeyValue](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to set system KV after retries: %w", err)
		}
	}
	return nil
}
