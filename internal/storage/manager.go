// Package storage provides the top-level StorageManager with pluggable
// engines: embedded BadgerHold (default) or SurrealDB.
package storage

import (
	"fmt"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/storage/termsdb"
)

// Manager implements interfaces.StorageManager on the embedded
// BadgerHold engine. One database holds terms, agreements, and users.
type Manager struct {
	store  *termsdb.Store
	logger *common.Logger
}

// NewManager creates a BadgerHold-backed StorageManager.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := termsdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create terms store: %w", err)
	}

	logger.Info().
		Str("path", config.Storage.Path).
		Msg("Storage manager initialized (badger)")

	return &Manager{
		store:  store,
		logger: logger,
	}, nil
}

func (m *Manager) TermsStore() interfaces.TermsStore {
	return m.store
}

func (m *Manager) AgreementStore() interfaces.AgreementStore {
	return m.store
}

func (m *Manager) UserStore() interfaces.UserStore {
	return m.store
}

func (m *Manager) Close() error {
	return m.store.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
