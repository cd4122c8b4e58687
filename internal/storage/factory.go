package storage

import (
	"fmt"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/storage/surrealdb"
)

// Engine type constants.
const (
	EngineBadger  = "badger"
	EngineSurreal = "surrealdb"
)

// NewStorageManager creates a storage manager for the configured engine.
// Supported engines: "badger" (default, embedded), "surrealdb".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	engine := config.Storage.Engine
	if engine == "" {
		engine = EngineBadger
	}

	switch engine {
	case EngineBadger:
		return NewManager(logger, config)

	case EngineSurreal:
		return surrealdb.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage engine: %s (supported: badger, surrealdb)", engine)
	}
}
