package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/services/agreement"
	termsvc "github.com/bobmcallan/terms/internal/services/terms"
	"github.com/bobmcallan/terms/internal/storage"
)

const schemaVersionKey = "terms_schema_version"

// App holds the initialized config, storage, and services. It is the
// shared core used by cmd/terms-server and the test harnesses.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	TermsService     interfaces.TermsService
	AgreementService interfaces.AgreementService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, TERMS_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("TERMS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "terms.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/terms.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	checkSchemaVersion(ctx, storageManager, logger)

	termsService := termsvc.NewService(storageManager, logger)
	agreementService := agreement.NewService(storageManager, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		TermsService:     termsService,
		AgreementService: agreementService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// checkSchemaVersion records the storage schema version on first run and
// warns on mismatch. Terms and agreements are source records, never
// derived, so a mismatch is surfaced rather than auto-migrated.
// Returns true when the stored version was updated.
func checkSchemaVersion(ctx context.Context, sm interfaces.StorageManager, logger *common.Logger) bool {
	users := sm.UserStore()

	stored, err := users.GetSystemKV(ctx, schemaVersionKey)
	if err == nil && stored == common.SchemaVersion {
		logger.Debug().
			Str("version", common.SchemaVersion).
			Msg("Schema version matches")
		return false
	}

	if err != nil || stored == "" {
		logger.Info().
			Str("current", common.SchemaVersion).
			Msg("Schema version not found - initializing (first run or pre-versioning)")
	} else {
		logger.Warn().
			Str("stored", stored).
			Str("current", common.SchemaVersion).
			Msg("Schema version mismatch - records were written by a different build")
	}

	if err := users.SetSystemKV(ctx, schemaVersionKey, common.SchemaVersion); err != nil {
		logger.Error().Err(err).Msg("Failed to store schema version")
		return false
	}

	return true
}
