package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/terms/internal/app"
	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/server"
)

func main() {
	configPath := os.Getenv("TERMS_CONFIG")

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	if a.Config.IsProduction() {
		if missing := a.Config.ValidateRequired(); len(missing) > 0 {
			a.Logger.Fatal().
				Str("missing", strings.Join(missing, ", ")).
				Msg("Refusing to start in production with incomplete config")
		}
	}

	common.PrintBanner(a.Config, a.Logger)

	// Seed accounts from a users file when requested
	if usersFile := os.Getenv("TERMS_IMPORT_USERS"); usersFile != "" {
		imported, skipped, err := app.ImportUsersFromFile(context.Background(), a.Storage.UserStore(), a.Logger, usersFile)
		if err != nil {
			a.Logger.Error().Err(err).Str("file", usersFile).Msg("User import failed")
		} else {
			a.Logger.Info().Int("imported", imported).Int("skipped", skipped).Msg("User import complete")
		}
	}

	srv := server.NewServer(a)

	shutdownChan := make(chan struct{}, 1)
	srv.SetShutdownChannel(shutdownChan)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	a.Logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)).
		Msg("Server ready")

	// Wait for interrupt signal or HTTP shutdown request
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		a.Logger.Info().Msg("Shutdown signal received")
	case <-shutdownChan:
		a.Logger.Info().Msg("Shutdown requested via HTTP endpoint")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	common.PrintShutdownBanner(a.Logger)
}
