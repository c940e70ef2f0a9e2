package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/services"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLevel(config.Log.Level))

	apiService := services.NewAPIService(config.API.BaseURL, &http.Client{Timeout: config.API.Timeout()})

	session := config.API.Session
	if session == "" {
		stored, err := shared.LoadSession(config.API.SessionPath)
		if err != nil {
			logger.Warn("failed to read stored session", "error", err)
		}
		session = stored
	}
	if err := apiService.SetSession(config.API.SessionCookie, session); err != nil {
		logger.Fatalf("invalid api configuration: %v", err)
	}

	var db *sql.DB
	if config.Cache.Enabled {
		if opened, err := shared.OpenDatabase(config.Database); err == nil {
			db = opened
			defer db.Close()
		} else {
			logger.Warn("search cache disabled", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        apiService,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "elice",
		Usage:    "Search videos, keep a saved list and track learning progress",
		Version:  "0.3.0",
		Commands: runner.register(),
		After:    runner.persistSession,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		logger.Fatalf("application error: %v", err)
	}
}
