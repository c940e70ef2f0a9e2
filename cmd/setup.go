package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// SetupConfig writes the default config file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if cmd.Bool("force") {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Config written to %s\n", configPath)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.writePlain("✓ Rolled back latest migration on %s\n", config.Database.Path)
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	return nil
}

// SetupSession stores a session id so later runs reuse the same saved list and progress.
//
// The id is given with --value or read from the session cookie of a browser cURL command.
func (r *Runner) SetupSession(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	value := strings.TrimSpace(cmd.String("value"))

	given := 0
	for _, v := range []string{curlCmd, curlFile, value} {
		if v != "" {
			given++
		}
	}
	if given == 0 {
		return fmt.Errorf("%w: one of --curl, --curl-file or --value must be provided", shared.ErrMissingArgument)
	}
	if given > 1 {
		return fmt.Errorf("%w: --curl, --curl-file and --value are mutually exclusive", shared.ErrInvalidArgument)
	}

	if value == "" {
		var req *shared.CurlRequest
		var err error
		if curlFile != "" {
			req, err = shared.ParseCurlFile(curlFile)
		} else {
			req, err = shared.ParseCurlCommand(curlCmd)
		}
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		if value, err = req.CookieValue(r.config.API.SessionCookie); err != nil {
			return err
		}
		r.logger.Info("parsed session cookie from cURL", "cookie", r.config.API.SessionCookie)
	}

	if err := shared.SaveSession(r.config.API.SessionPath, value); err != nil {
		return err
	}
	if err := r.api.SetSession(r.config.API.SessionCookie, value); err != nil {
		return err
	}
	r.session = value
	r.logger.Info("session stored", "path", r.config.API.SessionPath)

	r.writePlain("✓ Session stored at %s\n", r.config.API.SessionPath)
	if user, err := r.api.WhoAmI(ctx); err == nil {
		r.writePlain("Signed in as: %s\n", user)
	} else {
		r.logger.Warn("could not verify session", "error", err)
	}
	return nil
}
