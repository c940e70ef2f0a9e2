package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/repositories"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
	"github.com/Kryruin/Elice-MiniProject/internal/tasks"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	client     services.Collaborator
	cache      *repositories.SearchCacheRepository
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.Engine
	session    string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	// DB backs the search cache. Nil disables caching.
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, &http.Client{Timeout: opts.Config.API.Timeout()})
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		client:     opts.API,
		logger:     opts.Logger,
		output:     opts.Output,
		session:    opts.API.Session(),
	}

	if opts.DB != nil {
		r.cache = repositories.NewSearchCacheRepository(opts.DB)
		if opts.Config.Cache.Enabled {
			r.client = repositories.NewCachedCatalog(opts.API, r.cache, opts.Config.Cache.TTL(), opts.Logger)
		}
	}

	r.engine = tasks.NewEngine(r.client, opts.Logger)
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, trendingCommand, savedCommand, progressCommand, libraryCommand,
		exportCommand, bulkCommand, tuiCommand, setupCommand, cacheCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the logger used by later actions, including the cached client and the engine.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if cached, ok := r.client.(*repositories.CachedCatalog); ok {
		cached.SetLogger(logger)
	}
	r.engine = tasks.NewEngine(r.client, logger)
}

// viewOptions builds view options from the catalog config.
func (r *Runner) viewOptions() views.Options {
	return views.Options{
		Logger:       r.logger,
		DefaultQuery: r.config.Catalog.DefaultQuery,
		Step:         r.config.Catalog.StepPercent,
	}
}

// persistSession stores the session id the server assigned so the next run sees the same saved list.
// A session pinned in the config file is never written back.
func (r *Runner) persistSession(ctx context.Context, cmd *cli.Command) error {
	if r.config.API.Session != "" {
		return nil
	}
	session := r.api.Session()
	if session == "" || session == r.session {
		return nil
	}
	if err := shared.SaveSession(r.config.API.SessionPath, session); err != nil {
		r.logger.Warn("failed to store session", "error", err)
		return nil
	}
	r.session = session
	r.logger.Debug("session stored", "path", r.config.API.SessionPath)
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
