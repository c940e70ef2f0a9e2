package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/repositories"
	"github.com/Kryruin/Elice-MiniProject/internal/services"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
	tu "github.com/Kryruin/Elice-MiniProject/internal/testing"
)

func sampleFake() *tu.FakeCollaborator {
	fake := tu.NewFakeCollaborator()
	fake.Videos = []models.Video{
		{ID: "v1", Title: "C++ in 100 seconds", Channel: "Fireship", URL: "https://www.youtube.com/watch?v=v1", Source: "youtube", PublishedAt: "2023-03-01T10:00:00Z"},
		{ID: "v2", Title: "Pointers explained", Channel: "CS Dojo", URL: "https://www.youtube.com/watch?v=v2", Source: "youtube"},
	}
	fake.Trend = fake.Videos[1:]
	fake.Saved = []models.Item{
		{ID: "v1", Title: "C++ in 100 seconds", Author: "Fireship", Source: "youtube"},
		{ID: "b1", Title: "Structure and Interpretation of Computer Programs", Author: "Abelson"},
	}
	fake.Progress["v1"] = models.ProgressRecord{Status: models.StatusInProgress, Percent: 50}
	return fake
}

type testEnv struct {
	runner *Runner
	output *bytes.Buffer
	server *tu.APIServer
	fake   *tu.FakeCollaborator
	config *shared.Config
}

func newTestEnv(t *testing.T, fake *tu.FakeCollaborator, opts RunnerOpts) *testEnv {
	t.Helper()
	server := tu.NewAPIServer(t, fake)

	config := opts.Config
	if config == nil {
		config = shared.DefaultConfig()
		config.Cache.Enabled = false
	}
	config.API.BaseURL = server.URL
	config.API.SessionPath = filepath.Join(t.TempDir(), "session")

	output := &bytes.Buffer{}
	opts.Config = config
	opts.API = services.NewAPIService(server.URL, server.Client())
	opts.Logger = log.New(io.Discard)
	opts.Output = output

	return &testEnv{runner: NewRunner(opts), output: output, server: server, fake: server.Fake, config: config}
}

// run executes the CLI with args the way main does.
func (e *testEnv) run(args ...string) error {
	app := &cli.Command{
		Name:      "elice",
		Commands:  e.runner.register(),
		After:     e.runner.persistSession,
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"elice"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			api := services.NewAPIService("http://example.com", nil)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				API:    api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.client != services.Collaborator(api) {
				t.Error("expected the api to be used directly without a database")
			}
			if runner.engine == nil {
				t.Error("expected engine to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.configPath != "config.toml" {
				t.Errorf("configPath = %q", runner.configPath)
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil api builds one from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.BaseURL = "http://api.test/"

			runner := NewRunner(RunnerOpts{Config: config})
			if runner.api == nil || runner.api.BaseURL() != "http://api.test" {
				t.Errorf("unexpected api %+v", runner.api)
			}
		})

		t.Run("with database wraps the catalog in the cache", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config, DB: setupTestDB(t)})

			if _, ok := runner.client.(*repositories.CachedCatalog); !ok {
				t.Errorf("client = %T, want *repositories.CachedCatalog", runner.client)
			}
			if runner.cache == nil {
				t.Error("expected cache repository")
			}
		})

		t.Run("SetLogger reaches the cached client", func(t *testing.T) {
			fake := sampleFake()
			config := shared.DefaultConfig()
			env := newTestEnv(t, fake, RunnerOpts{Config: config, DB: setupTestDB(t)})

			var buf bytes.Buffer
			env.runner.SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
			for range 2 {
				if err := env.run("search", "go"); err != nil {
					t.Fatal(err)
				}
			}
			if !strings.Contains(buf.String(), "cache hit") {
				t.Errorf("log output = %q", buf.String())
			}
			if n := fake.CallCount("Search"); n != 1 {
				t.Errorf("upstream searches = %d, want 1", n)
			}
		})

		t.Run("with database and cache disabled", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Cache.Enabled = false
			runner := NewRunner(RunnerOpts{Config: config, DB: setupTestDB(t)})

			if _, ok := runner.client.(*services.APIService); !ok {
				t.Errorf("client = %T, want *services.APIService", runner.client)
			}
			if runner.cache == nil {
				t.Error("cache commands should still reach the repository")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})
			if err := runner.writeJSON(map[string]int{"a": 1}, false); err != nil {
				t.Fatal(err)
			}
			if output.String() != "{\"a\":1}\n" {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})
			if err := runner.writeJSON(map[string]int{"a": 1}, true); err != nil {
				t.Fatal(err)
			}
			if output.String() != "{\n  \"a\": 1\n}\n" {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON(map[string]int{"a": 1}, false); err == nil {
				t.Error("expected error")
			}
		})

		t.Run("unmarshalable value", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected error")
			}
		})
	})
}

func TestCatalogCommands(t *testing.T) {
	t.Run("search with query", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("search", "golang", "basics"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if got := env.fake.Queries; len(got) != 1 || got[0] != "golang basics" {
			t.Errorf("queries = %v", got)
		}
		out := env.output.String()
		if !strings.Contains(out, "Search: golang basics") || !strings.Contains(out, "★ C++ in 100 seconds") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if !strings.Contains(out, "in progress 50%") {
			t.Errorf("progress overlay missing:\n%s", out)
		}
	})

	t.Run("search without query uses default", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("search"); err != nil {
			t.Fatal(err)
		}
		if env.fake.Queries[0] != env.config.Catalog.DefaultQuery {
			t.Errorf("query = %q, want %q", env.fake.Queries[0], env.config.Catalog.DefaultQuery)
		}
	})

	t.Run("search json", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("search", "--json", "c++"); err != nil {
			t.Fatal(err)
		}

		var rows []struct {
			Video struct {
				ID string `json:"id"`
			} `json:"video"`
			Saved bool `json:"saved"`
		}
		if err := json.Unmarshal(env.output.Bytes(), &rows); err != nil {
			t.Fatalf("invalid json: %v\n%s", err, env.output.String())
		}
		if len(rows) != 2 || !rows[0].Saved || rows[1].Saved {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("search failure", func(t *testing.T) {
		fake := sampleFake()
		fake.SearchErr = errors.New("quota exceeded")
		env := newTestEnv(t, fake, RunnerOpts{})

		err := env.run("search", "golang")
		if err == nil || !strings.Contains(err.Error(), "Failed to fetch videos") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("trending", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("trending"); err != nil {
			t.Fatal(err)
		}
		out := env.output.String()
		if !strings.Contains(out, "Trending") || !strings.Contains(out, "Pointers explained") || strings.Contains(out, "100 seconds") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("search is served from the cache", func(t *testing.T) {
		config := shared.DefaultConfig()
		env := newTestEnv(t, sampleFake(), RunnerOpts{Config: config, DB: setupTestDB(t)})

		for range 2 {
			if err := env.run("search", "Golang"); err != nil {
				t.Fatal(err)
			}
		}
		if got := env.fake.CallCount("Search"); got != 1 {
			t.Errorf("Search calls = %d, want 1", got)
		}

		env.output.Reset()
		if err := env.run("cache", "stats", "--json"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.output.String(), `"entries":1`) || !strings.Contains(env.output.String(), `"hits":1`) {
			t.Errorf("stats = %s", env.output.String())
		}
	})
}

func TestSavedCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("saved", "list"); err != nil {
			t.Fatal(err)
		}
		out := env.output.String()
		if !strings.Contains(out, "[youtube]") || !strings.Contains(out, "[other]") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("add then remove", func(t *testing.T) {
		env := newTestEnv(t, tu.NewFakeCollaborator(), RunnerOpts{})

		if err := env.run("saved", "add", "--title", "Go by Example", "--source", "web", "g1"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if len(env.fake.Saved) != 1 || env.fake.Saved[0].Title != "Go by Example" || env.fake.Saved[0].Source != "web" {
			t.Fatalf("saved = %+v", env.fake.Saved)
		}

		if err := env.run("saved", "remove", "g1"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if len(env.fake.Saved) != 0 {
			t.Errorf("saved = %+v", env.fake.Saved)
		}
	})

	t.Run("add requires an id", func(t *testing.T) {
		env := newTestEnv(t, tu.NewFakeCollaborator(), RunnerOpts{})
		if err := env.run("saved", "add", "--title", "x"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestProgressCommands(t *testing.T) {
	t.Run("advance uses the configured step", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "advance", "v1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["v1"]; got.Percent != 75 || got.Status != models.StatusInProgress {
			t.Errorf("v1 = %+v", got)
		}
	})

	t.Run("advance past the end completes", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "advance", "--step", "60", "v1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["v1"]; got.Percent != 100 || got.Status != models.StatusDone {
			t.Errorf("v1 = %+v", got)
		}
	})

	t.Run("complete and reset", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "complete", "b1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["b1"]; got.Status != models.StatusDone || got.Percent != 100 {
			t.Errorf("after complete b1 = %+v", got)
		}

		if err := env.run("progress", "reset", "b1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["b1"]; got.Status != models.StatusInProgress || got.Percent != 0 {
			t.Errorf("after reset b1 = %+v", got)
		}
	})

	t.Run("set clamps percent", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "set", "--percent", "140", "b1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["b1"]; got.Percent != 100 || got.Status != models.StatusDone {
			t.Errorf("b1 = %+v", got)
		}
	})

	t.Run("set status spelling", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "set", "--status", "watching", "b1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["b1"]; got.Status != models.StatusInProgress {
			t.Errorf("b1 = %+v", got)
		}
	})

	t.Run("set explicit not_started keeps percent", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "set", "--status", "not_started", "v1"); err != nil {
			t.Fatal(err)
		}
		if got := env.fake.Progress["v1"]; got.Status != models.StatusNotStarted || got.Percent != 50 {
			t.Errorf("v1 = %+v", got)
		}
	})

	t.Run("set validation", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "set", "b1"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("no flags: %v", err)
		}
		if err := env.run("progress", "set", "--status", "paused", "b1"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("bad status: %v", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		fake := sampleFake()
		fake.PutErr = errors.New("read only")
		env := newTestEnv(t, fake, RunnerOpts{})

		err := env.run("progress", "complete", "v1")
		if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "read only") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("progress", "list", "--json"); err != nil {
			t.Fatal(err)
		}
		var records models.ProgressMap
		if err := json.Unmarshal(env.output.Bytes(), &records); err != nil {
			t.Fatal(err)
		}
		if records["v1"].Percent != 50 {
			t.Errorf("records = %+v", records)
		}
	})
}

func TestLibraryCommands(t *testing.T) {
	t.Run("grouped text", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("library"); err != nil {
			t.Fatal(err)
		}
		out := env.output.String()
		yt, other := strings.Index(out, "youtube"), strings.Index(out, "other")
		if yt < 0 || other < 0 || yt > other {
			t.Errorf("expected youtube before other:\n%s", out)
		}
	})

	t.Run("filter", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("library", "--filter", "sicp", "--json"); err != nil {
			t.Fatal(err)
		}
		out := env.output.String()
		if !strings.Contains(out, `"b1"`) || strings.Contains(out, `"v1"`) {
			t.Errorf("unexpected filter result: %s", out)
		}
	})

	t.Run("load failure", func(t *testing.T) {
		fake := sampleFake()
		fake.ListErr = errors.New("down")
		env := newTestEnv(t, fake, RunnerOpts{})
		if err := env.run("library"); err == nil || !strings.Contains(err.Error(), "Failed to load library") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("export", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		path := filepath.Join(t.TempDir(), "lib.md")
		if err := env.run("export", "--format", "markdown", "--output", path); err != nil {
			t.Fatal(err)
		}
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "## youtube") || !strings.Contains(content, "## other") {
			t.Errorf("unexpected export:\n%s", content)
		}
		if !strings.Contains(env.output.String(), "Items: 2") {
			t.Errorf("summary missing:\n%s", env.output.String())
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestBulkCommand(t *testing.T) {
	t.Run("applies to every id", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("bulk", "--ids", "v1,b1", "--status", "done", "--rate", "1000"); err != nil {
			t.Fatal(err)
		}
		for _, id := range []string{"v1", "b1"} {
			if got := env.fake.Progress[id]; got.Status != models.StatusDone || got.Percent != 100 {
				t.Errorf("%s = %+v", id, got)
			}
		}
		if !strings.Contains(env.output.String(), "Updated: 2/2") {
			t.Errorf("unexpected output:\n%s", env.output.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("bulk", "--ids", "v1", "--ids", "b1", "--percent", "10", "--rate", "1000", "--json"); err != nil {
			t.Fatal(err)
		}
		var result struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
		}
		if err := json.Unmarshal(env.output.Bytes(), &result); err != nil {
			t.Fatalf("invalid json: %v\n%s", err, env.output.String())
		}
		if result.Total != 2 || result.Succeeded != 2 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("requires an update", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("bulk", "--ids", "v1"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("reports failures", func(t *testing.T) {
		fake := sampleFake()
		fake.PutErr = errors.New("read only")
		env := newTestEnv(t, fake, RunnerOpts{})
		if err := env.run("bulk", "--ids", "v1", "--status", "done", "--rate", "1000"); err == nil {
			t.Error("expected error when every write fails")
		}
	})
}

func TestSessionHandling(t *testing.T) {
	t.Run("assigned session is stored", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("saved", "list"); err != nil {
			t.Fatal(err)
		}
		if got := strings.TrimSpace(tu.MustReadFile(t, env.config.API.SessionPath)); got != "sess-test" {
			t.Errorf("stored session = %q", got)
		}
	})

	t.Run("pinned session is not written", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Cache.Enabled = false
		config.API.Session = "pinned"
		env := newTestEnv(t, sampleFake(), RunnerOpts{Config: config})
		env.runner.api.SetSession(config.API.SessionCookie, "pinned")

		if err := env.run("api", "whoami"); err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(env.output.String()) != "pinned" {
			t.Errorf("whoami = %q", env.output.String())
		}
		if session, _ := shared.LoadSession(env.config.API.SessionPath); session != "" {
			t.Errorf("session file should not exist, got %q", session)
		}
	})

	t.Run("setup session from curl", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		curl := `curl 'http://localhost:8000/api/saved' -H 'Accept: application/json' -b 'theme=dark; elice_session=abc123'`

		if err := env.run("setup", "session", "--curl", curl); err != nil {
			t.Fatal(err)
		}
		if got := strings.TrimSpace(tu.MustReadFile(t, env.config.API.SessionPath)); got != "abc123" {
			t.Errorf("stored session = %q", got)
		}
		if !strings.Contains(env.output.String(), "Signed in as: abc123") {
			t.Errorf("unexpected output:\n%s", env.output.String())
		}
	})

	t.Run("setup session validation", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("setup", "session"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("no source: %v", err)
		}
		if err := env.run("setup", "session", "--value", "a", "--curl", "curl x"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("two sources: %v", err)
		}
	})
}

func TestAPICommands(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		if err := env.run("api", "health"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.output.String(), ": ok") {
			t.Errorf("output = %q", env.output.String())
		}
	})

	t.Run("get", func(t *testing.T) {
		env := newTestEnv(t, sampleFake(), RunnerOpts{})
		if err := env.run("api", "get", "--json", "api/progress"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.output.String(), `"progress"`) {
			t.Errorf("output = %q", env.output.String())
		}
	})

	t.Run("get not found", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		if err := env.run("api", "get", "/api/nope"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("post rejects invalid json", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		if err := env.run("api", "post", "--data", "{nope", "/api/saved"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("post", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		if err := env.run("api", "post", "--data", `{"id":"x1","title":"Notes"}`, "/api/saved"); err != nil {
			t.Fatal(err)
		}
		if len(env.fake.Saved) != 1 || env.fake.Saved[0].ID != "x1" {
			t.Errorf("saved = %+v", env.fake.Saved)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	t.Run("unavailable without database", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		if err := env.run("cache", "stats"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("list prune clear", func(t *testing.T) {
		config := shared.DefaultConfig()
		env := newTestEnv(t, sampleFake(), RunnerOpts{Config: config, DB: setupTestDB(t)})

		if err := env.run("trending"); err != nil {
			t.Fatal(err)
		}
		env.output.Reset()
		if err := env.run("cache", "list"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.output.String(), "(trending)") || !strings.Contains(env.output.String(), "fresh") {
			t.Errorf("list = %q", env.output.String())
		}

		env.output.Reset()
		if err := env.run("cache", "prune", "--older-than", "1h"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.output.String(), "Removed 0 entries") {
			t.Errorf("prune = %q", env.output.String())
		}

		env.output.Reset()
		if err := env.run("cache", "clear"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.output.String(), "Removed 1 entries") {
			t.Errorf("clear = %q", env.output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := env.run("setup", "config", "--config", path); err != nil {
			t.Fatal(err)
		}
		tu.AssertFileExists(t, path)
		if err := env.run("setup", "config", "--config", path); err == nil {
			t.Error("expected error for existing file")
		}
		if err := env.run("setup", "config", "--config", path, "--force"); err != nil {
			t.Errorf("force should overwrite: %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		env := newTestEnv(t, nil, RunnerOpts{})
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		dbPath := filepath.Join(dir, "elice.db")

		config := shared.DefaultConfig()
		config.Database.Path = dbPath
		writeConfig(t, configPath, config)

		if err := env.run("setup", "database", "--config", configPath); err != nil {
			t.Fatal(err)
		}
		tu.AssertFileExists(t, dbPath)

		db, err := shared.OpenDatabase(config.Database)
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		if _, err := repositories.NewSearchCacheRepository(db).Stats(); err != nil {
			t.Errorf("cache table missing: %v", err)
		}
	})
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func writeConfig(t *testing.T, path string, config *shared.Config) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		t.Fatalf("failed to encode config: %v", err)
	}
}
