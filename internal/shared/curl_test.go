package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:        "single header with single quotes",
			curlCmd:     `curl -H 'Accept: application/json' http://localhost:8000/api/saved`,
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name:        "single header with double quotes",
			curlCmd:     `curl -H "Accept: application/json" http://localhost:8000/api/saved`,
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name:        "cookie in -b flag",
			curlCmd:     `curl -b 'elice_session=abc123' http://localhost:8000/api/saved`,
			wantHeaders: map[string]string{},
			wantCookie:  "elice_session=abc123",
		},
		{
			name:        "cookie in --cookie flag",
			curlCmd:     `curl --cookie "elice_session=abc123" http://localhost:8000/api/saved`,
			wantHeaders: map[string]string{},
			wantCookie:  "elice_session=abc123",
		},
		{
			name:        "cookie header is excluded from regular headers",
			curlCmd:     `curl -H 'Cookie: elice_session=abc123' -H 'Accept: */*' http://localhost:8000/api/saved`,
			wantHeaders: map[string]string{"Accept": "*/*"},
			wantCookie:  "elice_session=abc123",
		},
		{
			name:        "-b cookie takes precedence over -H cookie",
			curlCmd:     `curl -H 'Cookie: old=value' -b 'new=value' http://localhost:8000`,
			wantHeaders: map[string]string{},
			wantCookie:  "new=value",
		},
		{
			name: "multiline curl with backslashes",
			curlCmd: `curl 'http://localhost:5173/api/progress' \
  -H 'accept: */*' \
  -H 'cookie: theme=dark; elice_session=0f3c2a1b9e8d7c6a'`,
			wantHeaders: map[string]string{"accept": "*/*"},
			wantCookie:  "theme=dark; elice_session=0f3c2a1b9e8d7c6a",
		},
		{
			name:    "no headers or cookies",
			curlCmd: `curl http://localhost:8000`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand(tc.curlCmd)

			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("ParseCurlCommand() headers count = %v, want %v", len(result.Headers), len(tc.wantHeaders))
			}
			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("ParseCurlCommand() header[%s] = %v, want %v", key, got, want)
				}
			}
			if result.Cookie != tc.wantCookie {
				t.Errorf("ParseCurlCommand() cookie = %v, want %v", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestCurlRequest_CookieValue(t *testing.T) {
	t.Run("found among several cookies", func(t *testing.T) {
		req := &CurlRequest{Cookie: "theme=dark; elice_session=0f3c2a1b9e8d7c6a"}
		got, err := req.CookieValue("elice_session")
		if err != nil {
			t.Fatalf("CookieValue() error = %v", err)
		}
		if got != "0f3c2a1b9e8d7c6a" {
			t.Errorf("CookieValue() = %q", got)
		}
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := &CurlRequest{Cookie: "theme=dark"}
		if _, err := req.CookieValue("elice_session"); !errors.Is(err, ErrNoSession) {
			t.Errorf("expected ErrNoSession, got %v", err)
		}
	})

	t.Run("empty cookie string", func(t *testing.T) {
		req := &CurlRequest{}
		if _, err := req.CookieValue("elice_session"); !errors.Is(err, ErrNoSession) {
			t.Errorf("expected ErrNoSession, got %v", err)
		}
	})
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")
		if err := os.WriteFile(curlFile, []byte(`curl -b 'elice_session=abc' http://localhost:8000`), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}
		if result.Cookie != "elice_session=abc" {
			t.Errorf("ParseCurlFile() cookie = %q", result.Cookie)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("ParseCurlFile() expected error for nonexistent file")
		}
	})
}
