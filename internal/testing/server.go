package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
)

// APIServer is an httptest server speaking the learning platform API, backed by a [FakeCollaborator].
//
// It assigns an "elice_session" cookie on first contact like the real server.
type APIServer struct {
	*httptest.Server
	Fake *FakeCollaborator

	mu       sync.Mutex
	Requests []string
	Sessions []string
}

// NewAPIServer starts a server and registers its shutdown with t.Cleanup.
func NewAPIServer(t *testing.T, fake *FakeCollaborator) *APIServer {
	t.Helper()
	if fake == nil {
		fake = NewFakeCollaborator()
	}
	s := &APIServer{Fake: fake}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *APIServer) serve(w http.ResponseWriter, r *http.Request) {
	session := ""
	if c, err := r.Cookie("elice_session"); err == nil {
		session = c.Value
	} else {
		session = "sess-test"
		http.SetCookie(w, &http.Cookie{Name: "elice_session", Value: session, Path: "/", HttpOnly: true})
	}

	s.mu.Lock()
	s.Requests = append(s.Requests, r.Method+" "+r.URL.RequestURI())
	s.Sessions = append(s.Sessions, session)
	s.mu.Unlock()

	ctx := r.Context()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/health":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case r.Method == http.MethodGet && r.URL.Path == "/api/session":
		writeJSON(w, http.StatusOK, map[string]string{"userId": session})
	case r.Method == http.MethodGet && r.URL.Path == "/api/youtube/search":
		videos, err := s.Fake.Search(ctx, r.URL.Query().Get("q"))
		respond(w, map[string]any{"items": videos}, err)
	case r.Method == http.MethodGet && r.URL.Path == "/api/youtube/trending":
		videos, err := s.Fake.Trending(ctx)
		respond(w, map[string]any{"items": videos}, err)
	case r.Method == http.MethodGet && r.URL.Path == "/api/saved":
		items, err := s.Fake.ListSaved(ctx)
		respond(w, map[string]any{"items": items}, err)
	case r.Method == http.MethodPost && r.URL.Path == "/api/saved":
		var item models.Item
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ID == "" || item.Title == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Missing id or title"})
			return
		}
		respond(w, map[string]bool{"ok": true}, s.Fake.Save(ctx, item))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/saved/"):
		respond(w, map[string]bool{"ok": true}, s.Fake.Unsave(ctx, strings.TrimPrefix(r.URL.Path, "/api/saved/")))
	case r.Method == http.MethodGet && r.URL.Path == "/api/progress":
		progress, err := s.Fake.ListProgress(ctx)
		respond(w, map[string]any{"progress": progress}, err)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/progress/"):
		var rec models.ProgressRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		respond(w, map[string]bool{"ok": true}, s.Fake.PutProgress(ctx, strings.TrimPrefix(r.URL.Path, "/api/progress/"), rec))
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

// RequestLog returns a copy of the "METHOD /path?query" lines seen so far.
func (s *APIServer) RequestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Requests...)
}

func respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
