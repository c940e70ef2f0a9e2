// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
)

// FakeCollaborator is an in-memory stand-in for services.Collaborator.
//
// Set the *Err fields to make the matching call fail. Calls records every method invoked, in order.
type FakeCollaborator struct {
	mu sync.Mutex

	Videos   []models.Video
	Trend    []models.Video
	Saved    []models.Item
	Progress models.ProgressMap
	Queries  []string
	Calls    []string

	SearchErr   error
	TrendingErr error
	ListErr     error
	SaveErr     error
	UnsaveErr   error
	ProgressErr error
	PutErr      error
}

// NewFakeCollaborator returns a fake with empty collections.
func NewFakeCollaborator() *FakeCollaborator {
	return &FakeCollaborator{Progress: models.ProgressMap{}}
}

func (f *FakeCollaborator) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *FakeCollaborator) Search(ctx context.Context, query string) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Search")
	f.Queries = append(f.Queries, query)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]models.Video(nil), f.Videos...), nil
}

func (f *FakeCollaborator) Trending(ctx context.Context) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Trending")
	if f.TrendingErr != nil {
		return nil, f.TrendingErr
	}
	return append([]models.Video(nil), f.Trend...), nil
}

func (f *FakeCollaborator) ListSaved(ctx context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListSaved")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Item(nil), f.Saved...), nil
}

func (f *FakeCollaborator) Save(ctx context.Context, item models.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Save")
	if f.SaveErr != nil {
		return f.SaveErr
	}
	for _, existing := range f.Saved {
		if existing.ID == item.ID {
			return nil
		}
	}
	f.Saved = append(f.Saved, item)
	return nil
}

func (f *FakeCollaborator) Unsave(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Unsave")
	if f.UnsaveErr != nil {
		return f.UnsaveErr
	}
	kept := f.Saved[:0]
	for _, item := range f.Saved {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	f.Saved = kept
	return nil
}

func (f *FakeCollaborator) ListProgress(ctx context.Context) (models.ProgressMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListProgress")
	if f.ProgressErr != nil {
		return nil, f.ProgressErr
	}
	out := make(models.ProgressMap, len(f.Progress))
	for id, rec := range f.Progress {
		out[id] = rec
	}
	return out, nil
}

func (f *FakeCollaborator) PutProgress(ctx context.Context, id string, record models.ProgressRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("PutProgress")
	if f.PutErr != nil {
		return f.PutErr
	}
	if f.Progress == nil {
		f.Progress = models.ProgressMap{}
	}
	f.Progress[id] = record
	return nil
}

// CallCount returns how many times method was called.
func (f *FakeCollaborator) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
