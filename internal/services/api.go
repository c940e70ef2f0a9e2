// HTTP implementation of [Collaborator] for the learning platform API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

const (
	defaultBaseURL       = "http://localhost:8000"
	DefaultSessionCookie = "elice_session"
)

var _ Collaborator = (*APIService)(nil)

// APIService is the HTTP client for the learning platform API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	cookieName string
}

// NewAPIService creates a new API client. Requests are credentialed with a cookie jar;
// a client without a jar is copied and given one.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if client == nil {
		client = &http.Client{}
	}
	if client.Jar == nil {
		withJar := *client
		withJar.Jar, _ = cookiejar.New(nil)
		client = &withJar
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
		cookieName: DefaultSessionCookie,
	}
}

// BaseURL returns the API root the client talks to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// SetSession pins the session cookie sent with every request. An empty cookie name keeps the current one.
func (a *APIService) SetSession(cookieName, value string) error {
	if cookieName != "" {
		a.cookieName = cookieName
	}
	if value == "" {
		return nil
	}
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid base URL: %v", shared.ErrInvalidConfig, err)
	}
	a.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: a.cookieName, Value: value, Path: "/"}})
	return nil
}

// Session returns the session id currently held in the cookie jar, or "" if the server has not assigned one.
func (a *APIService) Session() string {
	u, err := url.Parse(a.baseURL + "/api/")
	if err != nil {
		return ""
	}
	for _, c := range a.httpClient.Jar.Cookies(u) {
		if c.Name == a.cookieName {
			return c.Value
		}
	}
	return ""
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response has a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// call performs a request and decodes a 2xx JSON body into out (when non-nil).
func (a *APIService) call(ctx context.Context, method, path string, in, out any) error {
	var data []byte
	if in != nil {
		var err error
		if data, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := a.do(ctx, method, path, data)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrAPIRequest, method, path, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s %s: status %d%s", shared.ErrAPIRequest, method, path, resp.StatusCode, detail(resp.Body))
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// detail extracts a FastAPI-style {"detail": ...} message.
func detail(body []byte) string {
	var errResp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || len(errResp.Detail) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(errResp.Detail, &msg); err == nil {
		return ": " + msg
	}
	return ": " + string(errResp.Detail)
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// Search calls GET /api/youtube/search. An empty query lets the server pick its default.
func (a *APIService) Search(ctx context.Context, query string) ([]models.Video, error) {
	path := "/api/youtube/search"
	if q := strings.TrimSpace(query); q != "" {
		path += "?q=" + url.QueryEscape(q)
	}

	var resp itemsResponse[models.Video]
	if err := a.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Trending calls GET /api/youtube/trending.
func (a *APIService) Trending(ctx context.Context) ([]models.Video, error) {
	var resp itemsResponse[models.Video]
	if err := a.call(ctx, http.MethodGet, "/api/youtube/trending", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListSaved calls GET /api/saved.
func (a *APIService) ListSaved(ctx context.Context) ([]models.Item, error) {
	var resp itemsResponse[models.Item]
	if err := a.call(ctx, http.MethodGet, "/api/saved", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Save calls POST /api/saved. The server rejects items without an id or title, so they are refused here first.
func (a *APIService) Save(ctx context.Context, item models.Item) error {
	if item.ID == "" || item.Title == "" {
		return fmt.Errorf("%w: item needs an id and a title", shared.ErrInvalidInput)
	}
	return a.call(ctx, http.MethodPost, "/api/saved", item, nil)
}

// Unsave calls DELETE /api/saved/{id}.
func (a *APIService) Unsave(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	return a.call(ctx, http.MethodDelete, "/api/saved/"+url.PathEscape(id), nil, nil)
}

// ListProgress calls GET /api/progress.
func (a *APIService) ListProgress(ctx context.Context) (models.ProgressMap, error) {
	var resp struct {
		Progress models.ProgressMap `json:"progress"`
	}
	if err := a.call(ctx, http.MethodGet, "/api/progress", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Progress == nil {
		resp.Progress = models.ProgressMap{}
	}
	return resp.Progress, nil
}

// PutProgress calls PUT /api/progress/{id}.
func (a *APIService) PutProgress(ctx context.Context, id string, record models.ProgressRecord) error {
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	return a.call(ctx, http.MethodPut, "/api/progress/"+url.PathEscape(id), record, nil)
}

// Health calls GET /api/health and returns the reported status.
func (a *APIService) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := a.call(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// WhoAmI calls GET /api/session and returns the user id bound to the current session.
func (a *APIService) WhoAmI(ctx context.Context) (string, error) {
	var resp struct {
		UserID *string `json:"userId"`
	}
	if err := a.call(ctx, http.MethodGet, "/api/session", nil, &resp); err != nil {
		return "", err
	}
	if resp.UserID == nil || *resp.UserID == "" {
		return "", shared.ErrNoSession
	}
	return *resp.UserID, nil
}
