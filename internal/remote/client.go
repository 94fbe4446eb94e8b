// Package remote is the typed HTTP client of the InkLine API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inkline/internal/analytics"
	"inkline/internal/export"
	"inkline/internal/services/auth"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 15 * time.Second

// Sentinel errors matched by APIError.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// Credentials supplies the bearer token of the current identity.
type Credentials interface {
	Token() string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for failed calls.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client talks to one InkLine server.
type Client struct {
	base  string
	creds Credentials
	http  *http.Client
	log   *slog.Logger
}

// New creates a client for baseURL. creds may be nil for anonymous calls.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		creds: creds,
		http:  &http.Client{Timeout: DefaultTimeout},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server origin the client targets.
func (c *Client) BaseURL() string {
	return c.base
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.creds != nil {
		if tok := c.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// send performs the request and returns the body of a 2xx response.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer func() { _ = resp.Body.Close() }()
	apiErr := &APIError{Status: resp.StatusCode}
	var eb errorBody
	if data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); len(data) > 0 {
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Message = eb.Error
		}
	}
	c.log.Info("request rejected", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "message", apiErr.Message)
	return nil, apiErr
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/sign-up", nil, auth.SignUpRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/sign-in", nil, auth.SignInRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user behind the current token.
func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	var out struct {
		User *auth.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListOptions selects and orders a note listing.
type ListOptions struct {
	Archived bool
	Q        string
	Sort     string
	Order    string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Archived {
		q.Set("archived", "true")
	}
	if o.Q != "" {
		q.Set("q", o.Q)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	return q
}

// ListNotes fetches the active or archived notes.
func (c *Client) ListNotes(ctx context.Context, opts ListOptions) ([]*notes.Note, error) {
	var out notes.ListNotesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/notes", opts.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// CreateNote inserts a note. Empty fields are filled in by the server.
func (c *Client) CreateNote(ctx context.Context, title, body string) (*notes.Note, error) {
	var out notes.NoteResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/notes", nil, notes.CreateNoteRequest{Title: title, Body: body}, &out)
	if err != nil {
		return nil, err
	}
	return out.Note, nil
}

// GetNote fetches one note.
func (c *Client) GetNote(ctx context.Context, id string) (*notes.Note, error) {
	var out notes.NoteResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/notes/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Note, nil
}

// UpdateNote patches the title and/or body of a note.
func (c *Client) UpdateNote(ctx context.Context, id string, title, body *string) (*notes.Note, error) {
	var out notes.NoteResponse
	err := c.do(ctx, http.MethodPatch, "/api/v1/notes/"+url.PathEscape(id), nil, notes.UpdateNoteRequest{Title: title, Body: body}, &out)
	if err != nil {
		return nil, err
	}
	return out.Note, nil
}

// SaveNote sends both title and body of a note.
func (c *Client) SaveNote(ctx context.Context, id, title, body string) (*notes.Note, error) {
	return c.UpdateNote(ctx, id, &title, &body)
}

// Archive moves notes to the archived view and returns the moved records.
func (c *Client) Archive(ctx context.Context, ids []string) ([]*notes.Note, error) {
	var out notes.ListNotesResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/notes/archive", nil, notes.IDsRequest{IDs: ids}, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// Restore moves archived notes back and returns the moved records.
func (c *Client) Restore(ctx context.Context, ids []string) ([]*notes.Note, error) {
	var out notes.ListNotesResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/notes/restore", nil, notes.IDsRequest{IDs: ids}, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// Delete removes notes and returns the ids the server deleted.
func (c *Client) Delete(ctx context.Context, ids []string) ([]string, error) {
	var out notes.DeleteNotesResponse
	if err := c.do(ctx, http.MethodDelete, "/api/v1/notes", nil, notes.IDsRequest{IDs: ids}, &out); err != nil {
		return nil, err
	}
	return out.DeletedIDs, nil
}

// SetSharing makes a note public or private.
func (c *Client) SetSharing(ctx context.Context, id string, public bool) (*notes.Note, error) {
	var out notes.NoteResponse
	err := c.do(ctx, http.MethodPut, "/api/v1/notes/"+url.PathEscape(id)+"/share", nil, notes.ShareRequest{Public: public}, &out)
	if err != nil {
		return nil, err
	}
	return out.Note, nil
}

// SetCategory assigns a category, or clears it when categoryID is nil.
func (c *Client) SetCategory(ctx context.Context, id string, categoryID *string) (*notes.Note, error) {
	var out notes.NoteResponse
	err := c.do(ctx, http.MethodPut, "/api/v1/notes/"+url.PathEscape(id)+"/category", nil, notes.CategoryRequest{CategoryID: categoryID}, &out)
	if err != nil {
		return nil, err
	}
	return out.Note, nil
}

// Categories lists the user's categories ordered by name.
func (c *Client) Categories(ctx context.Context) ([]*categories.Category, error) {
	var out categories.ListCategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CreateCategory finds or creates a category by name.
func (c *Client) CreateCategory(ctx context.Context, name string) (*categories.Category, error) {
	var out categories.CategoryResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/categories", nil, categories.CreateCategoryRequest{Name: name}, &out)
	if err != nil {
		return nil, err
	}
	return out.Category, nil
}

// DeleteCategory removes a category and reports how many notes lost it.
func (c *Client) DeleteCategory(ctx context.Context, id string) (*categories.DeleteCategoryResponse, error) {
	var out categories.DeleteCategoryResponse
	if err := c.do(ctx, http.MethodDelete, "/api/v1/categories/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats fetches the dashboard.
func (c *Client) Stats(ctx context.Context) (*analytics.Dashboard, error) {
	var out analytics.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export downloads a zip of the selected notes, or of the whole view when
// ids is empty. It returns the file name suggested by the server.
func (c *Client) Export(ctx context.Context, ids []string, archived bool, w io.Writer) (string, error) {
	q := url.Values{}
	if len(ids) > 0 {
		q.Set("ids", strings.Join(ids, ","))
	}
	if archived {
		q.Set("archived", strconv.FormatBool(archived))
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/notes/export", q, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/zip")
	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("download export: %w", err)
	}

	name := export.ArchiveName(archived)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return name, nil
}

// Shared reads a public note by share id.
func (c *Client) Shared(ctx context.Context, shareID string) (*notes.SharedNote, error) {
	var out notes.SharedNoteResponse
	if err := c.do(ctx, http.MethodGet, "/share/"+url.PathEscape(shareID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Note, nil
}

// Health is the server's /healthz answer.
type Health struct {
	Status     string `json:"status"`
	ReplicaSet bool   `json:"replica_set"`
	Error      string `json:"error,omitempty"`
}

// Health probes the server. A reachable but unhealthy server yields an
// APIError alongside nil.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
