package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"inkline/internal/analytics"
	"inkline/internal/services/auth"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"
	"inkline/internal/session"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	color.NoColor = true
}

// fakeAPI serves the handful of routes the commands under test call.
type fakeAPI struct {
	mu      sync.Mutex
	active  []*notes.Note
	quota   int
	creates int
	saves   []notes.UpdateNoteRequest
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux.HandleFunc("POST /api/v1/auth/sign-in", func(w http.ResponseWriter, r *http.Request) {
		var req auth.SignInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "Password123" {
			write(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		write(w, http.StatusOK, auth.AuthResponse{User: &auth.User{ID: bson.NewObjectID(), Email: req.Email}, Token: "tok"})
	})
	mux.HandleFunc("GET /api/v1/notes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			write(w, http.StatusUnauthorized, map[string]string{"error": "Missing or malformed JWT"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		list := []*notes.Note{}
		if r.URL.Query().Get("archived") != "true" {
			list = f.active
		}
		write(w, http.StatusOK, notes.ListNotesResponse{Notes: list})
	})
	mux.HandleFunc("POST /api/v1/notes", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.creates++
		n := &notes.Note{ID: bson.NewObjectID(), Title: notes.DefaultTitle, UpdatedAt: time.Now()}
		f.active = append([]*notes.Note{n}, f.active...)
		write(w, http.StatusCreated, notes.NoteResponse{Note: n})
	})
	mux.HandleFunc("PATCH /api/v1/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req notes.UpdateNoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.saves = append(f.saves, req)
		for _, n := range f.active {
			if n.ID.Hex() == r.PathValue("id") {
				n.Title, n.Body, n.UpdatedAt = *req.Title, *req.Body, time.Now()
				write(w, http.StatusOK, notes.NoteResponse{Note: n})
				return
			}
		}
		write(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
	})
	mux.HandleFunc("GET /api/v1/categories", func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, categories.ListCategoriesResponse{Categories: []*categories.Category{}})
	})
	mux.HandleFunc("GET /api/v1/stats", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		used := len(f.active)
		write(w, http.StatusOK, analytics.Dashboard{
			TotalNotes: used,
			Quota:      analytics.Quota{Limit: f.quota, Used: used, Remaining: max(f.quota-used, 0)},
		})
	})
	mux.HandleFunc("GET /share/{id}", func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusNotFound, map[string]string{"error": notes.PrivateShareMessage})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, map[string]any{"status": "ok", "replica_set": true})
	})
	return mux
}

func (f *fakeAPI) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

type run struct {
	out, errOut string
	err         error
}

func execute(t *testing.T, srv *httptest.Server, home, stdin string, args ...string) run {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	root := newRootCmd(a)
	root.SetArgs(append(args, "--server", srv.URL, "--home", home))
	err := root.Execute()
	return run{out: out.String(), errOut: errOut.String(), err: err}
}

func setup(t *testing.T, api *fakeAPI) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return srv, t.TempDir()
}

func signIn(t *testing.T, srv *httptest.Server, home string) {
	t.Helper()
	res := execute(t, srv, home, "", "login", "me@example.com", "--password", "Password123")
	require.NoError(t, res.err, res.errOut)
}

func TestLoginStoresCredentials(t *testing.T) {
	srv, home := setup(t, &fakeAPI{quota: 100})

	res := execute(t, srv, home, "Password123\n", "login", "me@example.com")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Signed in as me@example.com")

	id, err := session.NewFileStore(home).Load()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "tok", id.Token)
	assert.Equal(t, srv.URL, id.Server)

	res = execute(t, srv, home, "", "logout")
	require.NoError(t, res.err)
	_, err = os.Stat(filepath.Join(home, session.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestLoginRejected(t *testing.T) {
	srv, home := setup(t, &fakeAPI{})

	res := execute(t, srv, home, "", "login", "me@example.com", "--password", "nope")
	require.ErrorIs(t, res.err, errBadCredentials)
	assert.Contains(t, res.errOut, "invalid email or password")
}

func TestCommandsNeedSession(t *testing.T) {
	srv, home := setup(t, &fakeAPI{})

	res := execute(t, srv, home, "", "ls")
	require.ErrorIs(t, res.err, session.ErrSignedOut)
	assert.Contains(t, res.errOut, "not signed in")
}

func TestListSortsByTitle(t *testing.T) {
	now := time.Now()
	api := &fakeAPI{quota: 100, active: []*notes.Note{
		{ID: bson.NewObjectID(), Title: "Beta", UpdatedAt: now},
		{ID: bson.NewObjectID(), Title: "Alpha", UpdatedAt: now.Add(-time.Hour)},
		{ID: bson.NewObjectID(), Title: "Gamma", UpdatedAt: now.Add(-2 * time.Hour)},
	}}
	srv, home := setup(t, api)
	signIn(t, srv, home)

	res := execute(t, srv, home, "", "ls", "--sort", "title")
	require.NoError(t, res.err, res.errOut)
	assert.Less(t, strings.Index(res.out, "Alpha"), strings.Index(res.out, "Beta"))
	assert.Less(t, strings.Index(res.out, "Beta"), strings.Index(res.out, "Gamma"))

	res = execute(t, srv, home, "", "ls", "--sort", "title")
	require.NoError(t, res.err)
	assert.Less(t, strings.Index(res.out, "Gamma"), strings.Index(res.out, "Alpha"), "same key flips direction")

	res = execute(t, srv, home, "", "ls", "-q", "amm")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Gamma")
	assert.NotContains(t, res.out, "Alpha")
}

func TestNewAtQuotaSendsNoRequest(t *testing.T) {
	api := &fakeAPI{quota: 1, active: []*notes.Note{{ID: bson.NewObjectID(), Title: "Only"}}}
	srv, home := setup(t, api)
	signIn(t, srv, home)

	res := execute(t, srv, home, "", "new")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, "note limit reached")
	assert.Equal(t, 0, api.createCount())
}

func TestNewWithBody(t *testing.T) {
	api := &fakeAPI{quota: 5}
	srv, home := setup(t, api)
	signIn(t, srv, home)

	res := execute(t, srv, home, "", "new", "--title", "Plan", "--body", "hello")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Created")
	assert.Contains(t, res.out, "Plan")
	assert.Contains(t, res.out, "4 notes left")
	assert.Equal(t, 1, api.createCount())
}

func TestEditAppendsStdinAndFlushes(t *testing.T) {
	id := bson.NewObjectID()
	api := &fakeAPI{quota: 5, active: []*notes.Note{{ID: id, Title: "Log", Body: "day one"}}}
	srv, home := setup(t, api)
	signIn(t, srv, home)

	res := execute(t, srv, home, "day two\nday three\n", "edit", id.Hex()[:6], "--debounce", "1h")
	require.NoError(t, res.err, res.errOut)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.saves, 1, "edits are saved once on exit")
	assert.Equal(t, "day one\nday two\nday three", *api.saves[0].Body)
	assert.Contains(t, res.errOut, "[saving]")
	assert.Contains(t, res.errOut, "[saved]", "the last status line shows the flushed note")
	assert.Contains(t, res.out, "Saved")
}

func TestSharedPrivateNote(t *testing.T) {
	srv, home := setup(t, &fakeAPI{})

	res := execute(t, srv, home, "", "shared", "abc")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, notes.PrivateShareMessage)
}

func TestFontSize(t *testing.T) {
	srv, home := setup(t, &fakeAPI{})

	res := execute(t, srv, home, "", "font")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Font size 16")

	res = execute(t, srv, home, "", "font", "+")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Font size 17")

	res = execute(t, srv, home, "", "font", "99")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Font size 32")
}

func TestHealth(t *testing.T) {
	srv, home := setup(t, &fakeAPI{})

	res := execute(t, srv, home, "", "health")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "ok")
	assert.Contains(t, res.out, "replica set")
}
