package main

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"inkline/cmd/server/testutil"
	"inkline/internal/config"
	"inkline/internal/services/auth"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeNotes answers every call with an empty success.
type fakeNotes struct {
	exported bool
}

func (f *fakeNotes) Create(context.Context, bson.ObjectID, notes.CreateNoteRequest) (*notes.NoteResponse, error) {
	return &notes.NoteResponse{Note: &notes.Note{Title: notes.DefaultTitle}}, nil
}

func (f *fakeNotes) List(context.Context, bson.ObjectID, notes.ListNotesRequest) (*notes.ListNotesResponse, error) {
	return &notes.ListNotesResponse{Notes: []*notes.Note{}}, nil
}

func (f *fakeNotes) Get(context.Context, bson.ObjectID, bson.ObjectID) (*notes.NoteResponse, error) {
	return nil, notes.ErrNoteNotFound
}

func (f *fakeNotes) Update(context.Context, bson.ObjectID, bson.ObjectID, notes.UpdateNoteRequest) (*notes.NoteResponse, error) {
	return nil, notes.ErrNoteNotFound
}

func (f *fakeNotes) Archive(context.Context, bson.ObjectID, []string) (*notes.ListNotesResponse, error) {
	return &notes.ListNotesResponse{Notes: []*notes.Note{}}, nil
}

func (f *fakeNotes) Restore(context.Context, bson.ObjectID, []string) (*notes.ListNotesResponse, error) {
	return &notes.ListNotesResponse{Notes: []*notes.Note{}}, nil
}

func (f *fakeNotes) Delete(context.Context, bson.ObjectID, []string) (*notes.DeleteNotesResponse, error) {
	return &notes.DeleteNotesResponse{DeletedIDs: []string{}}, nil
}

func (f *fakeNotes) SetSharing(context.Context, bson.ObjectID, bson.ObjectID, bool) (*notes.NoteResponse, error) {
	return nil, notes.ErrNoteNotFound
}

func (f *fakeNotes) SetCategory(context.Context, bson.ObjectID, bson.ObjectID, *string) (*notes.NoteResponse, error) {
	return nil, notes.ErrNoteNotFound
}

func (f *fakeNotes) Shared(context.Context, string) (*notes.SharedNoteResponse, error) {
	return nil, notes.ErrShareNotFound
}

func (f *fakeNotes) Export(context.Context, bson.ObjectID, []string, bool) ([]*notes.Note, error) {
	f.exported = true
	return []*notes.Note{{Title: "x"}}, nil
}

func (f *fakeNotes) All(context.Context, bson.ObjectID) ([]*notes.Note, error) {
	return nil, nil
}

func (f *fakeNotes) Settings() notes.Settings {
	return notes.Settings{Quota: 100, BodyMaxChars: 4096}
}

type fakeCategories struct{}

func (fakeCategories) List(context.Context, bson.ObjectID) (*categories.ListCategoriesResponse, error) {
	return &categories.ListCategoriesResponse{Categories: []*categories.Category{}}, nil
}

func (fakeCategories) Create(context.Context, bson.ObjectID, categories.CreateCategoryRequest) (*categories.CategoryResponse, error) {
	return &categories.CategoryResponse{Category: &categories.Category{Name: "Work"}}, nil
}

func (fakeCategories) Delete(context.Context, bson.ObjectID, string) (*categories.DeleteCategoryResponse, error) {
	return nil, categories.ErrCategoryNotFound
}

type fakeAuth struct{}

func (fakeAuth) SignUp(context.Context, auth.SignUpRequest) (*auth.AuthResponse, error) {
	return nil, auth.ErrRegistrationFailed
}

func (fakeAuth) SignIn(context.Context, auth.SignInRequest) (*auth.AuthResponse, error) {
	return nil, auth.ErrInvalidCredentials
}

func (fakeAuth) Me(_ context.Context, id bson.ObjectID) (*auth.User, error) {
	return &auth.User{ID: id, Email: "test@example.com"}, nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:           testutil.TestJWTSecret,
		JWTAlgorithm:        "HS256",
		SignInRatePerMin:    2,
		RouteMetricsEnabled: true,
	}
}

func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *fakeNotes) {
	t.Helper()
	testutil.CreateTestApp(t) // initialises the logger
	n := &fakeNotes{}
	app, err := newApp(cfg, deps{
		auth:       fakeAuth{},
		notes:      n,
		categories: fakeCategories{},
		healthz:    func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) },
	})
	require.NoError(t, err)
	return app, n
}

func TestRoutes(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	token := testutil.MustJWT(t, bson.NewObjectID().Hex())

	tests := []struct {
		method string
		path   string
		authed bool
		status int
	}{
		{"GET", "/healthz", false, 200},
		{"GET", "/metrics", false, 200},
		{"GET", "/share/whatever", false, 404},
		{"GET", "/api/v1/me", false, 401},
		{"GET", "/api/v1/me", true, 200},
		{"GET", "/api/v1/notes", false, 401},
		{"GET", "/api/v1/notes", true, 200},
		{"POST", "/api/v1/notes", true, 201},
		{"GET", "/api/v1/notes/" + bson.NewObjectID().Hex(), true, 404},
		{"GET", "/api/v1/categories", true, 200},
		{"DELETE", "/api/v1/categories/" + bson.NewObjectID().Hex(), true, 404},
		{"GET", "/api/v1/stats", true, 200},
		{"GET", "/api/v1/stats", false, 401},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := testutil.CreateJSONRequest(tt.method, tt.path, nil)
			if tt.authed {
				req = testutil.CreateAuthenticatedRequest(tt.method, tt.path, nil, token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestExportRouteIsNotShadowedByID(t *testing.T) {
	app, n := newTestApp(t, testConfig())
	token := testutil.MustJWT(t, bson.NewObjectID().Hex())

	resp, err := app.Test(testutil.CreateAuthenticatedRequest("GET", "/api/v1/notes/export", nil, token))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, n.exported)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RouteMetricsEnabled = false
	app, _ := newTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAuthRateLimit(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	body := map[string]string{"email": "test@example.com", "password": "Password123"}

	statuses := make([]int, 0, 3)
	for range 3 {
		req := testutil.CreateJSONRequest("POST", "/api/v1/auth/sign-in", body)
		resp, err := app.Test(req)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{401, 401, 429}, statuses)
}

func TestRequestLoggingConfig(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{
			name:     "request logging disabled",
			envValue: "false",
			expected: false,
		},
		{
			name:     "request logging enabled",
			envValue: "true",
			expected: true,
		},
		{
			name:     "default value (no env var)",
			envValue: "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				_ = os.Unsetenv("REQUEST_LOGGING_ENABLED")
				config.ResetCache()
			}()

			if tt.envValue != "" {
				t.Setenv("REQUEST_LOGGING_ENABLED", tt.envValue)
			}

			config.ResetCache()

			cfg, err := config.Load()
			require.NoError(t, err)

			assert.Equal(t, tt.expected, cfg.RequestLoggingEnabled,
				"RequestLoggingEnabled should be %v when REQUEST_LOGGING_ENABLED=%s",
				tt.expected, tt.envValue)

			_, err = newApp(cfg, deps{
				auth:       fakeAuth{},
				notes:      &fakeNotes{},
				categories: fakeCategories{},
				healthz:    func(c *fiber.Ctx) error { return c.SendStatus(200) },
			})
			require.NoError(t, err)
		})
	}
}
