package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkline/cmd/server/testutil"
	"inkline/internal/analytics"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type mockNotes struct {
	mock.Mock
	settings notes.Settings
}

func (m *mockNotes) All(ctx context.Context, userID bson.ObjectID) ([]*notes.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notes.Note), args.Error(1)
}

func (m *mockNotes) Settings() notes.Settings {
	return m.settings
}

type mockCategories struct {
	mock.Mock
}

func (m *mockCategories) List(ctx context.Context, userID bson.ObjectID) (*categories.ListCategoriesResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*categories.ListCategoriesResponse), args.Error(1)
}

func newApp(t *testing.T, n *mockNotes, c *mockCategories, now time.Time) *fiber.App {
	t.Helper()
	app := testutil.CreateTestApp(t)
	h := NewHandlers(n, c)
	h.now = func() time.Time { return now }
	app.Get("/api/v1/stats", testutil.SetupJWTMiddleware(testutil.TestJWTSecret), h.Dashboard)
	return app
}

func TestDashboard(t *testing.T) {
	userID := bson.NewObjectID()
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	work := &categories.Category{ID: bson.NewObjectID(), Name: "Work"}

	active := &notes.Note{ID: bson.NewObjectID(), Title: "Plan", Body: "a b c", CreatedAt: now, ViewCount: 4, CategoryID: &work.ID}
	archived := &notes.Note{ID: bson.NewObjectID(), Title: "Old", Archived: true, CreatedAt: now.AddDate(0, -1, 0)}

	n := &mockNotes{settings: notes.Settings{Quota: 100}}
	n.On("All", mock.Anything, userID).Return([]*notes.Note{active, archived}, nil)
	c := &mockCategories{}
	c.On("List", mock.Anything, userID).Return(&categories.ListCategoriesResponse{Categories: []*categories.Category{work}}, nil)

	app := newApp(t, n, c, now)
	resp, err := app.Test(testutil.CreateAuthenticatedRequest("GET", "/api/v1/stats", nil, testutil.MustJWT(t, userID.Hex())))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var d analytics.Dashboard
	testutil.DecodeJSON(t, resp, &d)
	assert.Equal(t, 2, d.TotalNotes)
	assert.Equal(t, 1, d.CreatedThisMonth)
	assert.Equal(t, "Wednesday", d.MostActiveWeekday)
	require.NotNil(t, d.MostViewed)
	assert.Equal(t, "Plan", d.MostViewed.Title)
	assert.Equal(t, 3, d.AvgWordsThisMonth)
	assert.Equal(t, analytics.Quota{Limit: 100, Used: 1, Remaining: 99}, d.Quota)
	assert.Equal(t, []analytics.CategoryCount{{Name: "Work", Count: 1}, {Name: "Unassigned", Count: 1}}, d.Categories)

	n.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestDashboard_SourceFailure(t *testing.T) {
	userID := bson.NewObjectID()

	n := &mockNotes{settings: notes.Settings{Quota: 100}}
	n.On("All", mock.Anything, userID).Return(nil, notes.ErrListNotes)
	c := &mockCategories{}
	c.On("List", mock.Anything, userID).Return(nil, errors.New("unused")).Maybe()

	app := newApp(t, n, c, time.Now())
	resp, err := app.Test(testutil.CreateAuthenticatedRequest("GET", "/api/v1/stats", nil, testutil.MustJWT(t, userID.Hex())))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
