package stats

import (
	"context"
	"time"

	"inkline/cmd/server/handlers/handlerutil"
	"inkline/internal/analytics"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

// NotesSource lists every note of a user.
type NotesSource interface {
	All(ctx context.Context, userID bson.ObjectID) ([]*notes.Note, error)
	Settings() notes.Settings
}

// CategoriesSource lists a user's categories.
type CategoriesSource interface {
	List(ctx context.Context, userID bson.ObjectID) (*categories.ListCategoriesResponse, error)
}

// Handlers serves the dashboard.
type Handlers struct {
	notes      NotesSource
	categories CategoriesSource
	now        func() time.Time
}

// NewHandlers creates the dashboard handlers.
func NewHandlers(n NotesSource, c CategoriesSource) *Handlers {
	return &Handlers{notes: n, categories: c, now: time.Now}
}

// Dashboard returns usage analytics
// @Summary Usage dashboard
// @Description Monthly activity, most viewed note, average length, category breakdown and remaining quota.
// @Tags stats
// @Produce json
// @Security Bearer
// @Success 200 {object} analytics.Dashboard
// @Failure 401 {object} httperr.E
// @Router /stats [get]
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var (
		all  []*notes.Note
		cats *categories.ListCategoriesResponse
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		var err error
		all, err = h.notes.All(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = h.categories.List(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return handlerutil.HandleServiceError(c, err, "Dashboard", userID)
	}

	settings := h.notes.Settings()
	return c.JSON(analytics.Compute(h.now(), all, cats.Categories, settings.Quota, settings.IncludeArchived))
}
