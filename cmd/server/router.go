package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkline/cmd/server/handlers"
	authHandlers "inkline/cmd/server/handlers/auth"
	categoriesHandlers "inkline/cmd/server/handlers/categories"
	"inkline/cmd/server/handlers/httperr"
	notesHandlers "inkline/cmd/server/handlers/notes"
	statsHandlers "inkline/cmd/server/handlers/stats"
	"inkline/cmd/server/middlewares"
	"inkline/internal/clients/mongo"
	"inkline/internal/config"
	"inkline/internal/logger"
	authServices "inkline/internal/services/auth"
	categoriesServices "inkline/internal/services/categories"
	notesServices "inkline/internal/services/notes"
	"inkline/internal/utils/crypto"

	_ "inkline/docs" // Load swagger docs

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	RateLimitExpiration = 1 * time.Minute
)

// notesService is what the notes and dashboard routes need from the notes domain.
type notesService interface {
	notesHandlers.Service
	statsHandlers.NotesSource
}

// deps are the services behind the routes.
type deps struct {
	auth       authHandlers.AuthService
	notes      notesService
	categories categoriesHandlers.Service
	healthz    fiber.Handler
}

// setupRouter wires the Mongo-backed services and returns the Fiber app.
func setupRouter(ctx context.Context, cfg config.Config) (*fiber.App, error) {
	d, err := newDeps(ctx, cfg, mongo.DB())
	if err != nil {
		return nil, err
	}
	return newApp(cfg, d)
}

func newDeps(ctx context.Context, cfg config.Config, db *mongodrv.Database) (deps, error) {
	if db == nil {
		return deps{}, errors.New("database not initialized")
	}

	usersRepo, err := mongo.NewUsersRepo(ctx, db)
	if err != nil {
		return deps{}, fmt.Errorf("users repository: %w", err)
	}
	notesRepo, err := mongo.NewNotesRepo(ctx, db)
	if err != nil {
		return deps{}, fmt.Errorf("%w: %w", notesServices.ErrCreateNotesRepo, err)
	}
	categoriesRepo, err := mongo.NewCategoriesRepo(ctx, db)
	if err != nil {
		return deps{}, fmt.Errorf("categories repository: %w", err)
	}

	log := logger.L()
	categoriesSvc := categoriesServices.NewService(categoriesRepo, notesRepo, log)
	notesSvc := notesServices.NewService(notesRepo, categoriesSvc, notesServices.Settings{
		Quota:           cfg.NoteQuota,
		IncludeArchived: cfg.QuotaIncludesArchived(),
		BodyMaxChars:    cfg.BodyMaxChars,
	}, log)

	return deps{
		auth:       authServices.NewService(usersRepo, cfg, log),
		notes:      notesSvc,
		categories: categoriesSvc,
		healthz:    handlers.Healthz,
	}, nil
}

// newApp configures a Fiber app with all routes over d.
func newApp(cfg config.Config, d deps) (*fiber.App, error) {
	v := validator.New()
	if err := crypto.RegisterPasswordValidator(v); err != nil {
		return nil, fmt.Errorf("register password validator: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Content-Type, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	// Health check endpoint, outside versioned API to appease scanners and to avoid logging
	app.Get("/healthz", d.healthz)

	app.Get("/docs/*", swagger.HandlerDefault)

	notesH := notesHandlers.NewHandlers(d.notes, v)

	// Public share links are not versioned: they are handed out to people.
	app.Get("/share/:shareId", notesH.Shared)

	var v1 fiber.Router
	if cfg.RequestLoggingEnabled {
		v1 = app.Group("/api/v1", fiberlogger.New())
		logger.L().Info("request logging enabled")
	} else {
		v1 = app.Group("/api/v1")
		logger.L().Info("request logging disabled")
	}

	jwtMiddleware := middlewares.JWT(cfg)

	authH := authHandlers.NewHandlers(d.auth, v)
	authGrp := v1.Group("/auth", middlewares.BuildRateLimiter(cfg.SignInRatePerMin, RateLimitExpiration))
	authGrp.Post("/sign-up", authH.SignUp)
	authGrp.Post("/sign-in", authH.SignIn)

	v1.Get("/me", jwtMiddleware, authH.Me)

	notesGrp := v1.Group("/notes", jwtMiddleware)
	notesGrp.Get("/", notesH.List)
	notesGrp.Post("/", notesH.Create)
	notesGrp.Delete("/", notesH.Delete)
	notesGrp.Get("/export", notesH.Export)
	notesGrp.Post("/archive", notesH.Archive)
	notesGrp.Post("/restore", notesH.Restore)
	notesGrp.Get("/:id", notesH.Get)
	notesGrp.Patch("/:id", notesH.Update)
	notesGrp.Put("/:id/share", notesH.Share)
	notesGrp.Put("/:id/category", notesH.SetCategory)

	categoriesH := categoriesHandlers.NewHandlers(d.categories, v)
	catGrp := v1.Group("/categories", jwtMiddleware)
	catGrp.Get("/", categoriesH.List)
	catGrp.Post("/", categoriesH.Create)
	catGrp.Delete("/:id", categoriesH.Delete)

	statsH := statsHandlers.NewHandlers(d.notes, d.categories)
	v1.Get("/stats", jwtMiddleware, statsH.Dashboard)

	return app, nil
}
