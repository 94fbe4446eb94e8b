package middlewares

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// normalizeRoutePath returns the route template to prevent high cardinality
// in metrics labels. Returns the actual path for unmatched routes (404s).
func normalizeRoutePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil {
		return route.Path // already the template (e.g., "/notes/:id")
	}
	return c.Path() // fallback for 404 etc.
}

// normalizeStatus returns the status code as a string for Prometheus metrics
// 2xx -> "2xx", 4xx -> "4xx", 5xx -> "5xx"
func normalizeStatus(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return strconv.Itoa(status)
}

type noteEvent struct {
	method string
	path   string
	status int
	name   string
}

// noteEvents names the product events derived from request outcomes.
var noteEvents = []noteEvent{
	{fiber.MethodPost, "/api/v1/notes", fiber.StatusCreated, "note_created"},
	{fiber.MethodPost, "/api/v1/notes", fiber.StatusConflict, "quota_rejected"},
	{fiber.MethodPatch, "/api/v1/notes/:id", fiber.StatusOK, "note_saved"},
	{fiber.MethodPost, "/api/v1/notes/archive", fiber.StatusOK, "notes_archived"},
	{fiber.MethodPost, "/api/v1/notes/restore", fiber.StatusOK, "notes_restored"},
	{fiber.MethodDelete, "/api/v1/notes", fiber.StatusOK, "notes_deleted"},
	{fiber.MethodGet, "/api/v1/notes/export", fiber.StatusOK, "notes_exported"},
	{fiber.MethodGet, "/share/:shareId", fiber.StatusOK, "share_viewed"},
	{fiber.MethodGet, "/share/:shareId", fiber.StatusNotFound, "share_missed"},
	{fiber.MethodPost, "/api/v1/auth/sign-in", fiber.StatusUnauthorized, "sign_in_failed"},
}

func eventFor(method, path string, status int) (string, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, ev := range noteEvents {
		if ev.method == method && ev.path == path && ev.status == status {
			return ev.name, true
		}
	}
	return "", false
}

// errorStatus resolves the status the global error handler will render.
func errorStatus(err error) int {
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		return coded.StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// AttachMetrics gives the supplied Fiber app its **own** Prometheus registry
// and wires a /metrics endpoint plus request-timing middleware. Requests that
// map to a note event also bump inkline_note_events_total.
func AttachMetrics(app *fiber.App) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	// collectors
	reqDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkline_note_events_total",
			Help: "Note lifecycle events observed at the API",
		},
		[]string{"event"},
	)

	reg.MustRegister(reqDuration, reqTotal, events)

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		dur := time.Since(start).Seconds()

		method := c.Method()
		path := normalizeRoutePath(c)
		code := c.Response().StatusCode()
		if err != nil {
			// The global error handler runs after this middleware returns.
			code = errorStatus(err)
		}
		status := normalizeStatus(code)

		reqDuration.WithLabelValues(method, path, status).Observe(dur)
		reqTotal.WithLabelValues(method, path, status).Inc()
		if ev, ok := eventFor(method, path, code); ok {
			events.WithLabelValues(ev).Inc()
		}
		return err
	})

	// /metrics handler (uses *this* registry)
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	return reg
}
