// Package httperr renders every failed request as {"error": "..."}.
package httperr

import (
	"errors"

	"inkline/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// E is an error with the HTTP status it should be reported with.
type E struct {
	Status  int    `json:"-" example:"400"`
	Message string `json:"error" example:"Bad Request"`
}

func (e E) Error() string { return e.Message }

// StatusCode reports the HTTP status of the error.
func (e E) StatusCode() int { return e.Status }

// JSON writes the error body with its status.
func (e E) JSON(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(e)
}

// Fail hands err to the global error handler.
func Fail(err E) error {
	return err
}

// InvalidInput reports a request that failed validation.
func InvalidInput(err error) error {
	return Fail(BadRequest("Invalid input: " + err.Error()))
}

func BadRequest(message string) E    { return E{Status: fiber.StatusBadRequest, Message: message} }
func NotFound(message string) E      { return E{Status: fiber.StatusNotFound, Message: message} }
func Conflict(message string) E      { return E{Status: fiber.StatusConflict, Message: message} }
func InternalError(message string) E { return E{Status: fiber.StatusInternalServerError, Message: message} }

var (
	ErrBadRequest           = BadRequest("Bad Request")
	ErrUnauthorized         = E{Status: fiber.StatusUnauthorized, Message: "Unauthorized"}
	ErrUserNotAuthenticated = E{Status: fiber.StatusUnauthorized, Message: "User not authenticated"}
	ErrInvalidToken         = E{Status: fiber.StatusUnauthorized, Message: "Invalid or expired token"}
	ErrTooManyRequests      = E{Status: fiber.StatusTooManyRequests, Message: "Too Many Requests"}
	ErrInternal             = InternalError("Internal Server Error")
)

// Handler is the Fiber ErrorHandler. Errors that carry no status are logged
// and reported as 500.
func Handler(c *fiber.Ctx, err error) error {
	var e E
	if errors.As(err, &e) {
		return e.JSON(c)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return E{Status: fe.Code, Message: fe.Message}.JSON(c)
	}

	logger.L().Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return ErrInternal.JSON(c)
}
