package handlerutil

import (
	"errors"

	"inkline/cmd/server/handlers/httperr"
	"inkline/internal/logger"
	util "inkline/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Mapping pairs a domain sentinel with the status it is reported under.
type Mapping struct {
	Err    error
	Status int
}

// Map is shorthand for building a Mapping.
func Map(err error, status int) Mapping {
	return Mapping{Err: err, Status: status}
}

// NotFoundError reports err as 404.
func NotFoundError(err error) error {
	return httperr.Fail(httperr.NotFound(err.Error()))
}

// GetUserID returns the account the JWT middleware authenticated. Routes
// outside the middleware get 401.
func GetUserID(c *fiber.Ctx) (bson.ObjectID, error) {
	raw, ok := c.Locals("userID").(string)
	if !ok {
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}
	userID, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		logger.L().Warn("token subject is not an object id", "subject", raw, "path", c.Path())
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}
	return userID, nil
}

// ParseAndValidateBody decodes the request body into req and validates it.
func ParseAndValidateBody(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	return parseAndValidate(c, "body", c.BodyParser, req, v, handlerName)
}

// ParseAndValidateQuery decodes the query string into req and validates it.
func ParseAndValidateQuery(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	return parseAndValidate(c, "query", c.QueryParser, req, v, handlerName)
}

func parseAndValidate(c *fiber.Ctx, source string, parse func(any) error, req any, v *validator.Validate, handlerName string) error {
	userID, _ := GetUserID(c)
	fields := []any{"handler", handlerName, "source", source, "userID", userID.Hex()}

	if err := parse(req); err != nil {
		logger.L().Warn("failed to parse request", append(fields, "error", err)...)
		return httperr.Fail(httperr.ErrBadRequest)
	}
	if err := util.ValidateCtx(c.UserContext(), v, req); err != nil {
		logger.L().Warn("request validation failed", append(fields, "error", err)...)
		return httperr.InvalidInput(err)
	}
	return nil
}

// ExtractID reads an ObjectID route parameter. Missing or malformed ids are
// reported as notFoundErr so probing ids reveals nothing.
func ExtractID(c *fiber.Ctx, param string, userID bson.ObjectID, handlerName string, notFoundErr error) (bson.ObjectID, error) {
	raw := c.Params(param)
	if raw == "" {
		logger.L().Warn("missing id parameter", "handler", handlerName, "param", param, "userID", userID.Hex(), "path", c.Path())
		return bson.ObjectID{}, NotFoundError(notFoundErr)
	}

	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		logger.L().Warn("invalid id parameter", "handler", handlerName, "param", param, "userID", userID.Hex(), "value", raw, "error", err)
		return bson.ObjectID{}, NotFoundError(notFoundErr)
	}

	return id, nil
}

// HandleServiceError reports err under the first matching mapping. Anything
// unmapped becomes a 500.
func HandleServiceError(c *fiber.Ctx, err error, handlerName string, userID bson.ObjectID, mappings ...Mapping) error {
	logFields := []any{"handler", handlerName, "userID", userID.Hex(), "error", err}

	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			c.Locals("log_level", "info")
			logger.L().Info("request rejected", append(logFields, "status", m.Status)...)
			return httperr.Fail(httperr.E{Status: m.Status, Message: m.Err.Error()})
		}
	}

	logger.L().Error("service operation failed", logFields...)
	return httperr.Fail(httperr.ErrInternal)
}
