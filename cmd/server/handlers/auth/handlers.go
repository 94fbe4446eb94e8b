package auth

import (
	"context"
	"errors"

	"inkline/cmd/server/handlers/handlerutil"
	"inkline/cmd/server/handlers/httperr"
	"inkline/internal/logger"
	"inkline/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type AuthService interface {
	SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.AuthResponse, error)
	SignIn(ctx context.Context, req auth.SignInRequest) (*auth.AuthResponse, error)
	Me(ctx context.Context, userID bson.ObjectID) (*auth.User, error)
}

// MeResponse wraps the current identity.
type MeResponse struct {
	User *auth.User `json:"user"`
}

type Handlers struct {
	svc       AuthService
	validator *validator.Validate
}

func NewHandlers(svc AuthService, v *validator.Validate) *Handlers {
	return &Handlers{svc: svc, validator: v}
}

// SignUp registers an account and returns its first token.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignUpRequest true "Email and password"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /auth/sign-up [post]
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req auth.SignUpRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SignUp"); err != nil {
		return err
	}

	res, err := h.svc.SignUp(c.UserContext(), req)
	switch {
	case errors.Is(err, auth.ErrRegistrationFailed):
		logger.L().Info("signup rejected", "handler", "SignUp", "remote", c.IP())
		return httperr.Fail(httperr.BadRequest(err.Error()))
	case err != nil:
		logger.L().Error("signup failed", "handler", "SignUp", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// SignIn exchanges credentials for a token.
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignInRequest true "Email and password"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /auth/sign-in [post]
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req auth.SignInRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SignIn"); err != nil {
		return err
	}

	res, err := h.svc.SignIn(c.UserContext(), req)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		logger.L().Info("signin rejected", "handler", "SignIn", "remote", c.IP())
		return httperr.Fail(httperr.E{Status: fiber.StatusUnauthorized, Message: err.Error()})
	case err != nil:
		logger.L().Error("signin failed", "handler", "SignIn", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}
	return c.JSON(res)
}

// Me returns the user behind the bearer token.
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} MeResponse
// @Failure 401 {object} httperr.E
// @Router /me [get]
func (h *Handlers) Me(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.Me(c.UserContext(), userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		// the token outlived its account
		return httperr.Fail(httperr.ErrUserNotAuthenticated)
	}
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Me", userID)
	}
	return c.JSON(MeResponse{User: user})
}
