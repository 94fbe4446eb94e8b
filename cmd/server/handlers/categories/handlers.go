package categories

import (
	"context"

	"inkline/cmd/server/handlers/handlerutil"
	"inkline/internal/services/categories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for categories service
type Service interface {
	List(ctx context.Context, userID bson.ObjectID) (*categories.ListCategoriesResponse, error)
	Create(ctx context.Context, userID bson.ObjectID, req categories.CreateCategoryRequest) (*categories.CategoryResponse, error)
	Delete(ctx context.Context, userID bson.ObjectID, id string) (*categories.DeleteCategoryResponse, error)
}

// Handlers contains the categories HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new categories handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{service: service, validator: validator}
}

// List returns the user's categories
// @Summary List categories ordered by name
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {object} categories.ListCategoriesResponse
// @Failure 401 {object} httperr.E
// @Router /categories [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "ListCategories", userID)
	}
	return c.JSON(resp)
}

// Create finds or creates a category by name
// @Summary Create a category, or return the existing one with the same name
// @Description Names are matched case-insensitively.
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body categories.CreateCategoryRequest true "Category name"
// @Success 200 {object} categories.CategoryResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /categories [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req categories.CreateCategoryRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "CreateCategory"); err != nil {
		return err
	}

	resp, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "CreateCategory", userID,
			handlerutil.Map(categories.ErrEmptyName, fiber.StatusBadRequest),
			handlerutil.Map(categories.ErrNameTooLong, fiber.StatusBadRequest),
		)
	}
	return c.JSON(resp)
}

// Delete removes a category
// @Summary Delete a category and clear it from its notes
// @Tags categories
// @Produce json
// @Security Bearer
// @Param id path string true "Category ID"
// @Success 200 {object} categories.DeleteCategoryResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /categories/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Delete(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "DeleteCategory", userID,
			handlerutil.Map(categories.ErrCategoryNotFound, fiber.StatusNotFound),
			handlerutil.Map(categories.ErrInvalidID, fiber.StatusNotFound),
		)
	}
	return c.JSON(resp)
}
