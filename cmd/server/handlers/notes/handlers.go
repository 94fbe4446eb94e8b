package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"inkline/cmd/server/handlers/handlerutil"
	"inkline/cmd/server/handlers/httperr"
	"inkline/internal/export"
	"inkline/internal/logger"
	"inkline/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for notes service
type Service interface {
	Create(ctx context.Context, userID bson.ObjectID, req notes.CreateNoteRequest) (*notes.NoteResponse, error)
	List(ctx context.Context, userID bson.ObjectID, req notes.ListNotesRequest) (*notes.ListNotesResponse, error)
	Get(ctx context.Context, userID, noteID bson.ObjectID) (*notes.NoteResponse, error)
	Update(ctx context.Context, userID, noteID bson.ObjectID, req notes.UpdateNoteRequest) (*notes.NoteResponse, error)
	Archive(ctx context.Context, userID bson.ObjectID, ids []string) (*notes.ListNotesResponse, error)
	Restore(ctx context.Context, userID bson.ObjectID, ids []string) (*notes.ListNotesResponse, error)
	Delete(ctx context.Context, userID bson.ObjectID, ids []string) (*notes.DeleteNotesResponse, error)
	SetSharing(ctx context.Context, userID, noteID bson.ObjectID, public bool) (*notes.NoteResponse, error)
	SetCategory(ctx context.Context, userID, noteID bson.ObjectID, categoryID *string) (*notes.NoteResponse, error)
	Shared(ctx context.Context, shareID string) (*notes.SharedNoteResponse, error)
	Export(ctx context.Context, userID bson.ObjectID, ids []string, archived bool) ([]*notes.Note, error)
}

// ExportRequest selects the notes bundled by Export.
type ExportRequest struct {
	IDs      string `query:"ids" example:"683cdb8aa96ad71e8e075bd1,683cdb8aa96ad71e8e075bd2"`
	Archived bool   `query:"archived" example:"false"`
}

// Handlers contains the notes HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new notes handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

var (
	notFound   = handlerutil.Map(notes.ErrNoteNotFound, fiber.StatusNotFound)
	badIDs     = handlerutil.Map(notes.ErrInvalidID, fiber.StatusBadRequest)
	noIDs      = handlerutil.Map(notes.ErrNoIDs, fiber.StatusBadRequest)
	tooLong    = handlerutil.Map(notes.ErrBodyTooLong, fiber.StatusBadRequest)
	emptyPatch = handlerutil.Map(notes.ErrEmptyPatch, fiber.StatusBadRequest)
	quotaFull  = handlerutil.Map(notes.ErrQuotaReached, fiber.StatusConflict)
	missingCat = handlerutil.Map(notes.ErrCategoryNotFound, fiber.StatusNotFound)
)

// Create handles note creation
// @Summary Create a new note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.CreateNoteRequest false "Create note request"
// @Success 201 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /notes [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.CreateNoteRequest
	if len(c.Body()) > 0 {
		if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
			return err
		}
	}

	resp, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Create", userID, quotaFull, tooLong)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List handles notes listing
// @Summary List active or archived notes with search and sorting
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param archived query bool false "List the archived view instead of the active one"
// @Param q query string false "Case-insensitive title search"
// @Param sort query string false "Sort field: created_at|updated_at|title"
// @Param order query string false "asc|desc (default desc)"
// @Success 200 {object} notes.ListNotesResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.ListNotesRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	resp, err := h.service.List(c.UserContext(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "List", userID)
	}

	return c.JSON(resp)
}

// Get returns one note
// @Summary Get a note
// @Tags notes
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} notes.NoteResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractID(c, "id", userID, "Get", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.UserContext(), userID, noteID)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Get", userID, notFound)
	}

	return c.JSON(resp)
}

// Update handles note updates
// @Summary Update the title and/or body of a note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param request body notes.UpdateNoteRequest true "Update note request"
// @Success 200 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [patch]
func (h *Handlers) Update(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractID(c, "id", userID, "Update", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	var req notes.UpdateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	resp, err := h.service.Update(c.UserContext(), userID, noteID, req)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Update", userID, notFound, tooLong, emptyPatch)
	}

	return c.JSON(resp)
}

// Archive moves notes to the archived view
// @Summary Archive notes
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.IDsRequest true "Notes to archive"
// @Success 200 {object} notes.ListNotesResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes/archive [post]
func (h *Handlers) Archive(c *fiber.Ctx) error {
	return h.bulk(c, "Archive", h.service.Archive)
}

// Restore moves archived notes back to the active view
// @Summary Restore archived notes
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.IDsRequest true "Notes to restore"
// @Success 200 {object} notes.ListNotesResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes/restore [post]
func (h *Handlers) Restore(c *fiber.Ctx) error {
	return h.bulk(c, "Restore", h.service.Restore)
}

func (h *Handlers) bulk(
	c *fiber.Ctx,
	name string,
	op func(context.Context, bson.ObjectID, []string) (*notes.ListNotesResponse, error),
) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.IDsRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, name); err != nil {
		return err
	}

	resp, err := op(c.UserContext(), userID, req.IDs)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, name, userID, badIDs, noIDs)
	}

	return c.JSON(resp)
}

// Delete handles note deletion
// @Summary Delete notes
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.IDsRequest true "Notes to delete"
// @Success 200 {object} notes.DeleteNotesResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.IDsRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Delete"); err != nil {
		return err
	}

	resp, err := h.service.Delete(c.UserContext(), userID, req.IDs)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Delete", userID, badIDs, noIDs)
	}

	return c.JSON(resp)
}

// Share toggles public visibility
// @Summary Make a note public or private
// @Description The share id is issued the first time a note is made public and never rotated.
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param request body notes.ShareRequest true "Visibility"
// @Success 200 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id}/share [put]
func (h *Handlers) Share(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractID(c, "id", userID, "Share", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	var req notes.ShareRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Share"); err != nil {
		return err
	}

	resp, err := h.service.SetSharing(c.UserContext(), userID, noteID, req.Public)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Share", userID, notFound)
	}

	return c.JSON(resp)
}

// SetCategory assigns or clears the category of a note
// @Summary Assign a category to a note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param request body notes.CategoryRequest true "Category id, or null to clear"
// @Success 200 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id}/category [put]
func (h *Handlers) SetCategory(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractID(c, "id", userID, "SetCategory", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	var req notes.CategoryRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SetCategory"); err != nil {
		return err
	}

	resp, err := h.service.SetCategory(c.UserContext(), userID, noteID, req.CategoryID)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "SetCategory", userID, notFound, missingCat, badIDs)
	}

	return c.JSON(resp)
}

// Export streams a zip archive with one text file per note
// @Summary Export notes as a zip archive
// @Description Without ids the whole active (or archived) view is exported.
// @Tags notes
// @Produce application/zip
// @Security Bearer
// @Param ids query string false "Comma separated note ids"
// @Param archived query bool false "Export the archived view"
// @Success 200 {file} file
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/export [get]
func (h *Handlers) Export(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req ExportRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "Export"); err != nil {
		return err
	}

	var ids []string
	for _, id := range strings.Split(req.IDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	list, err := h.service.Export(c.UserContext(), userID, ids, req.Archived)
	if err != nil {
		return handlerutil.HandleServiceError(c, err, "Export", userID, badIDs)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, list); err != nil {
		return handlerutil.HandleServiceError(c, err, "Export", userID,
			handlerutil.Map(export.ErrNothingToExport, fiber.StatusNotFound))
	}

	logger.L().Debug("notes exported", "userID", userID.Hex(), "count", len(list), "archived", req.Archived)

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.ArchiveName(req.Archived)))
	return c.Send(buf.Bytes())
}

// Shared serves the public projection of a shared note
// @Summary Read a publicly shared note
// @Description Each successful read increments the view counter.
// @Tags share
// @Produce json
// @Param shareId path string true "Share ID"
// @Success 200 {object} notes.SharedNoteResponse
// @Failure 404 {object} httperr.E
// @Router /share/{shareId} [get]
func (h *Handlers) Shared(c *fiber.Ctx) error {
	resp, err := h.service.Shared(c.UserContext(), c.Params("shareId"))
	if err != nil {
		if errors.Is(err, notes.ErrShareNotFound) {
			c.Locals("log_level", "info")
			return httperr.Fail(httperr.NotFound(notes.PrivateShareMessage))
		}
		return handlerutil.HandleServiceError(c, err, "Shared", bson.ObjectID{})
	}

	return c.JSON(resp)
}
