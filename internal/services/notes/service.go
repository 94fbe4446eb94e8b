package notes

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"inkline/internal/utils/sanitize"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Settings holds the per-deployment note rules.
type Settings struct {
	Quota           int
	IncludeArchived bool
	BodyMaxChars    int
}

// Service handles notes business logic
type Service struct {
	repo     Repository
	cats     CategoryLookup
	settings Settings
	log      *slog.Logger
	now      func() time.Time
	newShare func() string

	// creating holds one *sync.Mutex per user so the quota count and the
	// insert that follows it cannot interleave with another create.
	creating sync.Map
}

// NewService creates a new notes service
func NewService(repo Repository, cats CategoryLookup, settings Settings, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cats:     cats,
		settings: settings,
		log:      log,
		now:      time.Now,
		newShare: uuid.NewString,
	}
}

// Settings returns the rules the service enforces.
func (s *Service) Settings() Settings {
	return s.settings
}

// CreateNoteRequest represents a note creation request. Both fields are optional.
type CreateNoteRequest struct {
	Title string `json:"title" validate:"omitempty,max=256" example:"Meeting Notes"`
	Body  string `json:"body" example:"Remember to discuss the quarterly targets"`
}

// UpdateNoteRequest represents a note update request
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,max=256" example:"Updated Meeting Notes"`
	Body  *string `json:"body,omitempty" example:"Updated content for the meeting"`
}

// ListNotesRequest represents a list notes request
type ListNotesRequest struct {
	Archived bool   `query:"archived" example:"false"`
	Q        string `query:"q"     validate:"omitempty,max=256" example:"meeting"`
	Sort     string `query:"sort"  validate:"omitempty,oneof=created_at updated_at title" example:"updated_at"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc ASC DESC" example:"desc"`
}

// IDsRequest carries the ids of a bulk operation.
type IDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,required" example:"683cdb8aa96ad71e8e075bd1"`
}

// ShareRequest toggles public visibility.
type ShareRequest struct {
	Public bool `json:"public" example:"true"`
}

// CategoryRequest assigns or clears the category of a note.
type CategoryRequest struct {
	CategoryID *string `json:"category_id" example:"683cdb8aa96ad71e8e075bd9"`
}

// NoteResponse represents a single note response
type NoteResponse struct {
	Note *Note `json:"note"`
}

// ListNotesResponse represents a list of notes response
type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

// DeleteNotesResponse lists the ids the store actually removed.
type DeleteNotesResponse struct {
	DeletedIDs []string `json:"deleted_ids" example:"683cdb8aa96ad71e8e075bd1"`
}

// SharedNoteResponse wraps the public projection.
type SharedNoteResponse struct {
	Note *SharedNote `json:"note"`
}

// Create creates a new note unless the user is already at the quota.
func (s *Service) Create(ctx context.Context, userID bson.ObjectID, req CreateNoteRequest) (*NoteResponse, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	count, err := s.repo.Count(ctx, userID, s.settings.IncludeArchived)
	if err != nil {
		s.log.Error(ErrCreateNote.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrCreateNote
	}
	if count >= int64(s.settings.Quota) {
		s.log.Info("note quota reached", "user_id", userID.Hex(), "count", count)
		return nil, ErrQuotaReached
	}

	if utf8.RuneCountInString(req.Body) > s.settings.BodyMaxChars {
		return nil, ErrBodyTooLong
	}

	title := sanitize.Line(req.Title)
	if title == "" {
		title = DefaultTitle
	}

	now := s.now()
	note := &Note{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Body:      sanitize.Text(req.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.log.Error(ErrCreateNote.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrCreateNote
	}

	return &NoteResponse{Note: note}, nil
}

func (s *Service) lockUser(userID bson.ObjectID) func() {
	v, _ := s.creating.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// List retrieves the active or archived notes of a user.
func (s *Service) List(ctx context.Context, userID bson.ObjectID, req ListNotesRequest) (*ListNotesResponse, error) {
	archived := req.Archived
	filter := ListFilter{
		Archived: &archived,
		Q:        strings.TrimSpace(req.Q),
		Sort:     req.Sort,
		Desc:     true,
	}
	if filter.Sort == "" {
		filter.Sort = "updated_at"
	}
	if req.Order != "" {
		filter.Desc = strings.EqualFold(req.Order, "desc")
	}

	list, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrListNotes
	}
	if list == nil {
		list = []*Note{}
	}
	return &ListNotesResponse{Notes: list}, nil
}

// All returns every note of the user, active and archived.
func (s *Service) All(ctx context.Context, userID bson.ObjectID) ([]*Note, error) {
	list, err := s.repo.List(ctx, userID, ListFilter{Sort: "updated_at", Desc: true})
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrListNotes
	}
	return list, nil
}

// Get fetches one owned note.
func (s *Service) Get(ctx context.Context, userID, noteID bson.ObjectID) (*NoteResponse, error) {
	note, err := s.repo.Get(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.log.Error("failed to get note", "error", err, "user_id", userID.Hex(), "note_id", noteID.Hex())
		return nil, err
	}
	return &NoteResponse{Note: note}, nil
}

// Update changes title and/or body of a note belonging to the user.
func (s *Service) Update(ctx context.Context, userID, noteID bson.ObjectID, req UpdateNoteRequest) (*NoteResponse, error) {
	if req.Title == nil && req.Body == nil {
		return nil, ErrEmptyPatch
	}
	if req.Body != nil && utf8.RuneCountInString(*req.Body) > s.settings.BodyMaxChars {
		return nil, ErrBodyTooLong
	}

	var patch UpdateNote
	if req.Title != nil {
		title := sanitize.Line(*req.Title)
		patch.Title = &title
	}
	if req.Body != nil {
		body := sanitize.Text(*req.Body)
		patch.Body = &body
	}

	updated, err := s.repo.Update(ctx, userID, noteID, patch)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for update", "user_id", userID.Hex(), "note_id", noteID.Hex())
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrUpdateNote.Error(), "error", err, "user_id", userID.Hex(), "note_id", noteID.Hex())
		return nil, ErrUpdateNote
	}

	return &NoteResponse{Note: updated}, nil
}

// Archive moves notes out of the primary list and returns the moved records.
func (s *Service) Archive(ctx context.Context, userID bson.ObjectID, ids []string) (*ListNotesResponse, error) {
	return s.setArchived(ctx, userID, ids, true)
}

// Restore moves archived notes back to the primary list.
func (s *Service) Restore(ctx context.Context, userID bson.ObjectID, ids []string) (*ListNotesResponse, error) {
	return s.setArchived(ctx, userID, ids, false)
}

func (s *Service) setArchived(ctx context.Context, userID bson.ObjectID, ids []string, archived bool) (*ListNotesResponse, error) {
	oids, err := ParseIDs(ids)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.SetArchived(ctx, userID, oids, archived)
	if err != nil {
		s.log.Error(ErrUpdateNote.Error(), "error", err, "user_id", userID.Hex(), "archived", archived)
		return nil, ErrUpdateNote
	}
	if moved == nil {
		moved = []*Note{}
	}
	return &ListNotesResponse{Notes: moved}, nil
}

// Delete removes notes and reports the ids that were actually deleted.
func (s *Service) Delete(ctx context.Context, userID bson.ObjectID, ids []string) (*DeleteNotesResponse, error) {
	oids, err := ParseIDs(ids)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, userID, oids)
	if err != nil {
		s.log.Error(ErrDeleteNote.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrDeleteNote
	}

	out := make([]string, 0, len(deleted))
	for _, id := range deleted {
		out = append(out, id.Hex())
	}
	return &DeleteNotesResponse{DeletedIDs: out}, nil
}

// SetSharing flips public visibility. A share id is issued the first time a
// note is made public and kept from then on.
func (s *Service) SetSharing(ctx context.Context, userID, noteID bson.ObjectID, public bool) (*NoteResponse, error) {
	var candidate string
	if public {
		candidate = s.newShare()
	}

	note, err := s.repo.SetSharing(ctx, userID, noteID, public, candidate)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrUpdateNote.Error(), "error", err, "user_id", userID.Hex(), "note_id", noteID.Hex())
		return nil, ErrUpdateNote
	}
	return &NoteResponse{Note: note}, nil
}

// SetCategory assigns a category to a note, or clears it when categoryID is nil.
func (s *Service) SetCategory(ctx context.Context, userID, noteID bson.ObjectID, categoryID *string) (*NoteResponse, error) {
	var catID *bson.ObjectID
	if categoryID != nil && *categoryID != "" {
		oid, err := bson.ObjectIDFromHex(*categoryID)
		if err != nil {
			return nil, ErrInvalidID
		}
		ok, err := s.cats.Exists(ctx, userID, oid)
		if err != nil {
			s.log.Error("failed to look up category", "error", err, "user_id", userID.Hex())
			return nil, ErrUpdateNote
		}
		if !ok {
			return nil, ErrCategoryNotFound
		}
		catID = &oid
	}

	note, err := s.repo.SetCategory(ctx, userID, noteID, catID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrUpdateNote.Error(), "error", err, "user_id", userID.Hex(), "note_id", noteID.Hex())
		return nil, ErrUpdateNote
	}
	return &NoteResponse{Note: note}, nil
}

// ClearCategory detaches every note of the user from categoryID.
func (s *Service) ClearCategory(ctx context.Context, userID, categoryID bson.ObjectID) (int64, error) {
	return s.repo.ClearCategory(ctx, userID, categoryID)
}

// Shared resolves a public share id, counting the visit.
func (s *Service) Shared(ctx context.Context, shareID string) (*SharedNoteResponse, error) {
	if strings.TrimSpace(shareID) == "" {
		return nil, ErrShareNotFound
	}

	note, err := s.repo.FindShared(ctx, shareID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrShareNotFound
		}
		s.log.Error("failed to load shared note", "error", err, "share_id", shareID)
		return nil, err
	}
	return &SharedNoteResponse{Note: note.Shared()}, nil
}

// Export returns the notes to bundle into an archive. An empty id list
// selects the whole active or archived view.
func (s *Service) Export(ctx context.Context, userID bson.ObjectID, ids []string, archived bool) ([]*Note, error) {
	filter := ListFilter{Sort: "updated_at", Desc: true}
	if len(ids) == 0 {
		filter.Archived = &archived
	} else {
		oids, err := ParseIDs(ids)
		if err != nil {
			return nil, err
		}
		filter.IDs = oids
	}

	list, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrListNotes
	}
	return list, nil
}

// ParseIDs converts hex ids, rejecting empty input and malformed values.
func ParseIDs(ids []string) ([]bson.ObjectID, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	out := make([]bson.ObjectID, 0, len(ids))
	seen := make(map[bson.ObjectID]struct{}, len(ids))
	for _, raw := range ids {
		oid, err := bson.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			return nil, ErrInvalidID
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out, nil
}
