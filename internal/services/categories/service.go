package categories

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"inkline/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxNameLen caps category names, in characters.
const MaxNameLen = 64

// Service handles category business logic
type Service struct {
	repo  Repository
	notes NoteUnlinker
	log   *slog.Logger
}

// NewService creates a new categories service
func NewService(repo Repository, notes NoteUnlinker, log *slog.Logger) *Service {
	return &Service{repo: repo, notes: notes, log: log}
}

// List returns the user's categories ordered by name.
func (s *Service) List(ctx context.Context, userID bson.ObjectID) (*ListCategoriesResponse, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.Error("failed to list categories", "error", err, "user_id", userID.Hex())
		return nil, err
	}
	if list == nil {
		list = []*Category{}
	}
	return &ListCategoriesResponse{Categories: list}, nil
}

// Create finds the category with the same name (ignoring case) or creates it.
func (s *Service) Create(ctx context.Context, userID bson.ObjectID, req CreateCategoryRequest) (*CategoryResponse, error) {
	name := strings.TrimSpace(sanitize.Line(req.Name))
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}

	cat, err := s.repo.Upsert(ctx, &Category{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Name:      name,
		NameKey:   NameKey(name),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("failed to upsert category", "error", err, "user_id", userID.Hex())
		return nil, err
	}
	return &CategoryResponse{Category: cat}, nil
}

// Delete removes a category and detaches it from every note that used it.
func (s *Service) Delete(ctx context.Context, userID bson.ObjectID, id string) (*DeleteCategoryResponse, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.repo.Delete(ctx, userID, oid); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.log.Error("failed to delete category", "error", err, "user_id", userID.Hex())
		return nil, err
	}

	cleared, err := s.notes.ClearCategory(ctx, userID, oid)
	if err != nil {
		s.log.Error("failed to clear category from notes", "error", err, "user_id", userID.Hex(), "category_id", id)
		return nil, err
	}
	return &DeleteCategoryResponse{ID: id, NotesCleared: cleared}, nil
}

// Exists reports whether the category belongs to the user.
func (s *Service) Exists(ctx context.Context, userID, id bson.ObjectID) (bool, error) {
	_, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, ErrCategoryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
