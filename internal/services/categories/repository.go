package categories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrCategoryNotFound is returned when the category does not exist for the user.
var ErrCategoryNotFound = errors.New("category not found")

// ErrEmptyName is returned for blank category names.
var ErrEmptyName = errors.New("category name cannot be empty")

// ErrNameTooLong is returned for names over MaxNameLen characters.
var ErrNameTooLong = errors.New("category name is too long")

// ErrInvalidID is returned for malformed category ids.
var ErrInvalidID = errors.New("invalid category id")

// Repository defines the category store
type Repository interface {
	List(ctx context.Context, userID bson.ObjectID) ([]*Category, error)
	// Upsert returns the category whose name_key matches, creating it when absent.
	Upsert(ctx context.Context, c *Category) (*Category, error)
	Get(ctx context.Context, userID, id bson.ObjectID) (*Category, error)
	Delete(ctx context.Context, userID, id bson.ObjectID) error
}

// NoteUnlinker clears category references on notes.
type NoteUnlinker interface {
	ClearCategory(ctx context.Context, userID, categoryID bson.ObjectID) (int64, error)
}
