package categories

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category groups notes under a user-defined name.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id" example:"683cdb8aa96ad71e8e075bd9"`
	UserID    bson.ObjectID `bson:"user_id" json:"user_id" example:"683cdb8aa96ad71e8e075bd0"`
	Name      string        `bson:"name" json:"name" example:"Work"`
	NameKey   string        `bson:"name_key" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// NameKey is the case-insensitive identity of a category name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateCategoryRequest represents a create-or-find request
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=64" example:"Work"`
}

// CategoryResponse wraps a single category
type CategoryResponse struct {
	Category *Category `json:"category"`
}

// ListCategoriesResponse wraps the user's categories
type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

// DeleteCategoryResponse reports how many notes lost the category.
type DeleteCategoryResponse struct {
	ID           string `json:"id" example:"683cdb8aa96ad71e8e075bd9"`
	NotesCleared int64  `json:"notes_cleared" example:"2"`
}
