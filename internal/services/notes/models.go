package notes

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultTitle is given to every newly created note.
const DefaultTitle = "Untitled"

// Note represents a single user note
type Note struct {
	ID           bson.ObjectID  `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	UserID       bson.ObjectID  `bson:"user_id" json:"user_id" example:"683cdb8aa96ad71e8e075bd0"`
	Title        string         `bson:"title" json:"title" example:"Meeting Notes"`
	Body         string         `bson:"body" json:"body" example:"Remember to discuss the quarterly targets"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
	IsPublic     bool           `bson:"is_public" json:"is_public" example:"false"`
	ShareID      string         `bson:"share_id,omitempty" json:"share_id,omitempty" example:"0b6f1d5e-7c7a-4c55-9f51-3c8d9c1b2a11"`
	Archived     bool           `bson:"archived" json:"archived" example:"false"`
	ViewCount    int64          `bson:"view_count" json:"view_count" example:"3"`
	LastViewedAt *time.Time     `bson:"last_viewed_at,omitempty" json:"last_viewed_at,omitempty"`
	CategoryID   *bson.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty" example:"683cdb8aa96ad71e8e075bd9"`
}

// ShareURL returns the public link of the note. It reports false while the
// note is private or has never been shared.
func (n *Note) ShareURL(origin string) (string, bool) {
	if n == nil || !n.IsPublic || n.ShareID == "" {
		return "", false
	}
	return strings.TrimRight(origin, "/") + "/share/" + n.ShareID, true
}

// SharedNote is the public projection of a shared note.
type SharedNote struct {
	Title     string    `json:"title" example:"Meeting Notes"`
	Body      string    `json:"body" example:"Remember to discuss the quarterly targets"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
	ViewCount int64     `json:"view_count" example:"4"`
}

// Shared builds the public projection of n.
func (n *Note) Shared() *SharedNote {
	return &SharedNote{
		Title:     n.Title,
		Body:      n.Body,
		UpdatedAt: n.UpdatedAt,
		ViewCount: n.ViewCount,
	}
}

// UpdateNote represents the fields that can be updated in a note
type UpdateNote struct {
	Title *string
	Body  *string
}

// ListFilter narrows a repository listing.
type ListFilter struct {
	// Archived selects the archived view; nil lists both.
	Archived *bool
	Q        string
	Sort     string
	Desc     bool
	IDs      []bson.ObjectID
}
