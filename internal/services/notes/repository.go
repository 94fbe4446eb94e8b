package notes

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for notes repository operations.
// Every method except FindShared is scoped by the owning user.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	Count(ctx context.Context, userID bson.ObjectID, includeArchived bool) (int64, error)
	List(ctx context.Context, userID bson.ObjectID, filter ListFilter) ([]*Note, error)
	Get(ctx context.Context, userID, noteID bson.ObjectID) (*Note, error)
	Update(ctx context.Context, userID, noteID bson.ObjectID, patch UpdateNote) (*Note, error)
	SetArchived(ctx context.Context, userID bson.ObjectID, ids []bson.ObjectID, archived bool) ([]*Note, error)
	Delete(ctx context.Context, userID bson.ObjectID, ids []bson.ObjectID) ([]bson.ObjectID, error)
	SetSharing(ctx context.Context, userID, noteID bson.ObjectID, public bool, shareID string) (*Note, error)
	SetCategory(ctx context.Context, userID, noteID bson.ObjectID, categoryID *bson.ObjectID) (*Note, error)
	ClearCategory(ctx context.Context, userID, categoryID bson.ObjectID) (int64, error)
	FindShared(ctx context.Context, shareID string) (*Note, error)
}

// CategoryLookup confirms that a category belongs to a user.
type CategoryLookup interface {
	Exists(ctx context.Context, userID, categoryID bson.ObjectID) (bool, error)
}
