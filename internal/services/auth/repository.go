package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UsersRepo persists accounts. Emails are stored normalized.
type UsersRepo interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
}
