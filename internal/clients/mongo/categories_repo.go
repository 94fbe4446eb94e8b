package mongo

import (
	"context"
	"errors"
	"fmt"

	"inkline/internal/logger"
	"inkline/internal/services/categories"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CategoriesRepo implements the categories.Repository interface for MongoDB
type CategoriesRepo struct {
	collection *mongo.Collection
}

// NewCategoriesRepo creates a new categories repository
func NewCategoriesRepo(parentCtx context.Context, db *mongo.Database) (*CategoriesRepo, error) {
	collection := db.Collection("categories")

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "name_key", Value: 1},
		},
		Options: options.Index().SetName("user_name_key_unique").SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.L().Error("failed to create index", "collection", "categories", "error", err)
		return nil, fmt.Errorf("failed to create categories collection index: %w", err)
	}

	return &CategoriesRepo{collection: collection}, nil
}

// List returns the user's categories ordered by name.
func (r *CategoriesRepo) List(ctx context.Context, userID bson.ObjectID) ([]*categories.Category, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(titleCollation)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	var list []*categories.Category
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Upsert returns the existing category with c.NameKey or inserts c.
func (r *CategoriesRepo) Upsert(ctx context.Context, c *categories.Category) (*categories.Category, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"user_id": c.UserID, "name_key": c.NameKey}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        c.ID,
		"name":       c.Name,
		"created_at": c.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out categories.Category
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// a concurrent upsert won the race; the row exists now
		err = r.collection.FindOne(ctx, filter).Decode(&out)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one category owned by userID.
func (r *CategoriesRepo) Get(ctx context.Context, userID, id bson.ObjectID) (*categories.Category, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var out categories.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, categories.ErrCategoryNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Delete removes one category owned by userID.
func (r *CategoriesRepo) Delete(ctx context.Context, userID, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return categories.ErrCategoryNotFound
	}
	return nil
}
