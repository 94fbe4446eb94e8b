package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"inkline/internal/logger"
	"inkline/internal/services/notes"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NotesRepo implements the notes.Repository interface for MongoDB
type NotesRepo struct {
	collection *mongo.Collection
	now        func() time.Time
}

// translateNotFound maps the driver ErrNoDocuments to the domain-level ErrNoteNotFound.
func translateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notes.ErrNoteNotFound
	}
	return err
}

// titleCollation orders titles the way a reader expects (case-insensitive, locale aware).
var titleCollation = &options.Collation{Locale: "en", Strength: 2}

// NewNotesRepo creates a new notes repository
func NewNotesRepo(parentCtx context.Context, db *mongo.Database) (*NotesRepo, error) {
	collection := db.Collection("notes")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "archived", Value: 1},
				{Key: "updated_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "category_id", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "share_id", Value: 1}},
			Options: options.Index().
				SetName("share_id_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"share_id": bson.M{"$exists": true}}),
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "notes")
				continue
			}
			logger.L().Error("failed to create index", "collection", "notes", "error", err)
			return nil, fmt.Errorf("failed to create notes collection index: %w", err)
		}
	}

	return &NotesRepo{
		collection: collection,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create creates a new note in the database
func (r *NotesRepo) Create(ctx context.Context, note *notes.Note) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	now := r.now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, note)
	return err
}

// Count returns how many notes the user owns; archived ones only when asked.
func (r *NotesRepo) Count(ctx context.Context, userID bson.ObjectID, includeArchived bool) (int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if !includeArchived {
		filter["archived"] = bson.M{"$ne": true}
	}
	return r.collection.CountDocuments(ctx, filter)
}

// List retrieves notes for a user with filtering, search and sorting
func (r *NotesRepo) List(ctx context.Context, userID bson.ObjectID, f notes.ListFilter) ([]*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, buildListFilter(userID, f), buildFindOptions(f))
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	var notesList []*notes.Note
	if err := cursor.All(ctx, &notesList); err != nil {
		return nil, err
	}
	return notesList, nil
}

// buildListFilter constructs the MongoDB filter for the List query
func buildListFilter(userID bson.ObjectID, f notes.ListFilter) bson.M {
	filter := bson.M{"user_id": userID}

	if f.Archived != nil {
		if *f.Archived {
			filter["archived"] = true
		} else {
			filter["archived"] = bson.M{"$ne": true}
		}
	}
	if len(f.IDs) > 0 {
		filter["_id"] = bson.M{"$in": f.IDs}
	}
	if f.Q != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Q), "$options": "i"}
	}

	return filter
}

// buildFindOptions constructs the MongoDB find options for sorting
func buildFindOptions(f notes.ListFilter) *options.FindOptionsBuilder {
	sortKey := "updated_at"
	switch f.Sort {
	case "created_at", "updated_at", "title":
		sortKey = f.Sort
	}

	dir := 1
	if f.Desc {
		dir = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: dir}, {Key: "_id", Value: dir}})
	if sortKey == "title" {
		opts.SetCollation(titleCollation)
	}
	return opts
}

// Get fetches one note owned by userID
func (r *NotesRepo) Get(ctx context.Context, userID, noteID bson.ObjectID) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var note notes.Note
	err := r.collection.FindOne(ctx, bson.M{"_id": noteID, "user_id": userID}).Decode(&note)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &note, nil
}

// Update updates title/body of a note belonging to the specified user and
// refreshes updated_at.
func (r *NotesRepo) Update(ctx context.Context, userID, noteID bson.ObjectID, patch notes.UpdateNote) (*notes.Note, error) {
	set := bson.M{"updated_at": r.now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Body != nil {
		set["body"] = *patch.Body
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": noteID, "user_id": userID}, bson.M{"$set": set})
}

// SetArchived flips the archived flag and returns the notes that moved.
func (r *NotesRepo) SetArchived(ctx context.Context, userID bson.ObjectID, ids []bson.ObjectID, archived bool) ([]*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	current := bson.M{"$ne": true}
	if !archived {
		current = bson.M{"$eq": true}
	}
	filter := bson.M{"user_id": userID, "_id": bson.M{"$in": ids}, "archived": current}

	movable, err := r.matchingIDs(ctx, filter)
	if err != nil || len(movable) == 0 {
		return nil, err
	}

	scoped := bson.M{"user_id": userID, "_id": bson.M{"$in": movable}}
	if _, err := r.collection.UpdateMany(ctx, scoped, bson.M{"$set": bson.M{"archived": archived}}); err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, scoped, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var moved []*notes.Note
	if err := cursor.All(ctx, &moved); err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes the user's notes among ids and returns the ids that were deleted.
func (r *NotesRepo) Delete(ctx context.Context, userID bson.ObjectID, ids []bson.ObjectID) ([]bson.ObjectID, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	owned, err := r.matchingIDs(ctx, bson.M{"user_id": userID, "_id": bson.M{"$in": ids}})
	if err != nil || len(owned) == 0 {
		return nil, err
	}

	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "_id": bson.M{"$in": owned}}); err != nil {
		return nil, err
	}
	return owned, nil
}

// SetSharing sets is_public. When shareID is non-empty it is stored only if
// the note has none yet, so an issued id is never rotated.
func (r *NotesRepo) SetSharing(ctx context.Context, userID, noteID bson.ObjectID, public bool, shareID string) (*notes.Note, error) {
	if shareID != "" {
		ictx, cancel := repoCtx(ctx)
		_, err := r.collection.UpdateOne(ictx,
			bson.M{"_id": noteID, "user_id": userID, "share_id": missing},
			bson.M{"$set": bson.M{"share_id": shareID}},
		)
		cancel()
		if err != nil {
			return nil, err
		}
	}

	return r.findOneAndUpdate(ctx,
		bson.M{"_id": noteID, "user_id": userID},
		bson.M{"$set": bson.M{"is_public": public}},
	)
}

// SetCategory assigns categoryID to the note, or unsets it when nil.
func (r *NotesRepo) SetCategory(ctx context.Context, userID, noteID bson.ObjectID, categoryID *bson.ObjectID) (*notes.Note, error) {
	update := bson.M{"$unset": bson.M{"category_id": ""}}
	if categoryID != nil {
		update = bson.M{"$set": bson.M{"category_id": *categoryID}}
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": noteID, "user_id": userID}, update)
}

// ClearCategory unsets category_id on every note of the user that references categoryID.
func (r *NotesRepo) ClearCategory(ctx context.Context, userID, categoryID bson.ObjectID) (int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "category_id": categoryID},
		bson.M{"$unset": bson.M{"category_id": ""}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FindShared loads a public note by share id and records the visit.
// This is the only query not scoped by owner.
func (r *NotesRepo) FindShared(ctx context.Context, shareID string) (*notes.Note, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"share_id": shareID, "is_public": true},
		bson.M{
			"$inc": bson.M{"view_count": 1},
			"$set": bson.M{"last_viewed_at": r.now()},
		},
	)
}

func (r *NotesRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note notes.Note
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&note); err != nil {
		return nil, translateNotFound(err)
	}
	return &note, nil
}

type idOnly struct {
	ID bson.ObjectID `bson:"_id"`
}

func (r *NotesRepo) matchingIDs(ctx context.Context, filter bson.M) ([]bson.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []idOnly
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]bson.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}
