//go:build integration

package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkline/internal/services/auth"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// startMongoTC returns a database on a throwaway MongoDB container.
func startMongoTC(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:8.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForExec([]string{"mongosh", "--eval", "db.adminCommand('ping')"}).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongoC.Terminate(context.Background()) })

	host, err := mongoC.Host(ctx)
	require.NoError(t, err)
	port, err := mongoC.MappedPort(ctx, "27017")
	require.NoError(t, err)

	cli, err := mongo.Connect(options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%s/", host, port.Port())))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Disconnect(context.Background()) })

	return cli.Database("inkline_test_" + bson.NewObjectID().Hex())
}

func newNote(userID bson.ObjectID, title string) *notes.Note {
	return &notes.Note{ID: bson.NewObjectID(), UserID: userID, Title: title}
}

func TestRepos_Integration(t *testing.T) {
	db := startMongoTC(t)
	ctx := context.Background()

	notesRepo, err := NewNotesRepo(ctx, db)
	require.NoError(t, err)
	catsRepo, err := NewCategoriesRepo(ctx, db)
	require.NoError(t, err)
	usersRepo, err := NewUsersRepo(ctx, db)
	require.NoError(t, err)

	owner := bson.NewObjectID()
	stranger := bson.NewObjectID()

	b, a, c := newNote(owner, "banana"), newNote(owner, "Apple"), newNote(owner, "cherry")
	for _, n := range []*notes.Note{b, a, c} {
		require.NoError(t, notesRepo.Create(ctx, n))
	}
	require.NoError(t, notesRepo.Create(ctx, newNote(stranger, "not yours")))

	t.Run("list is scoped and collated by title", func(t *testing.T) {
		active := false
		list, err := notesRepo.List(ctx, owner, notes.ListFilter{Archived: &active, Sort: "title"})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"Apple", "banana", "cherry"}, []string{list[0].Title, list[1].Title, list[2].Title})

		found, err := notesRepo.List(ctx, owner, notes.ListFilter{Q: "AN"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "banana", found[0].Title)
	})

	t.Run("update refreshes updated_at and is owner scoped", func(t *testing.T) {
		body := "hello"
		updated, err := notesRepo.Update(ctx, owner, a.ID, notes.UpdateNote{Body: &body})
		require.NoError(t, err)
		assert.Equal(t, "hello", updated.Body)
		assert.False(t, updated.UpdatedAt.Before(a.CreatedAt.Truncate(time.Millisecond)))

		_, err = notesRepo.Update(ctx, stranger, a.ID, notes.UpdateNote{Body: &body})
		assert.ErrorIs(t, err, notes.ErrNoteNotFound)
	})

	t.Run("share id is issued once", func(t *testing.T) {
		on, err := notesRepo.SetSharing(ctx, owner, b.ID, true, "share-1")
		require.NoError(t, err)
		assert.True(t, on.IsPublic)
		assert.Equal(t, "share-1", on.ShareID)

		off, err := notesRepo.SetSharing(ctx, owner, b.ID, false, "")
		require.NoError(t, err)
		assert.False(t, off.IsPublic)

		_, err = notesRepo.FindShared(ctx, "share-1")
		assert.ErrorIs(t, err, notes.ErrNoteNotFound, "private notes are not served")

		again, err := notesRepo.SetSharing(ctx, owner, b.ID, true, "share-2")
		require.NoError(t, err)
		assert.Equal(t, "share-1", again.ShareID)

		viewed, err := notesRepo.FindShared(ctx, "share-1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, viewed.ViewCount)
		require.NotNil(t, viewed.LastViewedAt)
		assert.Equal(t, again.UpdatedAt.UnixMilli(), viewed.UpdatedAt.UnixMilli(), "views do not touch updated_at")
	})

	t.Run("archive moves only eligible notes", func(t *testing.T) {
		moved, err := notesRepo.SetArchived(ctx, owner, []bson.ObjectID{c.ID}, true)
		require.NoError(t, err)
		require.Len(t, moved, 1)
		assert.True(t, moved[0].Archived)

		again, err := notesRepo.SetArchived(ctx, owner, []bson.ObjectID{c.ID}, true)
		require.NoError(t, err)
		assert.Empty(t, again)

		activeCount, err := notesRepo.Count(ctx, owner, false)
		require.NoError(t, err)
		assert.EqualValues(t, 2, activeCount)
		allCount, err := notesRepo.Count(ctx, owner, true)
		require.NoError(t, err)
		assert.EqualValues(t, 3, allCount)

		restored, err := notesRepo.SetArchived(ctx, owner, []bson.ObjectID{c.ID}, false)
		require.NoError(t, err)
		require.Len(t, restored, 1)
		assert.Equal(t, c.ID, restored[0].ID)
		assert.Equal(t, c.CreatedAt.UnixMilli(), restored[0].CreatedAt.UnixMilli())
	})

	t.Run("categories upsert case-insensitively and unlink on delete", func(t *testing.T) {
		work, err := catsRepo.Upsert(ctx, &categories.Category{ID: bson.NewObjectID(), UserID: owner, Name: "Work", NameKey: "work"})
		require.NoError(t, err)
		same, err := catsRepo.Upsert(ctx, &categories.Category{ID: bson.NewObjectID(), UserID: owner, Name: "WORK", NameKey: "work"})
		require.NoError(t, err)
		assert.Equal(t, work.ID, same.ID)
		assert.Equal(t, "Work", same.Name)

		_, err = notesRepo.SetCategory(ctx, owner, a.ID, &work.ID)
		require.NoError(t, err)

		require.NoError(t, catsRepo.Delete(ctx, owner, work.ID))
		cleared, err := notesRepo.ClearCategory(ctx, owner, work.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, cleared)

		got, err := notesRepo.Get(ctx, owner, a.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)

		assert.ErrorIs(t, catsRepo.Delete(ctx, owner, work.ID), categories.ErrCategoryNotFound)
	})

	t.Run("delete reports only owned ids", func(t *testing.T) {
		ghost := bson.NewObjectID()
		deleted, err := notesRepo.Delete(ctx, owner, []bson.ObjectID{a.ID, ghost})
		require.NoError(t, err)
		assert.Equal(t, []bson.ObjectID{a.ID}, deleted)
	})

	t.Run("users are unique by email", func(t *testing.T) {
		u := &auth.User{ID: bson.NewObjectID(), Email: "dup@example.com", PasswordHash: "x"}
		require.NoError(t, usersRepo.Create(ctx, u))
		assert.ErrorIs(t, usersRepo.Create(ctx, &auth.User{ID: bson.NewObjectID(), Email: "dup@example.com"}), auth.ErrDuplicate)

		got, err := usersRepo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "dup@example.com", got.Email)

		_, err = usersRepo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}
