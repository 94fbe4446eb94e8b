package notes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkline/cmd/server/testutil"
	"inkline/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MockNotesService struct {
	mock.Mock
}

func (m *MockNotesService) Create(ctx context.Context, userID bson.ObjectID, req notes.CreateNoteRequest) (*notes.NoteResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) List(ctx context.Context, userID bson.ObjectID, req notes.ListNotesRequest) (*notes.ListNotesResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.ListNotesResponse), args.Error(1)
}

func (m *MockNotesService) Get(ctx context.Context, userID, noteID bson.ObjectID) (*notes.NoteResponse, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) Update(ctx context.Context, userID, noteID bson.ObjectID, req notes.UpdateNoteRequest) (*notes.NoteResponse, error) {
	args := m.Called(ctx, userID, noteID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) Archive(ctx context.Context, userID bson.ObjectID, ids []string) (*notes.ListNotesResponse, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.ListNotesResponse), args.Error(1)
}

func (m *MockNotesService) Restore(ctx context.Context, userID bson.ObjectID, ids []string) (*notes.ListNotesResponse, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.ListNotesResponse), args.Error(1)
}

func (m *MockNotesService) Delete(ctx context.Context, userID bson.ObjectID, ids []string) (*notes.DeleteNotesResponse, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.DeleteNotesResponse), args.Error(1)
}

func (m *MockNotesService) SetSharing(ctx context.Context, userID, noteID bson.ObjectID, public bool) (*notes.NoteResponse, error) {
	args := m.Called(ctx, userID, noteID, public)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) SetCategory(ctx context.Context, userID, noteID bson.ObjectID, categoryID *string) (*notes.NoteResponse, error) {
	args := m.Called(ctx, userID, noteID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) Shared(ctx context.Context, shareID string) (*notes.SharedNoteResponse, error) {
	args := m.Called(ctx, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.SharedNoteResponse), args.Error(1)
}

func (m *MockNotesService) Export(ctx context.Context, userID bson.ObjectID, ids []string, archived bool) ([]*notes.Note, error) {
	args := m.Called(ctx, userID, ids, archived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notes.Note), args.Error(1)
}

type notesTestSetup struct {
	svc    *MockNotesService
	app    *fiber.App
	userID bson.ObjectID
	token  string
}

func setupNotesTest(t *testing.T) *notesTestSetup {
	t.Helper()

	svc := &MockNotesService{}
	app := testutil.CreateTestApp(t)
	h := NewHandlers(svc, testutil.CreateTestValidator(t))

	app.Get("/share/:shareId", h.Shared)

	grp := app.Group("/api/v1/notes", testutil.SetupJWTMiddleware(testutil.TestJWTSecret))
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Delete("/", h.Delete)
	grp.Get("/export", h.Export)
	grp.Post("/archive", h.Archive)
	grp.Post("/restore", h.Restore)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", h.Update)
	grp.Put("/:id/share", h.Share)
	grp.Put("/:id/category", h.SetCategory)

	userID := bson.NewObjectID()
	t.Cleanup(func() { svc.AssertExpectations(t) })

	return &notesTestSetup{
		svc:    svc,
		app:    app,
		userID: userID,
		token:  testutil.MustJWT(t, userID.Hex()),
	}
}

func (s *notesTestSetup) do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	resp, err := s.app.Test(testutil.CreateAuthenticatedRequest(method, url, body, s.token))
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := setupNotesTest(t)
		note := &notes.Note{ID: bson.NewObjectID(), UserID: s.userID, Title: notes.DefaultTitle}
		s.svc.On("Create", mock.Anything, s.userID, notes.CreateNoteRequest{}).
			Return(&notes.NoteResponse{Note: note}, nil)

		resp := s.do(t, "POST", "/api/v1/notes", nil)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var out notes.NoteResponse
		testutil.DecodeJSON(t, resp, &out)
		assert.Equal(t, note.ID, out.Note.ID)
		assert.Equal(t, "Untitled", out.Note.Title)
	})

	t.Run("quota reached maps to 409", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Create", mock.Anything, s.userID, mock.Anything).Return(nil, notes.ErrQuotaReached)

		resp := s.do(t, "POST", "/api/v1/notes", notes.CreateNoteRequest{Title: "one more"})

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Equal(t, notes.ErrQuotaReached.Error(), testutil.ErrorMessage(t, resp))
	})

	t.Run("missing token", func(t *testing.T) {
		s := setupNotesTest(t)
		resp, err := s.app.Test(testutil.CreateJSONRequest("POST", "/api/v1/notes", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		s := setupNotesTest(t)
		bad, err := testutil.CreateTestJWT(s.userID.Hex(), "x@example.com", []byte("another-secret-with-at-least-32-chars!!"), time.Hour)
		require.NoError(t, err)

		resp, err := s.app.Test(testutil.CreateAuthenticatedRequest("POST", "/api/v1/notes", nil, bad))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestList(t *testing.T) {
	t.Run("passes query through", func(t *testing.T) {
		s := setupNotesTest(t)
		want := notes.ListNotesRequest{Archived: true, Q: "plan", Sort: "title", Order: "asc"}
		s.svc.On("List", mock.Anything, s.userID, want).
			Return(&notes.ListNotesResponse{Notes: []*notes.Note{}}, nil)

		resp := s.do(t, "GET", "/api/v1/notes?archived=true&q=plan&sort=title&order=asc", nil)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rejects unknown sort key", func(t *testing.T) {
		s := setupNotesTest(t)

		resp := s.do(t, "GET", "/api/v1/notes?sort=color", nil)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGet(t *testing.T) {
	t.Run("malformed id is a 404", func(t *testing.T) {
		s := setupNotesTest(t)

		resp := s.do(t, "GET", "/api/v1/notes/not-an-id", nil)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		s := setupNotesTest(t)
		id := bson.NewObjectID()
		s.svc.On("Get", mock.Anything, s.userID, id).Return(nil, notes.ErrNoteNotFound)

		resp := s.do(t, "GET", "/api/v1/notes/"+id.Hex(), nil)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, fiber.StatusOK},
		{"body too long", notes.ErrBodyTooLong, fiber.StatusBadRequest},
		{"empty patch", notes.ErrEmptyPatch, fiber.StatusBadRequest},
		{"not found", notes.ErrNoteNotFound, fiber.StatusNotFound},
		{"store failure", notes.ErrUpdateNote, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupNotesTest(t)
			id := bson.NewObjectID()
			body := "hello"

			var ret any
			if tt.err == nil {
				ret = &notes.NoteResponse{Note: &notes.Note{ID: id, Body: body}}
			}
			s.svc.On("Update", mock.Anything, s.userID, id, notes.UpdateNoteRequest{Body: &body}).Return(ret, tt.err)

			resp := s.do(t, "PATCH", "/api/v1/notes/"+id.Hex(), map[string]string{"body": body})

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestArchiveRestoreDelete(t *testing.T) {
	t.Run("archive returns moved notes", func(t *testing.T) {
		s := setupNotesTest(t)
		id := bson.NewObjectID()
		s.svc.On("Archive", mock.Anything, s.userID, []string{id.Hex()}).
			Return(&notes.ListNotesResponse{Notes: []*notes.Note{{ID: id, Archived: true}}}, nil)

		resp := s.do(t, "POST", "/api/v1/notes/archive", notes.IDsRequest{IDs: []string{id.Hex()}})

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out notes.ListNotesResponse
		testutil.DecodeJSON(t, resp, &out)
		require.Len(t, out.Notes, 1)
		assert.True(t, out.Notes[0].Archived)
	})

	t.Run("restore with malformed id", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Restore", mock.Anything, s.userID, []string{"zzz"}).Return(nil, notes.ErrInvalidID)

		resp := s.do(t, "POST", "/api/v1/notes/restore", notes.IDsRequest{IDs: []string{"zzz"}})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty id list fails validation", func(t *testing.T) {
		s := setupNotesTest(t)

		resp := s.do(t, "POST", "/api/v1/notes/archive", notes.IDsRequest{IDs: []string{}})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete reports removed ids", func(t *testing.T) {
		s := setupNotesTest(t)
		a, b := bson.NewObjectID(), bson.NewObjectID()
		s.svc.On("Delete", mock.Anything, s.userID, []string{a.Hex(), b.Hex()}).
			Return(&notes.DeleteNotesResponse{DeletedIDs: []string{a.Hex()}}, nil)

		resp := s.do(t, "DELETE", "/api/v1/notes", notes.IDsRequest{IDs: []string{a.Hex(), b.Hex()}})

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out notes.DeleteNotesResponse
		testutil.DecodeJSON(t, resp, &out)
		assert.Equal(t, []string{a.Hex()}, out.DeletedIDs)
	})
}

func TestShare(t *testing.T) {
	s := setupNotesTest(t)
	id := bson.NewObjectID()
	s.svc.On("SetSharing", mock.Anything, s.userID, id, true).
		Return(&notes.NoteResponse{Note: &notes.Note{ID: id, IsPublic: true, ShareID: "abc"}}, nil)

	resp := s.do(t, "PUT", "/api/v1/notes/"+id.Hex()+"/share", notes.ShareRequest{Public: true})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out notes.NoteResponse
	testutil.DecodeJSON(t, resp, &out)
	assert.Equal(t, "abc", out.Note.ShareID)
}

func TestSetCategory(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		s := setupNotesTest(t)
		id := bson.NewObjectID()
		cat := bson.NewObjectID().Hex()
		s.svc.On("SetCategory", mock.Anything, s.userID, id, &cat).Return(nil, notes.ErrCategoryNotFound)

		resp := s.do(t, "PUT", "/api/v1/notes/"+id.Hex()+"/category", map[string]string{"category_id": cat})

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("null clears", func(t *testing.T) {
		s := setupNotesTest(t)
		id := bson.NewObjectID()
		s.svc.On("SetCategory", mock.Anything, s.userID, id, (*string)(nil)).
			Return(&notes.NoteResponse{Note: &notes.Note{ID: id}}, nil)

		resp := s.do(t, "PUT", "/api/v1/notes/"+id.Hex()+"/category", map[string]any{"category_id": nil})

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestExport(t *testing.T) {
	t.Run("archived view", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Export", mock.Anything, s.userID, []string(nil), true).
			Return([]*notes.Note{{Title: "Old", Body: "kept"}}, nil)

		resp := s.do(t, "GET", "/api/v1/notes/export?archived=true", nil)

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="archived_notes.zip"`)

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		require.Len(t, zr.File, 1)
		assert.Equal(t, "Old.txt", zr.File[0].Name)
	})

	t.Run("selected ids", func(t *testing.T) {
		s := setupNotesTest(t)
		a, b := bson.NewObjectID().Hex(), bson.NewObjectID().Hex()
		s.svc.On("Export", mock.Anything, s.userID, []string{a, b}, false).
			Return([]*notes.Note{{Title: "A"}, {Title: "B"}}, nil)

		resp := s.do(t, "GET", "/api/v1/notes/export?ids="+a+","+b, nil)

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="notes.zip"`)
	})

	t.Run("nothing to export", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Export", mock.Anything, s.userID, []string(nil), false).Return([]*notes.Note{}, nil)

		resp := s.do(t, "GET", "/api/v1/notes/export", nil)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestShared(t *testing.T) {
	t.Run("public note without token", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Shared", mock.Anything, "abc").
			Return(&notes.SharedNoteResponse{Note: &notes.SharedNote{Title: "Hi", ViewCount: 3}}, nil)

		resp, err := s.app.Test(httptest.NewRequest("GET", "/share/abc", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out notes.SharedNoteResponse
		testutil.DecodeJSON(t, resp, &out)
		assert.Equal(t, int64(3), out.Note.ViewCount)
	})

	t.Run("private or missing note", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Shared", mock.Anything, "nope").Return(nil, notes.ErrShareNotFound)

		resp, err := s.app.Test(httptest.NewRequest("GET", "/share/nope", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, notes.PrivateShareMessage, testutil.ErrorMessage(t, resp))
	})

	t.Run("store failure", func(t *testing.T) {
		s := setupNotesTest(t)
		s.svc.On("Shared", mock.Anything, "x").Return(nil, errors.New("connection reset"))

		resp, err := s.app.Test(httptest.NewRequest("GET", "/share/x", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.False(t, strings.Contains(testutil.ErrorMessage(t, resp), notes.PrivateShareMessage))
	})
}
