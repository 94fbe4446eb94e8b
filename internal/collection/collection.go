// Package collection keeps the signed-in user's notes in memory and
// reconciles them with server responses.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"inkline/internal/remote"
	"inkline/internal/services/notes"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultQuota is the note limit used when the server did not report one.
const DefaultQuota = 100

var (
	ErrQuotaReached = errors.New("note limit reached")
	ErrNoSelection  = errors.New("no note is open")
	ErrUnknownNote  = errors.New("no such note")
	ErrAmbiguousID  = errors.New("id prefix matches more than one note")
)

// Remote is the part of the API client the collection needs.
type Remote interface {
	ListNotes(ctx context.Context, opts remote.ListOptions) ([]*notes.Note, error)
	CreateNote(ctx context.Context, title, body string) (*notes.Note, error)
	Archive(ctx context.Context, ids []string) ([]*notes.Note, error)
	Restore(ctx context.Context, ids []string) ([]*notes.Note, error)
	Delete(ctx context.Context, ids []string) ([]string, error)
	SetSharing(ctx context.Context, id string, public bool) (*notes.Note, error)
}

// Quota decides when Create is refused.
type Quota struct {
	Limit           int
	IncludeArchived bool
}

// Patch is a partial, server-confirmed note. Nil fields are left alone.
type Patch struct {
	Title         *string
	Body          *string
	UpdatedAt     *time.Time
	IsPublic      *bool
	ShareID       *string
	ViewCount     *int64
	CategoryID    *bson.ObjectID
	ClearCategory bool
}

// PatchFrom builds a patch carrying every mutable field of n.
func PatchFrom(n *notes.Note) Patch {
	p := Patch{
		Title:      &n.Title,
		Body:       &n.Body,
		UpdatedAt:  &n.UpdatedAt,
		IsPublic:   &n.IsPublic,
		ViewCount:  &n.ViewCount,
		CategoryID: n.CategoryID,
	}
	if n.ShareID != "" {
		p.ShareID = &n.ShareID
	}
	if n.CategoryID == nil {
		p.ClearCategory = true
	}
	return p
}

func (p Patch) apply(n *notes.Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.UpdatedAt != nil {
		n.UpdatedAt = *p.UpdatedAt
	}
	if p.IsPublic != nil {
		n.IsPublic = *p.IsPublic
	}
	if p.ShareID != nil {
		n.ShareID = *p.ShareID
	}
	if p.ViewCount != nil {
		n.ViewCount = *p.ViewCount
	}
	switch {
	case p.CategoryID != nil:
		id := *p.CategoryID
		n.CategoryID = &id
	case p.ClearCategory:
		n.CategoryID = nil
	}
}

// Collection is the in-memory note list of one identity. It is safe for
// concurrent use.
type Collection struct {
	mu       sync.RWMutex
	active   []*notes.Note
	archived []*notes.Note
	selected string

	remote Remote
	quota  Quota
	log    *slog.Logger
}

// New creates an empty collection.
func New(r Remote, quota Quota, log *slog.Logger) *Collection {
	if quota.Limit <= 0 {
		quota.Limit = DefaultQuota
	}
	if log == nil {
		log = slog.Default()
	}
	return &Collection{remote: r, quota: quota, log: log}
}

// SetQuota replaces the limit, typically with what the server reports.
func (c *Collection) SetQuota(q Quota) {
	if q.Limit <= 0 {
		q.Limit = DefaultQuota
	}
	c.mu.Lock()
	c.quota = q
	c.mu.Unlock()
}

// Load fetches both views. On success it opens requested when present and
// the newest active note otherwise. On failure both lists are emptied.
func (c *Collection) Load(ctx context.Context, requested string) error {
	active, err := c.remote.ListNotes(ctx, remote.ListOptions{Sort: "updated_at", Order: "desc"})
	if err == nil {
		var archived []*notes.Note
		archived, err = c.remote.ListNotes(ctx, remote.ListOptions{Archived: true, Sort: "updated_at", Order: "desc"})
		if err == nil {
			c.mu.Lock()
			c.active, c.archived = active, archived
			c.selected = ""
			if requested != "" && indexOf(active, requested) >= 0 {
				c.selected = requested
			} else if len(active) > 0 {
				c.selected = active[0].ID.Hex()
			}
			c.mu.Unlock()
			return nil
		}
	}

	c.mu.Lock()
	c.active, c.archived, c.selected = nil, nil, ""
	c.mu.Unlock()
	c.log.Error("failed to load notes", "error", err)
	return fmt.Errorf("load notes: %w", err)
}

func (c *Collection) used() int {
	if c.quota.IncludeArchived {
		return len(c.active) + len(c.archived)
	}
	return len(c.active)
}

// Remaining reports how many notes can still be created.
func (c *Collection) Remaining() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return max(c.quota.Limit-c.used(), 0)
}

// Create inserts an untitled note, prepends it and opens it.
func (c *Collection) Create(ctx context.Context) (*notes.Note, error) {
	c.mu.RLock()
	full := c.used() >= c.quota.Limit
	c.mu.RUnlock()
	if full {
		return nil, ErrQuotaReached
	}

	n, err := c.remote.CreateNote(ctx, notes.DefaultTitle, "")
	if err != nil {
		c.log.Error("failed to create note", "error", err)
		if errors.Is(err, remote.ErrConflict) {
			return nil, ErrQuotaReached
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	c.mu.Lock()
	c.active = append([]*notes.Note{n}, c.active...)
	c.selected = n.ID.Hex()
	c.mu.Unlock()
	return clone(n), nil
}

// Merge applies a confirmed patch to the note with the given id in either
// view. It reports whether the note was found.
func (c *Collection) Merge(id string, p Patch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := c.find(id); n != nil {
		p.apply(n)
		return true
	}
	return false
}

// Archive moves the notes the server archived into the archived view.
func (c *Collection) Archive(ctx context.Context, ids []string) ([]*notes.Note, error) {
	moved, err := c.remote.Archive(ctx, ids)
	if err != nil {
		c.log.Error("failed to archive notes", "ids", ids, "error", err)
		return nil, fmt.Errorf("archive notes: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range moved {
		c.active = remove(c.active, n.ID.Hex())
		c.archived = remove(c.archived, n.ID.Hex())
		c.archived = insertByUpdated(c.archived, n)
		if c.selected == n.ID.Hex() {
			c.selected = ""
		}
	}
	return cloneAll(moved), nil
}

// Restore moves the notes the server restored back into the active view.
func (c *Collection) Restore(ctx context.Context, ids []string) ([]*notes.Note, error) {
	moved, err := c.remote.Restore(ctx, ids)
	if err != nil {
		c.log.Error("failed to restore notes", "ids", ids, "error", err)
		return nil, fmt.Errorf("restore notes: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range moved {
		c.archived = remove(c.archived, n.ID.Hex())
		c.active = remove(c.active, n.ID.Hex())
		c.active = insertByUpdated(c.active, n)
	}
	return cloneAll(moved), nil
}

// Delete removes exactly the notes the server reports deleted.
func (c *Collection) Delete(ctx context.Context, ids []string) ([]string, error) {
	deleted, err := c.remote.Delete(ctx, ids)
	if err != nil {
		c.log.Error("failed to delete notes", "ids", ids, "error", err)
		return nil, fmt.Errorf("delete notes: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range deleted {
		c.active = remove(c.active, id)
		c.archived = remove(c.archived, id)
		if c.selected == id {
			c.selected = ""
		}
	}
	return deleted, nil
}

// SetSharing sets the visibility of a note and merges the server's answer,
// which may carry a newly issued share id.
func (c *Collection) SetSharing(ctx context.Context, id string, public bool) (*notes.Note, error) {
	n, err := c.remote.SetSharing(ctx, id, public)
	if err != nil {
		c.log.Error("failed to change sharing", "id", id, "public", public, "error", err)
		return nil, fmt.Errorf("change sharing: %w", err)
	}
	c.Merge(id, Patch{IsPublic: &n.IsPublic, ShareID: nonEmpty(n.ShareID)})
	return n, nil
}

// ToggleSharing flips the visibility of the open note.
func (c *Collection) ToggleSharing(ctx context.Context) (*notes.Note, error) {
	c.mu.RLock()
	n := c.find(c.selected)
	var id string
	var public bool
	if n != nil {
		id, public = n.ID.Hex(), n.IsPublic
	}
	c.mu.RUnlock()

	if n == nil {
		return nil, ErrNoSelection
	}
	return c.SetSharing(ctx, id, !public)
}

// Active returns copies of the active notes in their current order.
func (c *Collection) Active() []*notes.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.active)
}

// Archived returns copies of the archived notes.
func (c *Collection) Archived() []*notes.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.archived)
}

// Get returns a copy of the note with the given id from either view.
func (c *Collection) Get(id string) (*notes.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := c.find(id)
	if n == nil {
		return nil, false
	}
	return clone(n), true
}

// Selected returns the open note, if any.
func (c *Collection) Selected() (*notes.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == "" {
		return nil, false
	}
	n := c.find(c.selected)
	if n == nil {
		return nil, false
	}
	return clone(n), true
}

// Select opens an active note. An empty id closes the open note.
func (c *Collection) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != "" && indexOf(c.active, id) < 0 {
		return ErrUnknownNote
	}
	c.selected = id
	return nil
}

// Resolve expands a unique id prefix against both views.
func (c *Collection) Resolve(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrUnknownNote
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var match string
	for _, list := range [][]*notes.Note{c.active, c.archived} {
		for _, n := range list {
			id := n.ID.Hex()
			if id == prefix {
				return id, nil
			}
			if strings.HasPrefix(id, prefix) {
				if match != "" && match != id {
					return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
				}
				match = id
			}
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownNote, prefix)
	}
	return match, nil
}

func (c *Collection) find(id string) *notes.Note {
	if id == "" {
		return nil
	}
	if i := indexOf(c.active, id); i >= 0 {
		return c.active[i]
	}
	if i := indexOf(c.archived, id); i >= 0 {
		return c.archived[i]
	}
	return nil
}

func indexOf(list []*notes.Note, id string) int {
	return slices.IndexFunc(list, func(n *notes.Note) bool { return n.ID.Hex() == id })
}

func remove(list []*notes.Note, id string) []*notes.Note {
	return slices.DeleteFunc(list, func(n *notes.Note) bool { return n.ID.Hex() == id })
}

// insertByUpdated keeps list ordered by updated_at descending.
func insertByUpdated(list []*notes.Note, n *notes.Note) []*notes.Note {
	i := slices.IndexFunc(list, func(o *notes.Note) bool { return o.UpdatedAt.Before(n.UpdatedAt) })
	if i < 0 {
		return append(list, n)
	}
	return slices.Insert(list, i, n)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clone(n *notes.Note) *notes.Note {
	cp := *n
	return &cp
}

func cloneAll(list []*notes.Note) []*notes.Note {
	out := make([]*notes.Note, 0, len(list))
	for _, n := range list {
		out = append(out, clone(n))
	}
	return out
}
