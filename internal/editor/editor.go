// Package editor autosaves note edits. Each tracked note runs its own
// Clean -> Dirty -> Saving -> Saved -> Clean cycle with a single debounce
// timer and at most one save in flight.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"inkline/internal/pubsub"
	"inkline/internal/services/notes"
)

// Status of the open note.
type Status int

const (
	Clean Status = iota
	Dirty
	Saving
	Saved
)

func (s Status) String() string {
	switch s {
	case Dirty:
		return "unsaved"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	default:
		return "clean"
	}
}

// Defaults.
const (
	DefaultDebounce    = 1000 * time.Millisecond
	DefaultSavedWindow = 1500 * time.Millisecond
	DefaultMaxBody     = 4096

	// signalBuffer covers a long burst of edits before a slow reader drops signals.
	signalBuffer = 256
)

var (
	ErrNoNote  = errors.New("no note is open")
	ErrUnsaved = errors.New("unsaved edits")
)

// Saver persists title and body of a note and returns the stored record.
type Saver interface {
	SaveNote(ctx context.Context, id, title, body string) (*notes.Note, error)
}

// Timer is the part of *time.Timer the editor uses.
type Timer interface {
	Stop() bool
}

// Event is published on every status change.
type Event struct {
	NoteID string
	Status Status
}

// Options tune an Editor. Zero values pick the defaults.
type Options struct {
	Debounce    time.Duration
	SavedWindow time.Duration
	MaxBody     int
	// OnChange receives every record the server confirmed.
	OnChange  func(*notes.Note)
	AfterFunc func(time.Duration, func()) Timer
	Logger    *slog.Logger
}

type doc struct {
	id        string
	title     string
	body      string
	baseTitle string
	baseBody  string
	updatedAt time.Time
	status    Status

	debounce Timer
	window   Timer
	saving   bool
	pending  bool
	lastErr  error
}

func (d *doc) changed() bool {
	return d.title != d.baseTitle || d.body != d.baseBody
}

// Editor tracks the open note and every note that still has unsaved edits.
type Editor struct {
	mu      sync.Mutex
	docs    map[string]*doc
	current *doc

	saver    Saver
	opts     Options
	log      *slog.Logger
	hub      *pubsub.Hub[Event]
	inflight sync.WaitGroup
}

// New creates an editor that saves through s.
func New(s Saver, opts Options) *Editor {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SavedWindow <= 0 {
		opts.SavedWindow = DefaultSavedWindow
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Editor{
		docs:  make(map[string]*doc),
		saver: s,
		opts:  opts,
		log:   opts.Logger,
		hub:   pubsub.NewHub[Event](signalBuffer, opts.Logger),
	}
}

// Open makes n the edited note. A previous note without unsaved edits is
// dropped; one with unsaved edits keeps its timer and saves under its own id.
func (e *Editor) Open(n *notes.Note) {
	id := n.ID.Hex()

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev := e.current; prev != nil && prev.id != id {
		e.releaseLocked(prev)
	}
	if d, ok := e.docs[id]; ok {
		e.current = d
		return
	}

	d := &doc{
		id:        id,
		title:     n.Title,
		body:      n.Body,
		baseTitle: n.Title,
		baseBody:  n.Body,
		updatedAt: n.UpdatedAt,
	}
	e.docs[id] = d
	e.current = d
}

// Close stops editing the open note without discarding unsaved edits.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.releaseLocked(e.current)
		e.current = nil
	}
}

// releaseLocked forgets d unless it still has work to do.
func (e *Editor) releaseLocked(d *doc) {
	if d.saving || d.changed() {
		return
	}
	stop(d.debounce)
	stop(d.window)
	delete(e.docs, d.id)
}

// Clip cuts body to at most limit characters.
func Clip(body string, limit int) string {
	if utf8.RuneCountInString(body) <= limit {
		return body
	}
	n := 0
	for i := range body {
		if n == limit {
			return body[:i]
		}
		n++
	}
	return body
}

// Update replaces the edited title and body.
func (e *Editor) Update(title, body string) error {
	body = Clip(body, e.opts.MaxBody)

	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.current
	if d == nil {
		return ErrNoNote
	}
	d.title, d.body = title, body

	stop(d.debounce)
	d.debounce = nil

	// While a save is in flight the baseline is about to move to the values
	// being saved, so a match with the old baseline still needs a save.
	if d.saving {
		d.debounce = e.opts.AfterFunc(e.opts.Debounce, func() { e.fire(d) })
		return nil
	}

	stop(d.window)
	if !d.changed() {
		e.setLocked(d, Clean)
		return nil
	}
	d.debounce = e.opts.AfterFunc(e.opts.Debounce, func() { e.fire(d) })
	e.setLocked(d, Dirty)
	return nil
}

// Title returns the edited title of the open note.
func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ""
	}
	return e.current.title
}

// Body returns the edited body of the open note.
func (e *Editor) Body() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ""
	}
	return e.current.body
}

// UpdatedAt returns the last server timestamp of the open note.
func (e *Editor) UpdatedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return time.Time{}
	}
	return e.current.updatedAt
}

// Status returns the save status of the open note.
func (e *Editor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Clean
	}
	return e.current.status
}

// Subscribe returns the status signal of every tracked note.
func (e *Editor) Subscribe() (<-chan Event, func()) {
	sub, cancel := e.hub.Subscribe()
	return sub.C, cancel
}

func (e *Editor) setLocked(d *doc, s Status) {
	if d.status == s {
		return
	}
	d.status = s
	e.hub.Publish(Event{NoteID: d.id, Status: s})
}

func (e *Editor) fire(d *doc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d.debounce = nil
	if d.saving {
		d.pending = true
		return
	}
	if !d.changed() {
		return
	}
	e.startLocked(d)
}

// startLocked captures the current values and saves them in the background.
func (e *Editor) startLocked(d *doc) {
	d.saving = true
	d.pending = false
	stop(d.window)
	e.setLocked(d, Saving)

	title, body := d.title, d.body
	e.inflight.Add(1)
	go e.save(d, title, body)
}

func (e *Editor) save(d *doc, title, body string) {
	defer e.inflight.Done()

	n, err := e.saver.SaveNote(context.Background(), d.id, title, body)

	e.mu.Lock()
	d.saving = false
	d.lastErr = err

	if err != nil {
		e.log.Error("autosave failed", "note_id", d.id, "error", err)
		e.setLocked(d, Dirty)
		if d.pending {
			e.startLocked(d)
		}
		e.mu.Unlock()
		return
	}

	d.baseTitle, d.baseBody = title, body
	d.updatedAt = n.UpdatedAt

	switch {
	case d.changed():
		e.setLocked(d, Dirty)
		if d.pending || d.debounce == nil {
			e.startLocked(d)
		}
	default:
		d.pending = false
		e.setLocked(d, Saved)
		d.window = e.opts.AfterFunc(e.opts.SavedWindow, func() { e.settle(d) })
		if d != e.current {
			e.releaseLocked(d)
		}
	}
	e.mu.Unlock()

	if e.opts.OnChange != nil {
		e.opts.OnChange(n)
	}
}

func (e *Editor) settle(d *doc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d.status == Saved {
		e.setLocked(d, Clean)
	}
}

// Flush saves every note with unsaved edits right away and waits for all
// saves to finish. It reports the notes that are still unsaved.
func (e *Editor) Flush(ctx context.Context) error {
	e.mu.Lock()
	for _, d := range e.docs {
		stop(d.debounce)
		d.debounce = nil
		switch {
		case d.saving:
			d.pending = true
		case d.changed():
			e.startLocked(d)
		}
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var errs []error
	for _, d := range e.docs {
		if d.changed() {
			errs = append(errs, fmt.Errorf("note %s: %w", d.id, errors.Join(ErrUnsaved, d.lastErr)))
		}
	}
	return errors.Join(errs...)
}

func stop(t Timer) {
	if t != nil {
		t.Stop()
	}
}
