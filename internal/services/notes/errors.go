package notes

import "errors"

// ErrNoteNotFound - note not found in DB
var ErrNoteNotFound = errors.New("note not found")

// ErrShareNotFound is returned for unknown or private share ids.
var ErrShareNotFound = errors.New("shared note not found")

// PrivateShareMessage is shown to visitors of an unknown or private share link.
const PrivateShareMessage = "This note is private or does not exist."

// ErrQuotaReached is returned when the user already owns the maximum number of notes.
var ErrQuotaReached = errors.New("note limit reached")

// ErrBodyTooLong is returned when a body exceeds the configured character cap.
var ErrBodyTooLong = errors.New("body exceeds the maximum length")

// ErrEmptyPatch is returned when an update carries neither title nor body.
var ErrEmptyPatch = errors.New("nothing to update")

// ErrInvalidID is returned when a note or category id is malformed.
var ErrInvalidID = errors.New("invalid id")

// ErrNoIDs is returned when a bulk operation receives no ids.
var ErrNoIDs = errors.New("at least one id is required")

// ErrCategoryNotFound is returned when assigning a category the user does not own.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCreateNote is returned when note creation fails.
var ErrCreateNote = errors.New("failed to create note")

// ErrUpdateNote is returned when note update fails.
var ErrUpdateNote = errors.New("failed to update note")

// ErrDeleteNote is returned when note deletion fails.
var ErrDeleteNote = errors.New("failed to delete note")

// ErrListNotes is returned when notes listing fails.
var ErrListNotes = errors.New("failed to list notes")

// ErrCreateNotesRepo is returned when notes repository creation fails.
var ErrCreateNotesRepo = errors.New("failed to create notes repository")
