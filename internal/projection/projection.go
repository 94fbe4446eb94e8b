// Package projection filters and orders note lists for display.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"inkline/internal/services/notes"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys.
const (
	KeyTitle     = "title"
	KeyCreatedAt = "created_at"
	KeyUpdatedAt = "updated_at"
)

// Directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Sort is a persisted ordering preference.
type Sort struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// DefaultSort lists the most recently edited notes first.
var DefaultSort = Sort{Key: KeyUpdatedAt, Direction: Desc}

// ParseSort validates key and direction, defaulting the direction to asc.
func ParseSort(key, direction string) (Sort, error) {
	switch key {
	case KeyTitle, KeyCreatedAt, KeyUpdatedAt:
	default:
		return Sort{}, fmt.Errorf("unknown sort key %q", key)
	}
	switch strings.ToLower(direction) {
	case "", Asc:
		return Sort{Key: key, Direction: Asc}, nil
	case Desc:
		return Sort{Key: key, Direction: Desc}, nil
	}
	return Sort{}, fmt.Errorf("unknown sort direction %q", direction)
}

// Toggle flips the direction for the same key and starts a new key ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		if s.Direction == Asc {
			return Sort{Key: key, Direction: Desc}
		}
		return Sort{Key: key, Direction: Asc}
	}
	return Sort{Key: key, Direction: Asc}
}

func (s Sort) String() string {
	return s.Key + " " + s.Direction
}

// Apply returns the notes whose title contains query, ignoring case, ordered
// by s. The input slice is not modified and ties keep their input order.
func Apply(list []*notes.Note, query string, s Sort) []*notes.Note {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	out := make([]*notes.Note, 0, len(list))
	for _, n := range list {
		if needle == "" || strings.Contains(fold.String(n.Title), needle) {
			out = append(out, n)
		}
	}

	less := lessFunc(s.Key)
	desc := s.Direction == Desc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key string) func(a, b *notes.Note) bool {
	switch key {
	case KeyTitle:
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b *notes.Note) bool {
			return col.CompareString(a.Title, b.Title) < 0
		}
	case KeyCreatedAt:
		return func(a, b *notes.Note) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b *notes.Note) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}
}
