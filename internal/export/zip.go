// Package export bundles notes into a zip archive of plain-text files.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"inkline/internal/services/notes"
)

// Download names of the two list views.
const (
	ActiveArchiveName   = "notes.zip"
	ArchivedArchiveName = "archived_notes.zip"
)

// ErrNothingToExport is returned when the selection is empty.
var ErrNothingToExport = errors.New("no notes to export")

var pathReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// ArchiveName returns the download name for the active or archived view.
func ArchiveName(archived bool) string {
	if archived {
		return ArchivedArchiveName
	}
	return ActiveArchiveName
}

// FileName returns the entry name for a note title, without deduplication.
func FileName(title string) string {
	name := strings.TrimSpace(pathReplacer.Replace(title))
	if name == "" || name == "." || name == ".." {
		name = notes.DefaultTitle
	}
	return name + ".txt"
}

// Content renders a note as the text stored in the archive.
func Content(n *notes.Note) string {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		title = notes.DefaultTitle
	}
	return "Title: " + title + "\n\n" + n.Body
}

// Write streams one text file per note into w. Entries with the same name
// get " (2)", " (3)" and so on appended.
func Write(w io.Writer, list []*notes.Note) error {
	if len(list) == 0 {
		return ErrNothingToExport
	}

	zw := zip.NewWriter(w)
	used := make(map[string]int, len(list))
	for _, n := range list {
		hdr := &zip.FileHeader{
			Name:     uniqueName(used, FileName(n.Title)),
			Method:   zip.Deflate,
			Modified: n.UpdatedAt,
		}
		if hdr.Modified.IsZero() {
			hdr.Modified = time.Now()
		}
		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", hdr.Name, err)
		}
		if _, err := io.WriteString(f, Content(n)); err != nil {
			return fmt.Errorf("write %s: %w", hdr.Name, err)
		}
	}
	return zw.Close()
}

func uniqueName(used map[string]int, name string) string {
	key := strings.ToLower(name)
	used[key]++
	seen := used[key]
	if seen == 1 {
		return name
	}
	base := strings.TrimSuffix(name, ".txt")
	for {
		candidate := fmt.Sprintf("%s (%d).txt", base, seen)
		ckey := strings.ToLower(candidate)
		if used[ckey] == 0 {
			used[ckey] = 1
			return candidate
		}
		seen++
		used[key] = seen
	}
}
