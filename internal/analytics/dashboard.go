// Package analytics derives the usage dashboard from a user's notes.
package analytics

import (
	"math"
	"time"

	"inkline/internal/services/categories"
	"inkline/internal/services/notes"
	"inkline/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UnassignedCategory labels notes without a category.
const UnassignedCategory = "Unassigned"

// Dashboard summarizes a user's notes.
type Dashboard struct {
	TotalNotes        int             `json:"total_notes" example:"12"`
	ActiveNotes       int             `json:"active_notes" example:"9"`
	ArchivedNotes     int             `json:"archived_notes" example:"3"`
	CreatedThisMonth  int             `json:"created_this_month" example:"4"`
	MostActiveWeekday string          `json:"most_active_weekday" example:"Tuesday"`
	MostViewed        *ViewedNote     `json:"most_viewed,omitempty"`
	AvgWordsThisMonth int             `json:"avg_words_this_month" example:"120"`
	AvgWordsLastMonth int             `json:"avg_words_last_month" example:"95"`
	Categories        []CategoryCount `json:"categories"`
	Quota             Quota           `json:"quota"`
}

// ViewedNote identifies the most viewed active note.
type ViewedNote struct {
	ID        string `json:"id" example:"683cdb8aa96ad71e8e075bd1"`
	Title     string `json:"title" example:"Meeting Notes"`
	ViewCount int64  `json:"view_count" example:"7"`
}

// CategoryCount is one slice of the category breakdown.
type CategoryCount struct {
	Name  string `json:"name" example:"Work"`
	Count int    `json:"count" example:"5"`
}

// Quota reports how much room is left under the note limit.
type Quota struct {
	Limit           int  `json:"limit" example:"100"`
	Used            int  `json:"used" example:"9"`
	Remaining       int  `json:"remaining" example:"91"`
	IncludeArchived bool `json:"include_archived" example:"false"`
}

// Compute builds the dashboard for the given notes. Month boundaries are
// evaluated in now's location.
func Compute(now time.Time, all []*notes.Note, cats []*categories.Category, quota int, includeArchived bool) *Dashboard {
	d := &Dashboard{
		TotalNotes: len(all),
		Categories: []CategoryCount{},
	}

	loc := now.Location()
	thisYear, thisMonth, _ := now.Date()
	prevYear, prevMonth, _ := time.Date(thisYear, thisMonth, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1).Date()

	var weekdays [7]int
	var thisWords, thisCount, prevWords, prevCount int
	for _, n := range all {
		if n.Archived {
			d.ArchivedNotes++
		} else {
			d.ActiveNotes++
			if n.ViewCount > 0 && (d.MostViewed == nil || n.ViewCount > d.MostViewed.ViewCount) {
				d.MostViewed = &ViewedNote{ID: n.ID.Hex(), Title: n.Title, ViewCount: n.ViewCount}
			}
		}

		created := n.CreatedAt.In(loc)
		y, m, _ := created.Date()
		switch {
		case y == thisYear && m == thisMonth:
			d.CreatedThisMonth++
			weekdays[created.Weekday()]++
			thisWords += sanitize.WordCount(n.Body)
			thisCount++
		case y == prevYear && m == prevMonth:
			prevWords += sanitize.WordCount(n.Body)
			prevCount++
		}
	}

	d.MostActiveWeekday = busiestWeekday(weekdays)
	d.AvgWordsThisMonth = average(thisWords, thisCount)
	d.AvgWordsLastMonth = average(prevWords, prevCount)
	d.Categories = breakdown(all, cats)

	used := d.ActiveNotes
	if includeArchived {
		used = d.TotalNotes
	}
	d.Quota = Quota{
		Limit:           quota,
		Used:            used,
		Remaining:       max(quota-used, 0),
		IncludeArchived: includeArchived,
	}

	return d
}

// busiestWeekday returns the earliest weekday (Sunday first) with the highest
// count, or "" when nothing was created.
func busiestWeekday(counts [7]int) string {
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return time.Weekday(best).String()
}

func average(total, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}

// breakdown counts notes per category name, in the order categories first
// appear among the notes. References to deleted categories fall into the
// unassigned bucket.
func breakdown(all []*notes.Note, cats []*categories.Category) []CategoryCount {
	names := make(map[bson.ObjectID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	out := []CategoryCount{}
	index := map[string]int{}
	for _, n := range all {
		name := UnassignedCategory
		if n.CategoryID != nil {
			if known, ok := names[*n.CategoryID]; ok {
				name = known
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryCount{Name: name})
		}
		out[i].Count++
	}
	return out
}
