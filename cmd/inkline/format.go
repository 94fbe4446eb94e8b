package main

import (
	"fmt"
	"strings"

	"inkline/internal/analytics"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

const (
	idPrefixLen = 8
	timeLayout  = "2006-01-02 15:04"
)

var (
	faint   = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
)

func shortID(id string) string {
	if len(id) > idPrefixLen {
		return id[:idPrefixLen]
	}
	return id
}

func categoryNames(cats []*categories.Category) map[string]string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID.Hex()] = c.Name
	}
	return names
}

func formatListItem(n *notes.Note, catNames map[string]string) string {
	var sb strings.Builder

	marks := ""
	if n.IsPublic {
		marks += " " + green("shared")
	}
	if n.CategoryID != nil {
		if name, ok := catNames[n.CategoryID.Hex()]; ok {
			marks += " " + cyan(name)
		}
	}
	fmt.Fprintf(&sb, "  %s  %s%s\n", faint(shortID(n.ID.Hex())), bold(n.Title), marks)
	fmt.Fprintf(&sb, "            %s %s\n", faint("Updated:"), faint(n.UpdatedAt.Local().Format(timeLayout)))
	return sb.String()
}

func formatHeader(n *notes.Note, origin string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", bold(n.Title))
	fmt.Fprintf(&sb, "%s %s\n", faint("ID:"), faint(n.ID.Hex()))
	fmt.Fprintf(&sb, "%s %s\n", faint("Created:"), faint(n.CreatedAt.Local().Format(timeLayout)))
	fmt.Fprintf(&sb, "%s %s\n", faint("Updated:"), faint(n.UpdatedAt.Local().Format(timeLayout)))
	if n.Archived {
		fmt.Fprintf(&sb, "%s\n", yellow("archived"))
	}
	if url, ok := n.ShareURL(origin); ok {
		fmt.Fprintf(&sb, "%s %s %s\n", faint("Shared:"), cyan(url), faint(fmt.Sprintf("(%d views)", n.ViewCount)))
	}
	return sb.String()
}

// renderBody renders note text as markdown, falling back to the raw text.
func renderBody(body string, width int) string {
	if strings.TrimSpace(body) == "" {
		return faint("(empty)") + "\n"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body + "\n"
	}
	out, err := r.Render(body)
	if err != nil {
		return body + "\n"
	}
	return out
}

func formatDashboard(d *analytics.Dashboard) string {
	var sb strings.Builder
	row := func(label string, v any) {
		fmt.Fprintf(&sb, "  %-22s %v\n", faint(label), v)
	}

	fmt.Fprintf(&sb, "%s\n", bold("Notes"))
	row("Total", d.TotalNotes)
	row("Active", d.ActiveNotes)
	row("Archived", d.ArchivedNotes)
	row("Created this month", d.CreatedThisMonth)
	if d.MostActiveWeekday != "" {
		row("Most active weekday", d.MostActiveWeekday)
	}
	if d.MostViewed != nil {
		row("Most viewed", fmt.Sprintf("%s (%d views)", d.MostViewed.Title, d.MostViewed.ViewCount))
	}
	row("Avg words this month", d.AvgWordsThisMonth)
	row("Avg words last month", d.AvgWordsLastMonth)

	if len(d.Categories) > 0 {
		fmt.Fprintf(&sb, "%s\n", bold("Categories"))
		for _, c := range d.Categories {
			row(c.Name, c.Count)
		}
	}

	scope := "active notes"
	if d.Quota.IncludeArchived {
		scope = "all notes"
	}
	fmt.Fprintf(&sb, "%s\n", bold("Quota"))
	row("Used", fmt.Sprintf("%d of %d (%s)", d.Quota.Used, d.Quota.Limit, scope))
	row("Remaining", d.Quota.Remaining)
	return sb.String()
}
