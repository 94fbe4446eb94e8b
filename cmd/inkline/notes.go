package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"inkline/internal/collection"
	"inkline/internal/editor"
	"inkline/internal/projection"
	"inkline/internal/services/notes"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		archived bool
		query    string
		sortKey  string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List notes",
		Long: `List active or archived notes, optionally filtered by title.
--sort picks the ordering of the view and is remembered: naming the current
key again flips its direction, a new key starts ascending.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.notes(cmd.Context())
			if err != nil {
				return err
			}

			p, err := a.openPrefs()
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			order := p.Sort(archived)
			if sortKey != "" {
				if _, err := projection.ParseSort(sortKey, ""); err != nil {
					return err
				}
				order = order.Toggle(sortKey)
				if err := p.SetSort(archived, order); err != nil {
					return err
				}
			}

			list := c.Active()
			if archived {
				list = c.Archived()
			}
			list = projection.Apply(list, query, order)

			if len(list) == 0 {
				fmt.Fprintln(a.out, "No notes found.")
				return nil
			}

			cats, err := a.client.Categories(cmd.Context())
			if err != nil {
				a.log.Warn("listing without category names", "error", err)
			}
			names := categoryNames(cats)

			fmt.Fprintf(a.out, "%s\n", faint(fmt.Sprintf("%d notes, sorted by %s", len(list), order)))
			for _, n := range list {
				fmt.Fprint(a.out, formatListItem(n, names))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived notes")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort by title, created_at or updated_at")
	return cmd
}

func newNewCmd(a *app) *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.notes(ctx)
			if err != nil {
				return err
			}
			d, err := a.client.Stats(ctx)
			if err != nil {
				return err
			}
			c.SetQuota(collection.Quota{Limit: d.Quota.Limit, IncludeArchived: d.Quota.IncludeArchived})

			n, err := c.Create(ctx)
			if err != nil {
				return err
			}
			if title != "" || body != "" {
				if title == "" {
					title = n.Title
				}
				saved, err := a.client.SaveNote(ctx, n.ID.Hex(), title, editor.Clip(body, editor.DefaultMaxBody))
				if err != nil {
					return err
				}
				n = saved
			}

			fmt.Fprintf(a.out, "Created %s %s\n", faint(shortID(n.ID.Hex())), bold(n.Title))
			fmt.Fprintf(a.out, "%s\n", faint(fmt.Sprintf("%d notes left", c.Remaining())))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "initial title")
	cmd.Flags().StringVar(&body, "body", "", "initial body")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.notes(cmd.Context())
			if err != nil {
				return err
			}
			id, err := c.Resolve(args[0])
			if err != nil {
				return err
			}
			n, _ := c.Get(id)

			fmt.Fprint(a.out, formatHeader(n, a.client.BaseURL()))
			fmt.Fprint(a.out, renderBody(n.Body, 80))
			return nil
		},
	}
}

func newSharedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shared <share-id>",
		Short: "Read a publicly shared note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client.Shared(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n", bold(n.Title))
			fmt.Fprintf(a.out, "%s %s\n", faint("Updated:"), faint(n.UpdatedAt.Local().Format(timeLayout)))
			fmt.Fprint(a.out, renderBody(n.Body, 80))
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var (
		title    string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Append stdin to a note with autosave",
		Long: `Every line read from stdin is appended to the note body as it arrives.
Edits are saved after a pause in typing; the save status is printed as it
changes. Remaining edits are saved when stdin ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.notes(ctx)
			if err != nil {
				return err
			}
			id, err := c.Resolve(args[0])
			if err != nil {
				return err
			}
			n, _ := c.Get(id)
			if n.Archived {
				return fmt.Errorf("note %s is archived, restore it first", shortID(id))
			}

			ed := editor.New(a.client, editor.Options{
				Debounce: debounce,
				Logger:   a.log,
				OnChange: func(saved *notes.Note) {
					c.Merge(saved.ID.Hex(), collection.PatchFrom(saved))
				},
			})
			ed.Open(n)

			events, cancel := ed.Subscribe()
			printed := make(chan struct{})
			last := editor.Clean
			go func() {
				defer close(printed)
				for ev := range events {
					last = ev.Status
					fmt.Fprintf(a.errOut, "%s\n", faint("["+ev.Status.String()+"]"))
				}
			}()

			if title == "" {
				title = n.Title
			}
			err = feed(ed, a.in, title, n.Body)
			flushErr := ed.Flush(context.WithoutCancel(ctx))
			cancel()
			<-printed
			// the stream may drop signals under load; always end on the real status
			if st := ed.Status(); st != last {
				fmt.Fprintf(a.errOut, "%s\n", faint("["+st.String()+"]"))
			}

			if err := errors.Join(err, flushErr); err != nil {
				return err
			}
			final, _ := c.Get(id)
			fmt.Fprintf(a.out, "Saved %s %s\n", faint(shortID(id)), bold(final.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "replace the title")
	cmd.Flags().DurationVar(&debounce, "debounce", editor.DefaultDebounce, "pause before saving")
	return cmd
}

// feed turns each input line into an edit of the open note.
func feed(ed *editor.Editor, in io.Reader, title, body string) error {
	if err := ed.Update(title, body); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if body != "" {
			body += "\n"
		}
		body += sc.Text()
		if err := ed.Update(title, body); err != nil {
			return err
		}
		body = ed.Body()
	}
	return sc.Err()
}

func newArchiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>...",
		Short: "Move notes to the archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.bulk(cmd.Context(), args, "Archived", func(c *collection.Collection, ids []string) (int, error) {
				moved, err := c.Archive(cmd.Context(), ids)
				return len(moved), err
			})
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>...",
		Short: "Bring archived notes back",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.bulk(cmd.Context(), args, "Restored", func(c *collection.Collection, ids []string) (int, error) {
				moved, err := c.Restore(cmd.Context(), ids)
				return len(moved), err
			})
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete notes permanently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.bulk(cmd.Context(), args, "Deleted", func(c *collection.Collection, ids []string) (int, error) {
				deleted, err := c.Delete(cmd.Context(), ids)
				return len(deleted), err
			})
		},
	}
}

func (a *app) bulk(ctx context.Context, prefixes []string, verb string, op func(*collection.Collection, []string) (int, error)) error {
	c, err := a.notes(ctx)
	if err != nil {
		return err
	}
	ids, err := resolve(c, prefixes)
	if err != nil {
		return err
	}
	n, err := op(c, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %d of %d notes\n", verb, n, len(ids))
	return nil
}

func newShareCmd(a *app) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Share a note publicly, or stop sharing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.notes(cmd.Context())
			if err != nil {
				return err
			}
			id, err := c.Resolve(args[0])
			if err != nil {
				return err
			}
			n, err := c.SetSharing(cmd.Context(), id, !off)
			if err != nil {
				return err
			}

			if url, ok := n.ShareURL(a.client.BaseURL()); ok {
				fmt.Fprintf(a.out, "Shared %s at %s\n", bold(n.Title), cyan(url))
				return nil
			}
			fmt.Fprintf(a.out, "%s is private\n", bold(n.Title))
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "make the note private")
	return cmd
}
