package main

import (
	"fmt"
	"strings"

	"inkline/internal/services/categories"

	"github.com/spf13/cobra"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				cats, err := a.client.Categories(cmd.Context())
				if err != nil {
					return err
				}
				if len(cats) == 0 {
					fmt.Fprintln(a.out, "No categories.")
					return nil
				}
				for _, c := range cats {
					fmt.Fprintf(a.out, "  %s  %s\n", faint(shortID(c.ID.Hex())), cyan(c.Name))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a category, or find it by name",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				name := strings.TrimSpace(strings.Join(args, " "))
				if name == "" {
					return categories.ErrEmptyName
				}
				c, err := a.client.CreateCategory(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s\n", faint(shortID(c.ID.Hex())), cyan(c.Name))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <name|id>",
			Short: "Delete a category and unassign its notes",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				c, err := a.findCategory(cmd, strings.Join(args, " "))
				if err != nil {
					return err
				}
				res, err := a.client.DeleteCategory(cmd.Context(), c.ID.Hex())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %s, %d notes unassigned\n", cyan(c.Name), res.NotesCleared)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <note-id> [name|id]",
			Short: "Assign a category to a note, or clear it",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.notes(cmd.Context())
				if err != nil {
					return err
				}
				id, err := c.Resolve(args[0])
				if err != nil {
					return err
				}

				var catID *string
				label := "no category"
				if len(args) == 2 {
					cat, err := a.findCategory(cmd, args[1])
					if err != nil {
						return err
					}
					hex := cat.ID.Hex()
					catID, label = &hex, cat.Name
				}

				n, err := a.client.SetCategory(cmd.Context(), id, catID)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s now has %s\n", bold(n.Title), cyan(label))
				return nil
			},
		},
	)
	return cmd
}

// findCategory matches a name case-insensitively or an id prefix.
func (a *app) findCategory(cmd *cobra.Command, ref string) (*categories.Category, error) {
	cats, err := a.client.Categories(cmd.Context())
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}

	var match *categories.Category
	for _, c := range cats {
		if ref != "" && strings.HasPrefix(c.ID.Hex(), strings.ToLower(ref)) {
			if match != nil {
				return nil, fmt.Errorf("category %q is ambiguous", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", categories.ErrCategoryNotFound, ref)
	}
	return match, nil
}
