package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"inkline/internal/prefs"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		archived bool
		dir      string
	)
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Download notes as a zip of text files",
		Long: `Download the given notes, or the whole active (or --archived) list when
no ids are given, as a zip archive with one text file per note.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.notes(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := resolve(c, args)
			if err != nil {
				return err
			}

			tmp, err := os.CreateTemp(dir, ".inkline-export-*")
			if err != nil {
				return err
			}
			defer func() { _ = os.Remove(tmp.Name()) }()

			name, err := a.client.Export(cmd.Context(), ids, archived, tmp)
			if cerr := tmp.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			dest := filepath.Join(dir, filepath.Base(name))
			if err := os.Rename(tmp.Name(), dest); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote %s\n", bold(dest))
			return nil
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "export the archived list")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "destination directory")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the notes dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			d, err := a.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, formatDashboard(d))
			return nil
		},
	}
}

func newFontCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "font [size|+|-]",
		Short: "Show or change the editor font size",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := a.openPrefs()
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			size := p.FontSize()
			if len(args) == 1 {
				switch args[0] {
				case "+":
					size++
				case "-":
					size--
				default:
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return errors.New("font size must be a number, + or -")
					}
					size = n
				}
				if size, err = p.SetFontSize(size); err != nil {
					return err
				}
			}
			fmt.Fprintf(a.out, "Font size %d %s\n", size,
				faint(fmt.Sprintf("(%d..%d)", prefs.MinFontSize, prefs.MaxFontSize)))
			return nil
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server and its database are up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s is unhealthy: %w", a.client.BaseURL(), err)
			}
			rs := "standalone"
			if h.ReplicaSet {
				rs = "replica set"
			}
			fmt.Fprintf(a.out, "%s %s %s\n", green(h.Status), a.client.BaseURL(), faint("("+rs+")"))
			return nil
		},
	}
}
