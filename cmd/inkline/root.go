package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"inkline/internal/collection"
	"inkline/internal/config"
	"inkline/internal/logger"
	"inkline/internal/prefs"
	"inkline/internal/remote"
	"inkline/internal/session"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

// app carries what every command needs. It is built lazily by the root
// command so that --help works without a config dir.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	server  string
	home    string
	timeout time.Duration
	verbose bool

	log     *slog.Logger
	session *session.Store
	client  *remote.Client
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "inkline",
		Short:         "Terminal client for InkLine notes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Flags().Changed("server") || os.Getenv("INKLINE_URL") != "")
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	server := os.Getenv("INKLINE_URL")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&a.server, "server", server, "server origin (env INKLINE_URL)")
	root.PersistentFlags().StringVar(&a.home, "home", "", "config dir (env INKLINE_HOME)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", remote.DefaultTimeout, "request timeout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests")

	root.AddCommand(
		newSignUpCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newNewCmd(a),
		newShowCmd(a),
		newSharedCmd(a),
		newEditCmd(a),
		newArchiveCmd(a),
		newRestoreCmd(a),
		newRmCmd(a),
		newShareCmd(a),
		newCategoryCmd(a),
		newExportCmd(a),
		newStatsCmd(a),
		newFontCmd(a),
		newHealthCmd(a),
	)

	wrapErrors(root, a)
	return root
}

// wrapErrors prints command errors once, in the client's style.
func wrapErrors(parent *cobra.Command, a *app) {
	for _, cmd := range parent.Commands() {
		wrapErrors(cmd, a)
		run := cmd.RunE
		if run == nil {
			continue
		}
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil {
				fmt.Fprintln(a.errOut, failure(describe(err)))
			}
			return err
		}
	}
}

// init wires logging, the saved session and the API client. A server chosen
// explicitly wins over the one stored with the session.
func (a *app) init(explicitServer bool) error {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.New(config.Config{LogLevel: level, LogFormat: "text"}, a.errOut)

	if a.home == "" {
		home, err := session.DefaultDir()
		if err != nil {
			return err
		}
		a.home = home
	}

	a.session = session.NewStore(session.NewFileStore(a.home), a.log)
	if err := a.session.Restore(); err != nil {
		a.log.Warn("ignoring saved credentials", "error", err)
	}
	if id := a.session.Current(); id != nil && id.Server != "" && !explicitServer {
		a.server = id.Server
	}

	a.client = remote.New(a.server, a.session, remote.WithTimeout(a.timeout), remote.WithLogger(a.log))
	return nil
}

func (a *app) close() error {
	a.session.Close()
	return nil
}

// openPrefs opens the local preference store. Callers close it.
func (a *app) openPrefs() (*prefs.Store, error) {
	return prefs.Open(filepath.Join(a.home, "prefs"), a.log)
}

// requireSession fails early when no one is signed in.
func (a *app) requireSession() error {
	if a.session.Current() == nil {
		return session.ErrSignedOut
	}
	return nil
}

// notes loads the collection of the signed-in user.
func (a *app) notes(ctx context.Context) (*collection.Collection, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	c := collection.New(a.client, collection.Quota{}, a.log)
	if err := c.Load(ctx, ""); err != nil {
		return nil, err
	}
	return c, nil
}

// resolve expands every id prefix against c.
func resolve(c *collection.Collection, prefixes []string) ([]string, error) {
	ids := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		id, err := c.Resolve(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrSignedOut):
		return "not signed in, run `inkline login` first"
	case errors.Is(err, remote.ErrUnauthorized):
		return "session expired or invalid, run `inkline login` again"
	case errors.Is(err, collection.ErrQuotaReached):
		return "note limit reached, archive or delete notes first"
	}
	return err.Error()
}
