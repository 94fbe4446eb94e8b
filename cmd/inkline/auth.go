package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"inkline/internal/remote"
	"inkline/internal/services/auth"
	"inkline/internal/session"

	"github.com/spf13/cobra"
)

var errBadCredentials = errors.New("invalid email or password")

// readSecret returns the flag value or the next line of stdin.
func readSecret(a *app, cmd *cobra.Command, flag string) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v, nil
	}
	fmt.Fprint(a.errOut, "Password: ")
	line, err := bufio.NewReader(a.in).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func (a *app) remember(res *auth.AuthResponse) error {
	return a.session.Set(session.Identity{
		UserID: res.User.ID.Hex(),
		Email:  res.User.Email,
		Token:  res.Token,
		Server: a.server,
	})
}

func newSignUpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecret(a, cmd, "password")
			if err != nil {
				return err
			}
			res, err := a.client.SignUp(cmd.Context(), args[0], password)
			if err != nil {
				return fmt.Errorf("sign up: %w", err)
			}
			if err := a.remember(res); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed up as %s\n", bold(res.User.Email))
			return nil
		},
	}
	cmd.Flags().String("password", "", "password (read from stdin when omitted)")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecret(a, cmd, "password")
			if err != nil {
				return err
			}
			res, err := a.client.SignIn(cmd.Context(), args[0], password)
			if errors.Is(err, remote.ErrUnauthorized) {
				return errBadCredentials
			}
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			if err := a.remember(res); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", bold(res.User.Email))
			return nil
		},
	}
	cmd.Flags().String("password", "", "password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", bold(u.Email), faint(u.ID.Hex()))
			fmt.Fprintf(a.out, "%s %s\n", faint("Server:"), a.client.BaseURL())
			return nil
		},
	}
}
