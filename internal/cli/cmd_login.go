package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaihub/kai/internal/auth"
	kaierrors "github.com/kaihub/kai/internal/errors"
)

// newLoginCmd creates the login command
func newLoginCmd() *cobra.Command {
	var (
		token    string
		username string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store API credentials",
		Long: `Store the bearer token kai sends with every API request.

Example:
  kai login --token eyJhbGc... --username alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return kaierrors.ErrValidation("token", "must not be empty")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.SaveToken(token); err != nil {
				return err
			}
			if username != "" {
				if err := a.auth.SaveUser(&auth.User{Username: username, Email: email}); err != nil {
					return err
				}
			}

			fmt.Println("Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API bearer token (required)")
	cmd.Flags().StringVar(&username, "username", "", "username to store alongside the token")
	cmd.Flags().StringVar(&email, "email", "", "email to store alongside the token")
	return cmd
}

// newLogoutCmd creates the logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials and cached data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.Clear(); err != nil {
				return err
			}
			a.store.Reset()

			fmt.Println("Logged out.")
			return nil
		},
	}
}

// newWhoamiCmd creates the whoami command
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if !a.auth.LoggedIn() {
				fmt.Println("Not logged in.")
				return nil
			}
			u := a.auth.User()
			if u == nil {
				fmt.Println("Logged in (no identity stored).")
				return nil
			}
			if jsonOut {
				return printJSON(u)
			}
			fmt.Printf("%s", u.Username)
			if u.Email != "" {
				fmt.Printf(" <%s>", u.Email)
			}
			fmt.Println()
			return nil
		},
	}
}
