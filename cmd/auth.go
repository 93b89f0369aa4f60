package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	authEmail    string
	authPassword string
	authRefresh  bool
)

// authCmd is the parent command for account operations.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up, sign out or show the session",
}

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and migrate local sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(cmd.Context(), func(a *App, ctx context.Context, email, password string) error {
			return a.Engine.SignIn(ctx, email, password)
		})
	},
}

var signUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account, sign in and migrate local sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(cmd.Context(), func(a *App, ctx context.Context, email, password string) error {
			return a.Engine.SignUp(ctx, email, password)
		})
	},
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and clear device-local sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine.SignOut(ctx); err != nil {
			return err
		}
		if err := a.settle(ctx); err != nil {
			return err
		}
		a.Logger.Info("Signed out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session and profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if authRefresh {
			if err := a.Engine.Refresh(cmd.Context()); err != nil {
				return err
			}
		}

		return printJSON(map[string]any{
			"auth":    a.Engine.CurrentAuthState().View(),
			"profile": a.Engine.CurrentProfile(),
			"sets":    len(a.Engine.FlashcardSets()),
			"error":   a.Engine.ErrorMessage(),
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{signInCmd, signUpCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when empty)")
	}
	statusCmd.Flags().BoolVar(&authRefresh, "refresh", false, "Reload the profile and rerun migration first")
	authCmd.AddCommand(signInCmd, signUpCmd, signOutCmd, statusCmd)
	RootCmd.AddCommand(authCmd)
}

func runAuth(ctx context.Context, call func(a *App, ctx context.Context, email, password string) error) error {
	password := authPassword
	if password == "" {
		password = promptPassword()
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := call(a, ctx, authEmail, password); err != nil {
		return err
	}
	if err := a.settle(ctx); err != nil {
		return err
	}
	if msg := a.Engine.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}

	state := a.Engine.CurrentAuthState()
	a.Logger.Info("Signed in",
		zap.String("account_id", state.AccountID),
		zap.Int("sets", len(a.Engine.FlashcardSets())),
	)
	return nil
}

func promptPassword() string {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}
