package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	shareWithCode bool
	shareOwner    string
)

// shareCmd is the parent command for sharing operations.
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Publish sets and import shared sets",
}

var shareCodeCmd = &cobra.Command{
	Use:   "code",
	Short: "Print a fresh share code",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wire(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		code, err := a.Sharing.GenerateShareCode()
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	},
}

var sharePublishCmd = &cobra.Command{
	Use:   "publish <set-id>",
	Short: "Publish a set, optionally with a share code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSignedIn(); err != nil {
			return err
		}

		set, err := a.Sharing.ShareSet(ctx, args[0], shareWithCode)
		if err != nil {
			return err
		}
		a.Logger.Info("Set published", zap.String("id", set.ID), zap.Stringp("share_code", set.ShareCode))
		return printJSON(set)
	},
}

var shareUnpublishCmd = &cobra.Command{
	Use:   "unpublish <set-id>",
	Short: "Hide a published set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireSignedIn(); err != nil {
			return err
		}

		if err := a.Sharing.UnshareSet(ctx, args[0]); err != nil {
			return err
		}
		a.Logger.Info("Set unpublished", zap.String("id", args[0]))
		return nil
	},
}

var sharePublicCmd = &cobra.Command{
	Use:   "public",
	Short: "List public sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := wire(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if shareOwner != "" {
			sets, err := a.Sharing.FetchOwnedPublic(ctx, shareOwner)
			if err != nil {
				return err
			}
			return printJSON(sets)
		}
		sets, err := a.Sharing.FetchPublic(ctx)
		if err != nil {
			return err
		}
		return printJSON(sets)
	},
}

var shareImportCmd = &cobra.Command{
	Use:   "import <code>",
	Short: "Import a shared set into the library by share code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := a.Sharing.ImportToLibrary(ctx, args[0])
		if err != nil {
			return err
		}
		a.Logger.Info("Set imported", zap.String("id", set.ID), zap.String("title", set.Title))
		return printJSON(set)
	},
}

func init() {
	sharePublishCmd.Flags().BoolVar(&shareWithCode, "code", false, "Assign a share code")
	sharePublicCmd.Flags().StringVar(&shareOwner, "owner", "", "Only sets published by this account id")
	shareCmd.AddCommand(shareCodeCmd, sharePublishCmd, shareUnpublishCmd, sharePublicCmd, shareImportCmd)
	RootCmd.AddCommand(shareCmd)
}
