package cmd

import (
	"fmt"
	"strings"

	"flashdeck/core/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	setColor string
	setCards []string
)

// setsCmd is the parent command for set operations.
var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List, add and delete flashcard sets",
	Long: `Operates on the authoritative collection: the account profile when
signed in, otherwise the sets stored on this device.`,
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all sets as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return printJSON(a.Engine.FlashcardSets())
	},
}

var setsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a set",
	Long: `Adds a set. Cards are given as "question|answer".

Examples:
  sets add "Capitals" --color blue --card "France|Paris" --card "Spain|Madrid"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		set := models.NewFlashcardSet(strings.TrimSpace(args[0]), setColor)
		for _, raw := range setCards {
			q, ans, ok := strings.Cut(raw, "|")
			if !ok || strings.TrimSpace(q) == "" {
				return fmt.Errorf("invalid card %q, expected question|answer", raw)
			}
			set.Cards = append(set.Cards, models.NewFlashcard(strings.TrimSpace(q), strings.TrimSpace(ans)))
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		added, err := a.Engine.AddSet(ctx, set)
		if err != nil {
			return err
		}
		a.Logger.Info("Set added", zap.String("id", added.ID), zap.Int("cards", added.CardCount()))
		return printJSON(added)
	},
}

var setsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a set and its shared copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine.DeleteSet(ctx, args[0]); err != nil {
			return err
		}
		a.Logger.Info("Set deleted", zap.String("id", args[0]))
		return nil
	},
}

func init() {
	setsAddCmd.Flags().StringVar(&setColor, "color", "", "Set color (hex or palette name)")
	setsAddCmd.Flags().StringArrayVar(&setCards, "card", nil, "Card as question|answer (repeatable)")
	setsCmd.AddCommand(setsListCmd, setsAddCmd, setsDeleteCmd)
	RootCmd.AddCommand(setsCmd)
}
