package cmd

import (
	"errors"
	"fmt"

	"flashdeck/core/models"
	"flashdeck/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunMigrate bool

// migrateCmd moves device-local sets into the signed-in account.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate device-local sets into the signed-in account",
	Long: `Merges sets stored on this device into the signed-in account's profile.
Sets whose id already exists in the profile are skipped.

Examples:
  # Preview what would be added
  migrate --dry-run

  # Apply
  migrate`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRunMigrate, "dry-run", false, "Only report what would be migrated")
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := wire(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session := a.Identity.Current()
	if !session.SignedIn() {
		return errors.New("not signed in, run 'flashdeck auth signin' first")
	}

	// Plan before the engine starts, since starting it applies the migration.
	local := a.Local.Load(ctx)
	var remote []models.FlashcardSet
	user, err := a.Profiles.Get(ctx, session.AccountID)
	switch {
	case errors.Is(err, reconcile.ErrProfileNotFound):
	case err != nil:
		return fmt.Errorf("failed to fetch profile: %w", err)
	default:
		remote = user.FlashcardSets
	}

	plan := reconcile.PlanMigration(local, remote)
	printMigrationPlan(a.Logger, plan)

	if dryRunMigrate {
		a.Logger.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if plan.Empty() {
		a.Logger.Info("Nothing to migrate.")
	}

	if err := a.start(ctx); err != nil {
		return err
	}
	if msg := a.Engine.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}
	a.Logger.Info("Migration complete", zap.Int("sets", len(a.Engine.FlashcardSets())))
	return nil
}

func printMigrationPlan(l *zap.Logger, plan reconcile.MigrationPlan) {
	s := plan.Summary
	l.Info("Migration plan",
		zap.Int("local_sets", s.LocalSets),
		zap.Int("remote_sets", s.RemoteSets),
		zap.Int("added", s.Added),
		zap.Int("skipped", s.Skipped),
	)

	maxShow := 5
	if len(plan.Additions) < maxShow {
		maxShow = len(plan.Additions)
	}
	for _, set := range plan.Additions[:maxShow] {
		l.Info("Set to add", zap.String("id", set.ID), zap.String("title", set.Title), zap.Int("cards", set.CardCount()))
	}
	if len(plan.Additions) > maxShow {
		l.Info("Additional sets not shown", zap.Int("count", len(plan.Additions)-maxShow))
	}
}
