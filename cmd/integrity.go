package cmd

import (
	"context"
	"errors"
	"fmt"

	"flashdeck/core/logger"
	"flashdeck/feature/identity"
	"flashdeck/feature/integrity"
	"flashdeck/feature/profile"
	"flashdeck/feature/sharing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the remote schema and profile storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the profile, share registry and account tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the profile bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(serverCmd, storageCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}

func runIntegrityChecks(ctx context.Context, runServer, runStorage bool) error {
	a, err := wire(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	logg := a.Logger
	svc := integrity.NewService(
		a.RemoteDB,
		[]any{profile.Record{}, sharing.SharedSet{}, identity.Account{}},
		a.Storage,
		a.Config.Storage.Bucket,
		a.Config.Storage.Region,
		logger.Component(logg, "integrity"),
	)

	if runServer {
		logg.Info("Checking server schema integrity...", zap.String("driver", a.Config.Database.Driver))
		report, err := svc.CheckServer()
		if err != nil {
			return fmt.Errorf("server schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Server schema matches expected definition.", zap.Int("tables", len(report.Tables)))
		} else {
			logg.Warn("Server schema mismatches found")
			for table, tblReport := range report.Tables {
				if tblReport.Status == "ok" {
					continue
				}
				if len(tblReport.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
				}
				if len(tblReport.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runStorage {
		if !svc.StorageEnabled() {
			logg.Info("Profiles are stored in the database, skipping storage check.")
			return nil
		}

		check := svc.CheckStorage
		if fixFlag {
			check = svc.FixStorage
		}
		report, err := check(ctx)
		if errors.Is(err, integrity.ErrStorageDisabled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}

		switch {
		case report.Fixed:
			logg.Info("Bucket created.", zap.String("bucket", report.Bucket))
		case report.Exists:
			logg.Info("Bucket is present.", zap.String("bucket", report.Bucket))
		default:
			logg.Warn("Bucket is missing. Run with --fix to create it.", zap.String("bucket", report.Bucket))
		}
		if report.Exists && !report.Writable {
			logg.Warn("Bucket rejected a test write.", zap.String("bucket", report.Bucket), zap.String("error", report.WriteError))
		}
	}
	return nil
}
