package reconcile

import (
	"errors"
	"time"

	"flashdeck/core/models"
)

var (
	// ErrProfileNotFound is returned by a ProfileStore when no document exists.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMutationTargetMissing reports an update or delete for an unknown set id.
	ErrMutationTargetMissing = errors.New("flashcard set not found")
	// ErrNotSignedIn is returned by operations that need an account.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrNotRunning is returned when a command is submitted before Run starts
	// or after it stops.
	ErrNotRunning = errors.New("engine is not running")
	// ErrCredentialsRequired is returned when email or password is empty.
	ErrCredentialsRequired = errors.New("email and password are required")
)

// User-facing messages stored in ErrorMessage.
const (
	msgProfileLoad = "Failed to load your profile. Please sign in again."
	msgSaveFailed  = "Failed to save your flashcard sets."
	msgSyncFailed  = "Failed to sync local flashcard sets to your account."
	msgCredentials = "Enter email and password."
)

// Config tunes the engine's remote calls.
type Config struct {
	// FetchTimeoutSeconds bounds each profile fetch, create and persist.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"15"`
}

// FetchTimeout returns the configured timeout, falling back to 15s.
func (c Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// MigrationPlan describes how local sets merge into a remote profile.
type MigrationPlan struct {
	// Additions are local sets whose id is absent remotely, in local order.
	Additions []models.FlashcardSet `json:"additions"`

	// Skipped holds ids already present remotely or repeated locally.
	Skipped []string `json:"skipped"`

	// Summary provides aggregate counts.
	Summary MigrationSummary `json:"summary"`
}

// MigrationSummary provides aggregate statistics for a migration plan.
type MigrationSummary struct {
	LocalSets  int `json:"local_sets"`
	RemoteSets int `json:"remote_sets"`
	Added      int `json:"added"`
	Skipped    int `json:"skipped"`
}

// Empty reports whether applying the plan would change nothing remotely.
func (p MigrationPlan) Empty() bool {
	return len(p.Additions) == 0
}
