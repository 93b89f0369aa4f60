package reconcile

import (
	"context"

	"flashdeck/core/models"
)

// LocalStore persists the signed-out set collection on the device.
// Implementations never fail outward: corrupt or missing data loads as an
// empty collection and save failures are logged.
type LocalStore interface {
	// Load returns the stored sets, or an empty slice.
	Load(ctx context.Context) []models.FlashcardSet

	// Save replaces the stored snapshot.
	Save(ctx context.Context, sets []models.FlashcardSet)

	// Clear removes the stored snapshot.
	Clear(ctx context.Context)
}

// LocalNotifier is implemented by local stores that announce writes.
// The engine reloads its signed-out snapshot on each notification.
type LocalNotifier interface {
	Subscribe() (<-chan struct{}, func())
}

// ProfileStore reads and writes remote profile documents keyed by account id.
type ProfileStore interface {
	// Get returns the profile or ErrProfileNotFound when no document exists.
	Get(ctx context.Context, accountID string) (*models.AppUser, error)

	// Create stores a new profile document.
	Create(ctx context.Context, user *models.AppUser) error

	// UpdateSets overwrites only the flashcard sets field.
	UpdateSets(ctx context.Context, accountID string, sets []models.FlashcardSet) error

	// UpdateDisplayName overwrites only the display name field.
	UpdateDisplayName(ctx context.Context, accountID string, displayName *string) error
}

// ShareRemover deletes published copies of a set.
type ShareRemover interface {
	DeletePublic(ctx context.Context, setID string) error
}

// IdentityProvider authenticates accounts and reports session changes.
// Session events are the only input that moves the engine between
// SignedOut and SignedIn.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error

	// Subscribe delivers the current session first and every change after it.
	// The returned func releases the subscription.
	Subscribe() (<-chan models.SessionEvent, func())
}
