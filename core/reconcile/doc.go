// Package reconcile owns the authentication-gated view of a user's
// flashcard sets and the one-time migration of device-local sets into a
// remote profile.
//
// # Architecture
//
// The package consists of three parts:
//
// 1. Engine: a state machine (Loading, SignedOut, SignedIn with a pending or
// ready profile) driven by session events from an IdentityProvider. A single
// goroutine started with Run applies events and mutations in order, so a
// migration always finishes before any later mutation touches the fetched
// profile, and a stale fetch can never land after a later sign-out.
//
// 2. Adapters: LocalStore, ProfileStore, ShareRemover and IdentityProvider
// describe the collaborators. Concrete implementations live under feature/.
//
// 3. Plan: PlanMigration is a pure function deduplicating local sets against
// the remote collection by id. ApplyMigration appends the additions. The
// engine persists the result remotely before clearing local storage, so a
// crash at any point either leaves local data for retry or makes the next
// run a no-op.
//
// # Authoritative collection
//
// While SignedIn with a ready profile the profile's sets are authoritative.
// In every other state the local snapshot is.
//
// # Usage Example
//
//	eng := reconcile.New(reconcile.Deps{
//	    Local:    localStore,
//	    Remote:   profiles,
//	    Shares:   sharingService,
//	    Identity: provider,
//	    Logger:   logg,
//	}, cfg.Engine)
//	go eng.Run(ctx)
//	_ = eng.WaitSettled(ctx)
//	sets := eng.FlashcardSets()
package reconcile
