// Package models defines the domain types shared by the reconcile engine,
// the storage adapters and the HTTP surface.
//
// # Types
//
//   - Flashcard: a single question/answer pair with a star flag.
//   - FlashcardSet: an ordered collection of cards plus sharing metadata.
//   - AppUser: the remote profile document owning a list of sets.
//   - AuthState: the engine's view of the session (Loading, SignedOut, SignedIn).
//   - SessionEvent: a session change emitted by the identity provider.
//
// All types serialize to the JSON shape used by the local blob and the
// remote documents. Colors travel as "#RRGGBB" strings.
package models
