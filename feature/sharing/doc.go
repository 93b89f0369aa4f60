// Package sharing publishes flashcard sets and imports them back as
// personal copies.
//
// # Components
//
//   - Registry: the shared_sets table, queryable by visibility, owner and
//     share code. Publishing upserts by set id (last write wins).
//   - Service: share code generation (6 symbols from A-Z0-9 via nanoid),
//     publish/unpublish/delete, the public listing behind a short TTL
//     cache with stampede protection, and import by code.
//   - Handler: the /sharing routes.
//
// # Personal copies
//
// MakePersonalCopy gives the copy and each card a new id, clears the share
// code, marks it private and assigns the caller's account as owner. It
// writes nothing; ImportToLibrary and CopyPublic hand the copy to the
// library's AddSet.
//
// Lookup failures of any kind surface as ErrShareNotFound.
package sharing
