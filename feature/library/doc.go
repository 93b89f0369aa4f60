// Package library exposes the reconcile engine over HTTP.
//
// # Routes
//
//   - /auth: state, signin, signup, signout. Auth calls return once the
//     engine has settled, so the response reflects the loaded profile.
//   - /profile: read the profile and update the display name.
//   - /sets: list, read, create, replace and delete sets, append cards and
//     toggle a card's star.
//
// Request bodies are validated with go-playground/validator. Engine and
// identity errors map to status codes in one place (status in handler.go).
package library
