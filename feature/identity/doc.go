// Package identity is the email/password account provider.
//
// Accounts live in the accounts table with bcrypt password hashes. The
// active session is saved in the device key-value store so separate CLI
// invocations share it, and every change is broadcast to subscribers over
// buffered channels. The reconcile engine treats these events as the only
// trigger for moving between signed-in and signed-out.
//
// # Errors
//
//   - ErrInvalidCredentials: unknown email or wrong password.
//   - ErrEmailInUse, ErrWeakPassword, ErrInvalidEmail: sign-up rejected.
//   - ErrNetwork: the account store could not be reached.
package identity
