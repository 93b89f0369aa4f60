package models

// AuthStatus is the top-level session status.
type AuthStatus int

const (
	// AuthLoading is the initial status and the status while a
	// state-changing auth operation is in flight.
	AuthLoading AuthStatus = iota
	// AuthSignedOut means no account is signed in.
	AuthSignedOut
	// AuthSignedIn means an account is signed in. See ProfilePhase.
	AuthSignedIn
)

// String returns the lower-case status name.
func (s AuthStatus) String() string {
	switch s {
	case AuthLoading:
		return "loading"
	case AuthSignedOut:
		return "signed_out"
	case AuthSignedIn:
		return "signed_in"
	default:
		return "unknown"
	}
}

// ProfilePhase tracks the remote profile while signed in.
type ProfilePhase int

const (
	// ProfilePending means the profile is being fetched, created or migrated.
	ProfilePending ProfilePhase = iota
	// ProfileReady means the in-memory profile is authoritative.
	ProfileReady
)

// String returns the lower-case phase name.
func (p ProfilePhase) String() string {
	if p == ProfileReady {
		return "ready"
	}
	return "pending"
}

// AuthState is a tagged value. AccountID and Profile are only meaningful
// when Status is AuthSignedIn.
type AuthState struct {
	Status    AuthStatus   `json:"-"`
	AccountID string       `json:"-"`
	Profile   ProfilePhase `json:"-"`
}

// Loading returns the Loading state.
func Loading() AuthState { return AuthState{Status: AuthLoading} }

// SignedOut returns the SignedOut state.
func SignedOut() AuthState { return AuthState{Status: AuthSignedOut} }

// SignedIn returns a SignedIn state for the account in the given phase.
func SignedIn(accountID string, phase ProfilePhase) AuthState {
	return AuthState{Status: AuthSignedIn, AccountID: accountID, Profile: phase}
}

// IsReady reports whether the state is SignedIn with a loaded profile.
func (s AuthState) IsReady() bool {
	return s.Status == AuthSignedIn && s.Profile == ProfileReady
}

// Settled reports whether no session transition is in flight.
func (s AuthState) Settled() bool {
	return s.Status == AuthSignedOut || s.IsReady()
}

// AuthStateView is the JSON projection of AuthState.
type AuthStateView struct {
	Status    string `json:"status"`
	AccountID string `json:"accountId,omitempty"`
	Profile   string `json:"profile,omitempty"`
}

// View returns the JSON projection of the state.
func (s AuthState) View() AuthStateView {
	v := AuthStateView{Status: s.Status.String()}
	if s.Status == AuthSignedIn {
		v.AccountID = s.AccountID
		v.Profile = s.Profile.String()
	}
	return v
}

// SessionEvent is emitted by the identity provider. An empty AccountID
// means no user is signed in.
type SessionEvent struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

// SignedIn reports whether the event carries a user.
func (e SessionEvent) SignedIn() bool {
	return e.AccountID != ""
}
