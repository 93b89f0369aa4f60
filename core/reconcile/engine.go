package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"flashdeck/core/models"
	"flashdeck/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps bundles the engine's collaborators.
type Deps struct {
	Local    LocalStore
	Remote   ProfileStore
	Shares   ShareRemover
	Identity IdentityProvider
	Logger   *zap.Logger
}

type command struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

// Engine owns the authentication state and the authoritative set collection.
//
// A single goroutine (Run) applies session events and mutations in arrival
// order. Readers take a snapshot under a read lock and never wait on remote
// calls.
type Engine struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger

	cmds    chan command
	running atomic.Bool
	stopped chan struct{}

	mu      sync.RWMutex
	state   models.AuthState
	profile *models.AppUser
	local   []models.FlashcardSet
	email   string
	errMsg  string
	changed chan struct{}

	// parked is the state to restore when a provider call fails before any
	// session event arrives.
	parked *models.AuthState
}

// New creates an engine in the Loading state. Call Run to start it.
func New(deps Deps, cfg Config) *Engine {
	l := deps.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Engine{
		deps:    deps,
		cfg:     cfg,
		logger:  l,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
		state:   models.Loading(),
		local:   []models.FlashcardSet{},
		changed: make(chan struct{}),
	}
}

// Run consumes session events and commands until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine already running")
	}
	defer close(e.stopped)

	events, cancel := e.deps.Identity.Subscribe()
	defer cancel()

	var localChanges <-chan struct{}
	if n, ok := e.deps.Local.(LocalNotifier); ok {
		ch, unsubscribe := n.Subscribe()
		defer unsubscribe()
		localChanges = ch
	}

	e.reloadLocal(ctx)
	e.logger.Info("Reconciliation engine started")

	for {
		select {
		case <-ctx.Done():
			e.running.Store(false)
			e.logger.Info("Reconciliation engine stopped")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			e.handleSession(ctx, ev)
		case <-localChanges:
			if !e.remoteAuthoritative() {
				e.reloadLocal(ctx)
			}
		case cmd := <-e.cmds:
			cmd.fn(ctx)
			close(cmd.done)
		}
	}
}

// submit runs fn on the owner goroutine and waits for it to finish.
func (e *Engine) submit(ctx context.Context, fn func(ctx context.Context)) error {
	if !e.running.Load() {
		return ErrNotRunning
	}
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case e.cmds <- cmd:
	case <-e.stopped:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CurrentAuthState returns the current state.
func (e *Engine) CurrentAuthState() models.AuthState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// CurrentProfile returns a copy of the signed-in profile, or nil.
func (e *Engine) CurrentProfile() *models.AppUser {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.profile == nil || !e.state.IsReady() {
		return nil
	}
	return e.profile.Clone()
}

// CurrentAccountID returns the signed-in account id, or nil.
func (e *Engine) CurrentAccountID() *string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state.Status != models.AuthSignedIn {
		return nil
	}
	return models.StringPtr(e.state.AccountID)
}

// FlashcardSets returns the authoritative collection for the current state.
func (e *Engine) FlashcardSets() []models.FlashcardSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return models.CloneSets(e.collectionLocked())
}

// FlashcardSet returns one set from the authoritative collection.
func (e *Engine) FlashcardSet(id string) (models.FlashcardSet, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sets := e.collectionLocked()
	if i := models.IndexOfSet(sets, id); i >= 0 {
		return sets[i].Clone(), true
	}
	return models.FlashcardSet{}, false
}

// ErrorMessage returns the last operation's user-facing failure, or "".
func (e *Engine) ErrorMessage() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.errMsg
}

// WaitSettled blocks until the engine is SignedOut or SignedIn with a ready
// profile.
func (e *Engine) WaitSettled(ctx context.Context) error {
	for {
		e.mu.RLock()
		settled := e.state.Settled()
		ch := e.changed
		e.mu.RUnlock()
		if settled {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *Engine) collectionLocked() []models.FlashcardSet {
	if e.state.IsReady() && e.profile != nil {
		return e.profile.FlashcardSets
	}
	return e.local
}

func (e *Engine) remoteAuthoritative() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.IsReady() && e.profile != nil
}

// setStateLocked must be called with mu held.
func (e *Engine) setStateLocked(s models.AuthState) {
	if e.state == s {
		return
	}
	e.logger.Debug("Auth state changed",
		zap.Stringer("from", e.state.Status),
		zap.Stringer("to", s.Status),
		zap.String("account_id", s.AccountID),
	)
	e.state = s
	close(e.changed)
	e.changed = make(chan struct{})
}

func (e *Engine) setError(msg string) {
	e.mu.Lock()
	e.errMsg = msg
	e.mu.Unlock()
}

func (e *Engine) clearError() {
	e.setError("")
}

func (e *Engine) handleSession(ctx context.Context, ev models.SessionEvent) {
	e.mu.Lock()
	e.parked = nil
	e.mu.Unlock()

	if !ev.SignedIn() {
		e.applySignedOut(ctx)
		return
	}

	uid := ev.AccountID
	l := e.logger.With(zap.String("account_id", uid))

	e.mu.Lock()
	e.profile = nil
	e.email = ev.Email
	e.setStateLocked(models.SignedIn(uid, models.ProfilePending))
	e.mu.Unlock()

	user, err := e.fetchOrCreate(ctx, uid, ev.Email)
	if err != nil {
		l.Error("Profile fetch failed, forcing sign-out", zap.Error(err))
		e.forceSignOut(ctx)
		return
	}

	if err := e.migrate(ctx, user); err != nil {
		l.Error("Local migration failed, local sets kept for retry", zap.Error(err))
		e.setError(msgSyncFailed)
	}

	e.mu.Lock()
	e.profile = user
	e.setStateLocked(models.SignedIn(uid, models.ProfileReady))
	e.mu.Unlock()
	l.Info("Profile ready", zap.Int("sets", len(user.FlashcardSets)))
}

func (e *Engine) fetchOrCreate(ctx context.Context, uid, email string) (*models.AppUser, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout())
	defer cancel()

	user, err := e.deps.Remote.Get(fetchCtx, uid)
	if err == nil {
		if user.FlashcardSets == nil {
			user.FlashcardSets = []models.FlashcardSet{}
		}
		return user, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	user = &models.AppUser{
		ID:            uid,
		Email:         email,
		FlashcardSets: []models.FlashcardSet{},
	}
	if err := e.deps.Remote.Create(fetchCtx, user); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	e.logger.Info("Created profile", zap.String("account_id", uid))
	return user, nil
}

// migrate moves local sets into user. On persist failure user is left
// unchanged and local data stays for the next sign-in.
func (e *Engine) migrate(ctx context.Context, user *models.AppUser) error {
	local := e.deps.Local.Load(ctx)
	if len(local) == 0 {
		return nil
	}

	plan := PlanMigration(local, user.FlashcardSets)
	if plan.Empty() {
		e.clearLocal(ctx)
		e.logger.Info("Migration skipped, all local sets already present",
			zap.Int("skipped", plan.Summary.Skipped))
		return nil
	}

	merged := ApplyMigration(user.FlashcardSets, plan, user.ID)
	persistCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout())
	defer cancel()
	if err := e.deps.Remote.UpdateSets(persistCtx, user.ID, merged); err != nil {
		return fmt.Errorf("persist migrated sets: %w", err)
	}

	user.FlashcardSets = merged
	e.clearLocal(ctx)
	e.logger.Info("Migrated local sets",
		zap.String("account_id", user.ID),
		zap.Int("added", plan.Summary.Added),
		zap.Int("skipped", plan.Summary.Skipped),
	)
	return nil
}

func (e *Engine) forceSignOut(ctx context.Context) {
	if err := e.deps.Identity.SignOut(ctx); err != nil {
		e.logger.Warn("Provider sign-out failed", zap.Error(err))
	}
	e.mu.Lock()
	e.errMsg = msgProfileLoad
	e.mu.Unlock()
	e.applySignedOut(ctx)
}

func (e *Engine) applySignedOut(ctx context.Context) {
	local := e.deps.Local.Load(ctx)
	e.mu.Lock()
	e.profile = nil
	e.email = ""
	e.local = local
	e.setStateLocked(models.SignedOut())
	e.mu.Unlock()
}

func (e *Engine) reloadLocal(ctx context.Context) {
	local := e.deps.Local.Load(ctx)
	e.mu.Lock()
	e.local = local
	e.mu.Unlock()
}

func (e *Engine) clearLocal(ctx context.Context) {
	e.deps.Local.Clear(ctx)
	e.mu.Lock()
	e.local = []models.FlashcardSet{}
	e.mu.Unlock()
}

// SignIn asks the provider to authenticate. The state parks in Loading
// during the call; the resulting session event moves it to SignedIn.
func (e *Engine) SignIn(ctx context.Context, email, password string) error {
	return e.authenticate(ctx, email, password, e.deps.Identity.SignIn)
}

// SignUp asks the provider to create an account and sign it in.
func (e *Engine) SignUp(ctx context.Context, email, password string) error {
	return e.authenticate(ctx, email, password, e.deps.Identity.SignUp)
}

func (e *Engine) authenticate(ctx context.Context, email, password string, call func(context.Context, string, string) (string, error)) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		e.setError(msgCredentials)
		return ErrCredentialsRequired
	}

	if err := e.submit(ctx, func(context.Context) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.errMsg = ""
		prev := e.state
		e.parked = &prev
		e.setStateLocked(models.Loading())
	}); err != nil {
		return err
	}

	if _, err := call(ctx, email, password); err != nil {
		revertErr := e.submit(context.WithoutCancel(ctx), func(context.Context) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.errMsg = err.Error()
			if e.parked != nil {
				e.setStateLocked(*e.parked)
				e.parked = nil
			}
		})
		if revertErr != nil {
			e.logger.Warn("Could not revert auth state", zap.Error(revertErr))
		}
		return err
	}
	return nil
}

// SignOut discards the profile, clears the local snapshot and signs out of
// the provider. Remote sets are not copied to the device.
func (e *Engine) SignOut(ctx context.Context) error {
	var opErr error
	err := e.submit(ctx, func(ctx context.Context) {
		e.clearError()
		if err := e.deps.Identity.SignOut(ctx); err != nil {
			e.setError(err.Error())
			opErr = err
			return
		}
		e.deps.Local.Clear(ctx)
		e.mu.Lock()
		e.profile = nil
		e.local = []models.FlashcardSet{}
		if e.state.Status == models.AuthSignedIn {
			e.setStateLocked(models.Loading())
		}
		e.mu.Unlock()
	})
	if err != nil {
		return err
	}
	return opErr
}

// Refresh re-reads the signed-in profile and reruns migration.
func (e *Engine) Refresh(ctx context.Context) error {
	var opErr error
	err := e.submit(ctx, func(ctx context.Context) {
		e.mu.RLock()
		state, email := e.state, e.email
		e.mu.RUnlock()
		if state.Status != models.AuthSignedIn {
			opErr = ErrNotSignedIn
			return
		}
		e.clearError()
		e.handleSession(ctx, models.SessionEvent{AccountID: state.AccountID, Email: email})
	})
	if err != nil {
		return err
	}
	return opErr
}

// AddSet appends set to the authoritative collection and persists it.
// Missing ids, colors and timestamps are filled in; sets added while signed
// in are stamped with the account as owner.
func (e *Engine) AddSet(ctx context.Context, set models.FlashcardSet) (models.FlashcardSet, error) {
	set = set.Clone()
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	set.Color = utils.NormalizeHexColor(set.Color)
	if set.UpdatedAt.IsZero() {
		set.UpdatedAt = time.Now().UTC()
	}
	if set.Cards == nil {
		set.Cards = []models.Flashcard{}
	}
	for i := range set.Cards {
		if set.Cards[i].ID == "" {
			set.Cards[i].ID = uuid.NewString()
		}
	}

	var opErr error
	err := e.submit(ctx, func(ctx context.Context) {
		e.clearError()
		e.mu.Lock()
		if e.state.IsReady() && e.profile != nil {
			if set.OwnerID == nil {
				set.OwnerID = models.StringPtr(e.profile.ID)
			}
			e.profile.FlashcardSets = append(e.profile.FlashcardSets, set.Clone())
		} else {
			e.local = append(e.local, set.Clone())
		}
		e.mu.Unlock()
		opErr = e.persist(ctx)
	})
	if err != nil {
		return models.FlashcardSet{}, err
	}
	return set, opErr
}

// UpdateSet replaces the set with the same id and stamps UpdatedAt.
func (e *Engine) UpdateSet(ctx context.Context, set models.FlashcardSet) (models.FlashcardSet, error) {
	next := set.Clone()
	return e.MutateSet(ctx, set.ID, func(s *models.FlashcardSet) error {
		next.ID = s.ID
		if next.OwnerID == nil {
			next.OwnerID = s.OwnerID
		}
		*s = next
		return nil
	})
}

// MutateSet applies fn to the set with the given id on the owner goroutine,
// stamps UpdatedAt and persists. fn may reject the change by returning an
// error, in which case nothing is written.
func (e *Engine) MutateSet(ctx context.Context, id string, fn func(*models.FlashcardSet) error) (models.FlashcardSet, error) {
	var (
		result models.FlashcardSet
		opErr  error
	)
	err := e.submit(ctx, func(ctx context.Context) {
		e.clearError()
		e.mu.Lock()
		sets := e.collectionLocked()
		i := models.IndexOfSet(sets, id)
		if i < 0 {
			e.mu.Unlock()
			e.logger.Warn("Update ignored, set not in current collection", zap.String("set_id", id))
			opErr = ErrMutationTargetMissing
			return
		}
		draft := sets[i].Clone()
		if err := fn(&draft); err != nil {
			e.mu.Unlock()
			opErr = err
			return
		}
		draft.ID = id
		draft.UpdatedAt = time.Now().UTC()
		sets[i] = draft
		result = draft.Clone()
		e.mu.Unlock()
		opErr = e.persist(ctx)
	})
	if err != nil {
		return models.FlashcardSet{}, err
	}
	return result, opErr
}

// DeleteSet removes the set and its share registry entry.
func (e *Engine) DeleteSet(ctx context.Context, id string) error {
	var opErr error
	err := e.submit(ctx, func(ctx context.Context) {
		e.clearError()
		e.mu.Lock()
		remote := e.state.IsReady() && e.profile != nil
		sets := e.collectionLocked()
		i := models.IndexOfSet(sets, id)
		if i < 0 {
			e.mu.Unlock()
			e.logger.Warn("Delete ignored, set not in current collection", zap.String("set_id", id))
			opErr = ErrMutationTargetMissing
			return
		}
		sets = append(sets[:i:i], sets[i+1:]...)
		if remote {
			e.profile.FlashcardSets = sets
		} else {
			e.local = sets
		}
		e.mu.Unlock()

		opErr = e.persist(ctx)

		if e.deps.Shares != nil {
			if err := e.deps.Shares.DeletePublic(ctx, id); err != nil {
				e.logger.Warn("Could not delete shared copy", zap.String("set_id", id), zap.Error(err))
			}
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// SetDisplayName updates the profile's display name. Blank clears it.
func (e *Engine) SetDisplayName(ctx context.Context, name string) error {
	var opErr error
	err := e.submit(ctx, func(ctx context.Context) {
		e.clearError()
		e.mu.RLock()
		ready := e.state.IsReady() && e.profile != nil
		e.mu.RUnlock()
		if !ready {
			opErr = ErrNotSignedIn
			return
		}

		value := models.StringPtr(strings.TrimSpace(name))
		updateCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout())
		defer cancel()

		e.mu.RLock()
		uid := e.profile.ID
		e.mu.RUnlock()
		if err := e.deps.Remote.UpdateDisplayName(updateCtx, uid, value); err != nil {
			e.setError(msgSaveFailed)
			opErr = fmt.Errorf("update display name: %w", err)
			return
		}

		e.mu.Lock()
		e.profile.DisplayName = value
		e.mu.Unlock()
	})
	if err != nil {
		return err
	}
	return opErr
}

// persist writes the authoritative collection. Local writes are best effort.
func (e *Engine) persist(ctx context.Context) error {
	e.mu.RLock()
	remote := e.state.IsReady() && e.profile != nil
	var uid string
	sets := models.CloneSets(e.collectionLocked())
	if remote {
		uid = e.profile.ID
	}
	e.mu.RUnlock()

	if !remote {
		e.deps.Local.Save(ctx, sets)
		return nil
	}

	persistCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout())
	defer cancel()
	if err := e.deps.Remote.UpdateSets(persistCtx, uid, sets); err != nil {
		e.logger.Error("Failed to persist profile sets", zap.String("account_id", uid), zap.Error(err))
		e.setError(msgSaveFailed)
		return fmt.Errorf("persist sets: %w", err)
	}
	return nil
}
