package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"flashdeck/core/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Account is a registered email/password login.
type Account struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"size:255;uniqueIndex"`
	PasswordHash string `gorm:"size:100"`
	CreatedAt    time.Time
}

// TableName overrides the default table name.
func (Account) TableName() string { return "accounts" }

// SessionStore persists the current session on the device.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Provider authenticates accounts and broadcasts session changes.
// It satisfies reconcile.IdentityProvider.
type Provider struct {
	db       *gorm.DB
	sessions SessionStore
	hasher   *Hasher
	validate *validator.Validate
	cfg      Config
	logger   *zap.Logger

	mu      sync.Mutex
	current models.SessionEvent
	subs    map[int]chan models.SessionEvent
	next    int
}

// NewProvider migrates the accounts table and restores any saved session.
func NewProvider(ctx context.Context, db *gorm.DB, sessions SessionStore, cfg Config, logger *zap.Logger) (*Provider, error) {
	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, fmt.Errorf("migrate accounts: %w", err)
	}
	if cfg.SessionKey == "" {
		cfg.SessionKey = "session"
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}

	p := &Provider{
		db:       db,
		sessions: sessions,
		hasher:   NewHasher(cfg.BcryptCost),
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger,
		subs:     make(map[int]chan models.SessionEvent),
	}
	p.current = p.restore(ctx)
	return p, nil
}

func (p *Provider) restore(ctx context.Context) models.SessionEvent {
	raw, err := p.sessions.Get(ctx, p.cfg.SessionKey)
	if err != nil {
		return models.SessionEvent{}
	}
	var ev models.SessionEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		p.logger.Warn("Discarding unreadable saved session", zap.Error(err))
		return models.SessionEvent{}
	}
	return ev
}

// Current returns the active session, which is empty when signed out.
func (p *Provider) Current() models.SessionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SignUp registers a new account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	if len(password) < p.cfg.MinPasswordLength {
		return "", fmt.Errorf("%w: use at least %d characters", ErrWeakPassword, p.cfg.MinPasswordLength)
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if count > 0 {
		return "", ErrEmailInUse
	}

	hash, err := p.hasher.Hash(password)
	if err != nil {
		return "", err
	}
	acct := Account{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	if err := p.db.WithContext(ctx).Create(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrEmailInUse
		}
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	p.logger.Info("Account created", zap.String("account_id", acct.ID))
	p.setSession(ctx, models.SessionEvent{AccountID: acct.ID, Email: acct.Email})
	return acct.ID, nil
}

// SignIn verifies credentials and signs the account in.
func (p *Provider) SignIn(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	var acct Account
	err := p.db.WithContext(ctx).Where("email = ?", email).Take(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if err := p.hasher.Verify(acct.PasswordHash, password); err != nil {
		if !errors.Is(err, errPasswordMismatch) {
			p.logger.Warn("Password verification failed", zap.String("account_id", acct.ID), zap.Error(err))
		}
		return "", ErrInvalidCredentials
	}

	p.setSession(ctx, models.SessionEvent{AccountID: acct.ID, Email: acct.Email})
	return acct.ID, nil
}

// SignOut ends the current session.
func (p *Provider) SignOut(ctx context.Context) error {
	p.setSession(ctx, models.SessionEvent{})
	return nil
}

// Subscribe returns a channel that first receives the current session and
// then every change. A slow reader only loses superseded events; the newest
// session is always delivered.
func (p *Provider) Subscribe() (<-chan models.SessionEvent, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.next
	p.next++
	ch := make(chan models.SessionEvent, 8)
	ch <- p.current
	p.subs[id] = ch

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Provider) setSession(ctx context.Context, ev models.SessionEvent) {
	if ev.SignedIn() {
		raw, _ := json.Marshal(ev)
		if err := p.sessions.Set(ctx, p.cfg.SessionKey, string(raw)); err != nil {
			p.logger.Warn("Failed to persist session", zap.Error(err))
		}
	} else if err := p.sessions.Delete(ctx, p.cfg.SessionKey); err != nil {
		p.logger.Warn("Failed to clear saved session", zap.Error(err))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = ev
	for _, ch := range p.subs {
		deliver(ch, ev)
	}
}

// deliver sends ev, dropping the oldest queued event when ch is full.
func deliver(ch chan models.SessionEvent, ev models.SessionEvent) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
