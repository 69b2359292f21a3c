// Package auth is the admin login gate: a single stored credential, a
// persisted logged-in flag and short-lived bearer tokens on top of it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/config"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("admin login required")
)

type Gate struct {
	store  kv.Store
	secret []byte
	ttl    time.Duration
	cost   int
	logger *zap.Logger
	now    func() time.Time
}

func NewGate(store kv.Store, cfg config.AuthConfig, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Gate{
		store:  store,
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		cost:   cfg.BcryptCost,
		logger: logger,
		now:    time.Now,
	}
}

// Login checks the trimmed pair against the stored credential. On success the
// logged-in flag is set and a signed token returned; on failure nothing changes.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	ok, err := g.matches(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	if err := kv.Set(ctx, g.store, LoggedInKey, true); err != nil {
		return "", fmt.Errorf("set login flag: %w", err)
	}
	token, err := signToken(g.secret, username, g.now(), g.ttl)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (g *Gate) matches(ctx context.Context, username, password string) (bool, error) {
	cred, err := kv.Lookup[Credential](ctx, g.store, CredentialKey)
	if err != nil {
		if !kv.Recoverable(err) {
			return false, err
		}
		if !errors.Is(err, kv.ErrMissing) {
			g.logger.Warn("admin credential unreadable, using default", zap.Error(err))
		}
		return username == DefaultUsername && password == DefaultPassword, nil
	}
	return username == cred.Username && CheckPassword(cred.PasswordHash, password), nil
}

func (g *Gate) Logout(ctx context.Context) error {
	return g.store.Del(ctx, LoggedInKey)
}

// LoggedIn reads the flag. An absent or unreadable flag means logged out.
func (g *Gate) LoggedIn(ctx context.Context) bool {
	return kv.Get(ctx, g.store, LoggedInKey, false)
}

// Authorize accepts a token only while the logged-in flag is set.
func (g *Gate) Authorize(ctx context.Context, token string) (*Claims, error) {
	claims, err := parseToken(g.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !g.LoggedIn(ctx) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// ResetCredential restores admin / 1234 and logs everyone out.
func (g *Gate) ResetCredential(ctx context.Context) error {
	cred, err := Default(g.cost)
	if err != nil {
		return fmt.Errorf("hash default credential: %w", err)
	}
	if err := kv.Set(ctx, g.store, CredentialKey, cred); err != nil {
		return err
	}
	return g.Logout(ctx)
}
