// Package session bridges sign-in to the commerce API and the locally
// persisted token.
//
// A Session moves through anonymous → authenticating → authenticated, or
// into the error state when sign-in is rejected. A token is held in the
// TokenStore exactly while the session is authenticated.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"storefront/internal/model"
)

// TokenKey is the store key holding the raw token.
const TokenKey = "userToken"

// LoginRequired is the notice shown when an action needs a signed-in user.
const LoginRequired = "Please login first!"

// State is the session's authentication state.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Authenticator exchanges credentials for a token. Implemented by api.Client.
type Authenticator interface {
	SignIn(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
}

// Session holds one user's authentication state.
// Safe for concurrent use.
type Session struct {
	auth   Authenticator
	store  TokenStore
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	token   string
	user    *model.User
	lastErr error
}

// New creates a session. A token already in the store restores the
// session as authenticated.
func New(ctx context.Context, auth Authenticator, store TokenStore, logger *slog.Logger) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{auth: auth, store: store, logger: logger}

	token, ok, err := store.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}
	if ok && token != "" {
		s.state = Authenticated
		s.token = token
		if c, err := ParseClaims(token); err == nil {
			s.user = c.User()
		}
	}
	return s, nil
}

// ForToken returns a memory-backed session for a token supplied by the
// caller on each request. An empty token gives an anonymous session.
func ForToken(ctx context.Context, auth Authenticator, token string, logger *slog.Logger) (*Session, error) {
	store := NewMemoryStore()
	if token != "" {
		if err := store.Set(ctx, TokenKey, token); err != nil {
			return nil, err
		}
	}
	return New(ctx, auth, store, logger)
}

// SignIn submits credentials. On success the token is persisted and the
// session becomes authenticated. On failure any stored token is removed
// and the session enters the error state.
//
// A second SignIn while one is in flight fails without calling the API.
func (s *Session) SignIn(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	s.mu.Lock()
	if s.state == Authenticating {
		s.mu.Unlock()
		return nil, model.NewPreconditionError("sign-in already in progress")
	}
	if s.auth == nil {
		s.mu.Unlock()
		return nil, model.NewInternalError(fmt.Errorf("session has no authenticator"))
	}
	s.state = Authenticating
	s.mu.Unlock()

	resp, err := s.auth.SignIn(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.fail(ctx, err)
		return nil, err
	}

	if err := s.store.Set(ctx, TokenKey, resp.Token); err != nil {
		storeErr := model.NewInternalError(fmt.Errorf("persisting token: %w", err))
		s.fail(ctx, storeErr)
		return nil, storeErr
	}

	s.state = Authenticated
	s.token = resp.Token
	user := resp.User
	s.user = &user
	s.lastErr = nil

	s.logger.Info("signed in", slog.String("email", user.Email))
	return resp, nil
}

// fail moves to the error state and clears the token everywhere.
// Caller holds mu.
func (s *Session) fail(ctx context.Context, err error) {
	s.state = Failed
	s.token = ""
	s.user = nil
	s.lastErr = err
	if derr := s.store.Delete(ctx, TokenKey); derr != nil {
		s.logger.Warn("failed to clear stored token", slog.String("error", derr.Error()))
	}
	s.logger.Warn("sign-in failed", slog.String("error", err.Error()))
}

// SignOut clears the token and returns the session to anonymous.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Anonymous
	s.token = ""
	s.user = nil
	s.lastErr = nil

	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the raw token, or "" when not authenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// RequireToken returns the token or a precondition error when signed out.
func (s *Session) RequireToken() (string, error) {
	if s == nil {
		return "", model.NewPreconditionError(LoginRequired)
	}
	token := s.Token()
	if token == "" {
		return "", model.NewPreconditionError(LoginRequired)
	}
	return token, nil
}

// User returns the signed-in user as reported at sign-in, or as decoded
// from the token for a restored session. Nil when anonymous.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err returns the error that moved the session into the error state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Claims decodes the current token.
func (s *Session) Claims() (*Claims, error) {
	token, err := s.RequireToken()
	if err != nil {
		return nil, err
	}
	return ParseClaims(token)
}
