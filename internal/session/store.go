package session

import (
	"context"
	"sync"

	"github.com/gemkart/storefront/pkg/api"
	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
	"github.com/gemkart/storefront/pkg/validate"
)

// Backend is the slice of the API client the session store drives.
type Backend interface {
	Register(ctx context.Context, req api.RegisterRequest) (api.AuthResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	Me(ctx context.Context) (types.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// Credentials is the durable token storage behind the session.
type Credentials interface {
	Token() string
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Snapshot is a consistent read of the session state.
type Snapshot struct {
	User            *types.User
	IsAuthenticated bool
	IsLoading       bool
	LastError       string
}

// Store owns the session state. Operations follow a pending/fulfilled/rejected
// discipline and log at every transition boundary. Overlapping calls are not
// serialized against each other; the UI is expected to disable submission while
// one is pending.
type Store struct {
	backend Backend
	creds   Credentials
	logg    *logger.Logger

	mu    sync.RWMutex
	state Snapshot
}

func NewStore(backend Backend, creds Credentials, logg *logger.Logger) *Store {
	return &Store{
		backend: backend,
		creds:   creds,
		logg:    logg,
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	if s.state.User != nil {
		user := *s.state.User
		snap.User = &user
	}
	return snap
}

func (s *Store) pending(ctx context.Context, op string) context.Context {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.LastError = ""
	s.mu.Unlock()

	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, op)
		s.logg.Debug(ctx, "pending")
	}
	return ctx
}

func (s *Store) fulfilled(ctx context.Context, mutate func(*Snapshot)) {
	s.mu.Lock()
	s.state.IsLoading = false
	if mutate != nil {
		mutate(&s.state)
	}
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Info(ctx, "fulfilled")
	}
}

func (s *Store) rejected(ctx context.Context, err error) {
	message := pkgerrors.As(err).UserMessage()
	if message == "" {
		message = err.Error()
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.LastError = message
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Error(ctx, "rejected", err)
	}
}

// Register creates an account and starts an authenticated session.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	ctx = s.pending(ctx, "auth.register")
	resp, err := s.backend.Register(ctx, req)
	if err != nil {
		s.rejected(ctx, err)
		return err
	}

	if resp.Token != "" {
		if err := s.creds.Save(ctx, resp.Token); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "token not persisted, session will not survive restart")
		}
	}

	user := resp.User
	s.fulfilled(ctx, func(state *Snapshot) {
		state.User = &user
		state.IsAuthenticated = true
	})
	return nil
}

// Login authenticates and persists the bearer token.
func (s *Store) Login(ctx context.Context, req api.LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	ctx = s.pending(ctx, "auth.login")
	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		s.rejected(ctx, err)
		return err
	}

	if err := s.creds.Save(ctx, resp.Token); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "token not persisted, session will not survive restart")
	}

	user := resp.User
	s.fulfilled(ctx, func(state *Snapshot) {
		state.User = &user
		state.IsAuthenticated = true
	})
	return nil
}

// Restore rebuilds the session from a stored token at startup. With no token it
// never touches the network. A failed restore discards the token and leaves the
// session unauthenticated without raising an error: that is a normal logged-out
// start, not an alarm.
func (s *Store) Restore(ctx context.Context) error {
	if s.creds.Token() == "" {
		if s.logg != nil {
			s.logg.Debug(ctx, "no stored token, starting logged out")
		}
		return nil
	}
	if s.Snapshot().User != nil {
		return nil
	}

	ctx = s.pending(ctx, "auth.restore")
	user, err := s.backend.Me(ctx)
	if err != nil {
		if clearErr := s.creds.Clear(ctx); clearErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "stale token could not be cleared")
		}
		s.fulfilled(ctx, func(state *Snapshot) {
			state.User = nil
			state.IsAuthenticated = false
		})
		if s.logg != nil {
			s.logg.Info(ctx, "stored session rejected, starting logged out")
		}
		return nil
	}

	s.fulfilled(ctx, func(state *Snapshot) {
		state.User = &user
		state.IsAuthenticated = true
	})
	return nil
}

// ChangePassword swaps the account password for the logged-in user.
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	payload := struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}{oldPassword, newPassword}
	if err := validate.Struct(payload); err != nil {
		return err
	}

	ctx = s.pending(ctx, "auth.change_password")
	if err := s.backend.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.fulfilled(ctx, nil)
	return nil
}

// ForgotPassword requests a reset email.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email" validate:"required,email"`
	}{email}
	if err := validate.Struct(payload); err != nil {
		return err
	}

	ctx = s.pending(ctx, "auth.forgot_password")
	if err := s.backend.ForgotPassword(ctx, email); err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.fulfilled(ctx, nil)
	return nil
}

// ResetPassword completes the emailed reset flow.
func (s *Store) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	payload := struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}{resetToken, newPassword}
	if err := validate.Struct(payload); err != nil {
		return err
	}

	ctx = s.pending(ctx, "auth.reset_password")
	if err := s.backend.ResetPassword(ctx, resetToken, newPassword); err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.fulfilled(ctx, nil)
	return nil
}

// Logout clears the session locally. No server call is involved.
func (s *Store) Logout(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "token could not be cleared")
	}

	s.mu.Lock()
	s.state = Snapshot{}
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Info(s.logg.WithOperation(ctx, "auth.logout"), "logged out")
	}
}
