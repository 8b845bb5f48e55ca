package session

import (
	"context"
	"testing"

	"github.com/gemkart/storefront/pkg/api"
	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/types"
)

type stubBackend struct {
	calls int

	loginResp api.AuthResponse
	loginErr  error
	meUser    types.User
	meErr     error
	opErr     error
}

func (b *stubBackend) Register(ctx context.Context, req api.RegisterRequest) (api.AuthResponse, error) {
	b.calls++
	return b.loginResp, b.loginErr
}

func (b *stubBackend) Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
	b.calls++
	return b.loginResp, b.loginErr
}

func (b *stubBackend) Me(ctx context.Context) (types.User, error) {
	b.calls++
	return b.meUser, b.meErr
}

func (b *stubBackend) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	b.calls++
	return b.opErr
}

func (b *stubBackend) ForgotPassword(ctx context.Context, email string) error {
	b.calls++
	return b.opErr
}

func (b *stubBackend) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	b.calls++
	return b.opErr
}

type memCreds struct {
	token string
}

func (c *memCreds) Token() string { return c.token }

func (c *memCreds) Save(ctx context.Context, token string) error {
	c.token = token
	return nil
}

func (c *memCreds) Clear(ctx context.Context) error {
	c.token = ""
	return nil
}

func TestLoginSuccessAuthenticates(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		loginResp: api.AuthResponse{
			Token: "tok-1",
			User:  types.User{ID: "u1", Name: "Asha", Email: "asha@example.com"},
		},
	}
	creds := &memCreds{}
	store := NewStore(backend, creds, nil)

	if got := store.Snapshot(); got.IsAuthenticated {
		t.Fatal("expected unauthenticated start")
	}

	err := store.Login(context.Background(), api.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	snap := store.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.ID != "u1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.IsLoading {
		t.Fatal("loading flag left set")
	}
	if creds.token != "tok-1" {
		t.Fatalf("token not persisted, got %q", creds.token)
	}
}

func TestLoginFailureRecordsError(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials"),
	}
	store := NewStore(backend, &memCreds{}, nil)

	err := store.Login(context.Background(), api.LoginRequest{Email: "asha@example.com", Password: "wrong1"})
	if err == nil {
		t.Fatal("expected error")
	}

	snap := store.Snapshot()
	if snap.IsAuthenticated || snap.User != nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.LastError != "Invalid credentials" {
		t.Fatalf("unexpected last error %q", snap.LastError)
	}
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	store := NewStore(backend, &memCreds{}, nil)

	err := store.Login(context.Background(), api.LoginRequest{Email: "not-an-email", Password: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("expected no network call, got %d", backend.calls)
	}
}

func TestRestoreWithoutTokenNeverCallsBackend(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	store := NewStore(backend, &memCreds{}, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("expected no network call, got %d", backend.calls)
	}
	if snap := store.Snapshot(); snap.IsAuthenticated {
		t.Fatal("expected unauthenticated session")
	}
}

func TestRestoreSuccessPopulatesUser(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{meUser: types.User{ID: "u1", Name: "Asha"}}
	creds := &memCreds{token: "tok-1"}
	store := NewStore(backend, creds, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	snap := store.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.ID != "u1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRestoreFailureDiscardsTokenSilently(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{meErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")}
	creds := &memCreds{token: "tok-stale"}
	store := NewStore(backend, creds, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("restore should not surface the failure: %v", err)
	}
	if creds.token != "" {
		t.Fatalf("stale token not discarded, got %q", creds.token)
	}
	snap := store.Snapshot()
	if snap.IsAuthenticated || snap.LastError != "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		loginResp: api.AuthResponse{Token: "tok-1", User: types.User{ID: "u1"}},
	}
	creds := &memCreds{}
	store := NewStore(backend, creds, nil)

	if err := store.Login(context.Background(), api.LoginRequest{Email: "a@b.co", Password: "secret1"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	callsBefore := backend.calls
	store.Logout(context.Background())
	if backend.calls != callsBefore {
		t.Fatal("logout must not call the backend")
	}
	if creds.token != "" {
		t.Fatalf("token not cleared, got %q", creds.token)
	}
	if snap := store.Snapshot(); snap.IsAuthenticated || snap.User != nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
