package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
	"github.com/kirinyoku/railgo/internal/uow"
)

type memStore struct {
	saves int
}

func (m *memStore) Save(_ context.Context, _ state.Data) error {
	m.saves++
	return nil
}

func newService(t *testing.T) (*Service, *memStore, *session.Manager) {
	t.Helper()

	st := state.New(state.Data{NextPNR: 1})
	store := &memStore{}
	sessions := session.NewManager(time.Hour)

	return New(st, uow.New(st, store), sessions), store, sessions
}

func TestCreateAccount(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, "alice", a.Username)
	assert.Equal(t, 1, store.saves)

	b, err := svc.CreateAccount(ctx, "bob", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.ID)
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 1, store.saves)
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreateAccount(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateAccount(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	svc, _, sessions := newService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "secret")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	id, ok := sessions.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// exact match only, no case folding
	_, err = svc.Login(ctx, "Alice", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "secret")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, ok := sessions.Resolve(token)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Logout(ctx, token), ErrNotAuthenticated)
	assert.ErrorIs(t, svc.Logout(ctx, ""), ErrNotAuthenticated)
}
