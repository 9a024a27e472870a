package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
	"github.com/kirinyoku/railgo/internal/uow"
)

type Service struct {
	st       *state.State
	uow      *uow.UoW
	sessions *session.Manager
}

func New(st *state.State, u *uow.UoW, sessions *session.Manager) *Service {
	return &Service{st: st, uow: u, sessions: sessions}
}

// CreateAccount registers a new account. Usernames are unique, case-sensitive.
//
// Returns:
//   - domain.Account: the created account.
//   - error: account.ErrUsernameTaken if the username is already registered.
func (s *Service) CreateAccount(ctx context.Context, username, password string) (domain.Account, error) {
	const op = "service.account.CreateAccount"

	var acc domain.Account

	err := s.uow.Do(ctx, func(st *state.State, after func(uow.AfterSave)) error {
		a, err := st.CreateAccount(username, password)
		if err != nil {
			if errors.Is(err, state.ErrUsernameTaken) {
				return fmt.Errorf("%s: %w", op, ErrUsernameTaken)
			}
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
		}

		acc = a

		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	return acc, nil
}

// Login opens a session for the exact credential pair and returns its token.
//
// Returns:
//   - string: the session token.
//   - error: account.ErrInvalidCredentials if no account matches.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	const op = "service.account.Login"

	var (
		acc domain.Account
		err error
	)

	s.st.View(func() {
		acc, err = s.st.Authenticate(username, password)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.sessions.Create(acc.ID), nil
}

// Logout closes the session behind the token.
//
// Returns:
//   - error: account.ErrNotAuthenticated if the token has no active session.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "service.account.Logout"

	if !s.sessions.Destroy(token) {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	return nil
}
