package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirinyoku/railgo/internal/cache"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
	"github.com/kirinyoku/railgo/internal/uow"
)

// Service books and cancels tickets. Each booking holds exactly one seat:
// confirming decrements the coach pool and appends to the account ledger,
// cancelling removes the ledger entry and returns the seat. Both paths run
// inside a unit of work, so a failed snapshot flush leaves nothing behind.
type Service struct {
	uow      *uow.UoW
	sessions *session.Manager
	cache    *cache.Cache
}

func New(u *uow.UoW, sessions *session.Manager, c *cache.Cache) *Service {
	return &Service{uow: u, sessions: sessions, cache: c}
}

// Book reserves one seat on (trainID, coachType) for the authenticated
// account and returns the assigned PNR. PNRs are strictly increasing and
// never reused, even across cancellations and restarts.
//
// Returns:
//   - int64: the assigned PNR.
//   - error: reservation.ErrNotAuthenticated without a valid session.
//   - error: reservation.ErrTrainOrCoachNotFound if the reference does not resolve.
//   - error: reservation.ErrNoSeatsAvailable if the coach pool is empty.
func (s *Service) Book(ctx context.Context, token string, trainID int64, coachType string) (int64, error) {
	const op = "service.reservation.Book"

	accountID, ok := s.sessions.Resolve(token)
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	var pnr int64

	err := s.uow.Do(ctx, func(st *state.State, after func(uow.AfterSave)) error {
		if err := st.ReserveSeat(trainID, coachType); err != nil {
			switch {
			case errors.Is(err, state.ErrTrainNotFound), errors.Is(err, state.ErrCoachNotFound):
				return fmt.Errorf("%s: %w", op, ErrTrainOrCoachNotFound)
			case errors.Is(err, state.ErrNoSeatsAvailable):
				return fmt.Errorf("%s: %w", op, ErrNoSeatsAvailable)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		pnr = st.AllocatePNR()

		if err := st.AddBooking(accountID, domain.Booking{
			PNR:       pnr,
			TrainID:   trainID,
			CoachType: coachType,
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			s.cache.Del(cache.KeyTrainSummary(trainID))
		})

		return nil
	})
	if err != nil {
		return 0, err
	}

	return pnr, nil
}

// Cancel removes the booking with the given PNR from the authenticated
// account's ledger and returns its seat to the coach pool. The lookup is
// scoped to the account: a PNR held by someone else reports ErrPNRNotFound
// and leaves the owner's booking untouched.
func (s *Service) Cancel(ctx context.Context, token string, pnr int64) error {
	const op = "service.reservation.Cancel"

	accountID, ok := s.sessions.Resolve(token)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	return s.uow.Do(ctx, func(st *state.State, after func(uow.AfterSave)) error {
		b, err := st.RemoveBooking(accountID, pnr)
		if err != nil {
			if errors.Is(err, state.ErrPNRNotFound) {
				return fmt.Errorf("%s: %w", op, ErrPNRNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := st.ReleaseSeat(b.TrainID, b.CoachType); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			s.cache.Del(cache.KeyTrainSummary(b.TrainID))
		})

		return nil
	})
}
