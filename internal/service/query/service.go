package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/railgo/internal/cache"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
)

type Config struct {
	TrainSummaryTTL time.Duration
	SearchTTL       time.Duration
}

// Service is the read side of the engine. Search and train summaries go
// through the in-process cache; seat availability always reads live state.
type Service struct {
	st       *state.State
	cache    *cache.Cache
	sessions *session.Manager
	cfg      Config
}

func New(st *state.State, c *cache.Cache, sessions *session.Manager, cfg Config) *Service {
	if cfg.TrainSummaryTTL <= 0 {
		cfg.TrainSummaryTTL = 15 * time.Second
	}

	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = 60 * time.Second
	}

	return &Service{
		st:       st,
		cache:    c,
		sessions: sessions,
		cfg:      cfg,
	}
}

// TrainSummary is a search result row: route data only, no seat counts.
type TrainSummary struct {
	ID          int64
	Name        string
	Origin      string
	Destination string
	Day         domain.Day
}

// SearchTrains returns all trains whose origin, destination and day-of-week
// match exactly, case-sensitive. An unknown triple yields an empty result,
// not an error.
func (s *Service) SearchTrains(ctx context.Context, origin, destination, day string) ([]TrainSummary, error) {
	const op = "service.query.SearchTrains"

	key := cache.KeySearch(origin, destination, day)

	summaries, err := cache.GetOrSet(
		ctx,
		s.cache,
		key,
		s.cfg.SearchTTL,
		func(ctx context.Context) ([]TrainSummary, error) {
			out := []TrainSummary{}
			s.st.View(func() {
				for _, t := range s.st.SearchTrains(origin, destination, day) {
					out = append(out, TrainSummary{
						ID:          t.ID,
						Name:        t.Name,
						Origin:      t.Origin,
						Destination: t.Destination,
						Day:         t.Day,
					})
				}
			})
			return out, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summaries, nil
}

// GetTrain returns the train with its coaches (availability, capacity, fare).
//
// Returns:
//   - domain.Train: the train.
//   - error: query.ErrTrainNotFound if no train matches.
func (s *Service) GetTrain(ctx context.Context, trainID int64) (domain.Train, error) {
	const op = "service.query.GetTrain"

	key := cache.KeyTrainSummary(trainID)

	train, err := cache.GetOrSet(
		ctx,
		s.cache,
		key,
		s.cfg.TrainSummaryTTL,
		func(ctx context.Context) (domain.Train, error) {
			var (
				t   domain.Train
				err error
			)
			s.st.View(func() {
				t, err = s.st.Train(trainID)
			})
			if err != nil {
				return domain.Train{}, ErrTrainNotFound
			}
			return t, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrTrainNotFound) {
			return domain.Train{}, fmt.Errorf("%s: %w", op, ErrTrainNotFound)
		}
		return domain.Train{}, fmt.Errorf("%s: %w", op, err)
	}

	return train, nil
}

// SeatAvailability reads the live seat pool of (trainID, coachType). No
// authentication required, never served from cache.
//
// Returns:
//   - domain.Coach: coach type, available seats, capacity and fare.
//   - error: query.ErrTrainOrCoachNotFound if the reference does not resolve.
func (s *Service) SeatAvailability(ctx context.Context, trainID int64, coachType string) (domain.Coach, error) {
	const op = "service.query.SeatAvailability"

	var (
		c   domain.Coach
		err error
	)

	s.st.View(func() {
		c, err = s.st.Coach(trainID, coachType)
	})
	if err != nil {
		return domain.Coach{}, fmt.Errorf("%s: %w", op, ErrTrainOrCoachNotFound)
	}

	return c, nil
}

// CheckPNR returns the authenticated account's booking with the given PNR.
// The lookup is scoped to the account.
func (s *Service) CheckPNR(ctx context.Context, token string, pnr int64) (domain.Booking, error) {
	const op = "service.query.CheckPNR"

	accountID, ok := s.sessions.Resolve(token)
	if !ok {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	var (
		b   domain.Booking
		err error
	)

	s.st.View(func() {
		b, err = s.st.FindBooking(accountID, pnr)
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrPNRNotFound)
	}

	return b, nil
}

// PreviousBookings returns the authenticated account's active bookings in
// booking order.
func (s *Service) PreviousBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	const op = "service.query.PreviousBookings"

	accountID, ok := s.sessions.Resolve(token)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	var (
		bookings []domain.Booking
		err      error
	)

	s.st.View(func() {
		bookings, err = s.st.Bookings(accountID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}
