package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirinyoku/railgo/internal/cache"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/state"
	"github.com/kirinyoku/railgo/internal/uow"
)

// Service is the admin surface of the train catalog.
type Service struct {
	uow   *uow.UoW
	cache *cache.Cache
}

func New(u *uow.UoW, c *cache.Cache) *Service {
	return &Service{uow: u, cache: c}
}

// AddTrain creates a train with a fresh sequential identifier.
//
// Returns:
//   - domain.Train: the created train, without coaches.
//   - error: catalog.ErrInvalidInput on a malformed day label or empty field.
func (s *Service) AddTrain(ctx context.Context, name, origin, destination, dayOfWeek string) (domain.Train, error) {
	const op = "service.catalog.AddTrain"

	day, err := domain.ParseDay(dayOfWeek)
	if err != nil {
		return domain.Train{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
	}

	var created domain.Train

	err = s.uow.Do(ctx, func(st *state.State, after func(uow.AfterSave)) error {
		t, err := st.AddTrain(name, origin, destination, day)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
		}

		created = t

		after(func(ctx context.Context) {
			s.cache.Del(cache.KeySearch(t.Origin, t.Destination, string(t.Day)))
		})

		return nil
	})
	if err != nil {
		return domain.Train{}, err
	}

	return created, nil
}

// AddCoach appends a coach to an existing train. Each train carries at most
// one coach per coach type; the full capacity starts available.
//
// Returns:
//   - domain.Coach: the created coach.
//   - error: catalog.ErrTrainNotFound if no train matches.
//   - error: catalog.ErrCoachTypeExists if the train already has this coach type.
func (s *Service) AddCoach(ctx context.Context, trainID int64, coachType string, capacity int, fare float64) (domain.Coach, error) {
	const op = "service.catalog.AddCoach"

	var created domain.Coach

	err := s.uow.Do(ctx, func(st *state.State, after func(uow.AfterSave)) error {
		c, err := st.AddCoach(trainID, coachType, capacity, fare)
		if err != nil {
			switch {
			case errors.Is(err, state.ErrTrainNotFound):
				return fmt.Errorf("%s: %w", op, ErrTrainNotFound)
			case errors.Is(err, state.ErrCoachTypeExists):
				return fmt.Errorf("%s: %w", op, ErrCoachTypeExists)
			}
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidInput, err)
		}

		created = c

		after(func(ctx context.Context) {
			s.cache.Del(cache.KeyTrainSummary(trainID))
		})

		return nil
	})
	if err != nil {
		return domain.Coach{}, err
	}

	return created, nil
}
