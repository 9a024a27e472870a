package state

import "github.com/kirinyoku/railgo/internal/domain"

// DefaultCatalog is the seed train catalog used when the engine starts with
// no persisted trains.
func DefaultCatalog() []domain.Train {
	sleeper := domain.Coach{Type: "Sleeper", Available: 100, Capacity: 100, Fare: 500}
	ac := domain.Coach{Type: "AC", Available: 50, Capacity: 50, Fare: 1000}

	return []domain.Train{
		{
			ID: 1, Name: "Express 1",
			Origin: "City A", Destination: "City B", Day: domain.Monday,
			Coaches: []domain.Coach{sleeper, ac},
		},
		{
			ID: 2, Name: "Express 2",
			Origin: "City C", Destination: "City D", Day: domain.Tuesday,
			Coaches: []domain.Coach{sleeper, ac},
		},
	}
}
