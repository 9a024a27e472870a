// Package jsonfile persists the full engine state as a single JSON document.
//
// The on-disk format is stable across restarts; Save rewrites the whole file
// through a temporary sibling plus rename, so a crash mid-write never corrupts
// the previous snapshot.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/state"
)

type Config struct {
	// Path of the snapshot file, e.g. "system_data.json".
	Path string
}

type Store struct {
	path string
}

func New(cfg Config) (*Store, error) {
	const op = "jsonfile.New"

	if cfg.Path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	dir := filepath.Dir(cfg.Path)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{path: cfg.Path}, nil
}

// Load reads the snapshot. A missing file yields empty state with the PNR
// counter at its initial value.
func (s *Store) Load(_ context.Context) (state.Data, error) {
	const op = "jsonfile.Load"

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return state.Data{NextPNR: 1}, nil
	}
	if err != nil {
		return state.Data{}, fmt.Errorf("%s: %w", op, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return state.Data{}, fmt.Errorf("%s: %w", op, err)
	}

	return decode(doc), nil
}

// Save overwrites the snapshot with the given state, atomically from the
// reader's point of view.
func (s *Store) Save(_ context.Context, d state.Data) error {
	const op = "jsonfile.Save"

	raw, err := json.MarshalIndent(encode(d), "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// --- wire format ---

type document struct {
	Trains  []trainJSON `json:"trains"`
	Users   []userJSON  `json:"users"`
	NextPNR int64       `json:"next_pnr"`
}

type trainJSON struct {
	TrainID     int64       `json:"train_id"`
	Name        string      `json:"name"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	DayOfWeek   string      `json:"day_of_week"`
	Coaches     []coachJSON `json:"coaches"`
}

type coachJSON struct {
	CoachType      string  `json:"coach_type"`
	AvailableSeats int     `json:"available_seats"`
	// Snapshots written before capacity tracking lack this field; on load it
	// defaults to the available seat count.
	Capacity *int    `json:"capacity,omitempty"`
	Fare     float64 `json:"fare"`
}

type userJSON struct {
	UserID   int64         `json:"user_id"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Bookings []bookingJSON `json:"bookings"`
}

type bookingJSON struct {
	PNR       int64  `json:"pnr"`
	TrainID   int64  `json:"train_id"`
	CoachType string `json:"coach_type"`
}

func encode(d state.Data) document {
	doc := document{
		Trains:  make([]trainJSON, 0, len(d.Trains)),
		Users:   make([]userJSON, 0, len(d.Accounts)),
		NextPNR: d.NextPNR,
	}

	for _, t := range d.Trains {
		tj := trainJSON{
			TrainID:     t.ID,
			Name:        t.Name,
			Origin:      t.Origin,
			Destination: t.Destination,
			DayOfWeek:   string(t.Day),
			Coaches:     make([]coachJSON, 0, len(t.Coaches)),
		}
		for _, c := range t.Coaches {
			capacity := c.Capacity
			tj.Coaches = append(tj.Coaches, coachJSON{
				CoachType:      c.Type,
				AvailableSeats: c.Available,
				Capacity:       &capacity,
				Fare:           c.Fare,
			})
		}
		doc.Trains = append(doc.Trains, tj)
	}

	for _, a := range d.Accounts {
		uj := userJSON{
			UserID:   a.ID,
			Username: a.Username,
			Password: a.Password,
			Bookings: make([]bookingJSON, 0, len(a.Bookings)),
		}
		for _, b := range a.Bookings {
			uj.Bookings = append(uj.Bookings, bookingJSON{
				PNR:       b.PNR,
				TrainID:   b.TrainID,
				CoachType: b.CoachType,
			})
		}
		doc.Users = append(doc.Users, uj)
	}

	return doc
}

func decode(doc document) state.Data {
	d := state.Data{
		Trains:   make([]domain.Train, 0, len(doc.Trains)),
		Accounts: make([]domain.Account, 0, len(doc.Users)),
		NextPNR:  doc.NextPNR,
	}
	if d.NextPNR < 1 {
		d.NextPNR = 1
	}

	for _, tj := range doc.Trains {
		t := domain.Train{
			ID:          tj.TrainID,
			Name:        tj.Name,
			Origin:      tj.Origin,
			Destination: tj.Destination,
			Day:         domain.Day(tj.DayOfWeek),
			Coaches:     make([]domain.Coach, 0, len(tj.Coaches)),
		}
		for _, cj := range tj.Coaches {
			capacity := cj.AvailableSeats
			if cj.Capacity != nil {
				capacity = *cj.Capacity
			}
			t.Coaches = append(t.Coaches, domain.Coach{
				Type:      cj.CoachType,
				Available: cj.AvailableSeats,
				Capacity:  capacity,
				Fare:      cj.Fare,
			})
		}
		d.Trains = append(d.Trains, t)
	}

	for _, uj := range doc.Users {
		a := domain.Account{
			ID:       uj.UserID,
			Username: uj.Username,
			Password: uj.Password,
			Bookings: make([]domain.Booking, 0, len(uj.Bookings)),
		}
		for _, bj := range uj.Bookings {
			a.Bookings = append(a.Bookings, domain.Booking{
				PNR:       bj.PNR,
				TrainID:   bj.TrainID,
				CoachType: bj.CoachType,
			})
		}
		d.Accounts = append(d.Accounts, a)
	}

	return d
}
