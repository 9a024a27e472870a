// Package state holds the root aggregate of the reservation engine: the train
// catalog, the account directory with its booking ledgers, and the PNR counter.
//
// State methods do not lock by themselves. Callers run them inside View (shared
// lock) or Update (exclusive lock); the uow package builds its transactional
// flush-and-rollback cycle on top of Update.
package state

import (
	"fmt"
	"sync"

	"github.com/kirinyoku/railgo/internal/domain"
)

// Data is the full persisted content of a State, safe to hand across the
// lock boundary: every call deep-copies.
type Data struct {
	Trains   []domain.Train
	Accounts []domain.Account
	NextPNR  int64
}

type State struct {
	mu sync.RWMutex

	trains   []*domain.Train
	accounts []*domain.Account

	trainIdx map[int64]*domain.Train
	accIdx   map[int64]*domain.Account
	userIdx  map[string]*domain.Account

	nextPNR int64
}

// New builds a State from persisted data and rebuilds the lookup indexes.
func New(d Data) *State {
	s := &State{}
	s.restore(d)
	return s
}

// View runs fn while holding the shared lock. Read-only accessors must be
// called inside View (or Update).
func (s *State) View(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Update runs fn while holding the exclusive lock. All mutators must be
// called inside Update.
func (s *State) Update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Snapshot deep-copies the state content. Caller must hold a lock via
// View or Update.
func (s *State) Snapshot() Data {
	d := Data{
		Trains:   make([]domain.Train, 0, len(s.trains)),
		Accounts: make([]domain.Account, 0, len(s.accounts)),
		NextPNR:  s.nextPNR,
	}
	for _, t := range s.trains {
		d.Trains = append(d.Trains, copyTrain(t))
	}
	for _, a := range s.accounts {
		d.Accounts = append(d.Accounts, copyAccount(a))
	}
	return d
}

// Restore replaces the state content with a previously taken snapshot.
// Caller must hold the exclusive lock via Update.
func (s *State) Restore(d Data) {
	s.restore(d)
}

func (s *State) restore(d Data) {
	s.trains = make([]*domain.Train, 0, len(d.Trains))
	s.accounts = make([]*domain.Account, 0, len(d.Accounts))
	s.trainIdx = make(map[int64]*domain.Train, len(d.Trains))
	s.accIdx = make(map[int64]*domain.Account, len(d.Accounts))
	s.userIdx = make(map[string]*domain.Account, len(d.Accounts))

	for i := range d.Trains {
		t := copyTrain(&d.Trains[i])
		s.trains = append(s.trains, &t)
		s.trainIdx[t.ID] = &t
	}
	for i := range d.Accounts {
		a := copyAccount(&d.Accounts[i])
		s.accounts = append(s.accounts, &a)
		s.accIdx[a.ID] = &a
		s.userIdx[a.Username] = &a
	}

	s.nextPNR = d.NextPNR
	if s.nextPNR < 1 {
		s.nextPNR = 1
	}
}

// --- catalog ---

// AddTrain appends a train with the next sequential identifier.
func (s *State) AddTrain(name, origin, destination string, day domain.Day) (domain.Train, error) {
	const op = "state.AddTrain"

	id := int64(len(s.trains)) + 1
	t, err := domain.NewTrain(id, name, origin, destination, day)
	if err != nil {
		return domain.Train{}, fmt.Errorf("%s: %w", op, err)
	}

	s.trains = append(s.trains, &t)
	s.trainIdx[t.ID] = &t

	return copyTrain(&t), nil
}

// AddCoach appends a coach to an existing train. A train carries at most one
// coach per coach type.
func (s *State) AddCoach(trainID int64, coachType string, capacity int, fare float64) (domain.Coach, error) {
	const op = "state.AddCoach"

	t, ok := s.trainIdx[trainID]
	if !ok {
		return domain.Coach{}, fmt.Errorf("%s: %w", op, ErrTrainNotFound)
	}
	if _, exists := t.Coach(coachType); exists {
		return domain.Coach{}, fmt.Errorf("%s: %w", op, ErrCoachTypeExists)
	}

	c, err := domain.NewCoach(coachType, capacity, fare)
	if err != nil {
		return domain.Coach{}, fmt.Errorf("%s: %w", op, err)
	}

	t.Coaches = append(t.Coaches, c)

	return c, nil
}

// Train returns a deep copy of the train with the given id.
func (s *State) Train(trainID int64) (domain.Train, error) {
	t, ok := s.trainIdx[trainID]
	if !ok {
		return domain.Train{}, ErrTrainNotFound
	}
	return copyTrain(t), nil
}

// Coach returns a copy of the coach identified by (trainID, coachType).
func (s *State) Coach(trainID int64, coachType string) (domain.Coach, error) {
	t, ok := s.trainIdx[trainID]
	if !ok {
		return domain.Coach{}, ErrTrainNotFound
	}
	c, ok := t.Coach(coachType)
	if !ok {
		return domain.Coach{}, ErrCoachNotFound
	}
	return *c, nil
}

// SearchTrains returns all trains whose origin, destination and day match
// exactly. Fresh, finite result per call.
func (s *State) SearchTrains(origin, destination, day string) []domain.Train {
	var out []domain.Train
	for _, t := range s.trains {
		if t.Origin == origin && t.Destination == destination && string(t.Day) == day {
			out = append(out, copyTrain(t))
		}
	}
	return out
}

// TrainCount reports the number of trains in the catalog.
func (s *State) TrainCount() int {
	return len(s.trains)
}

// --- seat pool ---

// ReserveSeat decrements the seat pool of (trainID, coachType) by one.
func (s *State) ReserveSeat(trainID int64, coachType string) error {
	const op = "state.ReserveSeat"

	c, err := s.coachRef(trainID, coachType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if c.Available == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoSeatsAvailable)
	}

	c.Available--

	return nil
}

// ReleaseSeat returns one seat to the pool of (trainID, coachType). The pool
// never grows past the coach capacity.
func (s *State) ReleaseSeat(trainID int64, coachType string) error {
	const op = "state.ReleaseSeat"

	c, err := s.coachRef(trainID, coachType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if c.Available >= c.Capacity {
		return fmt.Errorf("%s: %w", op, ErrSeatLimitExceeded)
	}

	c.Available++

	return nil
}

func (s *State) coachRef(trainID int64, coachType string) (*domain.Coach, error) {
	t, ok := s.trainIdx[trainID]
	if !ok {
		return nil, ErrTrainNotFound
	}
	c, ok := t.Coach(coachType)
	if !ok {
		return nil, ErrCoachNotFound
	}
	return c, nil
}

// --- booking ledger ---

// AllocatePNR returns the next PNR and advances the counter. Issued values
// are strictly increasing and never reused, the counter itself is persisted.
func (s *State) AllocatePNR() int64 {
	pnr := s.nextPNR
	s.nextPNR++
	return pnr
}

// NextPNR reports the counter without advancing it.
func (s *State) NextPNR() int64 {
	return s.nextPNR
}

// AddBooking appends a booking to the account's ledger.
func (s *State) AddBooking(accountID int64, b domain.Booking) error {
	const op = "state.AddBooking"

	a, ok := s.accIdx[accountID]
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}

	a.Bookings = append(a.Bookings, b)

	return nil
}

// RemoveBooking removes the booking with the given PNR from the account's
// ledger and returns it. The lookup is scoped to the account: a PNR held by
// another account reports ErrPNRNotFound.
func (s *State) RemoveBooking(accountID, pnr int64) (domain.Booking, error) {
	const op = "state.RemoveBooking"

	a, ok := s.accIdx[accountID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}

	for i, b := range a.Bookings {
		if b.PNR == pnr {
			a.Bookings = append(a.Bookings[:i], a.Bookings[i+1:]...)
			return b, nil
		}
	}

	return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrPNRNotFound)
}

// FindBooking returns the booking with the given PNR from the account's
// ledger, scoped the same way as RemoveBooking.
func (s *State) FindBooking(accountID, pnr int64) (domain.Booking, error) {
	a, ok := s.accIdx[accountID]
	if !ok {
		return domain.Booking{}, ErrAccountNotFound
	}
	for _, b := range a.Bookings {
		if b.PNR == pnr {
			return b, nil
		}
	}
	return domain.Booking{}, ErrPNRNotFound
}

// Bookings returns a copy of the account's active bookings in booking order.
func (s *State) Bookings(accountID int64) ([]domain.Booking, error) {
	a, ok := s.accIdx[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	out := make([]domain.Booking, len(a.Bookings))
	copy(out, a.Bookings)
	return out, nil
}

// --- account directory ---

// CreateAccount registers a new account with the next sequential identifier.
// Usernames are unique, case-sensitive.
func (s *State) CreateAccount(username, password string) (domain.Account, error) {
	const op = "state.CreateAccount"

	if _, taken := s.userIdx[username]; taken {
		return domain.Account{}, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	}

	id := int64(len(s.accounts)) + 1
	a, err := domain.NewAccount(id, username, password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	s.accounts = append(s.accounts, &a)
	s.accIdx[a.ID] = &a
	s.userIdx[a.Username] = &a

	return copyAccount(&a), nil
}

// Authenticate returns the account matching the exact credential pair.
func (s *State) Authenticate(username, password string) (domain.Account, error) {
	a, ok := s.userIdx[username]
	if !ok || a.Password != password {
		return domain.Account{}, ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// Account returns a copy of the account with the given id.
func (s *State) Account(accountID int64) (domain.Account, error) {
	a, ok := s.accIdx[accountID]
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// --- copies ---

func copyTrain(t *domain.Train) domain.Train {
	out := *t
	out.Coaches = make([]domain.Coach, len(t.Coaches))
	copy(out.Coaches, t.Coaches)
	return out
}

func copyAccount(a *domain.Account) domain.Account {
	out := *a
	out.Bookings = make([]domain.Booking, len(a.Bookings))
	copy(out.Bookings, a.Bookings)
	return out
}
