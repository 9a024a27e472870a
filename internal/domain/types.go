package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Day is a day-of-week label a train runs on.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

var days = map[string]Day{
	"Monday":    Monday,
	"Tuesday":   Tuesday,
	"Wednesday": Wednesday,
	"Thursday":  Thursday,
	"Friday":    Friday,
	"Saturday":  Saturday,
	"Sunday":    Sunday,
}

var ErrInvalidDay = errors.New("invalid day of week")

// ParseDay matches s against the seven weekday labels, case-sensitive.
func ParseDay(s string) (Day, error) {
	d, ok := days[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return d, nil
}

// Coach is one seating class on a train with its own seat pool and fare.
// Available never goes below zero or above Capacity.
type Coach struct {
	Type      string
	Available int
	Capacity  int
	Fare      float64
}

// NewCoach validates and builds a full coach: Available starts at Capacity.
func NewCoach(coachType string, capacity int, fare float64) (Coach, error) {
	if strings.TrimSpace(coachType) == "" {
		return Coach{}, errors.New("coach type is required")
	}
	if capacity <= 0 {
		return Coach{}, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if fare <= 0 {
		return Coach{}, fmt.Errorf("fare must be positive, got %v", fare)
	}
	return Coach{Type: coachType, Available: capacity, Capacity: capacity, Fare: fare}, nil
}

// Train owns an ordered list of coaches, at most one per coach type.
type Train struct {
	ID          int64
	Name        string
	Origin      string
	Destination string
	Day         Day
	Coaches     []Coach
}

func NewTrain(id int64, name, origin, destination string, day Day) (Train, error) {
	if strings.TrimSpace(name) == "" {
		return Train{}, errors.New("train name is required")
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return Train{}, errors.New("origin and destination are required")
	}
	if _, err := ParseDay(string(day)); err != nil {
		return Train{}, err
	}
	return Train{ID: id, Name: name, Origin: origin, Destination: destination, Day: day}, nil
}

// Coach returns the coach with the given type, if present.
func (t *Train) Coach(coachType string) (*Coach, bool) {
	for i := range t.Coaches {
		if t.Coaches[i].Type == coachType {
			return &t.Coaches[i], true
		}
	}
	return nil, false
}

// Booking ties one reserved seat to a (train, coach type) pair. The PNR is
// globally unique and never reused, even after cancellation.
type Booking struct {
	PNR       int64
	TrainID   int64
	CoachType string
}

// Account is a user identity owning a ledger of active bookings.
// Cancelled bookings are removed, not archived.
type Account struct {
	ID       int64
	Username string
	Password string
	Bookings []Booking
}

func NewAccount(id int64, username, password string) (Account, error) {
	if strings.TrimSpace(username) == "" {
		return Account{}, errors.New("username is required")
	}
	if password == "" {
		return Account{}, errors.New("password is required")
	}
	return Account{ID: id, Username: username, Password: password}, nil
}
