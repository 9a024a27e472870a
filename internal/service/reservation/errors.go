package reservation

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrTrainOrCoachNotFound = errors.New("train or coach not found")
	ErrNoSeatsAvailable     = errors.New("no seats available")
	ErrPNRNotFound          = errors.New("pnr not found")
)
