package state

import "errors"

var (
	ErrTrainNotFound     = errors.New("train not found")
	ErrCoachNotFound     = errors.New("coach not found")
	ErrCoachTypeExists   = errors.New("coach type already exists on train")
	ErrNoSeatsAvailable  = errors.New("no seats available")
	ErrSeatLimitExceeded = errors.New("seat count would exceed coach capacity")
	ErrAccountNotFound   = errors.New("account not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrPNRNotFound       = errors.New("pnr not found")
)
