package query

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrTrainNotFound        = errors.New("train not found")
	ErrTrainOrCoachNotFound = errors.New("train or coach not found")
	ErrPNRNotFound          = errors.New("pnr not found")
)
