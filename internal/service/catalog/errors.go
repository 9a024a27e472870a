package catalog

import "errors"

var (
	ErrTrainNotFound   = errors.New("train not found")
	ErrCoachTypeExists = errors.New("coach type already exists on train")
	ErrInvalidInput    = errors.New("invalid input")
)
