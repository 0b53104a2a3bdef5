package parking

import "errors"

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrNavigationTimeout   = errors.New("navigation timed out")
	ErrElementNotFound     = errors.New("element not found")
	ErrAuthTimeout         = errors.New("login redirect timed out")
	ErrReservationNotFound = errors.New("reservation control not found")
	ErrVerificationFailed  = errors.New("reservation could not be verified")
	ErrRunInProgress       = errors.New("another run holds the run lock")
)
