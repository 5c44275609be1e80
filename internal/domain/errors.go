package domain

import "errors"

var (
	ErrTooFewAdjectives = errors.New("too few Adjective cards loaded into database")
	ErrTooFewNouns      = errors.New("too few Noun cards loaded into database")
	// ErrDeckExhausted means deck+discard cannot cover a draw; it signals a bookkeeping bug.
	ErrDeckExhausted = errors.New("too few cards remaining in deck")
)
