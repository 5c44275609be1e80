package engine

import (
	"errors"
	"fmt"

	"a2a/internal/domain"
)

// FaultKind names the class of a turn fault in diagnostics and metrics.
type FaultKind string

const (
	FaultDeckExhausted FaultKind = "DeckExhausted"
	FaultPanic         FaultKind = "Panic"
	FaultStorage       FaultKind = "Storage"
	FaultOther         FaultKind = "Error"
)

// FaultError is an unhandled failure while processing one event. The runner
// discards the current match when it sees one and keeps serving.
type FaultError struct {
	Kind FaultKind
	Err  error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }

// asFault classifies err.
func asFault(err error) *FaultError {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, domain.ErrDeckExhausted) {
		return &FaultError{Kind: FaultDeckExhausted, Err: err}
	}
	return &FaultError{Kind: FaultOther, Err: err}
}

func panicFault(p any) *FaultError {
	if err, ok := p.(error); ok {
		return &FaultError{Kind: FaultPanic, Err: err}
	}
	return &FaultError{Kind: FaultPanic, Err: fmt.Errorf("%v", p)}
}
