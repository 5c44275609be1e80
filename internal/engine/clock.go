package engine

import "time"

// Clock is the runner's source of time.
type Clock interface {
	Now() time.Time
	// Until returns a channel that receives once t has been reached.
	Until(t time.Time) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Until(t time.Time) <-chan time.Time {
	return time.After(time.Until(t))
}
