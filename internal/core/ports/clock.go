package ports

import "time"

// Clock abstracts wall-clock reads so expiry-boundary tests can supply a
// fake time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
