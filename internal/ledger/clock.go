package ledger

import "time"

// Clock supplies block timestamps. Injecting it keeps block construction
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the ambient wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
