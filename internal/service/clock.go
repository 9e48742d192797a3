package service

import "time"

// SystemClock reads the wall clock. Tests substitute a fixed clock so
// temporal classification is deterministic.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
