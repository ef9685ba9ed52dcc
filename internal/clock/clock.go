// Package clock provides wall-clock sources: the host clock and a DS3231
// real-time clock over I2C.
package clock

import "time"

// System reads the host clock.
type System struct{}

// Now returns time.Now().
func (System) Now() (time.Time, error) {
	return time.Now(), nil
}

// Fake returns a fixed time.
type Fake struct {
	T time.Time

	// Err, if set, will be returned by Now
	Err error
}

// Now returns T or Err.
func (f *Fake) Now() (time.Time, error) {
	if f.Err != nil {
		return time.Time{}, f.Err
	}
	return f.T, nil
}
