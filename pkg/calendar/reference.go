/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reference.go
Description: Gregorian reference dates. Computes today plus a signed day offset as the oracle a
widget's Gregorian echo is compared against.
*/

package calendar

import "time"

// ISOPattern is the canonical comparison pattern
const ISOPattern = "yyyy-MM-dd"

const isoLayout = "2006-01-02"

// Clock supplies the current date
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// ReferenceDate returns the calendar date offsetDays away from now and its yyyy-MM-dd rendering.
// The result is midnight in now's location. time.Date normalizes the overflowing day into the
// right month and year, leap days included.
func ReferenceDate(now time.Time, offsetDays int) (time.Time, string) {
	y, m, d := now.Date()
	ref := time.Date(y, m, d+offsetDays, 0, 0, 0, 0, now.Location())
	return ref, ref.Format(isoLayout)
}

// ReferenceFromClock is ReferenceDate evaluated against a Clock
func ReferenceFromClock(c Clock, offsetDays int) (time.Time, string) {
	if c == nil {
		c = SystemClock{}
	}
	return ReferenceDate(c.Now(), offsetDays)
}
