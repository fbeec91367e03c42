/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Cases, results and assertion errors for date widget verification runs.
*/

package verifier

import (
	"fmt"
	"time"

	"github.com/kleascm/calverify/pkg/calendar"
)

// Kind selects which scenario a case runs
type Kind string

const (
	KindUniversal Kind = "universal"
	KindStandard  Kind = "standard"
)

// Case describes one widget form to verify
type Case struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Module int    `json:"module"`

	// Intro is a substring expected on the first form page; empty skips the check
	Intro string `json:"intro,omitempty"`

	Months calendar.LocalizedMonthSet `json:"months"`

	// Offset is the signed number of days the day control is stepped by
	Offset int `json:"offset"`

	// YearShift is applied with the year controls before stepping days
	YearShift int `json:"year_shift"`
}

// DefaultCases returns the Nepali, Ethiopian and standard widget forms of the test app
func DefaultCases(offset, yearShift int) []Case {
	return []Case{
		{
			Name:      "nepali",
			Kind:      KindUniversal,
			Module:    0,
			Intro:     "This form will test the Nepal date widget.",
			Months:    calendar.NepaliMonths(),
			Offset:    offset,
			YearShift: yearShift,
		},
		{
			Name:      "ethiopian",
			Kind:      KindUniversal,
			Module:    1,
			Intro:     "This form will test the Ethiopian date widget.",
			Months:    calendar.EthiopianMonths(),
			Offset:    offset,
			YearShift: yearShift,
		},
		{
			Name:   "standard",
			Kind:   KindStandard,
			Module: 4,
			Offset: offset,
		},
	}
}

// CaseResult records the outcome of one case
type CaseResult struct {
	Name      string          `json:"name"`
	Kind      Kind            `json:"kind"`
	Passed    bool            `json:"passed"`
	Error     string          `json:"error,omitempty"`
	Label     string          `json:"label,omitempty"`
	Gregorian string          `json:"gregorian,omitempty"`
	Formats   []string        `json:"formats,omitempty"`
	Rotation  []string        `json:"rotation,omitempty"`
	Artifacts []string        `json:"artifacts,omitempty"`
	Assertion *AssertionError `json:"assertion,omitempty"`
	Started   time.Time       `json:"started"`
	Duration  time.Duration   `json:"duration"`
}

// AssertionError reports an expected view or value that did not match the screen
type AssertionError struct {
	Step     string `json:"step"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"`
}

func (e *AssertionError) Error() string {
	if e.Actual != "" {
		return fmt.Sprintf("%s: expected %q, got %q", e.Step, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: %q not present", e.Step, e.Expected)
}
