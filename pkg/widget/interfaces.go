/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Capability interfaces for driving date-entry widgets. A Widget reads the text of a
named field, clicks a control and checks whether a view is on screen. Device and browser adapters
implement it; verification code depends only on these interfaces.
*/

package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no view matches a Matcher
	ErrNotFound = errors.New("view not found")
	// ErrUnsupported is returned by adapters lacking an optional capability
	ErrUnsupported = errors.New("capability not supported by adapter")
)

// Matcher selects a view on screen. Exactly one of ID, Text and Substring is normally set;
// Index picks among several matches (0 = first).
type Matcher struct {
	ID        string
	Text      string
	Substring string
	Index     int
}

// ByID matches the view with the given resource ID
func ByID(id string) Matcher { return Matcher{ID: id} }

// WithText matches a view whose text equals text
func WithText(text string) Matcher { return Matcher{Text: text} }

// WithSubstring matches a view whose text contains sub
func WithSubstring(sub string) Matcher { return Matcher{Substring: sub} }

// Nth returns a copy of m selecting the i-th match
func (m Matcher) Nth(i int) Matcher {
	m.Index = i
	return m
}

// Matches reports whether a view with the given id and text satisfies m
func (m Matcher) Matches(id, text string) bool {
	if m.ID != "" && m.ID != id {
		return false
	}
	if m.Text != "" && m.Text != text {
		return false
	}
	if m.Substring != "" && !strings.Contains(text, m.Substring) {
		return false
	}
	return m.ID != "" || m.Text != "" || m.Substring != ""
}

func (m Matcher) String() string {
	switch {
	case m.ID != "":
		return fmt.Sprintf("id=%s[%d]", m.ID, m.Index)
	case m.Text != "":
		return fmt.Sprintf("text=%q[%d]", m.Text, m.Index)
	case m.Substring != "":
		return fmt.Sprintf("substring=%q[%d]", m.Substring, m.Index)
	}
	return "<empty matcher>"
}

// Widget is the query/action capability set a verification scenario runs against
type Widget interface {
	ReadText(ctx context.Context, id string) (string, error)
	Click(ctx context.Context, m Matcher) error
	IsPresent(ctx context.Context, m Matcher) (bool, error)
}

// DatePicker is implemented by adapters able to set a Gregorian date picker directly
type DatePicker interface {
	SetDate(ctx context.Context, year, month, day int) error
}

// Rotator is implemented by adapters able to change screen orientation
type Rotator interface {
	RotateLeft(ctx context.Context) error
	RotatePortrait(ctx context.Context) error
}
