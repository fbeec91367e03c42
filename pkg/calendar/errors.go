/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Typed errors raised by the calendar computations. Callers match them with errors.As
and treat them as terminal for the case in progress.
*/

package calendar

import "fmt"

// NotFoundError reports a displayed month that is missing from the expected month set.
// It usually means the widget and the configured localization disagree.
type NotFoundError struct {
	Calendar string
	Month    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("month %q not found in %s month set", e.Month, e.Calendar)
}

// ParseError reports text that does not match the expected date pattern
type ParseError struct {
	Text    string
	Pattern string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %q: %v", e.Text, e.Pattern, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %q", e.Text, e.Pattern)
}

func (e *ParseError) Unwrap() error { return e.Err }
