/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: label.go
Description: Selected-date labels. The widget shows its day zero-padded while the form summary
shows it bare, so the day is re-rendered from its integer value before the label is built.
*/

package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDay converts a widget day field ("05", "5", "26") into its integer value
func ParseDay(text string) (int, error) {
	s := strings.TrimSpace(text)
	day, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Text: text, Pattern: "d", Err: err}
	}
	if day < 1 || day > 32 {
		return 0, &ParseError{Text: text, Pattern: "d", Err: fmt.Errorf("day %d out of range", day)}
	}
	return day, nil
}

// DayLabel builds the "{day} {month} {year}" label the form summary prints for a localized date.
// The day is written without zero padding.
func DayLabel(dayText, month, year string) (string, error) {
	day, err := ParseDay(dayText)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(day) + " " + strings.TrimSpace(month) + " " + strings.TrimSpace(year), nil
}
