/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pattern.go
Description: Date pattern handling. Widgets and summary screens describe dates with CLDR style
patterns ("d MMMM yyyy", "EE, MMM dd, yyyy"); this file converts those patterns to Go reference
layouts and provides parse, format and reformat helpers on top of them.
*/

package calendar

import (
	"fmt"
	"strings"
	"time"
)

// GregorianEchoPattern is how the universal widget prints its Gregorian echo
const GregorianEchoPattern = "d MMMM yyyy"

// variableWidth are the layout elements that print without zero padding. Written next to
// another numeric element they either merge into a different element ("1"+"5" is "15") or
// cannot be split again when parsing.
var variableWidth = map[string]bool{"1": true, "2": true, "3": true, "4": true, "5": true, "15": true}

// goReserved are fragments of literal text that time.Parse would treat as layout elements
var goReserved = []string{"Jan", "Mon", "MST", "PM", "pm", "_"}

// Layout converts a CLDR style date pattern into a Go time layout.
//
// Supported letters: y (yy, yyyy), M (M, MM, MMM, MMMM), d (d, dd), E (E..EEE, EEEE),
// H, h, m, s and a. Text in single quotes is literal and '' is a quote character.
// Numeric fields may only touch each other when both are zero padded ("yyyyMMdd").
func Layout(pattern string) (string, error) {
	var out strings.Builder
	var prev string
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				out.WriteRune('\'')
				prev = ""
				i += 2
				continue
			}
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}
			if end >= len(runes) {
				return "", fmt.Errorf("pattern %q: unterminated quote", pattern)
			}
			lit := string(runes[i+1 : end])
			if err := checkLiteral(pattern, lit); err != nil {
				return "", err
			}
			out.WriteString(lit)
			if lit != "" {
				prev = ""
			}
			i = end + 1
			continue
		}

		if !isPatternLetter(r) {
			if err := checkLiteral(pattern, string(r)); err != nil {
				return "", err
			}
			out.WriteRune(r)
			prev = ""
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		elem, err := layoutElement(r, n)
		if err != nil {
			return "", fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if isNumeric(prev) && isNumeric(elem) && (variableWidth[prev] || variableWidth[elem]) {
			return "", fmt.Errorf("pattern %q: adjacent numeric fields %q and %q are ambiguous",
				pattern, string(runes[i-1]), strings.Repeat(string(r), n))
		}
		out.WriteString(elem)
		prev = elem
		i += n
	}
	return out.String(), nil
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNumeric(elem string) bool {
	return elem != "" && elem[0] >= '0' && elem[0] <= '9'
}

func checkLiteral(pattern, lit string) error {
	if strings.ContainsAny(lit, "0123456789") {
		return fmt.Errorf("pattern %q: literal %q contains digits", pattern, lit)
	}
	for _, word := range goReserved {
		if strings.Contains(lit, word) {
			return fmt.Errorf("pattern %q: literal %q collides with layout element %q", pattern, lit, word)
		}
	}
	return nil
}

func layoutElement(letter rune, n int) (string, error) {
	switch letter {
	case 'y':
		if n == 2 {
			return "06", nil
		}
		return "2006", nil
	case 'M', 'L':
		switch n {
		case 1:
			return "1", nil
		case 2:
			return "01", nil
		case 3:
			return "Jan", nil
		default:
			return "January", nil
		}
	case 'd':
		switch n {
		case 1:
			return "2", nil
		case 2:
			return "02", nil
		}
	case 'E':
		if n >= 4 {
			return "Monday", nil
		}
		return "Mon", nil
	case 'H':
		if n <= 2 {
			return "15", nil
		}
	case 'h':
		switch n {
		case 1:
			return "3", nil
		case 2:
			return "03", nil
		}
	case 'm':
		switch n {
		case 1:
			return "4", nil
		case 2:
			return "04", nil
		}
	case 's':
		switch n {
		case 1:
			return "5", nil
		case 2:
			return "05", nil
		}
	case 'a':
		return "PM", nil
	}
	return "", fmt.Errorf("unsupported element %s", strings.Repeat(string(letter), n))
}

// Parse reads text laid out according to pattern
func Parse(text, pattern string) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, &ParseError{Text: text, Pattern: pattern, Err: err}
	}
	t, err := time.Parse(layout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, &ParseError{Text: text, Pattern: pattern, Err: err}
	}
	return t, nil
}

// FormatPattern renders t according to pattern
func FormatPattern(t time.Time, pattern string) (string, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// ParseAndReformat parses dateText with inputPattern and renders it with outputPattern.
// A mismatch between text and inputPattern yields a *ParseError.
func ParseAndReformat(dateText, inputPattern, outputPattern string) (string, error) {
	t, err := Parse(dateText, inputPattern)
	if err != nil {
		return "", err
	}
	return FormatPattern(t, outputPattern)
}

// StandardPatterns returns the renderings a Gregorian date picker's summary shows
func StandardPatterns() []string {
	return []string{"EE, MMM dd, yyyy", "d/M/yy", ISOPattern}
}

// StandardFormats renders t in every StandardPatterns entry
func StandardFormats(t time.Time) []string {
	patterns := StandardPatterns()
	formats := make([]string, 0, len(patterns))
	for _, p := range patterns {
		s, err := FormatPattern(t, p)
		if err != nil {
			// StandardPatterns only holds supported elements
			panic(err)
		}
		formats = append(formats, s)
	}
	return formats
}
