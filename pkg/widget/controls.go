/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: controls.go
Description: Control identifiers of the universal date widget and the form navigation chrome.
*/

package widget

import "strings"

// Controls names the fields and buttons of a universal (non-Gregorian) date widget
type Controls struct {
	DayText       string `mapstructure:"day_text"`
	MonthText     string `mapstructure:"month_text"`
	YearText      string `mapstructure:"year_text"`
	DayUp         string `mapstructure:"day_up"`
	DayDown       string `mapstructure:"day_down"`
	MonthUp       string `mapstructure:"month_up"`
	MonthDown     string `mapstructure:"month_down"`
	YearUp        string `mapstructure:"year_up"`
	YearDown      string `mapstructure:"year_down"`
	GregorianEcho string `mapstructure:"gregorian_echo"`
}

// DefaultControls returns the resource IDs used by the app's universal date widget
func DefaultControls() Controls {
	return Controls{
		DayText:       "daytxt",
		MonthText:     "monthtxt",
		YearText:      "yeartxt",
		DayUp:         "dayupbtn",
		DayDown:       "daydownbtn",
		MonthUp:       "monthupbtn",
		MonthDown:     "monthdownbtn",
		YearUp:        "yearupbtn",
		YearDown:      "yeardownbtn",
		GregorianEcho: "dateGregorian",
	}
}

// TrimEcho removes the parentheses the widget wraps its Gregorian echo in: "(24 February 2024)"
func TrimEcho(text string) string {
	s := strings.TrimSpace(text)
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
