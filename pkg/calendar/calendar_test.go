/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: calendar_test.go
Description: Tests for month rotation, reference dates, pattern conversion, reformatting and
day labels.
*/

package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kleascm/calverify/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRotateMonths(t *testing.T) {
	months := calendar.GregorianMonths()

	rotated, err := calendar.RotateMonths(months, "June")
	require.NoError(t, err)
	want := []string{
		"June", "July", "August", "September", "October", "November", "December",
		"January", "February", "March", "April", "May",
	}
	if diff := cmp.Diff(want, rotated); diff != "" {
		t.Errorf("RotateMonths mismatch (-want +got):\n%s", diff)
	}

	// Original set is untouched
	assert.Equal(t, "January", months.Months[0])
}

func TestRotateMonthsEveryStart(t *testing.T) {
	for _, set := range []calendar.LocalizedMonthSet{
		calendar.NepaliMonths(), calendar.EthiopianMonths(), calendar.GregorianMonths(),
	} {
		for i, start := range set.Months {
			rotated, err := calendar.RotateMonths(set, start)
			require.NoError(t, err)
			require.Len(t, rotated, calendar.MonthsPerYear)

			seen := make(map[string]bool)
			for j, name := range rotated {
				assert.Equal(t, set.Months[(i+j)%calendar.MonthsPerYear], name)
				seen[name] = true
			}
			assert.Len(t, seen, calendar.MonthsPerYear, "%s from %s", set.Calendar, start)
		}
	}
}

func TestRotateMonthsWrapsAtLastMonth(t *testing.T) {
	rotated, err := calendar.RotateMonths(calendar.NepaliMonths(), "Chaitra")
	require.NoError(t, err)
	assert.Equal(t, "Chaitra", rotated[0])
	assert.Equal(t, "Baishakh", rotated[1])
	assert.Equal(t, "Falgun", rotated[11])
}

func TestRotateMonthsNotFound(t *testing.T) {
	_, err := calendar.RotateMonths(calendar.EthiopianMonths(), "Baishakh")
	require.Error(t, err)

	var nf *calendar.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Baishakh", nf.Month)
	assert.Equal(t, calendar.Ethiopian, nf.Calendar)
}

func TestReferenceDate(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		offset int
		want   string
	}{
		{"month boundary", date(2024, time.March, 5), -10, "2024-02-24"},
		{"year boundary", date(2024, time.January, 5), -10, "2023-12-26"},
		{"leap day forward", date(2024, time.February, 29), 1, "2024-03-01"},
		{"into leap day", date(2024, time.February, 28), 1, "2024-02-29"},
		{"non leap year", date(2023, time.February, 28), 1, "2023-03-01"},
		{"forward year", date(2023, time.December, 25), 10, "2024-01-04"},
		{"zero", date(2024, time.July, 14), 0, "2024-07-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, formatted := calendar.ReferenceDate(tt.now, tt.offset)
			assert.Equal(t, tt.want, formatted)
			assert.Equal(t, tt.want, ref.Format("2006-01-02"))
		})
	}
}

func TestReferenceDateIgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC)
	ref, formatted := calendar.ReferenceDate(now, -10)
	assert.Equal(t, "2024-02-24", formatted)
	assert.Equal(t, 0, ref.Hour())
}

func TestReferenceFromClock(t *testing.T) {
	clock := calendar.FixedClock{T: date(2024, time.March, 5)}
	_, formatted := calendar.ReferenceFromClock(clock, -10)
	assert.Equal(t, "2024-02-24", formatted)
}

func TestLayout(t *testing.T) {
	tests := map[string]string{
		"d MMMM yyyy":           "2 January 2006",
		"yyyy-MM-dd":            "2006-01-02",
		"EE, MMM dd, yyyy":      "Mon, Jan 02, 2006",
		"d/M/yy":                "2/1/06",
		"EEEE d MMMM":           "Monday 2 January",
		"HH:mm:ss":              "15:04:05",
		"h:mm a":                "3:04 PM",
		"d 'de' MMMM 'de' yyyy": "2 de January de 2006",
		"dd''MM":                "02'01",
	}
	for pattern, want := range tests {
		got, err := calendar.Layout(pattern)
		require.NoError(t, err, pattern)
		assert.Equal(t, want, got, pattern)
	}
}

func TestLayoutRejects(t *testing.T) {
	for _, pattern := range []string{
		"ddd MM yyyy",   // three-letter day
		"QQ yyyy",       // unsupported letter
		"d 'MMMM yyyy",  // unterminated quote
		"d MMMM yyyy 1", // digit literal
		"'Jan' d",       // literal collides with layout
		"d_MM",          // underscore pads in Go layouts
		"Ms",            // "1"+"5" reads back as the hour
		"MH",            // "1"+"15" reads back as "11" then "5"
		"dMyy",          // unpadded day against unpadded month
		"HHmm",          // hour is not zero padded
		"yyyyMd",        // unpadded fields after the year
	} {
		_, err := calendar.Layout(pattern)
		assert.Error(t, err, pattern)
	}
}

func TestLayoutAdjacentFields(t *testing.T) {
	tests := map[string]string{
		"yyyyMMdd":  "20060102",
		"ddMMyy":    "020106",
		"MMMMyyyy":  "January2006",
		"d''M":      "2'1",
		"M'/'d":     "1/2",
		"EEEEdd":    "Monday02",
		"yyMMddmm":  "06010204",
		"d MMMyyyy": "2 Jan2006",
	}
	for pattern, want := range tests {
		got, err := calendar.Layout(pattern)
		require.NoError(t, err, pattern)
		assert.Equal(t, want, got, pattern)
	}

	got, err := calendar.ParseAndReformat("20240224", "yyyyMMdd", "d/M/yy")
	require.NoError(t, err)
	assert.Equal(t, "24/2/24", got)
}

func TestParseAndReformat(t *testing.T) {
	got, err := calendar.ParseAndReformat("24 February 2024", "d MMMM yyyy", "yyyy-MM-dd")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-24", got)

	got, err = calendar.ParseAndReformat("5 March 2024", calendar.GregorianEchoPattern, calendar.ISOPattern)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got)
}

func TestParseAndReformatErrors(t *testing.T) {
	for _, text := range []string{"2024-02-24", "24 Februray 2024", "", "31 February 2024", "24 February 24"} {
		_, err := calendar.ParseAndReformat(text, "d MMMM yyyy", "yyyy-MM-dd")
		require.Error(t, err, text)

		var pe *calendar.ParseError
		assert.True(t, errors.As(err, &pe), text)
	}
}

func TestParseAndReformatRoundTrip(t *testing.T) {
	start := date(1900, time.January, 1)
	end := date(2100, time.December, 31)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 37) {
		text, err := calendar.FormatPattern(d, "d MMMM yyyy")
		require.NoError(t, err)
		got, err := calendar.ParseAndReformat(text, "d MMMM yyyy", "yyyy-MM-dd")
		require.NoError(t, err)
		require.Equal(t, d.Format("2006-01-02"), got)
	}

	// Boundaries themselves
	for _, d := range []time.Time{start, end, date(2000, time.February, 29)} {
		text, err := calendar.FormatPattern(d, "d MMMM yyyy")
		require.NoError(t, err)
		got, err := calendar.ParseAndReformat(text, "d MMMM yyyy", "yyyy-MM-dd")
		require.NoError(t, err)
		assert.Equal(t, d.Format("2006-01-02"), got)
	}
}

func TestStandardFormats(t *testing.T) {
	got := calendar.StandardFormats(date(2024, time.February, 24))
	want := []string{"Sat, Feb 24, 2024", "24/2/24", "2024-02-24"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StandardFormats mismatch (-want +got):\n%s", diff)
	}

	got = calendar.StandardFormats(date(2024, time.March, 5))
	assert.Equal(t, []string{"Tue, Mar 05, 2024", "5/3/24", "2024-03-05"}, got)
}

func TestDayLabel(t *testing.T) {
	tests := []struct {
		day, month, year string
		want             string
	}{
		{"26", "Falgun", "2080", "26 Falgun 2080"},
		{"05", "Mangsir", "2081", "5 Mangsir 2081"},
		{"10", "Hïdar", "2016", "10 Hïdar 2016"},
		{"20", "Tahsas", "2016", "20 Tahsas 2016"},
		{"30", "Magh", "2080", "30 Magh 2080"},
		{"32", "Ashadh", "2081", "32 Ashadh 2081"},
		{" 7 ", "Poush", "2080", "7 Poush 2080"},
	}
	for _, tt := range tests {
		got, err := calendar.DayLabel(tt.day, tt.month, tt.year)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDayLabelRejects(t *testing.T) {
	for _, day := range []string{"", "x", "0", "33", "-1"} {
		_, err := calendar.DayLabel(day, "Magh", "2080")
		var pe *calendar.ParseError
		assert.True(t, errors.As(err, &pe), day)
	}
}
