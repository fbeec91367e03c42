/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: months_test.go
Description: Tests for month set validation and the YAML backed registry.
*/

package calendar_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/calverify/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinMonthSetsValid(t *testing.T) {
	for _, s := range []calendar.LocalizedMonthSet{
		calendar.NepaliMonths(), calendar.EthiopianMonths(), calendar.GregorianMonths(),
	} {
		assert.NoError(t, s.Validate(), s.Calendar)
		assert.Len(t, s.Months, calendar.MonthsPerYear)
	}
}

func TestMonthSetValidate(t *testing.T) {
	short := calendar.LocalizedMonthSet{Calendar: "short", Months: []string{"a", "b"}}
	assert.Error(t, short.Validate())

	dup := calendar.GregorianMonths()
	dup.Months[11] = "January"
	assert.Error(t, dup.Validate())

	blank := calendar.GregorianMonths()
	blank.Months[3] = " "
	assert.Error(t, blank.Validate())

	unnamed := calendar.GregorianMonths()
	unnamed.Calendar = ""
	assert.Error(t, unnamed.Validate())
}

func TestRegistryReturnsCopies(t *testing.T) {
	r := calendar.NewRegistry()
	s, ok := r.Get(calendar.Nepali)
	require.True(t, ok)
	s.Months[0] = "changed"

	again, ok := r.Get("Nepali")
	require.True(t, ok)
	assert.Equal(t, "Baishakh", again.Months[0])
	assert.Equal(t, []string{calendar.Ethiopian, calendar.Gregorian, calendar.Nepali}, r.Names())
}

func TestRegistryLoadFile(t *testing.T) {
	data := []byte(`calendars:
  - calendar: Latin
    months: [Ianuarius, Februarius, Martius, Aprilis, Maius, Iunius,
             Iulius, Augustus, September, October, November, December]
`)
	path := filepath.Join(t.TempDir(), "calendars.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	r := calendar.NewRegistry()
	require.NoError(t, r.LoadFile(path))

	s, ok := r.Get("latin")
	require.True(t, ok)
	assert.Equal(t, "Iulius", s.Months[6])

	_, err := calendar.RotateMonths(s, "Martius")
	assert.NoError(t, err)
}

func TestRegistryLoadRejectsInvalid(t *testing.T) {
	r := calendar.NewRegistry()
	err := r.Load([]byte("calendars:\n  - calendar: broken\n    months: [one, two]\n"))
	assert.Error(t, err)

	err = r.Load([]byte("calendars: [unterminated"))
	assert.Error(t, err)
}

func TestRegistryMarshalRoundTrip(t *testing.T) {
	r := calendar.NewRegistry()
	data, err := r.Marshal()
	require.NoError(t, err)

	loaded := calendar.NewRegistry()
	require.NoError(t, loaded.Load(data))
	for _, name := range r.Names() {
		want, _ := r.Get(name)
		got, ok := loaded.Get(name)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestMonthSetYearLength(t *testing.T) {
	assert.True(t, calendar.NepaliMonths().FullYear())
	assert.True(t, calendar.GregorianMonths().FullYear())

	ethiopian := calendar.EthiopianMonths()
	assert.Equal(t, 13, ethiopian.YearLength())
	assert.False(t, ethiopian.FullYear())

	tooShort := calendar.GregorianMonths()
	tooShort.YearMonths = 11
	assert.Error(t, tooShort.Validate())
}

func TestRegistryKeepsYearMonths(t *testing.T) {
	r := calendar.NewRegistry()
	s, ok := r.Get(calendar.Ethiopian)
	require.True(t, ok)
	assert.Equal(t, 13, s.YearMonths)

	data := []byte(`calendars:
  - calendar: partial
    months: [m1, m2, m3, m4, m5, m6, m7, m8, m9, m10, m11, m12]
    year_months: 14
`)
	require.NoError(t, r.Load(data))
	p, ok := r.Get("partial")
	require.True(t, ok)
	assert.Equal(t, 14, p.YearLength())
}
