/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: months.go
Description: Localized month sets for the calendar systems rendered by the universal date widget.
Month sets are plain configuration data: built-ins are handed out as fresh copies and additional
sets can be loaded from YAML files.
*/

package calendar

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MonthsPerYear is the number of names every LocalizedMonthSet must carry
const MonthsPerYear = 12

// LocalizedMonthSet is the ordered list of month names for one calendar system
type LocalizedMonthSet struct {
	Calendar string   `yaml:"calendar" json:"calendar" mapstructure:"calendar"`
	Months   []string `yaml:"months" json:"months" mapstructure:"months"`

	// YearMonths is the number of months in the calendar's year when the widget list leaves
	// some out; zero means the list is the whole year
	YearMonths int `yaml:"year_months,omitempty" json:"year_months,omitempty" mapstructure:"year_months"`
}

// YearLength is the number of months in one year of the calendar
func (s LocalizedMonthSet) YearLength() int {
	if s.YearMonths > 0 {
		return s.YearMonths
	}
	return len(s.Months)
}

// FullYear reports whether the month list covers every month of the calendar's year, so that
// a full rotation advances the widget by exactly one year
func (s LocalizedMonthSet) FullYear() bool {
	return s.YearLength() == len(s.Months)
}

// Validate checks that the set has exactly twelve distinct, non-empty names.
func (s LocalizedMonthSet) Validate() error {
	if strings.TrimSpace(s.Calendar) == "" {
		return fmt.Errorf("month set: calendar name must not be empty")
	}
	if len(s.Months) != MonthsPerYear {
		return fmt.Errorf("month set %s: expected %d months, got %d", s.Calendar, MonthsPerYear, len(s.Months))
	}
	seen := make(map[string]struct{}, len(s.Months))
	for i, m := range s.Months {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("month set %s: month %d is empty", s.Calendar, i+1)
		}
		if _, dup := seen[m]; dup {
			return fmt.Errorf("month set %s: duplicate month %q", s.Calendar, m)
		}
		seen[m] = struct{}{}
	}
	if s.YearMonths != 0 && s.YearMonths < len(s.Months) {
		return fmt.Errorf("month set %s: year_months %d is less than the %d listed months", s.Calendar, s.YearMonths, len(s.Months))
	}
	return nil
}

// Index returns the position of name in the set, or -1.
func (s LocalizedMonthSet) Index(name string) int {
	for i, m := range s.Months {
		if m == name {
			return i
		}
	}
	return -1
}

// Built-in calendar names
const (
	Nepali    = "nepali"
	Ethiopian = "ethiopian"
	Gregorian = "gregorian"
)

// NepaliMonths returns the Bikram Sambat month names starting at Baishakh
func NepaliMonths() LocalizedMonthSet {
	return LocalizedMonthSet{
		Calendar: Nepali,
		Months: []string{
			"Baishakh", "Jestha", "Ashadh", "Shrawan",
			"Bhadra", "Ashwin", "Kartik", "Mangsir",
			"Poush", "Magh", "Falgun", "Chaitra",
		},
	}
}

// EthiopianMonths returns the Ethiopian month names in the order the widget cycles them.
// The Ethiopian year has thirteen months; the widget list the app ships starts at Säne and
// leaves Ginbot out.
func EthiopianMonths() LocalizedMonthSet {
	return LocalizedMonthSet{
		Calendar: Ethiopian,
		Months: []string{
			"Säne", "Hämle", "Nähäse", "P’agume",
			"Mäskäräm", "T’ïk’ïmt", "Hïdar", "Tahsas",
			"T’ïr", "Yäkatit", "Mägabit", "Miyaziya",
		},
		YearMonths: 13,
	}
}

// GregorianMonths returns the English Gregorian month names
func GregorianMonths() LocalizedMonthSet {
	return LocalizedMonthSet{
		Calendar: Gregorian,
		Months: []string{
			"January", "February", "March", "April",
			"May", "June", "July", "August",
			"September", "October", "November", "December",
		},
	}
}

// Registry holds month sets keyed by calendar name
type Registry struct {
	sets map[string]LocalizedMonthSet
}

// NewRegistry returns a registry pre-populated with the built-in sets
func NewRegistry() *Registry {
	r := &Registry{sets: make(map[string]LocalizedMonthSet)}
	for _, s := range []LocalizedMonthSet{NepaliMonths(), EthiopianMonths(), GregorianMonths()} {
		r.sets[s.Calendar] = s
	}
	return r
}

// Add validates and registers a set, replacing any set with the same calendar name
func (r *Registry) Add(s LocalizedMonthSet) error {
	if err := s.Validate(); err != nil {
		return err
	}
	months := make([]string, len(s.Months))
	copy(months, s.Months)
	r.sets[strings.ToLower(s.Calendar)] = LocalizedMonthSet{Calendar: strings.ToLower(s.Calendar), Months: months, YearMonths: s.YearMonths}
	return nil
}

// Get returns a copy of the named set
func (r *Registry) Get(name string) (LocalizedMonthSet, bool) {
	s, ok := r.sets[strings.ToLower(name)]
	if !ok {
		return LocalizedMonthSet{}, false
	}
	months := make([]string, len(s.Months))
	copy(months, s.Months)
	return LocalizedMonthSet{Calendar: s.Calendar, Months: months, YearMonths: s.YearMonths}, true
}

// Names returns the registered calendar names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// monthFile is the on-disk layout of a month set file
type monthFile struct {
	Calendars []LocalizedMonthSet `yaml:"calendars"`
}

// LoadFile reads month sets from a YAML file into the registry
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read month sets: %w", err)
	}
	return r.Load(data)
}

// Load parses YAML month sets into the registry
func (r *Registry) Load(data []byte) error {
	var f monthFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse month sets: %w", err)
	}
	for _, s := range f.Calendars {
		if err := r.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Marshal renders every registered set as YAML in the LoadFile layout
func (r *Registry) Marshal() ([]byte, error) {
	var f monthFile
	for _, name := range r.Names() {
		s, _ := r.Get(name)
		f.Calendars = append(f.Calendars, s)
	}
	return yaml.Marshal(&f)
}
