/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fake.go
Description: In-memory stand-in for the data-collection app used by tests. Simulates the home
screen, module list, form pages, a universal date widget with a Gregorian echo, a Gregorian date
picker and the submission confirmation.
*/

package widgettest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/calverify/pkg/calendar"
	"github.com/kleascm/calverify/pkg/widget"
)

// DaysPerMonth is the fixed month length of the simulated local calendar
const DaysPerMonth = 31

// View is one visible element on the simulated screen
type View struct {
	ID   string
	Text string
}

// Fake implements widget.Widget, widget.DatePicker and widget.Rotator
type Fake struct {
	Controls widget.Controls
	Nav      widget.NavConfig

	// Modules holds the intro text of each form, indexed by module position
	Modules []string
	// Months is the localized month list the widget cycles through; ModuleMonths overrides it
	// per module when set
	Months       []string
	ModuleMonths map[int][]string
	// WidgetPage is the page index the date widget is on
	WidgetPage int

	// Local date shown by the widget; Anchor is its Gregorian equivalent at construction
	Day, Month, Year int
	Anchor           time.Time

	// Picker holds the Gregorian date picker value for standard widget forms
	Picker time.Time

	// Mutations for negative tests
	SkipMonthOnRotation string
	EchoOverride        string
	DropConfirmation    bool

	Clicks    []string
	Rotations []string
	LoggedOut bool

	screen   string // home, modules, form, sent
	module   int
	page     int
	localOff int
	start    [3]int
}

// NewFake returns a fake whose widget opens on day/month(index)/year, which maps to anchor in
// the Gregorian calendar. Every form opens on that date again.
func NewFake(months []string, day, month, year int, anchor time.Time) *Fake {
	return &Fake{
		Controls: widget.DefaultControls(),
		Nav:      widget.DefaultNavConfig(),
		Modules: []string{
			"This form will test the Nepal date widget.",
			"This form will test the Ethiopian date widget.",
			"Text widgets",
			"Select widgets",
			"This form will test the standard date widget.",
		},
		Months:     months,
		WidgetPage: 2,
		Day:        day,
		Month:      month,
		Year:       year,
		Anchor:     anchor,
		screen:     "home",
		start:      [3]int{day, month, year},
	}
}

func (f *Fake) ordinal() int {
	return (f.Year*len(f.Months)+f.Month)*DaysPerMonth + f.Day - 1
}

func (f *Fake) setOrdinal(o int) {
	f.Day = o%DaysPerMonth + 1
	months := o / DaysPerMonth
	f.Month = months % len(f.Months)
	f.Year = months / len(f.Months)
}

// Gregorian returns the Gregorian date the widget currently represents
func (f *Fake) Gregorian() time.Time {
	return f.Anchor.AddDate(0, 0, f.localOff)
}

func (f *Fake) shiftDays(n int) {
	f.setOrdinal(f.ordinal() + n)
	f.localOff += n
}

// Label is the "{day} {month} {year}" text the summary shows
func (f *Fake) Label() string {
	return fmt.Sprintf("%d %s %d", f.Day, f.Months[f.Month], f.Year)
}

func (f *Fake) views() []View {
	switch f.screen {
	case "home":
		return []View{{ID: "home_start", Text: f.Nav.StartText}, {ID: "logout", Text: f.Nav.LogoutText}}
	case "modules":
		var vs []View
		for _, m := range f.Modules {
			vs = append(vs, View{ID: f.Nav.ModuleItem, Text: m})
		}
		return vs
	case "sent":
		vs := []View{{ID: "home_start", Text: f.Nav.StartText}, {ID: "logout", Text: f.Nav.LogoutText}}
		if !f.DropConfirmation {
			vs = append(vs, View{ID: "toast", Text: f.Nav.SentText})
		}
		return vs
	}

	vs := []View{{ID: f.Nav.NextPage, Text: ">"}, {ID: f.Nav.Finish, Text: "Finish"}}
	switch {
	case f.page == 0:
		vs = append(vs, View{ID: "question_text", Text: f.Modules[f.module]})
	case f.page == f.WidgetPage && f.module < 2:
		echo := "(" + f.Gregorian().Format("2 January 2006") + ")"
		if f.EchoOverride != "" {
			echo = f.EchoOverride
		}
		vs = append(vs,
			View{ID: f.Controls.DayText, Text: fmt.Sprintf("%02d", f.Day)},
			View{ID: f.Controls.MonthText, Text: f.Months[f.Month]},
			View{ID: f.Controls.YearText, Text: fmt.Sprintf("%d", f.Year)},
			View{ID: f.Controls.GregorianEcho, Text: echo},
			View{ID: f.Controls.DayUp, Text: "+"},
			View{ID: f.Controls.DayDown, Text: "-"},
			View{ID: f.Controls.MonthUp, Text: "+"},
			View{ID: f.Controls.MonthDown, Text: "-"},
			View{ID: f.Controls.YearUp, Text: "+"},
			View{ID: f.Controls.YearDown, Text: "-"},
		)
		if f.SkipMonthOnRotation != "" {
			// hide the month name from presence checks when it is the skipped one
			for i := range vs {
				if vs[i].Text == f.SkipMonthOnRotation {
					vs[i].Text = "?"
				}
			}
		}
	case f.page > f.WidgetPage && f.module < 2:
		vs = append(vs, View{ID: "summary", Text: fmt.Sprintf("Selected date: %s, Gregorian: %s",
			f.Label(), f.Gregorian().Format("2006-01-02"))})
	case f.page > 0 && f.module >= 2:
		if !f.Picker.IsZero() {
			for i, s := range calendar.StandardFormats(f.Picker) {
				vs = append(vs, View{ID: fmt.Sprintf("summary_%d", i), Text: "Date: " + s})
			}
		}
	}
	return vs
}

func (f *Fake) find(m widget.Matcher) (View, bool) {
	n := 0
	for _, v := range f.views() {
		if m.Matches(v.ID, v.Text) {
			if n == m.Index {
				return v, true
			}
			n++
		}
	}
	return View{}, false
}

// ReadText returns the text of the first view with id
func (f *Fake) ReadText(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := f.find(widget.ByID(id))
	if !ok {
		return "", fmt.Errorf("read %s: %w", id, widget.ErrNotFound)
	}
	return v.Text, nil
}

// IsPresent reports whether a view matching m is visible
func (f *Fake) IsPresent(ctx context.Context, m widget.Matcher) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := f.find(m)
	return ok, nil
}

// Click acts on the view matching m
func (f *Fake) Click(ctx context.Context, m widget.Matcher) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v, ok := f.find(m)
	if !ok {
		return fmt.Errorf("click %s: %w", m, widget.ErrNotFound)
	}
	f.Clicks = append(f.Clicks, v.ID)

	c := f.Controls
	switch {
	case v.Text == f.Nav.StartText:
		f.screen = "modules"
	case v.Text == f.Nav.LogoutText:
		f.LoggedOut = true
		f.screen = "home"
	case v.ID == f.Nav.ModuleItem:
		f.module = m.Index
		if months, ok := f.ModuleMonths[m.Index]; ok {
			f.Months = months
		}
		f.page = 0
		f.Picker = time.Time{}
		f.Day, f.Month, f.Year = f.start[0], f.start[1], f.start[2]
		f.localOff = 0
		f.screen = "form"
	case v.ID == f.Nav.NextPage:
		f.page++
	case v.ID == f.Nav.Finish:
		f.screen = "sent"
	case v.ID == c.DayUp:
		f.shiftDays(1)
	case v.ID == c.DayDown:
		f.shiftDays(-1)
	case v.ID == c.MonthUp:
		f.shiftDays(DaysPerMonth)
	case v.ID == c.MonthDown:
		f.shiftDays(-DaysPerMonth)
	case v.ID == c.YearUp:
		f.shiftDays(DaysPerMonth * len(f.Months))
	case v.ID == c.YearDown:
		f.shiftDays(-DaysPerMonth * len(f.Months))
	}
	return nil
}

// SetDate sets the Gregorian date picker
func (f *Fake) SetDate(ctx context.Context, year, month, day int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Picker = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return nil
}

// RotateLeft records a landscape rotation
func (f *Fake) RotateLeft(ctx context.Context) error {
	f.Rotations = append(f.Rotations, "left")
	return nil
}

// RotatePortrait records a portrait rotation
func (f *Fake) RotatePortrait(ctx context.Context) error {
	f.Rotations = append(f.Rotations, "portrait")
	return nil
}

// CountClicks returns how many clicks hit id
func (f *Fake) CountClicks(id string) int {
	n := 0
	for _, c := range f.Clicks {
		if strings.EqualFold(c, id) {
			n++
		}
	}
	return n
}

// Page returns the current form page
func (f *Fake) Page() int { return f.page }
