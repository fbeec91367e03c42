/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: verifier.go
Description: CalendarVerifier drives a localized date widget through a Widget adapter and checks
it against independently computed values: month names must cycle in calendar order from the
current month, and a date reached by stepping the day control must be echoed in Gregorian form
and shown on the form summary in both renderings.
*/

package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/kleascm/calverify/pkg/calendar"
	"github.com/kleascm/calverify/pkg/widget"
	"github.com/sirupsen/logrus"
)

// Options configures a CalendarVerifier. Zero values select the app defaults.
type Options struct {
	Controls widget.Controls
	Nav      widget.NavConfig
	Clock    calendar.Clock
	Logger   *logrus.Logger

	// OnStep, when set, is told about every completed scenario step
	OnStep func(caseName, step string, fields map[string]interface{})
}

// CalendarVerifier runs verification scenarios against one Widget
type CalendarVerifier struct {
	w        widget.Widget
	nav      *widget.Navigator
	controls widget.Controls
	clock    calendar.Clock
	logger   *logrus.Logger
	onStep   func(caseName, step string, fields map[string]interface{})
	current  string
}

// New creates a verifier for w
func New(w widget.Widget, opts Options) *CalendarVerifier {
	if opts.Controls == (widget.Controls{}) {
		opts.Controls = widget.DefaultControls()
	}
	if opts.Nav == (widget.NavConfig{}) {
		opts.Nav = widget.DefaultNavConfig()
	}
	if opts.Clock == nil {
		opts.Clock = calendar.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &CalendarVerifier{
		w:        w,
		nav:      widget.NewNavigator(w, opts.Nav, opts.Logger),
		controls: opts.Controls,
		clock:    opts.Clock,
		logger:   opts.Logger,
		onStep:   opts.OnStep,
	}
}

func (v *CalendarVerifier) step(name string, fields map[string]interface{}) {
	if v.onStep != nil {
		v.onStep(v.current, name, fields)
	}
}

// Navigator exposes the form navigator bound to the verifier's widget
func (v *CalendarVerifier) Navigator() *widget.Navigator { return v.nav }

// MonthRotation reads the displayed month and returns the order the month names must appear in
// when the next-month control is pressed from here.
func (v *CalendarVerifier) MonthRotation(ctx context.Context, months calendar.LocalizedMonthSet) ([]string, error) {
	current, err := v.w.ReadText(ctx, v.controls.MonthText)
	if err != nil {
		return nil, fmt.Errorf("read month: %w", err)
	}
	return calendar.RotateMonths(months, current)
}

// CheckMonthRotation asserts each rotated month is shown in turn, pressing next-month after each.
// When the list covers the calendar's whole year a full cycle leaves the widget on the month it
// started at.
func (v *CalendarVerifier) CheckMonthRotation(ctx context.Context, months calendar.LocalizedMonthSet) ([]string, error) {
	rotated, err := v.MonthRotation(ctx, months)
	if err != nil {
		return nil, err
	}
	for i, name := range rotated {
		if err := v.expectPresent(ctx, fmt.Sprintf("month %d of rotation", i+1), widget.WithText(name)); err != nil {
			return rotated, err
		}
		if err := v.w.Click(ctx, widget.ByID(v.controls.MonthUp)); err != nil {
			return rotated, fmt.Errorf("next month: %w", err)
		}
	}
	v.logger.WithFields(logrus.Fields{
		"calendar": months.Calendar,
		"start":    rotated[0],
	}).Debug("Month rotation verified")
	return rotated, nil
}

// ShiftYear presses the year controls |n| times, down for negative n
func (v *CalendarVerifier) ShiftYear(ctx context.Context, n int) error {
	return v.press(ctx, v.controls.YearUp, v.controls.YearDown, n)
}

// StepDay presses the day controls |offset| times (up for positive, down for negative, nothing
// for zero) and returns the selected date label "{day} {month} {year}" with an unpadded day.
func (v *CalendarVerifier) StepDay(ctx context.Context, offset int) (string, error) {
	if err := v.press(ctx, v.controls.DayUp, v.controls.DayDown, offset); err != nil {
		return "", err
	}
	day, err := v.w.ReadText(ctx, v.controls.DayText)
	if err != nil {
		return "", fmt.Errorf("read day: %w", err)
	}
	month, err := v.w.ReadText(ctx, v.controls.MonthText)
	if err != nil {
		return "", fmt.Errorf("read month: %w", err)
	}
	year, err := v.w.ReadText(ctx, v.controls.YearText)
	if err != nil {
		return "", fmt.Errorf("read year: %w", err)
	}
	return calendar.DayLabel(day, month, year)
}

func (v *CalendarVerifier) press(ctx context.Context, up, down string, n int) error {
	id := up
	if n < 0 {
		id = down
		n = -n
	}
	for i := 0; i < n; i++ {
		if err := v.w.Click(ctx, widget.ByID(id)); err != nil {
			return fmt.Errorf("press %s (%d/%d): %w", id, i+1, n, err)
		}
	}
	return nil
}

// GregorianEcho reads the widget's Gregorian echo and returns it as yyyy-MM-dd
func (v *CalendarVerifier) GregorianEcho(ctx context.Context) (string, error) {
	text, err := v.w.ReadText(ctx, v.controls.GregorianEcho)
	if err != nil {
		return "", fmt.Errorf("read gregorian echo: %w", err)
	}
	return calendar.ParseAndReformat(widget.TrimEcho(text), calendar.GregorianEchoPattern, calendar.ISOPattern)
}

// VerifyUniversal runs the universal (localized calendar) widget scenario
func (v *CalendarVerifier) VerifyUniversal(ctx context.Context, c Case) (*CaseResult, error) {
	res := &CaseResult{Name: c.Name, Kind: KindUniversal, Started: time.Now()}
	defer func() { res.Duration = time.Since(res.Started) }()
	v.current = c.Name

	if err := c.Months.Validate(); err != nil {
		return res, err
	}
	if err := v.nav.OpenModule(ctx, c.Module); err != nil {
		return res, err
	}
	if c.Intro != "" {
		if err := v.expectPresent(ctx, "form intro", widget.WithSubstring(c.Intro)); err != nil {
			return res, err
		}
	}
	for i := 0; i < 2; i++ {
		if err := v.nav.NextPage(ctx); err != nil {
			return res, err
		}
	}

	rotated, err := v.CheckMonthRotation(ctx, c.Months)
	res.Rotation = rotated
	if err != nil {
		return res, err
	}
	v.step("month rotation", map[string]interface{}{"calendar": c.Months.Calendar, "months": len(rotated)})
	if err := v.ShiftYear(ctx, c.YearShift); err != nil {
		return res, err
	}
	v.step("year shift", map[string]interface{}{"presses": c.YearShift})

	label, err := v.StepDay(ctx, c.Offset)
	if err != nil {
		return res, err
	}
	res.Label = label
	v.step("day step", map[string]interface{}{"offset": c.Offset, "label": label})

	gregorian, err := v.GregorianEcho(ctx)
	if err != nil {
		return res, err
	}
	res.Gregorian = gregorian
	v.step("gregorian echo", map[string]interface{}{"date": gregorian})

	// A rotation through a whole calendar year advances one year; when YearShift undoes it the
	// widget must land on today + offset. Lists that skip months leave the widget elsewhere.
	if c.Months.FullYear() && 1+c.YearShift == 0 {
		_, want := calendar.ReferenceFromClock(v.clock, c.Offset)
		if gregorian != want {
			return res, &AssertionError{Step: "gregorian echo", Expected: want, Actual: gregorian}
		}
	}

	v.logger.WithFields(logrus.Fields{
		"case":      c.Name,
		"label":     label,
		"gregorian": gregorian,
	}).Info("Date selected")

	if err := v.nav.NextPage(ctx); err != nil {
		return res, err
	}
	if err := v.expectPresent(ctx, "summary gregorian date", widget.WithSubstring(gregorian)); err != nil {
		return res, err
	}
	if err := v.expectPresent(ctx, "summary selected date", widget.WithSubstring(label)); err != nil {
		return res, err
	}
	v.step("summary", map[string]interface{}{"label": label, "date": gregorian})
	if err := v.nav.SubmitForm(ctx); err != nil {
		return res, err
	}
	v.step("form submitted", nil)
	res.Passed = true
	return res, nil
}

// VerifyStandard runs the Gregorian date picker scenario. The picker is set to today + offset
// while the screen is in landscape, then each summary rendering of that date must be shown.
func (v *CalendarVerifier) VerifyStandard(ctx context.Context, c Case) (*CaseResult, error) {
	res := &CaseResult{Name: c.Name, Kind: KindStandard, Started: time.Now()}
	defer func() { res.Duration = time.Since(res.Started) }()
	v.current = c.Name

	picker, ok := v.w.(widget.DatePicker)
	if !ok {
		return res, fmt.Errorf("set date: %w", widget.ErrUnsupported)
	}
	rotator, _ := v.w.(widget.Rotator)

	if err := v.nav.OpenModule(ctx, c.Module); err != nil {
		return res, err
	}
	if rotator != nil {
		if err := rotator.RotateLeft(ctx); err != nil {
			return res, fmt.Errorf("rotate left: %w", err)
		}
	} else {
		v.logger.Debug("Adapter cannot rotate, staying in portrait")
	}

	ref, iso := calendar.ReferenceFromClock(v.clock, c.Offset)
	res.Gregorian = iso
	if err := picker.SetDate(ctx, ref.Year(), int(ref.Month()), ref.Day()); err != nil {
		return res, fmt.Errorf("set date: %w", err)
	}
	v.step("set date", map[string]interface{}{"date": iso})

	if rotator != nil {
		if err := rotator.RotatePortrait(ctx); err != nil {
			return res, fmt.Errorf("rotate portrait: %w", err)
		}
	}
	if err := v.nav.NextPage(ctx); err != nil {
		return res, err
	}

	res.Formats = calendar.StandardFormats(ref)
	for _, f := range res.Formats {
		if err := v.expectPresent(ctx, "summary date format", widget.WithSubstring(f)); err != nil {
			return res, err
		}
	}
	v.step("summary", map[string]interface{}{"formats": len(res.Formats)})
	if err := v.nav.SubmitForm(ctx); err != nil {
		return res, err
	}
	v.step("form submitted", nil)
	res.Passed = true
	return res, nil
}

// Verify dispatches c to its scenario
func (v *CalendarVerifier) Verify(ctx context.Context, c Case) (*CaseResult, error) {
	switch c.Kind {
	case KindStandard:
		return v.VerifyStandard(ctx, c)
	case KindUniversal, "":
		return v.VerifyUniversal(ctx, c)
	default:
		return &CaseResult{Name: c.Name, Kind: c.Kind, Started: time.Now()}, fmt.Errorf("unknown case kind %q", c.Kind)
	}
}

func (v *CalendarVerifier) expectPresent(ctx context.Context, step string, m widget.Matcher) error {
	ok, err := v.w.IsPresent(ctx, m)
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	if !ok {
		expected := m.Text
		if expected == "" {
			expected = m.Substring
		}
		return &AssertionError{Step: step, Expected: expected}
	}
	return nil
}
