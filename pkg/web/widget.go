/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: widget.go
Description: DOMWidget adapts a browser Page to the widget capability set. Every query snapshots
the DOM and matches elements by id and text; clicks go to the exact element via its CSS path.
*/

package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kleascm/calverify/pkg/widget"
	"github.com/sirupsen/logrus"
)

// DOMWidget implements widget.Widget, widget.DatePicker and widget.Rotator over a Page
type DOMWidget struct {
	page   Page
	logger *logrus.Logger

	Wait time.Duration
	Poll time.Duration
	// DateInput selects the native date input the standard widget renders
	DateInput string
}

// NewDOMWidget wraps page
func NewDOMWidget(page Page, logger *logrus.Logger) *DOMWidget {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DOMWidget{
		page:      page,
		logger:    logger,
		Wait:      5 * time.Second,
		Poll:      200 * time.Millisecond,
		DateInput: `input[type="date"]`,
	}
}

func selectElement(elems []Element, m widget.Matcher) (Element, bool) {
	n := 0
	for _, e := range elems {
		if m.Matches(e.ID, e.Text) {
			if n == m.Index {
				return e, true
			}
			n++
		}
	}
	return Element{}, false
}

func (w *DOMWidget) find(ctx context.Context, m widget.Matcher) (Element, error) {
	deadline := time.Now().Add(w.Wait)
	for {
		doc, err := w.page.DOM(ctx)
		if err != nil {
			return Element{}, err
		}
		elems, err := ParseDOM(doc)
		if err != nil {
			return Element{}, err
		}
		if e, ok := selectElement(elems, m); ok {
			return e, nil
		}
		if time.Now().After(deadline) {
			return Element{}, fmt.Errorf("%s: %w", m, widget.ErrNotFound)
		}
		select {
		case <-ctx.Done():
			return Element{}, ctx.Err()
		case <-time.After(w.Poll):
		}
	}
}

// ReadText returns the text of the element with id. Form fields are read live when the page
// supports it, since the snapshot only holds their initial value.
func (w *DOMWidget) ReadText(ctx context.Context, id string) (string, error) {
	e, err := w.find(ctx, widget.ByID(id))
	if err != nil {
		return "", err
	}
	if vr, ok := w.page.(ValueReader); ok && e.Field {
		v, err := vr.Value(ctx, e.Selector)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", id, err)
		}
		return v, nil
	}
	return e.Text, nil
}

func (w *DOMWidget) Click(ctx context.Context, m widget.Matcher) error {
	e, err := w.find(ctx, m)
	if err != nil {
		return err
	}
	w.logger.WithFields(logrus.Fields{"matcher": m.String(), "selector": e.Selector}).Debug("Click")
	return w.page.ClickSelector(ctx, e.Selector)
}

func (w *DOMWidget) IsPresent(ctx context.Context, m widget.Matcher) (bool, error) {
	_, err := w.find(ctx, m)
	if err == nil {
		return true, nil
	}
	if ctx.Err() == nil && errors.Is(err, widget.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// SetDate writes the date into the native date input as yyyy-mm-dd
func (w *DOMWidget) SetDate(ctx context.Context, year, month, day int) error {
	value := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	return w.page.SetValue(ctx, w.DateInput, value)
}

func (w *DOMWidget) RotateLeft(ctx context.Context) error {
	return w.page.SetOrientation(ctx, true)
}

func (w *DOMWidget) RotatePortrait(ctx context.Context) error {
	return w.page.SetOrientation(ctx, false)
}
