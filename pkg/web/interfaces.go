/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Core interfaces for driving the web form of the app under test. Page is the small set
of browser operations the DOM widget needs; Target describes where the form lives and how the
browser is launched.
*/

package web

import (
	"context"
)

// Target describes the web form under verification
type Target struct {
	URL      string `mapstructure:"url"`
	Headless bool   `mapstructure:"headless"`
	Width    int64  `mapstructure:"width"`
	Height   int64  `mapstructure:"height"`
}

// DefaultTarget returns a headless phone-sized viewport
func DefaultTarget(url string) Target {
	return Target{URL: url, Headless: true, Width: 412, Height: 915}
}

// Page abstracts the browser tab the widget runs in
type Page interface {
	// DOM returns the current document as HTML
	DOM(ctx context.Context) (string, error)
	// ClickSelector clicks the element matched by a CSS selector
	ClickSelector(ctx context.Context, selector string) error
	// SetValue assigns value to the input matched by selector and fires its change event
	SetValue(ctx context.Context, selector, value string) error
	// SetOrientation switches the emulated screen between landscape and portrait
	SetOrientation(ctx context.Context, landscape bool) error
}

// ValueReader is implemented by pages that can read the current value of a form field.
// The serialized DOM only carries the value attribute, which typing does not update.
type ValueReader interface {
	Value(ctx context.Context, selector string) (string, error)
}
