/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: web_test.go
Description: Tests for DOM parsing, selector building, the DOM widget and failure diagnostics.
*/

package web

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kleascm/calverify/pkg/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formPage = `<html><head><title>Form</title><script>var x = "Magh";</script></head>
<body>
  <div id="widget">
    <span id="monthtxt">Magh</span>
    <span id="daytxt"> 05 </span>
    <button id="monthupbtn">+</button>
  </div>
  <div class="rows">
    <p>Nepali date widget</p>
    <p>Ethiopian date widget</p>
    <p hidden>Standard date widget</p>
  </div>
  <div style="display: none"><p>Selected date: 10 Magh 2080</p></div>
  <form><input type="date" value="2024-04-17"><button>Next</button></form>
</body></html>`

type fakePage struct {
	html        string
	clicked     []string
	values      map[string]string
	landscape   []bool
	domRequests int
}

func (p *fakePage) DOM(context.Context) (string, error) {
	p.domRequests++
	return p.html, nil
}

func (p *fakePage) ClickSelector(_ context.Context, selector string) error {
	p.clicked = append(p.clicked, selector)
	return nil
}

func (p *fakePage) SetValue(_ context.Context, selector, value string) error {
	if p.values == nil {
		p.values = map[string]string{}
	}
	p.values[selector] = value
	return nil
}

func (p *fakePage) SetOrientation(_ context.Context, landscape bool) error {
	p.landscape = append(p.landscape, landscape)
	return nil
}

func TestParseDOM(t *testing.T) {
	elems, err := ParseDOM(formPage)
	require.NoError(t, err)

	var texts []string
	for _, e := range elems {
		if e.Text != "" {
			texts = append(texts, e.Text)
		}
	}
	assert.Equal(t, []string{"Magh", "05", "+", "Nepali date widget", "Ethiopian date widget", "2024-04-17", "Next"}, texts)
}

func TestCSSPath(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(formPage))
	require.NoError(t, err)

	assert.Equal(t, `[id="monthupbtn"]`, CSSPath(doc.Find("#monthupbtn")))
	assert.Equal(t, "html > body:nth-child(2) > div:nth-child(2) > p:nth-child(2)", CSSPath(doc.Find(".rows p").Eq(1)))

	// the selector addresses the same element
	sel := CSSPath(doc.Find("form button"))
	assert.Equal(t, "Next", doc.Find(sel).Text())
}

func TestDOMWidgetQueries(t *testing.T) {
	ctx := context.Background()
	page := &fakePage{html: formPage}
	w := NewDOMWidget(page, nil)
	w.Wait = 0

	text, err := w.ReadText(ctx, "daytxt")
	require.NoError(t, err)
	assert.Equal(t, "05", text)

	require.NoError(t, w.Click(ctx, widget.ByID("monthupbtn")))
	require.NoError(t, w.Click(ctx, widget.WithText("Next")))
	require.NoError(t, w.Click(ctx, widget.WithSubstring("date widget").Nth(1)))
	assert.Equal(t, []string{
		`[id="monthupbtn"]`,
		"html > body:nth-child(2) > form:nth-child(4) > button:nth-child(2)",
		"html > body:nth-child(2) > div:nth-child(2) > p:nth-child(2)",
	}, page.clicked)

	ok, err := w.IsPresent(ctx, widget.WithText("Magh"))
	require.NoError(t, err)
	assert.True(t, ok)

	for _, m := range []widget.Matcher{widget.WithText("Standard date widget"), widget.WithSubstring("Selected date")} {
		ok, err = w.IsPresent(ctx, m)
		require.NoError(t, err)
		assert.False(t, ok, m.String())
	}

	_, err = w.ReadText(ctx, "yeartxt")
	assert.ErrorIs(t, err, widget.ErrNotFound)
}

// livePage also answers live field values, like a real browser tab
type livePage struct {
	*fakePage
	live  map[string]string
	reads []string
}

func (p *livePage) Value(_ context.Context, selector string) (string, error) {
	p.reads = append(p.reads, selector)
	return p.live[selector], nil
}

func TestDOMWidgetReadsLiveFieldValue(t *testing.T) {
	const doc = `<html><body><input id="yeartxt" value="2080"><span id="daytxt">05</span></body></html>`
	ctx := context.Background()

	w := NewDOMWidget(&fakePage{html: doc}, nil)
	w.Wait = 0
	text, err := w.ReadText(ctx, "yeartxt")
	require.NoError(t, err)
	assert.Equal(t, "2080", text)

	page := &livePage{fakePage: &fakePage{html: doc}, live: map[string]string{`[id="yeartxt"]`: "2081"}}
	w = NewDOMWidget(page, nil)
	w.Wait = 0
	text, err = w.ReadText(ctx, "yeartxt")
	require.NoError(t, err)
	assert.Equal(t, "2081", text)

	// plain elements keep their snapshot text
	text, err = w.ReadText(ctx, "daytxt")
	require.NoError(t, err)
	assert.Equal(t, "05", text)
	assert.Equal(t, []string{`[id="yeartxt"]`}, page.reads)
}

func TestDOMWidgetPolls(t *testing.T) {
	page := &fakePage{html: formPage}
	w := NewDOMWidget(page, nil)
	w.Wait = 25 * time.Millisecond
	w.Poll = 5 * time.Millisecond

	ok, err := w.IsPresent(context.Background(), widget.WithText("never"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, page.domRequests, 1)
}

func TestDOMWidgetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewDOMWidget(&fakePage{html: formPage}, nil)

	_, err := w.IsPresent(ctx, widget.WithText("never"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDOMWidgetDateAndRotation(t *testing.T) {
	ctx := context.Background()
	page := &fakePage{html: formPage}
	w := NewDOMWidget(page, nil)

	require.NoError(t, w.RotateLeft(ctx))
	require.NoError(t, w.SetDate(ctx, 2024, 2, 4))
	require.NoError(t, w.RotatePortrait(ctx))

	assert.Equal(t, "2024-02-04", page.values[`input[type="date"]`])
	assert.Equal(t, []bool{true, false}, page.landscape)
}

func TestDiagnose(t *testing.T) {
	findings := Diagnose(
		[]string{
			"[console.log] loaded",
			"[exception] Uncaught TypeError: x is undefined",
			"[console.error] failed to save",
			"[console.warning] deprecated",
		},
		[]string{
			"[RES] 200 https://example.org/form",
			"[RES] 403 https://example.org/submit",
			"[RES] 404 https://example.org/favicon.ico",
			"[RES] 502 https://example.org/sync",
			"[ERR] net::ERR_FAILED 1000.1",
		},
	)
	assert.Equal(t, []string{
		"[HIGH] JS error: [exception] Uncaught TypeError: x is undefined",
		"[MEDIUM] Console error: [console.error] failed to save",
		"[INFO] Console warning: [console.warning] deprecated",
		"[MEDIUM] HTTP auth error: [RES] 403 https://example.org/submit",
		"[INFO] HTTP client error: [RES] 404 https://example.org/favicon.ico",
		"[HIGH] Server error: [RES] 502 https://example.org/sync",
		"[MEDIUM] Network error: [ERR] net::ERR_FAILED 1000.1",
	}, findings)
}
