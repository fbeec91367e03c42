/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: chromedp_controller.go
Description: ChromeDPController implements Page with headless Chrome. Collects console and network
events while the form runs so they can be attached to failed cases, and emulates a mobile viewport
whose orientation can be switched.
*/

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ChromeDPController implements Page using chromedp
type ChromeDPController struct {
	target  Target
	ctx     context.Context
	cancel  context.CancelFunc
	alloc   context.CancelFunc
	logs    []string
	netlogs []string
	logMu   sync.Mutex
	netMu   sync.Mutex
}

// NewChromeDPController creates a controller for target; call Start before use
func NewChromeDPController(target Target) *ChromeDPController {
	return &ChromeDPController{target: target}
}

// Start launches the browser, attaches event listeners and opens the target URL
func (c *ChromeDPController) Start(ctx context.Context) error {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !c.target.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	c.ctx = browserCtx
	c.cancel = browserCancel
	c.alloc = allocCancel
	c.logs = []string{}
	c.netlogs = []string{}

	chromedp.ListenTarget(c.ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventResponseReceived:
			c.netMu.Lock()
			c.netlogs = append(c.netlogs, fmt.Sprintf("[RES] %d %s", e.Response.Status, e.Response.URL))
			c.netMu.Unlock()
		case *network.EventLoadingFailed:
			c.netMu.Lock()
			c.netlogs = append(c.netlogs, fmt.Sprintf("[ERR] %s %s", e.ErrorText, e.RequestID.String()))
			c.netMu.Unlock()
		case *runtime.EventConsoleAPICalled:
			c.logMu.Lock()
			for _, arg := range e.Args {
				c.logs = append(c.logs, fmt.Sprintf("[console.%s] %s", e.Type, arg.Value))
			}
			c.logMu.Unlock()
		case *runtime.EventExceptionThrown:
			c.logMu.Lock()
			c.logs = append(c.logs, fmt.Sprintf("[exception] %s", e.ExceptionDetails.Error()))
			c.logMu.Unlock()
		}
	})

	if err := chromedp.Run(c.ctx, network.Enable(), runtime.Enable()); err != nil {
		return err
	}
	if err := c.SetOrientation(c.ctx, false); err != nil {
		return err
	}
	if c.target.URL == "" {
		return nil
	}
	return chromedp.Run(c.ctx, chromedp.Navigate(c.target.URL))
}

// Stop closes the browser
func (c *ChromeDPController) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.alloc != nil {
		c.alloc()
	}
	return nil
}

// run executes actions on the browser tab, bounded by ctx as well as the browser lifetime
func (c *ChromeDPController) run(ctx context.Context, actions ...chromedp.Action) error {
	if c.ctx == nil {
		return fmt.Errorf("browser not started")
	}
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (c *ChromeDPController) DOM(ctx context.Context) (string, error) {
	var dom string
	err := c.run(ctx, chromedp.OuterHTML("html", &dom, chromedp.ByQuery))
	return dom, err
}

// Value reads the live value property of the form field matched by selector
func (c *ChromeDPController) Value(ctx context.Context, selector string) (string, error) {
	var v string
	err := c.run(ctx, chromedp.Value(selector, &v, chromedp.ByQuery))
	return v, err
}

func (c *ChromeDPController) ClickSelector(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (c *ChromeDPController) SetValue(ctx context.Context, selector, value string) error {
	sel, err := json.Marshal(selector)
	if err != nil {
		return err
	}
	js := fmt.Sprintf(`document.querySelector(%s).dispatchEvent(new Event("change", {bubbles: true}))`, sel)
	return c.run(ctx,
		chromedp.SetValue(selector, value, chromedp.ByQuery),
		chromedp.Evaluate(js, nil),
	)
}

func (c *ChromeDPController) SetOrientation(ctx context.Context, landscape bool) error {
	w, h := c.target.Width, c.target.Height
	if w == 0 || h == 0 {
		w, h = 412, 915
	}
	orientation := &emulation.ScreenOrientation{Type: emulation.OrientationTypePortraitPrimary, Angle: 0}
	if landscape {
		w, h = h, w
		orientation = &emulation.ScreenOrientation{Type: emulation.OrientationTypeLandscapePrimary, Angle: 90}
	}
	return c.run(ctx, emulation.SetDeviceMetricsOverride(w, h, 1, true).WithScreenOrientation(orientation))
}

// Screenshot saves a screenshot to the given path
func (c *ChromeDPController) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := c.run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// GetConsoleLogs returns collected JS console logs
func (c *ChromeDPController) GetConsoleLogs() []string {
	c.logMu.Lock()
	defer c.logMu.Unlock()
	logs := make([]string, len(c.logs))
	copy(logs, c.logs)
	return logs
}

// GetNetworkLogs returns collected network logs
func (c *ChromeDPController) GetNetworkLogs() []string {
	c.netMu.Lock()
	defer c.netMu.Unlock()
	netlogs := make([]string, len(c.netlogs))
	copy(netlogs, c.netlogs)
	return netlogs
}
