/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: uiautomator.go
Description: UIAutomatorWidget adapts an Android device to the widget capability set. Each query
dumps the view hierarchy, selects nodes with goquery and taps the centre of a node's bounds to
click it. Queries poll until the node appears or the wait budget runs out.
*/

package mobile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kleascm/calverify/pkg/widget"
	"github.com/sirupsen/logrus"
)

var boundsRegex = regexp.MustCompile(`^\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]$`)

// Node is one element of a UIAutomator hierarchy dump
type Node struct {
	ResourceID string
	Text       string
	Class      string
	X1, Y1     int
	X2, Y2     int
}

// ShortID strips the "package:id/" prefix from the resource ID
func (n Node) ShortID() string {
	if i := strings.Index(n.ResourceID, ":id/"); i >= 0 {
		return n.ResourceID[i+len(":id/"):]
	}
	return n.ResourceID
}

// Center returns the tap point of the node
func (n Node) Center() (int, int) {
	return (n.X1 + n.X2) / 2, (n.Y1 + n.Y2) / 2
}

// ParseHierarchy extracts every node of a UIAutomator XML dump in document order
func ParseHierarchy(data []byte) ([]Node, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse hierarchy: %w", err)
	}
	var nodes []Node
	doc.Find("node").Each(func(_ int, s *goquery.Selection) {
		n := Node{
			ResourceID: s.AttrOr("resource-id", ""),
			Text:       s.AttrOr("text", ""),
			Class:      s.AttrOr("class", ""),
		}
		if m := boundsRegex.FindStringSubmatch(s.AttrOr("bounds", "")); len(m) == 5 {
			n.X1, _ = strconv.Atoi(m[1])
			n.Y1, _ = strconv.Atoi(m[2])
			n.X2, _ = strconv.Atoi(m[3])
			n.Y2, _ = strconv.Atoi(m[4])
		}
		nodes = append(nodes, n)
	})
	return nodes, nil
}

// UIAutomatorWidget implements widget.Widget, widget.DatePicker and widget.Rotator
type UIAutomatorWidget struct {
	device DeviceController
	logger *logrus.Logger

	// Wait bounds how long a query polls for its node; Poll is the delay between dumps
	Wait time.Duration
	Poll time.Duration
	// PickerOrder names the spinner fields of the platform date picker from left to right
	PickerOrder []string
}

// NewUIAutomatorWidget wraps a device controller
func NewUIAutomatorWidget(device DeviceController, logger *logrus.Logger) *UIAutomatorWidget {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UIAutomatorWidget{
		device:      device,
		logger:      logger,
		Wait:        5 * time.Second,
		Poll:        250 * time.Millisecond,
		PickerOrder: []string{"month", "day", "year"},
	}
}

func (u *UIAutomatorWidget) snapshot(ctx context.Context) ([]Node, error) {
	data, err := u.device.DumpHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return ParseHierarchy(data)
}

func selectNode(nodes []Node, m widget.Matcher) (Node, bool) {
	n := 0
	for _, node := range nodes {
		if m.Matches(node.ShortID(), node.Text) {
			if n == m.Index {
				return node, true
			}
			n++
		}
	}
	return Node{}, false
}

// find polls the hierarchy until m matches or the wait budget is spent
func (u *UIAutomatorWidget) find(ctx context.Context, m widget.Matcher) (Node, error) {
	deadline := time.Now().Add(u.Wait)
	for {
		nodes, err := u.snapshot(ctx)
		if err != nil {
			return Node{}, err
		}
		if node, ok := selectNode(nodes, m); ok {
			return node, nil
		}
		if time.Now().After(deadline) {
			return Node{}, fmt.Errorf("%s: %w", m, widget.ErrNotFound)
		}
		select {
		case <-ctx.Done():
			return Node{}, ctx.Err()
		case <-time.After(u.Poll):
		}
	}
}

func (u *UIAutomatorWidget) ReadText(ctx context.Context, id string) (string, error) {
	node, err := u.find(ctx, widget.ByID(id))
	if err != nil {
		return "", err
	}
	return node.Text, nil
}

func (u *UIAutomatorWidget) Click(ctx context.Context, m widget.Matcher) error {
	node, err := u.find(ctx, m)
	if err != nil {
		return err
	}
	x, y := node.Center()
	u.logger.WithFields(logrus.Fields{"matcher": m.String(), "x": x, "y": y}).Debug("Tap")
	return u.device.Tap(ctx, x, y)
}

func (u *UIAutomatorWidget) IsPresent(ctx context.Context, m widget.Matcher) (bool, error) {
	_, err := u.find(ctx, m)
	if err == nil {
		return true, nil
	}
	if ctx.Err() == nil && errors.Is(err, widget.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// SetDate types year, month and day into the spinner fields of the platform date picker
func (u *UIAutomatorWidget) SetDate(ctx context.Context, year, month, day int) error {
	nodes, err := u.snapshot(ctx)
	if err != nil {
		return err
	}
	var fields []Node
	for _, n := range nodes {
		if n.ResourceID == "android:id/numberpicker_input" {
			fields = append(fields, n)
		}
	}
	if len(fields) != len(u.PickerOrder) {
		return fmt.Errorf("date picker: found %d spinner fields, want %d: %w", len(fields), len(u.PickerOrder), widget.ErrUnsupported)
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].X1 < fields[j].X1 })

	values := map[string]string{
		"year":  strconv.Itoa(year),
		"month": time.Month(month).String()[:3],
		"day":   strconv.Itoa(day),
	}
	for i, name := range u.PickerOrder {
		value, ok := values[name]
		if !ok {
			return fmt.Errorf("date picker: unknown field %q", name)
		}
		if err := u.replaceText(ctx, fields[i], value); err != nil {
			return fmt.Errorf("date picker %s: %w", name, err)
		}
	}
	return nil
}

func (u *UIAutomatorWidget) replaceText(ctx context.Context, n Node, value string) error {
	x, y := n.Center()
	if err := u.device.Tap(ctx, x, y); err != nil {
		return err
	}
	if err := u.device.KeyEvent(ctx, "KEYCODE_MOVE_END"); err != nil {
		return err
	}
	for range n.Text {
		if err := u.device.KeyEvent(ctx, "KEYCODE_DEL"); err != nil {
			return err
		}
	}
	if err := u.device.InputText(ctx, value); err != nil {
		return err
	}
	return u.device.KeyEvent(ctx, "KEYCODE_ENTER")
}

func (u *UIAutomatorWidget) RotateLeft(ctx context.Context) error {
	return u.device.SetRotation(ctx, RotationLandscape)
}

func (u *UIAutomatorWidget) RotatePortrait(ctx context.Context) error {
	return u.device.SetRotation(ctx, RotationPortrait)
}
