/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dom.go
Description: DOM snapshot helpers. Parses page HTML with goquery into the flat element list the
widget matches against and builds CSS selectors that address one element exactly.
*/

package web

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element is a visible element of a DOM snapshot
type Element struct {
	ID       string
	Tag      string
	Text     string
	Selector string
	// Field is set for input, textarea and select elements
	Field bool
}

var skippedTags = map[string]bool{"head": true, "script": true, "style": true, "template": true}

// ParseDOM returns the visible elements of doc in document order
func ParseDOM(doc string) ([]Element, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse dom: %w", err)
	}
	var out []Element
	d.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if hidden(s) {
			return
		}
		out = append(out, Element{
			ID:       s.AttrOr("id", ""),
			Tag:      goquery.NodeName(s),
			Text:     elementText(s),
			Selector: CSSPath(s),
			Field:    isField(s),
		})
	})
	return out, nil
}

func hidden(s *goquery.Selection) bool {
	for n := s; n.Length() > 0; n = n.Parent() {
		if skippedTags[goquery.NodeName(n)] {
			return true
		}
		if _, ok := n.Attr("hidden"); ok {
			return true
		}
		if strings.Contains(strings.ReplaceAll(n.AttrOr("style", ""), " ", ""), "display:none") {
			return true
		}
	}
	return false
}

func isField(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

// elementText is the value attribute of form fields and the direct text of anything else
func elementText(s *goquery.Selection) string {
	if isField(s) {
		return s.AttrOr("value", "")
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CSSPath builds a selector for the first element of s, anchored at the nearest ancestor with an id
func CSSPath(s *goquery.Selection) string {
	var parts []string
	for n := s.First(); n.Length() > 0; n = n.Parent() {
		name := goquery.NodeName(n)
		if name == "html" {
			parts = append(parts, "html")
			break
		}
		if id, ok := n.Attr("id"); ok && id != "" {
			parts = append(parts, fmt.Sprintf("[id=%q]", id))
			break
		}
		parts = append(parts, fmt.Sprintf("%s:nth-child(%d)", name, childIndex(n)))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// childIndex is the 1-based position of s among its element siblings
func childIndex(s *goquery.Selection) int {
	return s.PrevAll().Length() + 1
}
