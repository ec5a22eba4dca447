// Package feed pulls recent articles from the OPML subscription list.
package feed

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Subscription is one feed from the OPML list.
type Subscription struct {
	Title string
	URL   string
}

type opmlDocument struct {
	Body opmlBody `xml:"body"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Type     string        `xml:"type,attr"`
	Text     string        `xml:"text,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	Outlines []opmlOutline `xml:"outline"`
}

// ParseOPML reads the subscription list, collecting rss outlines at any
// nesting depth (folders group feeds as parent outlines).
func ParseOPML(path string) ([]Subscription, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read opml %s: %w", path, err)
	}

	var doc opmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse opml %s: %w", path, err)
	}

	var subs []Subscription
	var walk func([]opmlOutline)
	walk = func(outlines []opmlOutline) {
		for _, o := range outlines {
			if o.Type == "rss" && o.XMLURL != "" {
				subs = append(subs, Subscription{Title: o.Text, URL: o.XMLURL})
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body.Outlines)

	return subs, nil
}
