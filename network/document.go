package network

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/vibedom/dom"
)

// Stylesheet is the text of an inline <style> element or a linked
// stylesheet.
type Stylesheet struct {
	URL    string // empty for inline styles
	Text   string
	Inline bool
	Error  error
}

// DocumentLoader loads the stylesheets a document references.
type DocumentLoader struct {
	loader *Loader
}

// NewDocumentLoader creates a new document loader.
func NewDocumentLoader(loader *Loader) *DocumentLoader {
	return &DocumentLoader{loader: loader}
}

// Stylesheets returns the document's <style> contents and
// <link rel="stylesheet"> resources in document order. Failed loads are
// returned with Error set.
func (dl *DocumentLoader) Stylesheets(ctx context.Context, doc *dom.Document) []*Stylesheet {
	var sheets []*Stylesheet
	for _, el := range doc.GetElementsByTagName("*") {
		switch el.LocalName() {
		case "style":
			sheets = append(sheets, &Stylesheet{Text: el.TextContent(), Inline: true})
		case "link":
			if !isStylesheetLink(el) {
				continue
			}
			href := strings.TrimSpace(el.GetAttribute("href"))
			if href == "" {
				continue
			}
			sheets = append(sheets, dl.load(ctx, href))
		}
	}
	return sheets
}

func (dl *DocumentLoader) load(ctx context.Context, href string) *Stylesheet {
	res := dl.loader.LoadStylesheet(ctx, href)
	sheet := &Stylesheet{URL: res.URL}
	if res.Error != nil {
		sheet.Error = res.Error
	} else if !res.IsSuccess() {
		sheet.Error = fmt.Errorf("stylesheet %s: status %d", res.URL, res.StatusCode)
	}
	if sheet.Error != nil {
		dl.loader.logger.Warn("stylesheet load failed", zap.String("url", href), zap.Error(sheet.Error))
		return sheet
	}
	text, err := res.Text()
	if err != nil {
		sheet.Error = err
		return sheet
	}
	sheet.Text = text
	return sheet
}

func isStylesheetLink(el *dom.Element) bool {
	for _, rel := range strings.Fields(strings.ToLower(el.GetAttribute("rel"))) {
		if rel == "stylesheet" {
			return true
		}
	}
	return false
}
