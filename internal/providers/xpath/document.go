package xpath

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

var ErrEmptyDocument = errors.New("empty document")

type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Parse decodes body to UTF-8 (honouring <meta charset>) and builds the DOM.
// baseURL is used to resolve relative and protocol-relative links.
func Parse(body []byte, baseURL string) (*Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyDocument
	}

	r, err := charset.NewReader(bytes.NewReader(body), "")
	if err != nil {
		return nil, fmt.Errorf("charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, _ := url.Parse(baseURL)

	return &Document{doc: doc, base: base}, nil
}
