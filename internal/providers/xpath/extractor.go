package xpath

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/brogergvhs/mangagrab/internal/chapters"
	"github.com/brogergvhs/mangagrab/internal/providers"
)

type Kind int

const (
	KindChapters Kind = iota
	KindPages
	KindImages
)

func (k Kind) String() string {
	switch k {
	case KindChapters:
		return "chapters"
	case KindPages:
		return "pages"
	case KindImages:
		return "images"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Extractor struct {
	exprs map[Kind]*xpath.Expr
}

func NewExtractor(rules providers.Rules) (*Extractor, error) {
	rules = rules.WithDefaults()

	e := &Extractor{exprs: map[Kind]*xpath.Expr{}}
	for kind, raw := range map[Kind]string{
		KindChapters: rules.Chapters,
		KindPages:    rules.Pages,
		KindImages:   rules.Images,
	} {
		expr, err := xpath.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("%s rule %q: %w", kind, raw, err)
		}
		e.exprs[kind] = expr
	}

	return e, nil
}

// Chapters lists chapter links in document order, one per distinct URL.
func (e *Extractor) Chapters(d *Document) ([]chapters.Chapter, bool) {
	return extract(d, e.exprs[KindChapters], "href", func(text, u string) chapters.Chapter {
		return chapters.Chapter{DisplayName: text, URL: u}
	})
}

// Pages lists the numbered pages of a chapter. Featured pages are dropped
// after deduplication, so a chapter made only of featured pages yields an
// empty list but still reports true.
func (e *Extractor) Pages(d *Document) ([]chapters.Page, bool) {
	pages, ok := extract(d, e.exprs[KindPages], "value", func(text, u string) chapters.Page {
		return chapters.Page{DisplayName: text, URL: u}
	})
	if !ok {
		return nil, false
	}

	out := make([]chapters.Page, 0, len(pages))
	for _, p := range pages {
		if !p.IsFeatured() {
			out = append(out, p)
		}
	}

	return out, true
}

func (e *Extractor) Images(d *Document) ([]chapters.PageImage, bool) {
	return extract(d, e.exprs[KindImages], "src", func(_, u string) chapters.PageImage {
		return chapters.PageImage{URL: u}
	})
}

func extract[T any](d *Document, expr *xpath.Expr, attr string, build func(text, u string) T) ([]T, bool) {
	if d == nil || expr == nil || len(d.doc.Nodes) == 0 {
		return nil, false
	}

	nodes := htmlquery.QuerySelectorAll(d.doc.Nodes[0], expr)
	if len(nodes) == 0 {
		return nil, false
	}

	seen := newSeenSet(len(nodes))
	out := make([]T, 0, len(nodes))

	d.doc.FindNodes(nodes...).Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr(attr)
		u := normalizeURL(d.base, raw)
		if u == "" || !seen.Add(u) {
			return
		}

		out = append(out, build(strings.TrimSpace(s.Text()), u))
	})

	return out, true
}
