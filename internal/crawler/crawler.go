package crawler

import (
	"context"
	"time"

	"github.com/brogergvhs/mangagrab/internal/chapters"
	"github.com/brogergvhs/mangagrab/internal/providers/xpath"
	"github.com/brogergvhs/mangagrab/internal/ui"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// level is the outcome of resolving one node of the hierarchy. Items is only
// meaningful for StatusOK; Err explains StatusFailed and, for parse errors,
// StatusEmpty.
type level[T any] struct {
	Items  []T
	Status Status
	Err    error
}

type Stats struct {
	Chapters        int
	SkippedChapters int
	Pages           int
	SkippedPages    int
	Units           int
}

type Options struct {
	// Timeout for page fetches; zero uses the fetcher's base timeout.
	Timeout time.Duration
	// Select narrows the chapter list before pages are crawled.
	Select func([]chapters.Chapter) []chapters.Chapter
}

type Crawler struct {
	fetcher   Fetcher
	extractor *xpath.Extractor
	log       *ui.Logger
	opts      Options
	stats     Stats
}

func New(f Fetcher, e *xpath.Extractor, log *ui.Logger, opts Options) *Crawler {
	return &Crawler{
		fetcher:   f,
		extractor: e,
		log:       log,
		opts:      opts,
	}
}

func (c *Crawler) Stats() Stats {
	return c.stats
}

// Crawl walks series → chapters → pages → image and returns one Unit per
// numbered page whose image resolved, chapters first, then pages, in document
// order. It returns false only when the series itself yields no chapters; a
// missing chapter or page drops that branch alone.
func (c *Crawler) Crawl(ctx context.Context, seriesURL string) ([]chapters.Unit, bool) {
	c.stats = Stats{}

	series := resolve(ctx, c, seriesURL, c.extractor.Chapters)
	if series.Status != StatusOK || len(series.Items) == 0 {
		c.log.Errorf("No chapters found at %s (%s): %v\n", seriesURL, series.Status, series.Err)
		return nil, false
	}

	list := series.Items
	if c.opts.Select != nil {
		list = c.opts.Select(list)
	}
	c.stats.Chapters = len(list)
	c.log.Infof("Crawling %d chapters\n", len(list))

	var units []chapters.Unit
	for _, ch := range list {
		if ctx.Err() != nil {
			return nil, false
		}

		units = append(units, c.crawlChapter(ctx, ch)...)
	}

	c.stats.Units = len(units)

	return units, true
}

func (c *Crawler) crawlChapter(ctx context.Context, ch chapters.Chapter) []chapters.Unit {
	pages := resolve(ctx, c, ch.URL, c.extractor.Pages)
	if pages.Status != StatusOK || len(pages.Items) == 0 {
		c.stats.SkippedChapters++
		c.log.Warnf("Skipping chapter %q: page list %s %v\n", ch.DisplayName, pages.Status, errOrNil(pages.Err))
		return nil
	}

	c.log.Debugf("Chapter %q: %d pages\n", ch.DisplayName, len(pages.Items))

	units := make([]chapters.Unit, 0, len(pages.Items))
	for _, p := range pages.Items {
		if ctx.Err() != nil {
			return units
		}

		c.stats.Pages++

		images := resolve(ctx, c, p.URL, c.extractor.Images)
		if images.Status != StatusOK || len(images.Items) == 0 {
			c.stats.SkippedPages++
			c.log.Warnf("Skipping %q page %s: image %s %v\n", ch.DisplayName, p.DisplayName, images.Status, errOrNil(images.Err))
			continue
		}

		units = append(units, chapters.Unit{
			Chapter: ch,
			Page:    p,
			Image:   images.Items[0],
		})
	}

	return units
}

// resolve runs fetch → parse → extract for one URL. Parse failures degrade to
// StatusEmpty rather than aborting siblings.
func resolve[T any](ctx context.Context, c *Crawler, url string, extract func(*xpath.Document) ([]T, bool)) level[T] {
	body, err := c.fetcher.Fetch(ctx, url, c.opts.Timeout)
	if err != nil {
		return level[T]{Status: StatusFailed, Err: err}
	}

	doc, err := xpath.Parse(body, url)
	if err != nil {
		return level[T]{Status: StatusEmpty, Err: err}
	}

	items, ok := extract(doc)
	if !ok {
		return level[T]{Status: StatusEmpty}
	}

	return level[T]{Items: items, Status: StatusOK}
}

func errOrNil(err error) any {
	if err == nil {
		return ""
	}

	return err
}
