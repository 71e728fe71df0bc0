package crawler

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/brogergvhs/mangagrab/internal/chapters"
	"github.com/brogergvhs/mangagrab/internal/fetcher"
	"github.com/brogergvhs/mangagrab/internal/providers"
	"github.com/brogergvhs/mangagrab/internal/providers/xpath"
	"github.com/brogergvhs/mangagrab/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	fetchFunc func(url string) ([]byte, error)
	calls     []string
}

func (m *mockFetcher) Fetch(_ context.Context, url string, _ time.Duration) ([]byte, error) {
	m.calls = append(m.calls, url)
	return m.fetchFunc(url)
}

// site serves a fixed set of pages; anything else is a network failure.
func site(pages map[string]string) *mockFetcher {
	return &mockFetcher{fetchFunc: func(url string) ([]byte, error) {
		if body, ok := pages[url]; ok {
			return []byte(body), nil
		}
		return nil, &fetcher.NetworkError{URL: url, Message: "connection refused"}
	}}
}

const base = "http://m.test/manga/dbs/"

func seriesPage(names ...string) string {
	s := `<ul class="chapter_list">`
	for _, n := range names {
		s += fmt.Sprintf(`<li><a href="%sc%s/">DBS %s</a></li>`, base, n, n)
	}
	return s + `</ul>`
}

func chapterPage(ch string, pages ...string) string {
	s := `<select>`
	for _, p := range pages {
		s += fmt.Sprintf(`<option value="%sc%s/%s.html">%s</option>`, base, ch, p, p)
	}
	return s + `</select>`
}

func imagePage(ch, p string) string {
	return fmt.Sprintf(`<div id="viewer"><img src="//cdn.test/%s/%s.jpg"></div>`, ch, p)
}

func newTestCrawler(t *testing.T, f Fetcher, opts Options) *Crawler {
	t.Helper()

	e, err := xpath.NewExtractor(providers.MangaTown)
	require.NoError(t, err)

	return New(f, e, ui.NewLoggerTo(io.Discard, false), opts)
}

func TestCrawl_FlattensInDocumentOrder(t *testing.T) {
	f := site(map[string]string{
		base:               seriesPage("1", "2"),
		base + "c1/":       chapterPage("1", "1", "2"),
		base + "c2/":       chapterPage("2", "1"),
		base + "c1/1.html": imagePage("1", "1"),
		base + "c1/2.html": imagePage("1", "2"),
		base + "c2/1.html": imagePage("2", "1"),
	})

	units, ok := newTestCrawler(t, f, Options{}).Crawl(context.Background(), base)
	require.True(t, ok)
	require.Len(t, units, 3)

	assert.Equal(t, "http://cdn.test/1/1.jpg", units[0].Image.URL)
	assert.Equal(t, "http://cdn.test/1/2.jpg", units[1].Image.URL)
	assert.Equal(t, "http://cdn.test/2/1.jpg", units[2].Image.URL)
	assert.Equal(t, "DBS 2", units[2].Chapter.DisplayName)
	assert.Equal(t, "1", units[2].Page.DisplayName)
}

func TestCrawl_FailedChapterDoesNotAbortSiblings(t *testing.T) {
	f := site(map[string]string{
		base:               seriesPage("1", "2", "3"),
		base + "c1/":       chapterPage("1", "1"),
		base + "c3/":       chapterPage("3", "1"),
		base + "c1/1.html": imagePage("1", "1"),
		base + "c3/1.html": imagePage("3", "1"),
	})

	c := newTestCrawler(t, f, Options{})
	units, ok := c.Crawl(context.Background(), base)
	require.True(t, ok)
	require.Len(t, units, 2)

	assert.Equal(t, "DBS 1", units[0].Chapter.DisplayName)
	assert.Equal(t, "DBS 3", units[1].Chapter.DisplayName)
	assert.Equal(t, 1, c.Stats().SkippedChapters)
}

func TestCrawl_SkipsPagesWithoutImage(t *testing.T) {
	f := site(map[string]string{
		base:               seriesPage("1"),
		base + "c1/":       chapterPage("1", "1", "2", "3"),
		base + "c1/1.html": imagePage("1", "1"),
		base + "c1/2.html": `<html><body>no viewer here</body></html>`,
		base + "c1/3.html": imagePage("1", "3"),
	})

	c := newTestCrawler(t, f, Options{})
	units, ok := c.Crawl(context.Background(), base)
	require.True(t, ok)
	require.Len(t, units, 2)
	assert.Equal(t, "3", units[1].Page.DisplayName)

	stats := c.Stats()
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, 1, stats.SkippedPages)
	assert.Equal(t, 2, stats.Units)
}

func TestCrawl_FeaturedPagesNeverBecomeUnits(t *testing.T) {
	f := site(map[string]string{
		base:                   seriesPage("1"),
		base + "c1/":           chapterPage("1", "1", "Extra"),
		base + "c1/1.html":     imagePage("1", "1"),
		base + "c1/Extra.html": imagePage("1", "Extra"),
	})

	units, ok := newTestCrawler(t, f, Options{}).Crawl(context.Background(), base)
	require.True(t, ok)
	require.Len(t, units, 1)
	for _, u := range units {
		assert.False(t, u.Page.IsFeatured())
	}
	assert.NotContains(t, f.calls, base+"c1/Extra.html")
}

func TestCrawl_SeriesWithoutChaptersYieldsNothing(t *testing.T) {
	f := site(map[string]string{base: `<html><body>empty</body></html>`})

	units, ok := newTestCrawler(t, f, Options{}).Crawl(context.Background(), base)
	assert.False(t, ok)
	assert.Nil(t, units)
}

func TestCrawl_SeriesFetchFailureYieldsNothing(t *testing.T) {
	units, ok := newTestCrawler(t, site(nil), Options{}).Crawl(context.Background(), base)
	assert.False(t, ok)
	assert.Nil(t, units)
}

func TestCrawl_SelectNarrowsChapters(t *testing.T) {
	f := site(map[string]string{
		base:               seriesPage("1", "2"),
		base + "c2/":       chapterPage("2", "1"),
		base + "c2/1.html": imagePage("2", "1"),
	})

	c := newTestCrawler(t, f, Options{Select: func(all []chapters.Chapter) []chapters.Chapter {
		return chapters.Filter(all, "2", "", "")
	}})

	units, ok := c.Crawl(context.Background(), base)
	require.True(t, ok)
	require.Len(t, units, 1)
	assert.NotContains(t, f.calls, base+"c1/")
}

func TestCrawl_EmptyBodyDegradesToEmpty(t *testing.T) {
	f := site(map[string]string{
		base:               seriesPage("1", "2"),
		base + "c1/":       "",
		base + "c2/":       chapterPage("2", "1"),
		base + "c2/1.html": imagePage("2", "1"),
	})

	units, ok := newTestCrawler(t, f, Options{}).Crawl(context.Background(), base)
	require.True(t, ok)
	assert.Len(t, units, 1)
}
