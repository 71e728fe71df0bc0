package xpath

import (
	"testing"

	"github.com/brogergvhs/mangagrab/internal/chapters"
	"github.com/brogergvhs/mangagrab/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesHTML = `<html><body>
<ul class="chapter_list">
  <li><a href="//www.mangatown.com/manga/dbs/c001/"> Dragon Ball Chou 1 </a></li>
  <li><a href="//www.mangatown.com/manga/dbs/c002/">Dragon Ball Chou 2</a></li>
  <li><a href="//www.mangatown.com/manga/dbs/c001/">Dragon Ball Chou 1</a></li>
  <li><a href="/manga/dbs/c003/">Dragon Ball Chou 3</a></li>
</ul>
<ul class="other"><li><a href="/elsewhere">ignored</a></li></ul>
</body></html>`

const chapterHTML = `<html><body>
<select>
  <option value="http://www.mangatown.com/manga/dbs/c001/">01</option>
  <option value="http://www.mangatown.com/manga/dbs/c001/2.html">02</option>
  <option value="http://www.mangatown.com/manga/dbs/c001/featured.html">Featured</option>
  <option value="http://www.mangatown.com/manga/dbs/c001/2.html">02</option>
  <option value="javascript:void(0)">bogus</option>
</select>
<select>
  <option value="http://www.mangatown.com/manga/dbs/c001/">01</option>
</select>
</body></html>`

const pageHTML = `<html><body>
<div id="viewer" class="read_img">
  <a href="#"><img src="//l.mangatown.com/store/manga/dbs/1.0/compressed/001.jpg" /></a>
  <img src="//l.mangatown.com/store/manga/dbs/1.0/compressed/001.jpg" />
</div>
<img src="/logo.png" />
</body></html>`

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	e, err := NewExtractor(providers.MangaTown)
	require.NoError(t, err)

	return e
}

func mustParse(t *testing.T, body, base string) *Document {
	t.Helper()

	d, err := Parse([]byte(body), base)
	require.NoError(t, err)

	return d
}

func TestChapters_DedupInFirstSeenOrder(t *testing.T) {
	d := mustParse(t, seriesHTML, "https://www.mangatown.com/manga/dbs/")

	got, ok := newTestExtractor(t).Chapters(d)
	require.True(t, ok)

	assert.Equal(t, []chapters.Chapter{
		{DisplayName: "Dragon Ball Chou 1", URL: "https://www.mangatown.com/manga/dbs/c001/"},
		{DisplayName: "Dragon Ball Chou 2", URL: "https://www.mangatown.com/manga/dbs/c002/"},
		{DisplayName: "Dragon Ball Chou 3", URL: "https://www.mangatown.com/manga/dbs/c003/"},
	}, got)
}

func TestPages_DropsFeaturedAndDuplicates(t *testing.T) {
	d := mustParse(t, chapterHTML, "http://www.mangatown.com/manga/dbs/c001/")

	got, ok := newTestExtractor(t).Pages(d)
	require.True(t, ok)

	assert.Equal(t, []chapters.Page{
		{DisplayName: "01", URL: "http://www.mangatown.com/manga/dbs/c001/"},
		{DisplayName: "02", URL: "http://www.mangatown.com/manga/dbs/c001/2.html"},
	}, got)
	for _, p := range got {
		assert.False(t, p.IsFeatured())
	}
}

func TestPages_OnlyFeaturedIsFoundButEmpty(t *testing.T) {
	d := mustParse(t, `<select><option value="http://x/cover">Cover</option></select>`, "http://x/")

	got, ok := newTestExtractor(t).Pages(d)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestImages_ProtocolRelativeNormalized(t *testing.T) {
	d := mustParse(t, pageHTML, "http://www.mangatown.com/manga/dbs/c001/")

	got, ok := newTestExtractor(t).Images(d)
	require.True(t, ok)
	assert.Equal(t, []chapters.PageImage{
		{URL: "http://l.mangatown.com/store/manga/dbs/1.0/compressed/001.jpg"},
	}, got)
}

func TestExtract_NothingFound(t *testing.T) {
	d := mustParse(t, `<html><body><p>maintenance</p></body></html>`, "http://x/")
	e := newTestExtractor(t)

	_, ok := e.Chapters(d)
	assert.False(t, ok)
	_, ok = e.Pages(d)
	assert.False(t, ok)
	_, ok = e.Images(d)
	assert.False(t, ok)
	_, ok = e.Images(nil)
	assert.False(t, ok)
}

func TestParse_EmptyBody(t *testing.T) {
	_, err := Parse([]byte("  \n"), "http://x/")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestNewExtractor_InvalidRule(t *testing.T) {
	_, err := NewExtractor(providers.Rules{Chapters: "//ul[", Pages: "//a", Images: "//img"})
	assert.Error(t, err)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "http://cdn/x.jpg", normalizeURL(nil, "//cdn/x.jpg"))
	assert.Equal(t, "https://a/b", normalizeURL(nil, " https://a/b "))
	assert.Equal(t, "", normalizeURL(nil, "   "))
}

func TestSeenSet(t *testing.T) {
	s := newSeenSet(0)
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.Equal(t, 2, s.Len())
}
