package chapters

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChapter_DerivedFields(t *testing.T) {
	tests := []struct {
		display  string
		name     string
		number   float64
		hasNumer bool
	}{
		{"Dragon Ball Chou 12", "Dragon Ball Chou", 12, true},
		{"  Ryuu to Hidari Te 3.5 ", "Ryuu to Hidari Te", 3.5, true},
		{"One Piece 1000", "One Piece", 1000, true},
		{"Oneshot", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			c := Chapter{DisplayName: tt.display}
			assert.Equal(t, tt.name, c.MangaName())

			n, ok := c.Number()
			assert.Equal(t, tt.hasNumer, ok)
			assert.Equal(t, tt.number, n)
		})
	}
}

func TestChapter_DirNameFallsBackToURL(t *testing.T) {
	c := Chapter{DisplayName: "Oneshot", URL: "http://www.mangatown.com/manga/dragon_ball_chou/c001/"}
	assert.Equal(t, "dragon_ball_chou", c.DirName())

	c = Chapter{DisplayName: "Oneshot", URL: "::"}
	assert.Equal(t, "unknown", c.DirName())

	c = Chapter{DisplayName: "Dragon Ball Chou 1", URL: "http://x/manga/other/c001/"}
	assert.Equal(t, "Dragon Ball Chou", c.DirName())
}

func TestPage_Featured(t *testing.T) {
	assert.True(t, Page{DisplayName: "Extra"}.IsFeatured())
	assert.True(t, Page{DisplayName: "Featured"}.IsFeatured())
	assert.True(t, Page{DisplayName: ""}.IsFeatured())
	assert.False(t, Page{DisplayName: "007"}.IsFeatured())

	_, ok := Page{DisplayName: "Extra"}.Number()
	assert.False(t, ok)

	n, ok := Page{DisplayName: "007"}.Number()
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestUnit_Index(t *testing.T) {
	u := Unit{Chapter: Chapter{DisplayName: "Series 12"}, Page: Page{DisplayName: "7"}}
	assert.Equal(t, int64(12007), u.Index())
	assert.Equal(t, "00000000000000012007.jpg", u.FileName())
	assert.Len(t, FormatIndex(u.Index()), IndexWidth)

	u = Unit{Chapter: Chapter{DisplayName: "Series 1"}, Page: Page{DisplayName: "1"}}
	assert.Equal(t, int64(1001), u.Index())
	assert.Equal(t, "00000000000000001001", FormatIndex(u.Index()))

	u = Unit{Chapter: Chapter{DisplayName: "Oneshot"}, Page: Page{DisplayName: "4"}}
	assert.Equal(t, int64(4), u.Index())
}

func TestUnit_IndexFractionalChapter(t *testing.T) {
	whole := Unit{Chapter: Chapter{DisplayName: "Dragon Ball Chou 12"}, Page: Page{DisplayName: "07"}}
	half := Unit{Chapter: Chapter{DisplayName: "Dragon Ball Chou 12.5"}, Page: Page{DisplayName: "07"}}
	next := Unit{Chapter: Chapter{DisplayName: "Dragon Ball Chou 13"}, Page: Page{DisplayName: "1"}}

	assert.Equal(t, int64(12507), half.Index())
	assert.Equal(t, "00000000000000012507.jpg", half.FileName())
	assert.NotEqual(t, whole.FileName(), half.FileName())

	assert.Less(t, whole.FileName(), half.FileName())
	assert.Less(t, half.FileName(), next.FileName())
}

func TestUnit_FileNamesSortInReadingOrder(t *testing.T) {
	var reading []string
	for _, ch := range []string{"S 1", "S 2", "S 10"} {
		for _, p := range []string{"1", "2", "10", "999"} {
			reading = append(reading, Unit{Chapter: Chapter{DisplayName: ch}, Page: Page{DisplayName: p}}.FileName())
		}
	}

	sorted := append([]string(nil), reading...)
	sort.Strings(sorted)

	assert.Equal(t, reading, sorted)
}

func TestFilter(t *testing.T) {
	all := []Chapter{
		{DisplayName: "S 1", URL: "u1"},
		{DisplayName: "S 2", URL: "u2"},
		{DisplayName: "S 2.5", URL: "u25"},
		{DisplayName: "S 3", URL: "u3"},
	}

	assert.Equal(t, all, Filter(all, "", "", ""))
	assert.Equal(t, []Chapter{all[2]}, Filter(all, "2.5", "", ""))
	assert.Equal(t, all[1:3], Filter(all, "", "2-3", ""))
	assert.Equal(t, []Chapter{all[0], all[3]}, Filter(all, "", "", "1, 4, 9"))
	assert.Empty(t, Filter(all, "42", "", ""))
	assert.Nil(t, Filter(all, "", "3-1", ""))
}
