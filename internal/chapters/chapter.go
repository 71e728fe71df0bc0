package chapters

import (
	"fmt"
	"math"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// PagesPerChapter reserves index space so that string-sorted file names
	// follow reading order across chapters.
	PagesPerChapter = 1000
	IndexWidth      = 20
)

var reTrailingNumber = regexp.MustCompile(`^(.*?)\s*([\d.]+)$`)

type Chapter struct {
	DisplayName string
	URL         string
}

// MangaName is the display name with its trailing chapter number removed.
func (c Chapter) MangaName() string {
	m := reTrailingNumber.FindStringSubmatch(strings.TrimSpace(c.DisplayName))
	if m == nil {
		return ""
	}

	return strings.TrimSpace(m[1])
}

// Number reports the trailing chapter number, if the display name has one.
func (c Chapter) Number() (float64, bool) {
	m := reTrailingNumber.FindStringSubmatch(strings.TrimSpace(c.DisplayName))
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseFloat(strings.Trim(m[2], "."), 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// DirName is the folder a chapter's pages land in. Chapters without a parsable
// title fall back to the series slug from the chapter URL.
func (c Chapter) DirName() string {
	if name := sanitize(c.MangaName()); name != "" {
		return name
	}

	if u, err := url.Parse(c.URL); err == nil {
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, s := range segs {
			if s == "manga" && i+1 < len(segs) {
				if name := sanitize(segs[i+1]); name != "" {
					return name
				}
			}
		}
		if name := sanitize(path.Base(path.Dir(u.Path))); name != "" && name != "manga" {
			return name
		}
	}

	return "unknown"
}

type Page struct {
	DisplayName string
	URL         string
}

// IsFeatured marks pages without a plain numeric label, such as covers.
func (p Page) IsFeatured() bool {
	s := strings.TrimSpace(p.DisplayName)
	if s == "" {
		return true
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return true
		}
	}

	return false
}

func (p Page) Number() (int, bool) {
	if p.IsFeatured() {
		return 0, false
	}

	s := strings.TrimLeft(strings.TrimSpace(p.DisplayName), "0")
	if s == "" {
		return 0, true
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

type PageImage struct {
	URL string
}

// Unit is one resolved page ready for download. It is passed by value and
// never modified once built.
type Unit struct {
	Chapter Chapter
	Page    Page
	Image   PageImage
}

// Index is chapter*1000 + page. The chapter is scaled before rounding, so
// chapter 12.5 page 7 is 12507. A missing chapter number counts as zero.
func (u Unit) Index() int64 {
	var chapter int64
	if n, ok := u.Chapter.Number(); ok {
		chapter = int64(math.Round(n * PagesPerChapter))
	}

	page, _ := u.Page.Number()

	return chapter + int64(page)
}

func (u Unit) FileName() string {
	return FormatIndex(u.Index()) + ".jpg"
}

func (u Unit) String() string {
	return fmt.Sprintf("%s p.%s", strings.TrimSpace(u.Chapter.DisplayName), strings.TrimSpace(u.Page.DisplayName))
}

func FormatIndex(index int64) string {
	return fmt.Sprintf("%0*d", IndexWidth, index)
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)

	repl := []string{
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "_",
	}
	for i := 0; i < len(repl); i += 2 {
		s = strings.ReplaceAll(s, repl[i], repl[i+1])
	}

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			clean = append(clean, r)
		}
	}

	return strings.Trim(strings.TrimSpace(string(clean)), ".")
}
