package providers

import (
	"fmt"

	"github.com/antchfx/xpath"
)

// Rules holds the XPath expressions for each level of a site's hierarchy.
type Rules struct {
	Chapters string `yaml:"chapters"`
	Pages    string `yaml:"pages"`
	Images   string `yaml:"images"`
}

var MangaTown = Rules{
	Chapters: "//ul[contains(normalize-space(@class), 'chapter_list')]//li//a",
	Pages:    "//option[contains(normalize-space(@value), 'http')]",
	Images:   "//div[contains(normalize-space(@id), 'viewer')]//img",
}

// WithDefaults fills empty expressions from MangaTown.
func (r Rules) WithDefaults() Rules {
	if r.Chapters == "" {
		r.Chapters = MangaTown.Chapters
	}
	if r.Pages == "" {
		r.Pages = MangaTown.Pages
	}
	if r.Images == "" {
		r.Images = MangaTown.Images
	}

	return r
}

func (r Rules) Validate() error {
	for name, expr := range map[string]string{
		"chapters": r.Chapters,
		"pages":    r.Pages,
		"images":   r.Images,
	} {
		if _, err := xpath.Compile(expr); err != nil {
			return fmt.Errorf("rule %s: invalid xpath %q: %w", name, expr, err)
		}
	}

	return nil
}
