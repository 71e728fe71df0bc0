package xpath

import (
	"net/url"
	"strings"
)

// normalizeURL returns an absolute URL with an explicit scheme. The site mixes
// "//host/path", relative and absolute links.
func normalizeURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.IsAbs() {
		return u.String()
	}

	if base == nil || !base.IsAbs() {
		if strings.HasPrefix(raw, "//") {
			return "http:" + raw
		}
		return raw
	}

	return base.ResolveReference(u).String()
}
