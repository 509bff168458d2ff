package frontier

import (
	"net/url"
	"strings"
)

// binary and media types we never try to parse as HTML
var skipExt = []string{
	".pdf", ".png", ".jpg", ".jpeg", ".gif", ".webm", ".mov", ".mp4",
}

// IsValid reports whether u may enter the page index: it must start with an
// http scheme and must not point at a known binary/media file.
func IsValid(u string) bool {
	if !strings.HasPrefix(strings.ToLower(u), "http") {
		return false
	}
	p := u
	if parsed, err := url.Parse(u); err == nil && parsed.Path != "" {
		p = parsed.Path
	}
	p = strings.ToLower(p)
	for _, ext := range skipExt {
		if strings.HasSuffix(p, ext) {
			return false
		}
	}
	return true
}
