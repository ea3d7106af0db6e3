// Package features computes the lightweight boundary feature set used by the
// request-handling front ends.
package features

import (
	"net/url"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/textutil"
)

// suspiciousTLDs are top-level domains disproportionately used for phishing
var suspiciousTLDs = map[string]struct{}{
	"tk": {}, "ml": {}, "ga": {}, "cf": {}, "gq": {}, "xyz": {},
}

// urlShorteners are hosts of well-known link shortening services
var urlShorteners = map[string]struct{}{
	"bit.ly": {}, "tinyurl.com": {}, "t.co": {}, "goo.gl": {},
}

// Extractor computes core.ExtractedFeatures from raw email text
type Extractor struct{}

// New creates a new feature extractor
func New() *Extractor {
	return &Extractor{}
}

// Extract computes the boundary feature set. It never fails for any string
// input: URLs whose host cannot be parsed are skipped silently.
func (e *Extractor) Extract(content string) core.ExtractedFeatures {
	headers, body := splitHeaders(content)
	urls := textutil.ExtractURLs(content)

	f := core.ExtractedFeatures{
		Text:     body,
		URLs:     urls,
		URLCount: len(urls),
	}

	_, f.HasSubject = headers["subject"]
	_, f.HasReplyTo = headers["reply-to"]
	f.HasMultipleFrom = strings.Count(headers["from"], "@") > 1
	f.HasMultipleTo = strings.Count(headers["to"], "@") > 1

	for _, u := range urls {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Host == "" {
			continue
		}
		host := strings.ToLower(parsed.Host)

		if idx := strings.LastIndex(host, "."); idx >= 0 {
			if _, ok := suspiciousTLDs[host[idx+1:]]; ok {
				f.HasSuspiciousTLD = true
			}
		}
		if _, ok := urlShorteners[host]; ok {
			f.HasURLShortener = true
		}
	}

	return f
}

// splitHeaders separates raw content into a header map and a body on the
// first blank line. When no blank line exists the whole input is the body.
func splitHeaders(content string) (map[string]string, string) {
	headers := make(map[string]string)
	body := content

	if idx := strings.Index(content, "\n\n"); idx >= 0 {
		headerText := content[:idx]
		body = content[idx+2:]

		for _, line := range strings.Split(headerText, "\n") {
			key, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			k := strings.ToLower(strings.TrimSpace(key))
			v := strings.TrimSpace(value)
			// Repeated headers (a spoofing signal) keep every value
			if existing, ok := headers[k]; ok {
				v = existing + ", " + v
			}
			headers[k] = v
		}
	}

	return headers, body
}
