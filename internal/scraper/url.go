package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL resolves raw against base and standardizes the result so the
// same detail page never enters the frontier twice. Query strings (tracking
// parameters) and fragments are dropped entirely, the trailing slash is
// trimmed, and scheme/host are lowercased with default ports removed.
func NormalizeURL(base *url.URL, raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}

	u := ref
	if base != nil {
		u = base.ResolveReference(ref)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute after resolution", raw)
	}
	return u.String(), nil
}
