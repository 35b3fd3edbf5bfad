package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildFrontier extracts detail-page links from the seed documents, resolves
// them against baseURL, normalizes them, and returns each distinct URL once
// in first-seen order. That order is the crawl order and the output order,
// so identical seeds always produce identical runs.
//
// detailPathPrefix is the link-shape predicate separating detail pages from
// navigation ("/film/" on the source site). maxItems > 0 caps the frontier.
func BuildFrontier(seeds []*Document, baseURL string, detailPathPrefix string, maxItems int) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var frontier []string
	seen := make(map[string]struct{})

	for _, seed := range seeds {
		hrefs := seed.Links(func(href string) bool {
			return isDetailPath(href, base, detailPathPrefix)
		})
		for _, href := range hrefs {
			resolved, err := NormalizeURL(base, href)
			if err != nil {
				continue
			}
			if _, dup := seen[resolved]; dup {
				continue
			}
			seen[resolved] = struct{}{}
			frontier = append(frontier, resolved)
			if maxItems > 0 && len(frontier) >= maxItems {
				return frontier, nil
			}
		}
	}
	return frontier, nil
}

// isDetailPath matches relative detail links and absolute ones on the same
// host. Everything else is navigation and stays out of the frontier.
func isDetailPath(href string, base *url.URL, prefix string) bool {
	if strings.HasPrefix(href, prefix) {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Host, base.Host) && strings.HasPrefix(u.Path, prefix)
}
