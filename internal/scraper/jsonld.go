package scraper

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// jsonld.go holds the helpers that turn the loosely typed JSON-LD blocks
// embedded in detail pages into usable values. Every coercion here fails
// soft: a malformed field yields the zero value and the caller leaves the
// record field absent.

// movieTypes are the schema.org @type values accepted as "this page is about
// one movie". The first block whose object matches wins.
var movieTypes = map[string]bool{
	"Movie": true,
	"Film":  true,
}

// findMovieObject parses each structured-data block in order and returns the
// first JSON-LD object whose declared type is a movie. Blocks that fail to
// parse are skipped, not fatal.
func findMovieObject(blocks []string) map[string]any {
	for _, raw := range blocks {
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}
		if obj := firstMovieIn(data); obj != nil {
			return obj
		}
	}
	return nil
}

// firstMovieIn walks a decoded JSON-LD value, descending into lists and
// @graph containers, and returns the first movie-typed object.
func firstMovieIn(data any) map[string]any {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if obj := firstMovieIn(item); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			return firstMovieIn(graph)
		}
		if isMovieType(v["@type"]) {
			return v
		}
	}
	return nil
}

func isMovieType(t any) bool {
	switch v := t.(type) {
	case string:
		return movieTypes[v]
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && movieTypes[s] {
				return true
			}
		}
	}
	return false
}

// asList forces a scalar-or-list JSON value into a slice. Sites emit
// "genre": "Drame" and "genre": ["Drame", "Thriller"] interchangeably.
func asList(v any) []any {
	if v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// nameList extracts trimmed name strings from a JSON-LD value that may be a
// string, a Person object with a "name" key, or a list of either.
func nameList(v any) []string {
	var out []string
	for _, item := range asList(v) {
		switch e := item.(type) {
		case string:
			if s := strings.TrimSpace(e); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if name, ok := e["name"].(string); ok {
				if s := strings.TrimSpace(name); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// stringList extracts trimmed strings, collapsing duplicates while keeping
// first-seen order. Used for genres, where membership matters downstream.
func stringList(v any) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, item := range asList(v) {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// imageURL pulls a usable URL out of a JSON-LD image value, which may be a
// string, an ImageObject with a "url" key, or a list of either.
func imageURL(v any) string {
	for _, item := range asList(v) {
		switch e := item.(type) {
		case string:
			if s := strings.TrimSpace(e); s != "" {
				return s
			}
		case map[string]any:
			if u, ok := e["url"].(string); ok {
				if s := strings.TrimSpace(u); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// coerceFloat accepts JSON numbers and numeric strings ("8.4", "8,4").
func coerceFloat(v any) (float64, bool) {
	switch e := v.(type) {
	case float64:
		return e, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(e), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// coerceInt accepts JSON numbers and numeric strings ("1523").
func coerceInt(v any) (int, bool) {
	switch e := v.(type) {
	case float64:
		return int(e), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(e))
		return n, err == nil
	}
	return 0, false
}

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// durationMinutes converts an ISO 8601 duration such as PT2H22M to whole
// minutes. Returns false for anything it cannot parse or for zero durations.
func durationMinutes(v any) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	m := iso8601Duration.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	total := hours*60 + minutes
	if total <= 0 {
		return 0, false
	}
	return total, true
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// yearFromDate reads the leading year of a datePublished value ("2019-03-01").
func yearFromDate(v any) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}
