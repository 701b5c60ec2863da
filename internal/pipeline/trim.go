package pipeline

import (
	"sort"
	"strings"
)

// The schema.org markup on many pages carries far more than is useful for
// indexing. TrimSchema reduces each node to its indexable fields before the
// merge stage. Types and properties listed here are dropped wholesale;
// the lists ship empty and act as site-rollout hooks.
var (
	trimSkipTypes      = map[string]struct{}{}
	trimSkipProperties = map[string]struct{}{}
)

var trimCoreKeys = map[string]struct{}{
	"@type": {},
	"@id":   {},
	"url":   {},
	keyOpeningHoursSpec: {},
}

const (
	keyOpeningHoursSpec = "openingHoursSpecification"
	keyOpeningHoursText = "openingHoursText"
	maxTrimmedReviews   = 3
)

// TrimSchema reduces a decoded JSON-LD payload to its indexable fields.
// Lists and @graph wrappers trim element-wise; a payload that trims to
// nothing returns nil. Scalars are not trimmable and return nil.
func TrimSchema(payload any, site string) any {
	switch v := payload.(type) {
	case []any:
		return trimList(v, site)
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return trimList(graph, site)
		}
		return trimNode(v, site)
	}
	return nil
}

func trimList(items []any, site string) any {
	trimmed := make([]any, 0, len(items))
	for _, item := range items {
		if out := TrimSchema(item, site); out != nil {
			trimmed = append(trimmed, out)
		}
	}
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}

func trimNode(node map[string]any, site string) any {
	if shouldSkipNode(node) {
		return nil
	}

	out := make(map[string]any, len(node))
	for _, core := range []string{"@type", "@id", "url", keyOpeningHoursSpec} {
		if v, ok := node[core]; ok {
			out[core] = v
		}
	}

	for k, v := range node {
		if _, skip := trimSkipProperties[k]; skip {
			continue
		}
		if _, core := trimCoreKeys[k]; core {
			continue
		}
		out[k] = trimProperty(k, v)
	}

	if raw, ok := out[keyOpeningHoursSpec]; ok {
		if text := formatOpeningHours(raw); text != "" {
			out[keyOpeningHoursText] = text
		}
	}
	return out
}

func shouldSkipNode(node map[string]any) bool {
	if len(trimSkipTypes) == 0 {
		return false
	}
	switch t := node["@type"].(type) {
	case string:
		_, skip := trimSkipTypes[t]
		return skip
	case []any:
		for _, label := range t {
			if s, ok := label.(string); ok {
				if _, skip := trimSkipTypes[s]; skip {
					return true
				}
			}
		}
	}
	return false
}

func trimProperty(key string, v any) any {
	switch key {
	case "image":
		if urls, ok := v.([]any); ok && allStrings(urls) {
			return urls[0]
		}
		if m, ok := v.(map[string]any); ok && m["@type"] == "ImageObject" {
			return m["url"]
		}
	case "aggregateRating":
		if m, ok := v.(map[string]any); ok {
			if rating, ok := m["ratingValue"]; ok {
				return rating
			}
		}
	case "review":
		if reviews, ok := v.([]any); ok {
			if top := longestReviews(reviews, maxTrimmedReviews); len(top) > 0 {
				return top
			}
		}
	}

	if m, ok := v.(map[string]any); ok && m["@type"] == "Person" {
		if name, ok := m["name"]; ok {
			return name
		}
	}
	return v
}

func allStrings(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// longestReviews keeps up to limit reviews, preferring the longest
// reviewBody texts. Reviews without a reviewBody are dropped.
func longestReviews(reviews []any, limit int) []any {
	type bodied struct {
		length int
		review any
	}
	candidates := make([]bodied, 0, len(reviews))
	for _, item := range reviews {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		raw, present := m["reviewBody"]
		if !present {
			continue
		}
		body, _ := raw.(string)
		candidates = append(candidates, bodied{length: len(body), review: item})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].length > candidates[j].length
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]any, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.review)
	}
	return out
}

// formatOpeningHours flattens an openingHoursSpecification value into a
// human-readable line, e.g. "Monday, Tuesday: 09:00–17:00; Saturday: 09:00–12:00".
func formatOpeningHours(spec any) string {
	entries, ok := spec.([]any)
	if !ok {
		entries = []any{spec}
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		opens, _ := m["opens"].(string)
		closes, _ := m["closes"].(string)
		if opens == "" || closes == "" {
			continue
		}
		parts = append(parts, dayLabel(m["dayOfWeek"])+": "+opens+"–"+closes)
	}
	return strings.Join(parts, "; ")
}

func dayLabel(days any) string {
	switch d := days.(type) {
	case string:
		return d
	case []any:
		labels := make([]string, 0, len(d))
		for _, day := range d {
			if s, ok := day.(string); ok {
				labels = append(labels, s)
			}
		}
		return strings.Join(labels, ", ")
	}
	return ""
}
