// Package jsonld consolidates scraped JSON-LD markup into canonical entity
// nodes. A payload may describe one entity several times (across a page's
// @graph, or as a bare node list); the package flattens the payload, merges
// nodes that share an identifier and normalizes the survivors into a single
// canonical shape per entity.
package jsonld

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Node is one JSON-LD entity record, as decoded by encoding/json.
type Node = map[string]any

// Identifier returns the entity identity of a node: @id when present,
// otherwise url. Nodes without either have no identity and are never merged
// with other nodes.
func Identifier(n Node) string {
	if id, ok := n["@id"].(string); ok && id != "" {
		return id
	}
	if u, ok := n["url"].(string); ok && u != "" {
		return u
	}
	return ""
}

// isEmpty reports whether a value counts as empty for merge and pruning
// purposes: null, empty string, empty sequence, empty mapping. Numbers and
// booleans are never empty, including zero and false.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// literal renders a value as a deterministic comparison key. Mappings
// serialize with sorted keys, so two anonymous items compare equal only when
// their literal content is identical.
func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case json.Number:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// stringify converts a scalar to its string label, the way bare @type values
// are coerced.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return fmt.Sprint(v)
}
