package jsonld

import (
	"fmt"
	"strings"
)

// TypeMedicalOrganization sorts ahead of every other type label when present,
// so organization records classify first downstream.
const TypeMedicalOrganization = "MedicalOrganization"

// MergeNodes deep-merges two nodes describing the same entity into one.
//
// The operator folds left-to-right over a merge group: for each key in the
// union of both key sets, @type values are unioned, mappings recurse, lists
// merge element-wise by identity, and otherwise the incoming value wins
// unless it is empty. Later nodes can therefore override earlier scalar
// fields, but never with emptiness, and list/type merging converges
// regardless of order.
func MergeNodes(a, b Node) Node {
	out := make(Node, len(a)+len(b))
	for k, av := range a {
		out[k] = mergeValue(k, av, b[k])
	}
	for k, bv := range b {
		if _, seen := a[k]; seen {
			continue
		}
		out[k] = mergeValue(k, nil, bv)
	}
	return out
}

func mergeValue(key string, av, bv any) any {
	if key == "@type" {
		return MergeTypes(av, bv)
	}
	if am, ok := av.(map[string]any); ok {
		if bm, ok := bv.(map[string]any); ok {
			return MergeNodes(am, bm)
		}
	}
	if al, ok := av.([]any); ok {
		if bl, ok := bv.([]any); ok {
			return mergeLists(al, bl)
		}
	}
	if !isEmpty(bv) {
		return bv
	}
	return av
}

// MergeTypes unions two @type values into a deduplicated label list,
// preserving first-seen order across a then b. MedicalOrganization, when
// present anywhere in the union, is promoted to the front.
func MergeTypes(a, b any) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, v := range []any{a, b} {
		for _, label := range typeLabels(v) {
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			result = append(result, label)
		}
	}
	if _, promoted := seen[TypeMedicalOrganization]; promoted {
		front := make([]string, 0, len(result))
		front = append(front, TypeMedicalOrganization)
		for _, label := range result {
			if label != TypeMedicalOrganization {
				front = append(front, label)
			}
		}
		result = front
	}
	return result
}

// typeLabels coerces a @type value to a label slice: lists pass through
// element-wise, empty values vanish, and any bare scalar wraps as a single
// label.
func typeLabels(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		labels := make([]string, 0, len(t))
		for _, item := range t {
			labels = append(labels, stringify(item))
		}
		return labels
	}
	return []string{stringify(v)}
}

// mergeLists merges two sequences with identity-aware deduplication.
// Elements are keyed by @id/url when they carry one, by name plus joined
// @type when they carry a name, and by literal content otherwise. Elements
// append in first-seen order across a then b; an element matching an existing
// mapping's key merges recursively into that entry instead of duplicating it.
func mergeLists(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))

	add := func(item any) {
		key := listKey(item)
		if i, exists := index[key]; exists {
			existing, okA := out[i].(map[string]any)
			incoming, okB := item.(map[string]any)
			if okA && okB {
				out[i] = MergeNodes(existing, incoming)
			}
			return
		}
		index[key] = len(out)
		out = append(out, item)
	}

	for _, item := range a {
		add(item)
	}
	for _, item := range b {
		add(item)
	}
	return out
}

func listKey(item any) string {
	if m, ok := item.(map[string]any); ok {
		if id := Identifier(m); id != "" {
			return "id\x00" + id
		}
		if name := stringify(m["name"]); name != "" {
			return "name_type\x00" + name + "|" + strings.Join(typeLabels(m["@type"]), ",")
		}
	}
	return "scalar\x00" + literal(item)
}

// MergeByIdentity groups nodes by entity identity in arrival order and folds
// each group into one node with MergeNodes. Nodes without an identifier are
// kept as independent singleton entities under a synthetic per-batch key.
func MergeByIdentity(nodes []Node) []Node {
	merged := make(map[string]Node, len(nodes))
	order := make([]string, 0, len(nodes))
	synthetic := 0

	for _, node := range nodes {
		ident := Identifier(node)
		if ident == "" {
			synthetic++
			ident = fmt.Sprintf("__synthetic__::%d", synthetic)
		}
		if existing, exists := merged[ident]; exists {
			merged[ident] = MergeNodes(existing, node)
			continue
		}
		merged[ident] = node
		order = append(order, ident)
	}

	out := make([]Node, 0, len(order))
	for _, ident := range order {
		out = append(out, merged[ident])
	}
	return out
}

// Consolidate runs the full extract → merge → normalize chain over a payload,
// returning one canonical node per distinct entity found in it.
func Consolidate(payload any) []Node {
	nodes := Extract(payload)
	if len(nodes) == 0 {
		return nil
	}
	merged := MergeByIdentity(nodes)
	out := make([]Node, 0, len(merged))
	for _, n := range merged {
		out = append(out, Normalize(n))
	}
	return out
}
