package jsonld

// Extract flattens an arbitrary JSON-LD payload into its entity nodes.
//
// A mapping with a list-valued @graph contributes the mapping-typed elements
// of that list; any other mapping is itself a single node. A list contributes
// its mapping-typed elements, expanding @graph-shaped elements the same way.
// Non-mapping elements are dropped silently. A nil or empty payload yields no
// nodes.
//
// Extract is idempotent: extracting an already-extracted sequence returns the
// same sequence.
func Extract(payload any) []Node {
	switch v := payload.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return extractSequence(graph)
		}
		if len(v) == 0 {
			return nil
		}
		return []Node{v}
	case []any:
		return extractSequence(v)
	case []Node:
		items := make([]any, len(v))
		for i, n := range v {
			items[i] = map[string]any(n)
		}
		return extractSequence(items)
	}
	return nil
}

func extractSequence(items []any) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		n, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if graph, ok := n["@graph"].([]any); ok {
			nodes = append(nodes, extractSequence(graph)...)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}
