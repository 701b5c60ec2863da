package jsonld

// Normalize returns the canonical shape of a merged node:
//
//  1. @type coerces to a deduplicated, order-preserving list of non-empty
//     string labels (a bare string wraps, anything else becomes empty).
//  2. @id backfills from url when absent.
//  3. Keys holding null, empty-string, empty-list or empty-map values are
//     pruned.
//
// The input is not mutated. Normalize is idempotent.
func Normalize(n Node) Node {
	out := make(Node, len(n)+1)
	for k, v := range n {
		out[k] = v
	}

	out["@type"] = normalizeTypeList(n["@type"])

	if isEmpty(out["@id"]) {
		if u, ok := out["url"].(string); ok && u != "" {
			out["@id"] = u
		}
	}

	for k, v := range out {
		if isEmpty(v) {
			delete(out, k)
		}
	}
	return out
}

func normalizeTypeList(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string, []any:
		seen := make(map[string]struct{})
		var labels []string
		for _, label := range typeLabels(t) {
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
		return labels
	}
	return nil
}
