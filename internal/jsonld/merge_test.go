package jsonld

import (
	"reflect"
	"testing"
)

func TestMergeNodes_Idempotent(t *testing.T) {
	t.Parallel()

	a := Node{
		"@id":    "https://x/1",
		"@type":  "LocalBusiness",
		"name":   "Clinic A",
		"phone":  "000",
		"review": []any{map[string]any{"@id": "r1", "reviewBody": "ok"}},
	}
	b := Node{
		"@id":    "https://x/1",
		"@type":  []any{"MedicalOrganization", "LocalBusiness"},
		"phone":  "111",
		"review": []any{map[string]any{"@id": "r1", "reviewBody": "better"}},
	}

	once := MergeNodes(a, b)
	twice := MergeNodes(once, b)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge is not idempotent:\n once=%v\ntwice=%v", once, twice)
	}
}

func TestMergeTypes_Promotion(t *testing.T) {
	t.Parallel()

	got := MergeTypes("LocalBusiness", []any{"MedicalOrganization", "LocalBusiness"})
	want := []string{"MedicalOrganization", "LocalBusiness"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected type union: got %v want %v", got, want)
	}
}

func TestMergeTypes_OrderAndDedup(t *testing.T) {
	t.Parallel()

	got := MergeTypes([]any{"Clinic", "Thing"}, []any{"Thing", "Place"})
	want := []string{"Clinic", "Thing", "Place"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected type union: got %v want %v", got, want)
	}
}

func TestMergeTypes_EmptyInputs(t *testing.T) {
	t.Parallel()

	if got := MergeTypes(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty union, got %v", got)
	}
	if got := MergeTypes("", []any{""}); len(got) != 0 {
		t.Fatalf("expected empty labels to vanish, got %v", got)
	}
}

func TestMergeNodes_ListMergeByIdentity(t *testing.T) {
	t.Parallel()

	a := Node{"review": []any{map[string]any{"@id": "r1", "reviewBody": "ok"}}}
	b := Node{"review": []any{map[string]any{"@id": "r1", "reviewBody": "better"}}}

	merged := MergeNodes(a, b)
	reviews, ok := merged["review"].([]any)
	if !ok || len(reviews) != 1 {
		t.Fatalf("expected one merged review, got %v", merged["review"])
	}
	review := reviews[0].(map[string]any)
	if review["reviewBody"] != "better" {
		t.Fatalf("expected later body to win, got %q", review["reviewBody"])
	}
}

func TestMergeNodes_ListMergeByNameType(t *testing.T) {
	t.Parallel()

	a := Node{"department": []any{
		map[string]any{"name": "ENT", "@type": "MedicalClinic", "floor": "1"},
	}}
	b := Node{"department": []any{
		map[string]any{"name": "ENT", "@type": "MedicalClinic", "telephone": "123"},
		map[string]any{"name": "Radiology", "@type": "MedicalClinic"},
	}}

	merged := MergeNodes(a, b)
	departments := merged["department"].([]any)
	if len(departments) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(departments))
	}
	ent := departments[0].(map[string]any)
	if ent["floor"] != "1" || ent["telephone"] != "123" {
		t.Fatalf("expected fields from both sides, got %v", ent)
	}
}

func TestMergeNodes_ScalarListDedup(t *testing.T) {
	t.Parallel()

	a := Node{"sameAs": []any{"https://a", "https://b"}}
	b := Node{"sameAs": []any{"https://b", "https://c"}}

	merged := MergeNodes(a, b)
	want := []any{"https://a", "https://b", "https://c"}
	if !reflect.DeepEqual(merged["sameAs"], want) {
		t.Fatalf("unexpected scalar list merge: %v", merged["sameAs"])
	}
}

func TestMergeNodes_AnonymousItemsNotCollapsed(t *testing.T) {
	t.Parallel()

	a := Node{"items": []any{map[string]any{"value": "x"}}}
	b := Node{"items": []any{map[string]any{"value": "y"}}}

	merged := MergeNodes(a, b)
	items := merged["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("distinct anonymous items must not merge, got %v", items)
	}
}

func TestMergeNodes_ScalarOverride(t *testing.T) {
	t.Parallel()

	a := Node{"phone": "000", "fax": "999"}
	b := Node{"phone": "111", "fax": ""}

	merged := MergeNodes(a, b)
	if merged["phone"] != "111" {
		t.Fatalf("non-empty incoming scalar must win, got %q", merged["phone"])
	}
	if merged["fax"] != "999" {
		t.Fatalf("empty incoming scalar must not override, got %q", merged["fax"])
	}
}

func TestMergeNodes_KeyUnionPassthrough(t *testing.T) {
	t.Parallel()

	a := Node{"onlyA": "a"}
	b := Node{"onlyB": "b"}

	merged := MergeNodes(a, b)
	if merged["onlyA"] != "a" || merged["onlyB"] != "b" {
		t.Fatalf("keys unique to either side must pass through, got %v", merged)
	}
}

func TestMergeNodes_NestedMappingRecursion(t *testing.T) {
	t.Parallel()

	a := Node{"address": map[string]any{"streetAddress": "1 Main St", "postalCode": "2000"}}
	b := Node{"address": map[string]any{"addressLocality": "Sydney", "postalCode": ""}}

	merged := MergeNodes(a, b)
	address := merged["address"].(map[string]any)
	if address["streetAddress"] != "1 Main St" || address["addressLocality"] != "Sydney" {
		t.Fatalf("expected recursive merge, got %v", address)
	}
	if address["postalCode"] != "2000" {
		t.Fatalf("empty nested value must not override, got %v", address["postalCode"])
	}
}

func TestMergeByIdentity_GroupsAndPreservesOrder(t *testing.T) {
	t.Parallel()

	nodes := []Node{
		{"url": "https://x/1", "name": "A"},
		{"@id": "https://x/2", "name": "B"},
		{"url": "https://x/1", "medicalSpecialty": "ENT"},
	}

	merged := MergeByIdentity(nodes)
	if len(merged) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(merged))
	}
	if merged[0]["name"] != "A" || merged[0]["medicalSpecialty"] != "ENT" {
		t.Fatalf("expected same-identity nodes to fold, got %v", merged[0])
	}
	if merged[1]["name"] != "B" {
		t.Fatalf("unexpected second entity: %v", merged[1])
	}
}

func TestMergeByIdentity_SyntheticSingletons(t *testing.T) {
	t.Parallel()

	nodes := []Node{
		{"name": "anonymous one"},
		{"name": "anonymous one"},
	}

	merged := MergeByIdentity(nodes)
	if len(merged) != 2 {
		t.Fatalf("identifierless nodes must never merge, got %d", len(merged))
	}
}

func TestConsolidate_EndToEnd(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"@graph": []any{
			map[string]any{"url": "https://x/1", "name": "A", "@type": "Clinic"},
			map[string]any{"url": "https://x/1", "medicalSpecialty": "ENT"},
		},
	}

	nodes := Consolidate(payload)
	if len(nodes) != 1 {
		t.Fatalf("expected one canonical node, got %d", len(nodes))
	}
	node := nodes[0]
	if node["@id"] != "https://x/1" {
		t.Fatalf("expected @id backfill, got %v", node["@id"])
	}
	if node["name"] != "A" || node["medicalSpecialty"] != "ENT" {
		t.Fatalf("expected merged fields, got %v", node)
	}
	if !reflect.DeepEqual(node["@type"], []string{"Clinic"}) {
		t.Fatalf("expected @type list, got %v", node["@type"])
	}
}
