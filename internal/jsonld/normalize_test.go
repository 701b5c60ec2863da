package jsonld

import (
	"reflect"
	"testing"
)

func TestNormalize_TypeCoercion(t *testing.T) {
	t.Parallel()

	got := Normalize(Node{"@type": "Clinic", "name": "A"})
	if !reflect.DeepEqual(got["@type"], []string{"Clinic"}) {
		t.Fatalf("bare string @type must wrap, got %v", got["@type"])
	}

	got = Normalize(Node{"@type": []any{"Clinic", "Clinic", "", "Place"}, "name": "A"})
	if !reflect.DeepEqual(got["@type"], []string{"Clinic", "Place"}) {
		t.Fatalf("list @type must dedupe preserving order, got %v", got["@type"])
	}

	got = Normalize(Node{"@type": 7.0, "name": "A"})
	if _, present := got["@type"]; present {
		t.Fatalf("non-string @type must normalize to empty and prune, got %v", got["@type"])
	}
}

func TestNormalize_IDBackfill(t *testing.T) {
	t.Parallel()

	got := Normalize(Node{"url": "https://x/1", "name": "A"})
	if got["@id"] != "https://x/1" {
		t.Fatalf("expected @id backfilled from url, got %v", got["@id"])
	}

	got = Normalize(Node{"@id": "urn:thing", "url": "https://x/1"})
	if got["@id"] != "urn:thing" {
		t.Fatalf("existing @id must be kept, got %v", got["@id"])
	}
}

func TestNormalize_PrunesEmptyValues(t *testing.T) {
	t.Parallel()

	got := Normalize(Node{
		"name":     "A",
		"empty":    "",
		"nothing":  nil,
		"noItems":  []any{},
		"noFields": map[string]any{},
		"zero":     0.0,
		"off":      false,
	})

	for _, k := range []string{"empty", "nothing", "noItems", "noFields"} {
		if _, present := got[k]; present {
			t.Fatalf("key %q must be pruned", k)
		}
	}
	if got["zero"] != 0.0 || got["off"] != false {
		t.Fatalf("zero and false are not empty, got %v", got)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := Node{"@type": "Clinic", "empty": ""}
	_ = Normalize(in)
	if in["@type"] != "Clinic" {
		t.Fatalf("input @type mutated: %v", in["@type"])
	}
	if _, present := in["empty"]; !present {
		t.Fatalf("input keys must not be pruned in place")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	in := Node{
		"@type": []any{"MedicalOrganization", "Clinic"},
		"url":   "https://x/1",
		"name":  "A",
		"blank": "",
	}
	once := Normalize(in)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize is not idempotent:\n once=%v\ntwice=%v", once, twice)
	}
}
