package pipeline

import (
	"reflect"
	"testing"
)

func TestTrimSchemaImageVariants(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"@type": "MedicalClinic",
		"image": []any{"https://img.example/a.jpg", "https://img.example/b.jpg"},
	}
	out, ok := TrimSchema(node, "example").(map[string]any)
	if !ok {
		t.Fatalf("expected trimmed node, got %T", out)
	}
	if out["image"] != "https://img.example/a.jpg" {
		t.Fatalf("image list not reduced to first url: %v", out["image"])
	}

	obj := map[string]any{
		"image": map[string]any{"@type": "ImageObject", "url": "https://img.example/c.jpg", "width": "800"},
	}
	out2 := TrimSchema(obj, "example").(map[string]any)
	if out2["image"] != "https://img.example/c.jpg" {
		t.Fatalf("ImageObject not reduced to url: %v", out2["image"])
	}
}

func TestTrimSchemaAggregateRating(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"aggregateRating": map[string]any{"@type": "AggregateRating", "ratingValue": "4.6", "reviewCount": "120"},
	}
	out := TrimSchema(node, "example").(map[string]any)
	if out["aggregateRating"] != "4.6" {
		t.Fatalf("aggregateRating not reduced to ratingValue: %v", out["aggregateRating"])
	}
}

func TestTrimSchemaKeepsLongestReviews(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"review": []any{
			map[string]any{"reviewBody": "short"},
			map[string]any{"reviewBody": "a considerably longer review body text"},
			map[string]any{"author": "no body at all"},
			map[string]any{"reviewBody": "medium length body"},
			map[string]any{"reviewBody": "x"},
		},
	}
	out := TrimSchema(node, "example").(map[string]any)
	reviews, ok := out["review"].([]any)
	if !ok {
		t.Fatalf("review not a list: %T", out["review"])
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews kept, got %d", len(reviews))
	}
	first := reviews[0].(map[string]any)
	if first["reviewBody"] != "a considerably longer review body text" {
		t.Fatalf("longest review not first: %v", first)
	}
}

func TestTrimSchemaPersonToName(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"author": map[string]any{"@type": "Person", "name": "Dr. Smith", "sameAs": "https://example.org/smith"},
	}
	out := TrimSchema(node, "example").(map[string]any)
	if out["author"] != "Dr. Smith" {
		t.Fatalf("Person not reduced to name: %v", out["author"])
	}
}

func TestTrimSchemaOpeningHoursText(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"openingHoursSpecification": []any{
			map[string]any{
				"dayOfWeek": []any{"Monday", "Tuesday"},
				"opens":     "09:00",
				"closes":    "17:00",
			},
			map[string]any{
				"dayOfWeek": "Saturday",
				"opens":     "09:00",
				"closes":    "12:00",
			},
		},
	}
	out := TrimSchema(node, "example").(map[string]any)
	want := "Monday, Tuesday: 09:00–17:00; Saturday: 09:00–12:00"
	if out[keyOpeningHoursText] != want {
		t.Fatalf("openingHoursText = %q, want %q", out[keyOpeningHoursText], want)
	}
	if _, kept := out[keyOpeningHoursSpec]; !kept {
		t.Fatalf("openingHoursSpecification dropped")
	}
}

func TestTrimSchemaGraphAndLists(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"@graph": []any{
			map[string]any{"name": "A"},
			"not a node",
			map[string]any{"name": "B"},
		},
	}
	out, ok := TrimSchema(payload, "example").([]any)
	if !ok {
		t.Fatalf("expected list, got %T", out)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 trimmed nodes, got %d", len(out))
	}

	if TrimSchema("just a string", "example") != nil {
		t.Fatalf("scalar payload should trim to nil")
	}
	if TrimSchema([]any{"a", "b"}, "example") != nil {
		t.Fatalf("list of scalars should trim to nil")
	}
}

func TestTrimSchemaPreservesUnrelatedFields(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"@type":            "MedicalClinic",
		"@id":              "https://example.org/clinic",
		"url":              "https://example.org/clinic",
		"name":             "Clinic A",
		"medicalSpecialty": []any{"ENT"},
	}
	out := TrimSchema(node, "example").(map[string]any)
	want := map[string]any{
		"@type":            "MedicalClinic",
		"@id":              "https://example.org/clinic",
		"url":              "https://example.org/clinic",
		"name":             "Clinic A",
		"medicalSpecialty": []any{"ENT"},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("trim altered unrelated fields:\n got %v\nwant %v", out, want)
	}
}
