package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestService() *Service {
	s := NewService(zerolog.Nop())
	s.detect = func(string) string { return "en" }
	return s
}

func TestBuildDocumentsMergesDuplicateEntities(t *testing.T) {
	t.Parallel()

	jsonLD := `{"@graph":[
		{"@id":"https://x/1","name":"Clinic A","@type":"LocalBusiness"},
		{"@id":"https://x/1","@type":["MedicalOrganization","LocalBusiness"],"medicalSpecialty":["ENT"]}
	]}`
	result := newTestService().BuildDocuments([]RawInput{
		{URL: "https://example.org/page", JSONLD: jsonLD, Site: "example"},
	})

	if len(result.Skipped) != 0 {
		t.Fatalf("unexpected skips: %v", result.Skipped)
	}
	if len(result.Documents) != 1 {
		t.Fatalf("expected 1 merged document, got %d", len(result.Documents))
	}
	doc := result.Documents[0]
	if doc.URL != "https://x/1" {
		t.Fatalf("identity = %q", doc.URL)
	}
	if doc.Name != "Clinic A" {
		t.Fatalf("name = %q", doc.Name)
	}

	var node map[string]any
	if err := json.Unmarshal([]byte(doc.SchemaJSON), &node); err != nil {
		t.Fatalf("schema json invalid: %v", err)
	}
	types, ok := node["@type"].([]any)
	if !ok || len(types) != 2 || types[0] != "MedicalOrganization" {
		t.Fatalf("merged types = %v", node["@type"])
	}
}

func TestBuildDocumentsStableIDs(t *testing.T) {
	t.Parallel()

	input := RawInput{URL: "https://example.org/p", JSONLD: `{"@id":"https://x/9","name":"N"}`, Site: "example"}
	first := newTestService().BuildDocuments([]RawInput{input})
	second := newTestService().BuildDocuments([]RawInput{input})
	if first.Documents[0].ID != second.Documents[0].ID {
		t.Fatalf("document id not stable: %q vs %q", first.Documents[0].ID, second.Documents[0].ID)
	}
}

func TestBuildDocumentsSkipReasons(t *testing.T) {
	t.Parallel()

	result := newTestService().BuildDocuments([]RawInput{
		{URL: "https://example.org/bad", JSONLD: `{"name": `, Site: "example"},
		{URL: "https://example.org/empty", JSONLD: `[]`, Site: "example"},
		{URL: "https://example.org/ok", JSONLD: `{"name":"Fine"}`, Site: "example"},
	})

	if len(result.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(result.Documents))
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected 2 skips, got %v", result.Skipped)
	}
	reasons := map[string]SkipReason{}
	for _, s := range result.Skipped {
		reasons[s.URL] = s.Reason
	}
	if reasons["https://example.org/bad"] != SkipParseError {
		t.Fatalf("bad input reason = %q", reasons["https://example.org/bad"])
	}
	if reasons["https://example.org/empty"] != SkipTrimmedEmpty {
		t.Fatalf("empty input reason = %q", reasons["https://example.org/empty"])
	}
}

func TestBuildDocumentsIdentityFallsBackToSourceURL(t *testing.T) {
	t.Parallel()

	result := newTestService().BuildDocuments([]RawInput{
		{URL: "https://example.org/page", JSONLD: `{"name":"No Identity"}`, Site: "example"},
	})
	if len(result.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(result.Documents))
	}
	if result.Documents[0].URL != "https://example.org/page" {
		t.Fatalf("expected source URL identity, got %q", result.Documents[0].URL)
	}
}

func TestBuildDocumentsDefaults(t *testing.T) {
	t.Parallel()

	result := newTestService().BuildDocuments([]RawInput{
		{URL: "https://example.org/page", JSONLD: `{"@id":"https://x/1"}`},
	})
	doc := result.Documents[0]
	if doc.Site != SiteUnknown {
		t.Fatalf("site = %q, want %q", doc.Site, SiteUnknown)
	}
	if doc.Embedding == nil || len(doc.Embedding) != 0 {
		t.Fatalf("embedding = %v, want empty non-nil", doc.Embedding)
	}
	// No name fields: identity stands in.
	if doc.Name != "https://x/1" {
		t.Fatalf("name = %q", doc.Name)
	}
}

func TestDisplayNameFieldOrderAndURLSkip(t *testing.T) {
	t.Parallel()

	node := map[string]any{
		"name":     "https://example.org/looks-like-url",
		"headline": "  Actual Headline  ",
		"title":    "Never Reached",
	}
	if got := displayName(node, "id"); got != "Actual Headline" {
		t.Fatalf("displayName = %q", got)
	}

	if got := displayName(map[string]any{}, ""); got != UnnamedItemLabel {
		t.Fatalf("displayName fallback = %q", got)
	}

	if got := displayName(map[string]any{"keywords": "ent, hearing"}, "id"); got != "ent, hearing" {
		t.Fatalf("keywords not used: %q", got)
	}
}

func TestLooksLikeURL(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"http://a", "HTTPS://A", "www.example.org", "ftp://files"} {
		if !looksLikeURL(s) {
			t.Fatalf("%q should look like a URL", s)
		}
	}
	for _, s := range []string{"Clinic A", "wellness centre", ""} {
		if looksLikeURL(s) {
			t.Fatalf("%q should not look like a URL", s)
		}
	}
}

func TestBuildDocumentsLanguageFromNameAndDescription(t *testing.T) {
	t.Parallel()

	s := NewService(zerolog.Nop())
	var sampled string
	s.detect = func(text string) string {
		sampled = text
		return "de"
	}
	result := s.BuildDocuments([]RawInput{
		{URL: "https://example.org/p", JSONLD: `{"name":"Klinik","description":"Eine Klinik in Berlin"}`, Site: "example"},
	})
	if result.Documents[0].Language != "de" {
		t.Fatalf("language = %q", result.Documents[0].Language)
	}
	if !strings.Contains(sampled, "Eine Klinik in Berlin") {
		t.Fatalf("description not sampled: %q", sampled)
	}
}
