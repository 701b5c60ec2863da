package pageschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateScrapedPage_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"url":"https://www.example.org/clinic",
		"jsonld":"{\"@type\":\"MedicalClinic\",\"name\":\"Clinic A\"}",
		"site":"example",
		"embedding":[0.1,-0.2,0.3]
	}`)

	page, err := ValidateScrapedPage(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}

	if page.URL != "https://www.example.org/clinic" {
		t.Fatalf("unexpected url %q", page.URL)
	}
	if len(page.Embedding) != 3 {
		t.Fatalf("unexpected embedding %v", page.Embedding)
	}
}

func TestValidateScrapedPage_MissingRequired(t *testing.T) {
	payload := json.RawMessage(`{"url":"https://www.example.org/clinic"}`)

	_, err := ValidateScrapedPage(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for missing jsonld")
	}
}

func TestValidateScrapedPage_InvalidURL(t *testing.T) {
	payload := json.RawMessage(`{"url":"   ","jsonld":"{}"}`)

	_, err := ValidateScrapedPage(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for blank url")
	}
	if !strings.Contains(err.Error(), "url") {
		t.Fatalf("expected url error, got: %v", err)
	}
}

func TestValidateScrapedPage_MalformedEmbeddedJSON(t *testing.T) {
	payload := json.RawMessage(`{"url":"https://example.org/a","jsonld":"{not json"}`)

	_, err := ValidateScrapedPage(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for malformed jsonld document")
	}
	if !strings.Contains(err.Error(), "valid JSON") {
		t.Fatalf("expected jsonld semantic error, got: %v", err)
	}
}

func TestValidateScrapedPage_UnknownField(t *testing.T) {
	payload := json.RawMessage(`{"url":"https://example.org/a","jsonld":"{}","extra":true}`)

	_, err := ValidateScrapedPage(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for unknown field")
	}
}

func TestValidateScrapedPage_TrailingContent(t *testing.T) {
	payload := json.RawMessage(`{"url":"https://example.org/a","jsonld":"{}"} trailing`)

	_, err := ValidateScrapedPage(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for trailing content")
	}
}
