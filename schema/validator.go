// Package pageschema validates scraped page records before they enter the
// build pipeline.
package pageschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed scraped_page.schema.json
var scrapedPageSchemaJSON string

// ScrapedPage is one crawl record: the page URL and the raw JSON-LD string
// lifted from it, plus optional site label and embedding vector.
type ScrapedPage struct {
	URL       string    `json:"url"`
	JSONLD    string    `json:"jsonld"`
	Site      string    `json:"site,omitempty"`
	Embedding []float64 `json:"embedding,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateScrapedPage checks a raw record against the scraped-page schema and
// its semantic rules, returning the decoded record on success.
func ValidateScrapedPage(payload json.RawMessage) (*ScrapedPage, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var page ScrapedPage
	if err := json.Unmarshal(normalized, &page); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&page); err != nil {
		return nil, err
	}

	return &page, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("scraped_page.schema.json", strings.NewReader(scrapedPageSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("scraped_page.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(page *ScrapedPage) error {
	if page == nil {
		return fmt.Errorf("payload is nil")
	}

	trimmedURL := strings.TrimSpace(page.URL)
	if trimmedURL == "" {
		return fmt.Errorf("url must not be empty")
	}
	if _, err := url.ParseRequestURI(trimmedURL); err != nil {
		return fmt.Errorf("url is not a valid URI: %w", err)
	}

	if strings.TrimSpace(page.JSONLD) == "" {
		return fmt.Errorf("jsonld must not be empty")
	}
	if !json.Valid([]byte(page.JSONLD)) {
		return fmt.Errorf("jsonld must be a valid JSON document")
	}

	return nil
}
