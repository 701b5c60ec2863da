// Package pipeline turns scraped JSON-LD into canonical indexable documents
// and applies the URL-stub deduplication pass over built row batches.
package pipeline

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/stitch/internal/jsonld"
	"horse.fit/stitch/internal/langdetect"
)

// UnnamedItemLabel is the display name for entities with no resolvable name.
const UnnamedItemLabel = "Unnamed Item"

// SiteUnknown labels inputs whose source site cannot be determined.
const SiteUnknown = "unknown"

// Document is the externally visible unit emitted per canonical entity.
// String fields are never empty-for-null and Embedding is never nil.
type Document struct {
	ID         string    `json:"id"`
	SchemaJSON string    `json:"schema_json"`
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Site       string    `json:"site"`
	Language   string    `json:"language,omitempty"`
	Embedding  []float64 `json:"embedding"`
}

// SkipReason classifies why a single input produced no documents. Skips are
// legitimate partial-success outcomes, not batch failures.
type SkipReason string

const (
	SkipParseError      SkipReason = "parse_error"
	SkipTrimmedEmpty    SkipReason = "trimmed_empty"
	SkipIdentityMissing SkipReason = "identity_missing"
	SkipMalformedRow    SkipReason = "malformed_row"
)

// Skip records one skipped input.
type Skip struct {
	URL    string     `json:"url"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// RawInput is one scraped page: its URL, the raw JSON-LD string found on it,
// a source-site label, and an optional precomputed embedding that is attached
// to every document built from the page.
type RawInput struct {
	URL       string    `json:"url"`
	JSONLD    string    `json:"json_ld"`
	Site      string    `json:"site"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// BuildResult is the outcome of a batch build: the documents produced plus
// one entry per skipped input. The batch never aborts on a single bad record.
type BuildResult struct {
	Documents []Document `json:"documents"`
	Skipped   []Skip     `json:"skipped"`
}

// Service builds canonical documents from raw inputs. It is stateless across
// invocations; each call processes only its arguments.
type Service struct {
	logger zerolog.Logger
	detect func(text string) string
}

func NewService(logger zerolog.Logger) *Service {
	return &Service{
		logger: logger,
		detect: langdetect.Detect,
	}
}

// BuildDocuments processes a batch of raw inputs. Failures are isolated per
// input: each input contributes documents or a typed skip, never an error.
func (s *Service) BuildDocuments(inputs []RawInput) BuildResult {
	result := BuildResult{
		Documents: make([]Document, 0, len(inputs)),
		Skipped:   make([]Skip, 0),
	}
	for _, input := range inputs {
		docs, skips := s.buildOne(input)
		result.Documents = append(result.Documents, docs...)
		result.Skipped = append(result.Skipped, skips...)
	}

	s.logger.Info().
		Int("inputs", len(inputs)).
		Int("documents", len(result.Documents)).
		Int("skipped", len(result.Skipped)).
		Msg("document build completed")
	return result
}

func (s *Service) buildOne(input RawInput) ([]Document, []Skip) {
	payload, err := decodePayload(input.JSONLD)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", input.URL).Msg("skipping input: JSON-LD parse failed")
		return nil, []Skip{{URL: input.URL, Reason: SkipParseError, Detail: err.Error()}}
	}

	trimmed := TrimSchema(payload, input.Site)
	if trimmed == nil {
		s.logger.Debug().Str("url", input.URL).Msg("skipping input: payload trimmed to nothing")
		return nil, []Skip{{URL: input.URL, Reason: SkipTrimmedEmpty}}
	}

	nodes := jsonld.Consolidate(trimmed)
	if len(nodes) == 0 {
		return nil, []Skip{{URL: input.URL, Reason: SkipTrimmedEmpty}}
	}

	site := strings.TrimSpace(input.Site)
	if site == "" {
		site = SiteUnknown
	}
	embedding := input.Embedding
	if embedding == nil {
		embedding = []float64{}
	}

	var docs []Document
	var skips []Skip
	for _, node := range nodes {
		identity := resolveIdentity(node, input.URL)
		if identity == "" {
			s.logger.Warn().Str("url", input.URL).Msg("skipping node: no resolvable identity")
			skips = append(skips, Skip{URL: input.URL, Reason: SkipIdentityMissing})
			continue
		}

		schemaJSON, err := jsonld.MarshalCanonical(node)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", input.URL).Msg("skipping node: serialization failed")
			skips = append(skips, Skip{URL: input.URL, Reason: SkipParseError, Detail: err.Error()})
			continue
		}

		name := displayName(node, identity)
		docs = append(docs, Document{
			ID:         strconv.FormatInt(IdentityHash(identity), 10),
			SchemaJSON: string(schemaJSON),
			URL:        identity,
			Name:       name,
			Site:       site,
			Language:   s.detectLanguage(node, name),
			Embedding:  embedding,
		})
	}
	return docs, skips
}

func decodePayload(raw string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func resolveIdentity(node jsonld.Node, sourceURL string) string {
	if id := jsonld.Identifier(node); id != "" {
		return id
	}
	return strings.TrimSpace(sourceURL)
}

// displayName resolves the document name: the first of name, headline, title,
// keywords holding a non-empty string that is not itself a URL, else the
// identity, else the unnamed-item label.
func displayName(node jsonld.Node, identity string) string {
	for _, field := range []string{"name", "headline", "title", "keywords"} {
		v, ok := node[field].(string)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v != "" && !looksLikeURL(v) {
			return v
		}
	}
	if identity != "" {
		return identity
	}
	return UnnamedItemLabel
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.") ||
		strings.Contains(lower, "://")
}

func (s *Service) detectLanguage(node jsonld.Node, name string) string {
	if s.detect == nil {
		return ""
	}
	sample := name
	if desc, ok := node["description"].(string); ok {
		sample += " " + desc
	}
	return s.detect(sample)
}
