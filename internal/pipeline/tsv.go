package pipeline

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"horse.fit/stitch/internal/jsonld"
)

// ParseTSVLine splits one ingest line into a raw input. Lines carry either
// two fields (url, jsonld) or three (url, jsonld, embedding vector).
func ParseTSVLine(line string) (RawInput, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 && len(fields) != 3 {
		return RawInput{}, fmt.Errorf("expected 2 or 3 tab-separated fields, got %d", len(fields))
	}
	in := RawInput{
		URL:    strings.TrimSpace(fields[0]),
		JSONLD: fields[1],
	}
	if in.URL == "" {
		return RawInput{}, fmt.Errorf("missing url field")
	}
	if len(fields) == 3 {
		emb, err := ParseEmbedding(fields[2])
		if err != nil {
			return RawInput{}, fmt.Errorf("embedding field: %w", err)
		}
		in.Embedding = emb
	}
	in.Site = SiteLabel(in.URL)
	return in, nil
}

// ParseEmbedding reads a comma-separated float vector, tolerating square
// brackets around the list and empty elements from trailing commas.
func ParseEmbedding(raw string) ([]float64, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if strings.TrimSpace(trimmed) == "" {
		return []float64{}, nil
	}
	parts := strings.Split(trimmed, ",")
	vec := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", part, err)
		}
		vec = append(vec, f)
	}
	return vec, nil
}

// SiteLabel derives the site identifier for a URL: the hostname without a
// www. prefix or a .com suffix. URLs that do not parse yield "unknown".
func SiteLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return SiteUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return SiteUnknown
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimSuffix(host, ".com")
	if host == "" {
		return SiteUnknown
	}
	return host
}

type jsonlRecord struct {
	URL    string `json:"url"`
	JSONLD any    `json:"jsonld"`
}

// ConvertJSONLLine rewrites one crawl record from JSONL to the tab-separated
// ingest form: the URL, a tab, then the first extracted node in canonical key
// order.
func ConvertJSONLLine(line string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var rec jsonlRecord
	if err := dec.Decode(&rec); err != nil {
		return "", fmt.Errorf("decoding record: %w", err)
	}
	if strings.TrimSpace(rec.URL) == "" {
		return "", fmt.Errorf("record has no url")
	}
	nodes := jsonld.Extract(rec.JSONLD)
	if len(nodes) == 0 {
		return "", fmt.Errorf("record has no jsonld payload")
	}
	encoded, err := jsonld.MarshalCanonical(nodes[0])
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	return rec.URL + "\t" + string(encoded), nil
}
