package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"horse.fit/stitch/internal/pipeline"
)

// DocumentListOptions controls document listing queries.
type DocumentListOptions struct {
	Site   string
	Query  string
	Limit  int
	Offset int
}

// DocumentListItem is used by the documents endpoint and CLI.
type DocumentListItem struct {
	DocumentID string    `json:"document_id"`
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Site       string    `json:"site"`
	Language   string    `json:"language,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpsertDocuments writes a built batch, replacing existing rows with the
// same document id. The batch is written in a single transaction so a
// partial load never becomes visible.
func (p *Pool) UpsertDocuments(ctx context.Context, docs []pipeline.Document) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin upsert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
INSERT INTO stitch.documents (document_id, url, name, site, language, schema_json, embedding, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (document_id) DO UPDATE SET
	url = EXCLUDED.url,
	name = EXCLUDED.name,
	site = EXCLUDED.site,
	language = EXCLUDED.language,
	schema_json = EXCLUDED.schema_json,
	embedding = EXCLUDED.embedding,
	updated_at = NOW()
`

	var written int64
	for _, doc := range docs {
		embedding, err := json.Marshal(doc.Embedding)
		if err != nil {
			return 0, fmt.Errorf("encode embedding for %s: %w", doc.ID, err)
		}
		tag, err := tx.Exec(ctx, q,
			doc.ID,
			doc.URL,
			doc.Name,
			doc.Site,
			doc.Language,
			doc.SchemaJSON,
			string(embedding),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
		written += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert transaction: %w", err)
	}
	return written, nil
}

// ListDocuments lists stored documents, newest first, optionally filtered by
// site and a case-insensitive name match.
func (p *Pool) ListDocuments(ctx context.Context, opts DocumentListOptions) ([]DocumentListItem, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	if opts.Offset < 0 {
		return nil, fmt.Errorf("offset must be >= 0")
	}

	const q = `
SELECT
	d.document_id,
	d.url,
	d.name,
	d.site,
	d.language,
	d.created_at,
	d.updated_at
FROM stitch.documents d
WHERE ($1 = '' OR d.site = $1)
  AND ($2 = '' OR d.name ILIKE '%' || $2 || '%')
ORDER BY d.updated_at DESC, d.document_id DESC
LIMIT $3 OFFSET $4
`

	rows, err := p.Query(ctx, q, opts.Site, opts.Query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	items := make([]DocumentListItem, 0, opts.Limit)
	for rows.Next() {
		var row DocumentListItem
		if err := rows.Scan(
			&row.DocumentID,
			&row.URL,
			&row.Name,
			&row.Site,
			&row.Language,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return items, nil
}

// GetDocument fetches one stored document with its full schema payload.
func (p *Pool) GetDocument(ctx context.Context, documentID string) (*StoredDocument, error) {
	const q = `
SELECT
	d.document_id,
	d.url,
	d.name,
	d.site,
	d.language,
	d.schema_json::text,
	d.embedding::text,
	d.created_at,
	d.updated_at
FROM stitch.documents d
WHERE d.document_id = $1
`

	var doc StoredDocument
	err := p.QueryRow(ctx, q, documentID).Scan(
		&doc.DocumentID,
		&doc.URL,
		&doc.Name,
		&doc.Site,
		&doc.Language,
		&doc.SchemaJSON,
		&doc.Embedding,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// StoredDocument is the full row shape returned by GetDocument.
type StoredDocument struct {
	DocumentID string    `json:"document_id"`
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Site       string    `json:"site"`
	Language   string    `json:"language,omitempty"`
	SchemaJSON string    `json:"schema_json"`
	Embedding  string    `json:"embedding"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
