package db

import (
	"time"
)

// Document maps stitch.documents, one row per canonical entity.
type Document struct {
	DocumentID string    `gorm:"column:document_id;type:text;primaryKey"`
	URL        string    `gorm:"column:url;type:text;not null"`
	Name       string    `gorm:"column:name;type:text;not null"`
	Site       string    `gorm:"column:site;type:text;not null"`
	Language   string    `gorm:"column:language;type:text;not null;default:''"`
	SchemaJSON string    `gorm:"column:schema_json;type:jsonb;not null"`
	Embedding  string    `gorm:"column:embedding;type:jsonb;not null;default:'[]'"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Document) TableName() string { return "stitch.documents" }

func autoMigrateModels() []any {
	return []any{
		&Document{},
	}
}
