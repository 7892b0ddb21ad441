// Package domain contains persistence models for the document log.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Type identifies the kind of business document being generated.
type Type string

const (
	TypeFacture   Type = "facture"
	TypeFichePaie Type = "fiche_paie"
	TypeContrat   Type = "contrat"
)

// Valid reports whether the value is a known document type.
func (t Type) Valid() bool {
	switch t {
	case TypeFacture, TypeFichePaie, TypeContrat:
		return true
	}
	return false
}

// Status values for logged documents.
const (
	StatusGenerated = "generated"
	StatusFailed    = "failed"
)

// Document records one issued document. Number is globally unique;
// the constraint is what turns a numbering bug into ErrDuplicateNumber
// instead of a silent overwrite.
type Document struct {
	ID           snowflake.ID      `gorm:"primaryKey"`
	DocumentType Type              `gorm:"type:text;not null;index"`
	Number       string            `gorm:"type:text;not null;uniqueIndex:ux_documents_number"`
	Filename     string            `gorm:"type:text;not null"`
	ClientName   string            `gorm:"type:text"`
	TotalAmount  string            `gorm:"type:text;not null;default:'0'"`
	SourceFile   string            `gorm:"type:text"`
	Status       string            `gorm:"type:text;not null;default:'generated'"`
	Metadata     datatypes.JSONMap `gorm:"serializer:json"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// TypeStats aggregates the log for one document type.
type TypeStats struct {
	Count       int64
	TotalAmount string
}

// Stats summarizes the whole document log.
type Stats struct {
	ByType         map[Type]TypeStats
	TotalDocuments int64
}
