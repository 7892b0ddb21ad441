// Package domain defines the document numbering authority.
package domain

import (
	"context"
	"errors"
	"time"
)

// Numbering holds the last issued number for one (document type, year) key.
type Numbering struct {
	DocumentType string    `gorm:"primaryKey;size:32"`
	Year         int       `gorm:"primaryKey"`
	LastNumber   int64     `gorm:"not null;default:0"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName implements gorm.Tabler.
func (Numbering) TableName() string {
	return "numbering"
}

// Service issues the next document number for a (type, year) key.
// Numbers are strictly increasing, gap-free at issuance, and survive restarts.
type Service interface {
	Next(ctx context.Context, documentType string, year int) (int64, error)
}

var (
	// ErrUnknownDocumentType rejects types outside the configured set.
	ErrUnknownDocumentType = errors.New("unknown_document_type")
	// ErrStorageUnavailable signals the numbering store stayed contended or
	// unreachable after retries; the caller must not fabricate a number.
	ErrStorageUnavailable = errors.New("numbering_storage_unavailable")
)
