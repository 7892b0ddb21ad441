package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/gendoc/pkg/db/pagination"
)

// ListRequest filters and paginates the document log.
type ListRequest struct {
	Type   Type
	Limit  int
	Offset int
}

// ListResponse carries one page of log entries, newest first.
type ListResponse struct {
	Documents []Document          `json:"documents"`
	Page      pagination.PageInfo `json:"page"`
}

type Service interface {
	// Log appends an issued document to the log. A number collision
	// returns ErrDuplicateNumber; the existing entry is never touched.
	Log(ctx context.Context, doc *Document) error
	GetByNumber(ctx context.Context, number string) (Document, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Stats(ctx context.Context) (Stats, error)
}

var (
	ErrNotFound        = errors.New("document_not_found")
	ErrDuplicateNumber = errors.New("duplicate_document_number")
	ErrInvalidType     = errors.New("invalid_document_type")
)
