// Package domain defines the batch generation contract.
package domain

import (
	"context"

	"github.com/smallbiznis/gendoc/internal/reader"
)

// InvoicesRequest generates one invoice per distinct client of the input rows.
type InvoicesRequest struct {
	SourceFile string
	Rows       []reader.Row
	Year       int

	// WithExport also writes FEC, Sage and Cegid journals for the batch.
	WithExport bool
	// WithArchive zips the generated artifacts with a checksum manifest.
	WithArchive bool
}

// PayslipsRequest generates one payslip per input row.
type PayslipsRequest struct {
	SourceFile string
	Rows       []reader.Row
	Year       int

	WithArchive bool
}

// Generated describes one successfully produced document.
type Generated struct {
	Number   string `json:"number"`
	Filename string `json:"filename"`
	Client   string `json:"client"`
	Total    string `json:"total"`
}

// Failure describes one input that could not be processed. The batch keeps
// going; failures are reported, never dropped.
type Failure struct {
	RowIndex int    `json:"row_index"`
	Client   string `json:"client,omitempty"`
	Reason   string `json:"reason"`
}

// Report is the outcome of one batch.
type Report struct {
	Generated   []Generated `json:"generated"`
	Failures    []Failure   `json:"failures"`
	Warnings    []string    `json:"warnings,omitempty"`
	ExportFiles []string    `json:"export_files,omitempty"`
	ArchiveFile string      `json:"archive_file,omitempty"`
}

// Service runs document batches end to end.
type Service interface {
	GenerateInvoices(ctx context.Context, req InvoicesRequest) (Report, error)
	GeneratePayslips(ctx context.Context, req PayslipsRequest) (Report, error)
}
