// Package pdf renders invoices and payslips.
package pdf

import (
	"context"
	"time"

	invoicedomain "github.com/smallbiznis/gendoc/internal/invoice/domain"
	payrolldomain "github.com/smallbiznis/gendoc/internal/payroll/domain"
)

// Client is the billed party printed on an invoice.
type Client struct {
	Name       string
	Address    string
	PostalCode string
	City       string
	SIRET      string
	Email      string
}

// InvoiceDocument is everything needed to render one invoice.
type InvoiceDocument struct {
	Number       string
	Date         time.Time
	Client       Client
	Totals       invoicedomain.InvoiceTotals
	PaymentTerms string
	LateRate     string
	RecoveryFee  string

	// QRPayload is the EPC069-12 text block; empty disables the code.
	QRPayload string
}

// Employee is the paid party printed on a payslip.
type Employee struct {
	LastName  string
	FirstName string
	Position  string
	HiredAt   string
}

// PayslipDocument is everything needed to render one payslip.
type PayslipDocument struct {
	Number   string
	Period   time.Time
	Employee Employee
	Result   payrolldomain.PayrollResult
}

// Provider renders documents to PDF bytes.
type Provider interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
	RenderPayslip(ctx context.Context, doc PayslipDocument) ([]byte, error)
}
