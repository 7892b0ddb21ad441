package pdf

import "context"

// NoOpProvider returns placeholder bytes; tests use it to exercise the
// generation pipeline without pulling in a PDF engine.
type NoOpProvider struct{}

func (NoOpProvider) RenderInvoice(_ context.Context, doc InvoiceDocument) ([]byte, error) {
	return []byte("%PDF " + doc.Number), nil
}

func (NoOpProvider) RenderPayslip(_ context.Context, doc PayslipDocument) ([]byte, error) {
	return []byte("%PDF " + doc.Number), nil
}

var _ Provider = NoOpProvider{}
