// Package qr builds EPC069-12 SEPA credit transfer QR codes.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/shopspring/decimal"
)

// Payment describes one SEPA credit transfer to encode.
type Payment struct {
	BeneficiaryName string
	IBAN            string
	BIC             string
	Amount          decimal.Decimal
	Reference       string
	Remittance      string
}

var (
	// ErrMissingBeneficiary requires name and IBAN.
	ErrMissingBeneficiary = errors.New("missing_beneficiary")
	// ErrInvalidAmount rejects non-positive amounts.
	ErrInvalidAmount = errors.New("invalid_payment_amount")
)

// EPC field limits from the EPC069-12 standard.
const (
	maxNameLen       = 70
	maxReferenceLen  = 35
	maxRemittanceLen = 140
)

// Payload renders the EPC069-12 text block. Layout is fixed: service tag,
// version, charset, identification, BIC, name, IBAN, amount, purpose,
// reference, remittance. Reference and free-text remittance are mutually
// exclusive; reference wins when both are set.
func Payload(p Payment) (string, error) {
	name := strings.TrimSpace(p.BeneficiaryName)
	iban := strings.ReplaceAll(strings.TrimSpace(p.IBAN), " ", "")
	if name == "" || iban == "" {
		return "", ErrMissingBeneficiary
	}
	if !p.Amount.IsPositive() {
		return "", fmt.Errorf("%w: %s", ErrInvalidAmount, p.Amount)
	}

	reference := truncate(strings.TrimSpace(p.Reference), maxReferenceLen)
	remittance := ""
	if reference == "" {
		remittance = truncate(strings.TrimSpace(p.Remittance), maxRemittanceLen)
	}

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		strings.TrimSpace(p.BIC),
		truncate(name, maxNameLen),
		iban,
		fmt.Sprintf("EUR%s", p.Amount.StringFixed(2)),
		"",
		reference,
		remittance,
	}
	return strings.Join(lines, "\n"), nil
}

// EncodePNG renders the payload as a PNG QR image of size x size pixels.
func EncodePNG(p Payment, size int) ([]byte, error) {
	payload, err := Payload(p)
	if err != nil {
		return nil, err
	}

	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
