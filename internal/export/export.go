// Package export writes sales journals in FEC, Sage and Cegid formats.
package export

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one sale to post to the journal.
type Invoice struct {
	Number     string
	Date       time.Time
	ClientName string
	TotalHT    decimal.Decimal
	TotalTVA   decimal.Decimal
	TotalTTC   decimal.Decimal
}

// Entry is one journal line in the normalized double-entry shape shared by
// every output format.
type Entry struct {
	JournalCode  string
	JournalLabel string
	Number       string
	Date         time.Time
	Account      string
	AccountLabel string
	AuxAccount   string
	AuxLabel     string
	Reference    string
	Label        string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
}

// ErrNoInvoices rejects an export with nothing to post.
var ErrNoInvoices = errors.New("no_invoices_to_export")

// Plan comptable général accounts used by the sales journal.
const (
	AccountClients = "411000"
	AccountSales   = "706000"
	AccountVAT     = "445710"
)

var accountLabels = map[string]string{
	AccountClients: "Clients",
	AccountSales:   "Prestations de services",
	AccountVAT:     "TVA collectée",
}

// AccountLabel resolves a PCG account code to its label.
func AccountLabel(code string) string {
	if label, ok := accountLabels[code]; ok {
		return label
	}
	return ""
}

// Entries expands invoices into journal lines: debit client TTC, credit
// sales HT, credit collected VAT (omitted when the invoice carries none).
func Entries(invoices []Invoice) ([]Entry, error) {
	if len(invoices) == 0 {
		return nil, ErrNoInvoices
	}

	entries := make([]Entry, 0, len(invoices)*3)
	for _, inv := range invoices {
		base := Entry{
			JournalCode:  "VE",
			JournalLabel: "Journal des ventes",
			Number:       inv.Number,
			Date:         inv.Date,
			Reference:    inv.Number,
			Label:        "Facture " + inv.ClientName,
		}

		debit := base
		debit.Account = AccountClients
		debit.AccountLabel = accountLabels[AccountClients]
		debit.AuxAccount = auxAccount(inv.ClientName)
		debit.AuxLabel = inv.ClientName
		debit.Debit = inv.TotalTTC
		entries = append(entries, debit)

		sales := base
		sales.Account = AccountSales
		sales.AccountLabel = accountLabels[AccountSales]
		sales.Credit = inv.TotalHT
		entries = append(entries, sales)

		if inv.TotalTVA.IsPositive() {
			vat := base
			vat.Account = AccountVAT
			vat.AccountLabel = accountLabels[AccountVAT]
			vat.Credit = inv.TotalTVA
			entries = append(entries, vat)
		}
	}
	return entries, nil
}

// auxAccount derives a client subsidiary account code from the name.
func auxAccount(clientName string) string {
	code := "C"
	for _, r := range clientName {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			code += string(r)
		}
		if len(code) >= 9 {
			break
		}
	}
	return code
}
