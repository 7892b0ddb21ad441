package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// fecHeader is the mandatory 18-column layout of the fichier des écritures
// comptables (article A47 A-1 du LPF).
var fecHeader = []string{
	"JournalCode", "JournalLib", "EcritureNum", "EcritureDate",
	"CompteNum", "CompteLib", "CompAuxNum", "CompAuxLib",
	"PieceRef", "PieceDate", "EcritureLib", "Debit", "Credit",
	"EcritureLet", "DateLet", "ValidDate", "Montantdevise", "Idevise",
}

// FECFileName returns the normalized export name, e.g. 123456789FEC20241231.txt.
func FECFileName(siren string, year int) string {
	return fmt.Sprintf("%sFEC%d1231.txt", siren, year)
}

// WriteFEC writes the tab-separated FEC journal. Amounts use the French
// comma decimal separator and dates are YYYYMMDD.
func WriteFEC(w io.Writer, invoices []Invoice) error {
	entries, err := Entries(invoices)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, strings.Join(fecHeader, "\t")); err != nil {
		return fmt.Errorf("write fec header: %w", err)
	}
	for _, e := range entries {
		fields := []string{
			e.JournalCode,
			e.JournalLabel,
			e.Number,
			e.Date.Format("20060102"),
			e.Account,
			e.AccountLabel,
			e.AuxAccount,
			e.AuxLabel,
			e.Reference,
			e.Date.Format("20060102"),
			e.Label,
			fecAmount(e.Debit),
			fecAmount(e.Credit),
			"",
			"",
			e.Date.Format("20060102"),
			"",
			"",
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return fmt.Errorf("write fec entry %s: %w", e.Number, err)
		}
	}
	return nil
}

func fecAmount(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}
