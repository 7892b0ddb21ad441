package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteSage writes a semicolon-separated journal in the layout Sage 100
// imports: date, journal, account, aux account, reference, label, debit,
// credit.
func WriteSage(w io.Writer, invoices []Invoice) error {
	entries, err := Entries(invoices)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write([]string{"Date", "Journal", "Compte", "CompteAux", "Piece", "Libelle", "Debit", "Credit"}); err != nil {
		return fmt.Errorf("write sage header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Date.Format("02/01/2006"),
			e.JournalCode,
			e.Account,
			e.AuxAccount,
			e.Reference,
			e.Label,
			fecAmount(e.Debit),
			fecAmount(e.Credit),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write sage entry %s: %w", e.Number, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
