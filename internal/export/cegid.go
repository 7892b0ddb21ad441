package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteCegid writes a pipe-delimited journal in the layout Cegid Expert
// imports: journal, date, account, aux, reference, label, sense (D/C),
// amount.
func WriteCegid(w io.Writer, invoices []Invoice) error {
	entries, err := Entries(invoices)
	if err != nil {
		return err
	}

	for _, e := range entries {
		sense := "D"
		amount := e.Debit
		if e.Credit.IsPositive() {
			sense = "C"
			amount = e.Credit
		}
		fields := []string{
			e.JournalCode,
			e.Date.Format("20060102"),
			e.Account,
			e.AuxAccount,
			e.Reference,
			e.Label,
			sense,
			fecAmount(amount),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "|")); err != nil {
			return fmt.Errorf("write cegid entry %s: %w", e.Number, err)
		}
	}
	return nil
}
