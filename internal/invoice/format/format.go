// Package format renders document numbers.
package format

import "fmt"

// FormatNumber renders a document number as PREFIX-YEAR-NNNNN,
// e.g. FAC-2024-00001. Sequence values beyond five digits widen naturally.
func FormatNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n)
}
