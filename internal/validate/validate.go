// Package validate checks input rows before any amounts are computed.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	"github.com/smallbiznis/gendoc/internal/reader"
)

// ErrInvalidInput marks a row that must not reach the calculators.
var ErrInvalidInput = errors.New("invalid_input")

// Result collects the findings for one row. A row with errors is skipped;
// warnings are informational only.
type Result struct {
	RowIndex int
	Errors   []string
	Warnings []string
}

// OK reports whether the row passed validation.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Err wraps the row's findings in ErrInvalidInput, or returns nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	if r.RowIndex < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(r.Errors, "; "))
	}
	return fmt.Errorf("%w: row %d: %s", ErrInvalidInput, r.RowIndex+1, strings.Join(r.Errors, "; "))
}

var requiredColumns = map[documentdomain.Type][]string{
	documentdomain.TypeFacture:   {"nom", "quantite", "prix_unitaire_ht"},
	documentdomain.TypeFichePaie: {"nom", "prenom", "salaire_brut"},
	documentdomain.TypeContrat:   {"nom", "prenom", "poste", "salaire_brut"},
}

// remise_pourcent and heures_travaillees are the canonical column names;
// the short forms are accepted as aliases.
var optionalColumns = map[documentdomain.Type][]string{
	documentdomain.TypeFacture:   {"designation", "taux_tva", "remise_pourcent", "remise", "adresse", "code_postal", "ville", "siret", "email"},
	documentdomain.TypeFichePaie: {"heures_travaillees", "heures", "poste", "date_embauche", "siret"},
	documentdomain.TypeContrat:   {"type_contrat", "date_debut", "duree_hebdo", "lieu"},
}

// Columns checks the header against the per-type column sets. Missing
// required columns are fatal; unknown columns only warn.
func Columns(docType documentdomain.Type, rows []reader.Row) Result {
	result := Result{RowIndex: -1}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "aucune ligne de données")
		return result
	}

	known := make(map[string]bool)
	for _, col := range requiredColumns[docType] {
		known[col] = true
		if _, ok := rows[0][col]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("colonne requise manquante: %s", col))
		}
	}
	for _, col := range optionalColumns[docType] {
		known[col] = true
	}
	for col := range rows[0] {
		if !known[col] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("colonne ignorée: %s", col))
		}
	}
	return result
}

// RowFacture validates one invoice row.
func RowFacture(index int, row reader.Row) Result {
	result := Result{RowIndex: index}

	if strings.TrimSpace(row["nom"]) == "" {
		result.Errors = append(result.Errors, "nom client vide")
	}
	if qty, err := decimalField(row, "quantite"); err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else if !qty.IsPositive() {
		result.Errors = append(result.Errors, "quantite doit être > 0")
	}
	if price, err := decimalField(row, "prix_unitaire_ht"); err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else if price.IsNegative() {
		result.Errors = append(result.Errors, "prix_unitaire_ht doit être >= 0")
	}
	if raw := strings.TrimSpace(row["taux_tva"]); raw != "" {
		if rate, err := parseDecimal(raw); err != nil {
			result.Errors = append(result.Errors, "taux_tva invalide: "+raw)
		} else if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			result.Errors = append(result.Errors, "taux_tva hors bornes [0,100]")
		}
	}
	if raw := row.Value("remise_pourcent", "remise"); raw != "" {
		if discount, err := parseDecimal(raw); err != nil {
			result.Errors = append(result.Errors, "remise_pourcent invalide: "+raw)
		} else if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
			result.Errors = append(result.Errors, "remise_pourcent hors bornes [0,100]")
		}
	}
	validateSIRET(row, &result)
	return result
}

// RowFichePaie validates one payslip row.
func RowFichePaie(index int, row reader.Row) Result {
	result := Result{RowIndex: index}

	if strings.TrimSpace(row["nom"]) == "" {
		result.Errors = append(result.Errors, "nom vide")
	}
	if strings.TrimSpace(row["prenom"]) == "" {
		result.Errors = append(result.Errors, "prenom vide")
	}
	if gross, err := decimalField(row, "salaire_brut"); err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else if !gross.IsPositive() {
		result.Errors = append(result.Errors, "salaire_brut doit être > 0")
	}
	if raw := row.Value("heures_travaillees", "heures"); raw != "" {
		if hours, err := parseDecimal(raw); err != nil || hours.IsNegative() {
			result.Errors = append(result.Errors, "heures_travaillees invalides: "+raw)
		}
	}
	validateSIRET(row, &result)
	return result
}

// Row dispatches on document type.
func Row(docType documentdomain.Type, index int, row reader.Row) Result {
	switch docType {
	case documentdomain.TypeFacture:
		return RowFacture(index, row)
	case documentdomain.TypeFichePaie, documentdomain.TypeContrat:
		return RowFichePaie(index, row)
	default:
		return Result{RowIndex: index, Errors: []string{fmt.Sprintf("type de document inconnu: %s", docType)}}
	}
}

func validateSIRET(row reader.Row, result *Result) {
	siret := strings.ReplaceAll(strings.TrimSpace(row["siret"]), " ", "")
	if siret == "" {
		return
	}
	if len(siret) != 14 || !isDigits(siret) {
		result.Errors = append(result.Errors, "siret invalide: 14 chiffres attendus")
	}
}

func decimalField(row reader.Row, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(row[key])
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%s manquant", key)
	}
	value, err := parseDecimal(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s invalide: %s", key, raw)
	}
	return value, nil
}

// parseDecimal accepts French-style comma decimals.
func parseDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
