package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVSemicolon(t *testing.T) {
	path := writeFile(t, "factures.csv",
		"Nom;Quantite;Prix_Unitaire_HT\nACME SARL;2;100.50\nAutre;1;50\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ACME SARL", rows[0]["nom"])
	assert.Equal(t, "2", rows[0]["quantite"])
	assert.Equal(t, "100.50", rows[0]["prix_unitaire_ht"])
}

func TestReadCSVComma(t *testing.T) {
	path := writeFile(t, "factures.csv", "nom,quantite\nACME,3\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0]["quantite"])
}

func TestReadCSVLatin1Fallback(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("nom;ville\nSociété Générale;Orléans\n")
	require.NoError(t, err)
	path := writeFile(t, "latin1.csv", encoded)

	rows, readErr := ReadCSV(path)
	require.NoError(t, readErr)
	require.Len(t, rows, 1)
	assert.Equal(t, "Société Générale", rows[0]["nom"])
	assert.Equal(t, "Orléans", rows[0]["ville"])
}

func TestReadCSVStripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", "\xEF\xBB\xBFnom;quantite\nACME;1\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACME", rows[0]["nom"])
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "data.txt", "nom;quantite\n")

	_, err := ReadFile(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Nom", "Salaire_Brut"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Dupont", "3000"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"", ""}))

	path := filepath.Join(t.TempDir(), "paie.xlsx")
	require.NoError(t, f.SaveAs(path))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1, "blank rows are skipped")
	assert.Equal(t, "Dupont", rows[0]["nom"])
	assert.Equal(t, "3000", rows[0]["salaire_brut"])
}
