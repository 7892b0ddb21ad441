package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func invoice(number string, ht, tva, ttc string) Invoice {
	return Invoice{
		Number:     number,
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ClientName: "ACME SARL",
		TotalHT:    dec(ht),
		TotalTVA:   dec(tva),
		TotalTTC:   dec(ttc),
	}
}

func TestEntriesDoubleEntry(t *testing.T) {
	entries, err := Entries([]Invoice{invoice("FAC-2024-00001", "200.00", "40.00", "240.00")})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, AccountClients, entries[0].Account)
	assert.True(t, entries[0].Debit.Equal(dec("240.00")))
	assert.Equal(t, "ACME SARL", entries[0].AuxLabel)

	assert.Equal(t, AccountSales, entries[1].Account)
	assert.True(t, entries[1].Credit.Equal(dec("200.00")))

	assert.Equal(t, AccountVAT, entries[2].Account)
	assert.True(t, entries[2].Credit.Equal(dec("40.00")))

	// the entry balances
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	assert.True(t, debits.Equal(credits))
}

func TestEntriesOmitZeroVAT(t *testing.T) {
	entries, err := Entries([]Invoice{invoice("FAC-2024-00002", "100.00", "0.00", "100.00")})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, AccountVAT, e.Account)
	}
}

func TestEntriesEmpty(t *testing.T) {
	_, err := Entries(nil)
	require.ErrorIs(t, err, ErrNoInvoices)
}

func TestFECFileName(t *testing.T) {
	assert.Equal(t, "123456789FEC20241231.txt", FECFileName("123456789", 2024))
}

func TestWriteFEC(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFEC(&buf, []Invoice{invoice("FAC-2024-00001", "200.00", "40.00", "240.00")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header + 3 entries")

	header := strings.Split(lines[0], "\t")
	require.Len(t, header, 18)
	assert.Equal(t, "JournalCode", header[0])
	assert.Equal(t, "Idevise", header[17])

	debit := strings.Split(lines[1], "\t")
	require.Len(t, debit, 18)
	assert.Equal(t, "VE", debit[0])
	assert.Equal(t, "20240315", debit[3])
	assert.Equal(t, "411000", debit[4])
	assert.Equal(t, "240,00", debit[11], "comma decimal separator")
	assert.Equal(t, "0,00", debit[12])
}

func TestWriteSage(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSage(&buf, []Invoice{invoice("FAC-2024-00001", "200.00", "40.00", "240.00")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date;Journal;Compte;CompteAux;Piece;Libelle;Debit;Credit", lines[0])
	assert.Contains(t, lines[1], "15/03/2024;VE;411000;")
}

func TestWriteCegid(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCegid(&buf, []Invoice{invoice("FAC-2024-00001", "200.00", "40.00", "240.00")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	debit := strings.Split(lines[0], "|")
	require.Len(t, debit, 8)
	assert.Equal(t, "D", debit[6])
	assert.Equal(t, "240,00", debit[7])

	credit := strings.Split(lines[1], "|")
	assert.Equal(t, "C", credit[6])
	assert.Equal(t, "200,00", credit[7])
}
