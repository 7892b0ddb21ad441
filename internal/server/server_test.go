package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/gendoc/internal/config"
	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	documentservice "github.com/smallbiznis/gendoc/internal/document/service"
	generatordomain "github.com/smallbiznis/gendoc/internal/generator/domain"
	generatorservice "github.com/smallbiznis/gendoc/internal/generator/service"
	"github.com/smallbiznis/gendoc/internal/observability/metrics"
	"github.com/smallbiznis/gendoc/internal/providers/pdf"
	sequencedomain "github.com/smallbiznis/gendoc/internal/sequence/domain"
	sequenceservice "github.com/smallbiznis/gendoc/internal/sequence/service"
	"github.com/smallbiznis/gendoc/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&sequencedomain.Numbering{}, &documentdomain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := config.Config{
		InvoicePrefix:  "FAC",
		PayslipPrefix:  "PAI",
		ContractPrefix: "CTR",
		DefaultTVARate: "20.0",
		OutputDir:      filepath.Join(dir, "output"),
		ArchiveDir:     filepath.Join(dir, "archives"),
		ExportDir:      filepath.Join(dir, "exports"),
		Company:        config.Company{Name: "Votre Entreprise"},
	}

	documents := documentservice.New(documentservice.ServiceParam{
		DB:        conn,
		Documents: repository.ProvideStore[documentdomain.Document](conn),
		Node:      node,
	})
	generator := generatorservice.New(generatorservice.ServiceParam{
		Config:    cfg,
		Sequence:  sequenceservice.New(sequenceservice.ServiceParam{DB: conn}),
		Documents: documents,
		PDF:       pdf.NoOpProvider{},
	})

	return NewEngine(Params{
		Config:    cfg,
		Metrics:   metrics.New(),
		Documents: documents,
		Generator: generator,
	})
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doJSON(t, newTestEngine(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	w := doJSON(t, newTestEngine(t), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateInvoicesEndToEnd(t *testing.T) {
	engine := newTestEngine(t)

	body := `{
		"source_file": "factures.csv",
		"year": 2024,
		"rows": [
			{"nom": "ACME SARL", "quantite": "1", "prix_unitaire_ht": "100", "taux_tva": "20"},
			{"nom": "ACME SARL", "quantite": "2", "prix_unitaire_ht": "50", "taux_tva": "20"}
		]
	}`
	w := doJSON(t, engine, http.MethodPost, "/v1/documents/invoices", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report generatordomain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Generated, 1)
	assert.Equal(t, "FAC-2024-00001", report.Generated[0].Number)
	assert.Equal(t, "240.00", report.Generated[0].Total)

	// the issued document is retrievable
	w = doJSON(t, engine, http.MethodGet, "/v1/documents/FAC-2024-00001", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ACME SARL")

	// and listed
	w = doJSON(t, engine, http.MethodGet, "/v1/documents?type=facture", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FAC-2024-00001")

	// and counted
	w = doJSON(t, engine, http.MethodGet, "/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "facture")
}

func TestGenerateInvoicesRejectsEmptyRows(t *testing.T) {
	w := doJSON(t, newTestEngine(t), http.MethodPost, "/v1/documents/invoices", `{"year": 2024, "rows": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	w := doJSON(t, newTestEngine(t), http.MethodGet, "/v1/documents/FAC-2099-00001", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRejectsUnknownType(t *testing.T) {
	w := doJSON(t, newTestEngine(t), http.MethodGet, "/v1/documents?type=devis", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeneratePayslipsEndToEnd(t *testing.T) {
	body := `{
		"year": 2024,
		"rows": [{"nom": "Dupont", "prenom": "Marie", "salaire_brut": "3000"}]
	}`
	w := doJSON(t, newTestEngine(t), http.MethodPost, "/v1/documents/payslips", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report generatordomain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Generated, 1)
	assert.Equal(t, "PAI-2024-00001", report.Generated[0].Number)
}
