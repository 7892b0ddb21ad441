package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gendoc/internal/archive"
	"github.com/smallbiznis/gendoc/internal/config"
	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	"github.com/smallbiznis/gendoc/internal/export"
	"github.com/smallbiznis/gendoc/internal/generator/domain"
	invoicecalc "github.com/smallbiznis/gendoc/internal/invoice/calc"
	invoicedomain "github.com/smallbiznis/gendoc/internal/invoice/domain"
	"github.com/smallbiznis/gendoc/internal/invoice/format"
	"github.com/smallbiznis/gendoc/internal/observability/logger"
	"github.com/smallbiznis/gendoc/internal/observability/metrics"
	payrollcalc "github.com/smallbiznis/gendoc/internal/payroll/calc"
	"github.com/smallbiznis/gendoc/internal/providers/pdf"
	"github.com/smallbiznis/gendoc/internal/qr"
	"github.com/smallbiznis/gendoc/internal/reader"
	sequencedomain "github.com/smallbiznis/gendoc/internal/sequence/domain"
	"github.com/smallbiznis/gendoc/internal/validate"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ErrEmptyBatch rejects a request with no input rows.
var ErrEmptyBatch = errors.New("empty_batch")

// ServiceParam defines dependencies for the batch generator.
type ServiceParam struct {
	fx.In
	Config    config.Config
	Sequence  sequencedomain.Service
	Documents documentdomain.Service
	PDF       pdf.Provider
	Metrics   *metrics.Metrics
}

type generatorService struct {
	cfg       config.Config
	sequence  sequencedomain.Service
	documents documentdomain.Service
	pdf       pdf.Provider
	metrics   *metrics.Metrics
}

// New creates the batch generator.
func New(p ServiceParam) domain.Service {
	return &generatorService{
		cfg:       p.Config,
		sequence:  p.Sequence,
		documents: p.Documents,
		pdf:       p.PDF,
		metrics:   p.Metrics,
	}
}

// clientKey identifies one invoice recipient. Rows sharing the full tuple
// are grouped onto one document.
type clientKey struct {
	Name       string
	Address    string
	PostalCode string
	City       string
}

type clientGroup struct {
	key      clientKey
	siret    string
	email    string
	rows     []reader.Row
	firstRow int
}

func (s *generatorService) GenerateInvoices(ctx context.Context, req domain.InvoicesRequest) (domain.Report, error) {
	report := domain.Report{}
	if len(req.Rows) == 0 {
		return report, ErrEmptyBatch
	}
	year := s.year(req.Year)
	log := logger.FromContext(ctx)

	if colResult := validate.Columns(documentdomain.TypeFacture, req.Rows); !colResult.OK() {
		return report, colResult.Err()
	} else {
		report.Warnings = append(report.Warnings, colResult.Warnings...)
	}

	groups := s.groupByClient(req.Rows, &report)

	var exportInvoices []export.Invoice
	var artifacts []string
	for _, group := range groups {
		started := time.Now()
		generated, artifactPaths, err := s.generateInvoice(ctx, group, year, req.SourceFile)
		if err != nil {
			s.metrics.ObserveDocument(string(documentdomain.TypeFacture), documentdomain.StatusFailed, time.Since(started))
			report.Failures = append(report.Failures, domain.Failure{
				RowIndex: group.firstRow,
				Client:   group.key.Name,
				Reason:   err.Error(),
			})
			log.Warn("invoice generation failed",
				zap.String("client", group.key.Name),
				zap.Error(err),
			)
			continue
		}

		s.metrics.ObserveDocument(string(documentdomain.TypeFacture), documentdomain.StatusGenerated, time.Since(started))
		report.Generated = append(report.Generated, generated.summary)
		artifacts = append(artifacts, artifactPaths...)
		exportInvoices = append(exportInvoices, export.Invoice{
			Number:     generated.summary.Number,
			Date:       generated.date,
			ClientName: group.key.Name,
			TotalHT:    generated.totals.TotalHT,
			TotalTVA:   generated.totals.TotalTVA,
			TotalTTC:   generated.totals.TotalTTC,
		})
	}

	if req.WithExport && len(exportInvoices) > 0 {
		files, err := s.writeExports(exportInvoices, year)
		if err != nil {
			report.Failures = append(report.Failures, domain.Failure{RowIndex: -1, Reason: err.Error()})
		} else {
			report.ExportFiles = files
			artifacts = append(artifacts, files...)
		}
	}
	if req.WithArchive && len(artifacts) > 0 {
		archiveFile, err := s.writeArchive(documentdomain.TypeFacture, year, artifacts)
		if err != nil {
			report.Failures = append(report.Failures, domain.Failure{RowIndex: -1, Reason: err.Error()})
		} else {
			report.ArchiveFile = archiveFile
		}
	}
	return report, nil
}

type generatedInvoice struct {
	summary domain.Generated
	totals  invoicedomain.InvoiceTotals
	date    time.Time
}

func (s *generatorService) generateInvoice(ctx context.Context, group clientGroup, year int, sourceFile string) (generatedInvoice, []string, error) {
	items := make([]invoicedomain.LineItem, 0, len(group.rows))
	for _, row := range group.rows {
		items = append(items, s.lineItem(row))
	}
	totals := invoicecalc.Compute(items)

	seq, err := s.sequence.Next(ctx, string(documentdomain.TypeFacture), year)
	if err != nil {
		return generatedInvoice{}, nil, fmt.Errorf("issue number: %w", err)
	}
	number := format.FormatNumber(s.cfg.PrefixFor(string(documentdomain.TypeFacture)), year, seq)
	now := time.Now()

	qrPayload := ""
	if s.cfg.Company.IBAN != "" {
		qrPayload, err = qr.Payload(qr.Payment{
			BeneficiaryName: s.cfg.Company.Name,
			IBAN:            s.cfg.Company.IBAN,
			BIC:             s.cfg.Company.BIC,
			Amount:          totals.TotalTTC,
			Reference:       number,
		})
		if err != nil {
			// a broken payment block must not lose the invoice
			logger.FromContext(ctx).Warn("payment qr skipped", zap.String("number", number), zap.Error(err))
			qrPayload = ""
		}
	}

	rendered, err := s.pdf.RenderInvoice(ctx, pdf.InvoiceDocument{
		Number: number,
		Date:   now,
		Client: pdf.Client{
			Name:       group.key.Name,
			Address:    group.key.Address,
			PostalCode: group.key.PostalCode,
			City:       group.key.City,
			SIRET:      group.siret,
			Email:      group.email,
		},
		Totals:       totals,
		PaymentTerms: s.cfg.PaymentTerms,
		LateRate:     s.cfg.LatePaymentRate,
		RecoveryFee:  s.cfg.RecoveryFee,
		QRPayload:    qrPayload,
	})
	if err != nil {
		return generatedInvoice{}, nil, fmt.Errorf("render pdf: %w", err)
	}

	filename := number + ".pdf"
	path, err := s.writeArtifact(filename, rendered)
	if err != nil {
		return generatedInvoice{}, nil, err
	}
	artifacts := []string{path}

	err = s.documents.Log(ctx, &documentdomain.Document{
		DocumentType: documentdomain.TypeFacture,
		Number:       number,
		Filename:     filename,
		ClientName:   group.key.Name,
		TotalAmount:  totals.TotalTTC.StringFixed(2),
		SourceFile:   sourceFile,
		Metadata: datatypes.JSONMap{
			"total_ht":  totals.TotalHT.StringFixed(2),
			"total_tva": totals.TotalTVA.StringFixed(2),
			"lines":     len(totals.Lines),
		},
	})
	if err != nil {
		// the number is issued and the file exists; surface the log failure
		return generatedInvoice{}, nil, fmt.Errorf("log document %s: %w", number, err)
	}

	return generatedInvoice{
		summary: domain.Generated{
			Number:   number,
			Filename: filename,
			Client:   group.key.Name,
			Total:    totals.TotalTTC.StringFixed(2),
		},
		totals: totals,
		date:   now,
	}, artifacts, nil
}

func (s *generatorService) GeneratePayslips(ctx context.Context, req domain.PayslipsRequest) (domain.Report, error) {
	report := domain.Report{}
	if len(req.Rows) == 0 {
		return report, ErrEmptyBatch
	}
	year := s.year(req.Year)
	log := logger.FromContext(ctx)

	if colResult := validate.Columns(documentdomain.TypeFichePaie, req.Rows); !colResult.OK() {
		return report, colResult.Err()
	} else {
		report.Warnings = append(report.Warnings, colResult.Warnings...)
	}

	var artifacts []string
	for i, row := range req.Rows {
		started := time.Now()
		generated, path, err := s.generatePayslip(ctx, i, row, year, req.SourceFile)
		if err != nil {
			s.metrics.ObserveDocument(string(documentdomain.TypeFichePaie), documentdomain.StatusFailed, time.Since(started))
			report.Failures = append(report.Failures, domain.Failure{
				RowIndex: i,
				Client:   strings.TrimSpace(row["prenom"] + " " + row["nom"]),
				Reason:   err.Error(),
			})
			log.Warn("payslip generation failed", zap.Int("row", i), zap.Error(err))
			continue
		}
		s.metrics.ObserveDocument(string(documentdomain.TypeFichePaie), documentdomain.StatusGenerated, time.Since(started))
		report.Generated = append(report.Generated, generated)
		artifacts = append(artifacts, path)
	}

	if req.WithArchive && len(artifacts) > 0 {
		archiveFile, err := s.writeArchive(documentdomain.TypeFichePaie, year, artifacts)
		if err != nil {
			report.Failures = append(report.Failures, domain.Failure{RowIndex: -1, Reason: err.Error()})
		} else {
			report.ArchiveFile = archiveFile
		}
	}
	return report, nil
}

func (s *generatorService) generatePayslip(ctx context.Context, index int, row reader.Row, year int, sourceFile string) (domain.Generated, string, error) {
	if result := validate.RowFichePaie(index, row); !result.OK() {
		return domain.Generated{}, "", result.Err()
	}

	gross := mustDecimal(row["salaire_brut"])
	hours := decimal.RequireFromString("151.67")
	if raw := row.Value("heures_travaillees", "heures"); raw != "" {
		hours = mustDecimal(raw)
	}
	result := payrollcalc.Compute(gross, hours)

	seq, err := s.sequence.Next(ctx, string(documentdomain.TypeFichePaie), year)
	if err != nil {
		return domain.Generated{}, "", fmt.Errorf("issue number: %w", err)
	}
	number := format.FormatNumber(s.cfg.PrefixFor(string(documentdomain.TypeFichePaie)), year, seq)

	rendered, err := s.pdf.RenderPayslip(ctx, pdf.PayslipDocument{
		Number: number,
		Period: time.Now(),
		Employee: pdf.Employee{
			LastName:  row["nom"],
			FirstName: row["prenom"],
			Position:  row["poste"],
			HiredAt:   row["date_embauche"],
		},
		Result: result,
	})
	if err != nil {
		return domain.Generated{}, "", fmt.Errorf("render pdf: %w", err)
	}

	filename := number + ".pdf"
	path, err := s.writeArtifact(filename, rendered)
	if err != nil {
		return domain.Generated{}, "", err
	}

	fullName := strings.TrimSpace(row["prenom"] + " " + row["nom"])
	err = s.documents.Log(ctx, &documentdomain.Document{
		DocumentType: documentdomain.TypeFichePaie,
		Number:       number,
		Filename:     filename,
		ClientName:   fullName,
		TotalAmount:  gross.StringFixed(2),
		SourceFile:   sourceFile,
		Metadata: datatypes.JSONMap{
			"net_before_tax": result.NetBeforeTax.StringFixed(2),
			"net_social":     result.NetSocial.StringFixed(2),
			"employer_cost":  result.EmployerCost.StringFixed(2),
			"hours_worked":   result.HoursWorked.String(),
		},
	})
	if err != nil {
		return domain.Generated{}, "", fmt.Errorf("log document %s: %w", number, err)
	}

	return domain.Generated{
		Number:   number,
		Filename: filename,
		Client:   fullName,
		Total:    gross.StringFixed(2),
	}, path, nil
}

// groupByClient buckets validated rows per client tuple, preserving row
// order. Invalid rows become failures immediately.
func (s *generatorService) groupByClient(rows []reader.Row, report *domain.Report) []clientGroup {
	var ordered []clientGroup
	index := make(map[clientKey]int)
	for i, row := range rows {
		result := validate.RowFacture(i, row)
		report.Warnings = append(report.Warnings, result.Warnings...)
		if !result.OK() {
			report.Failures = append(report.Failures, domain.Failure{
				RowIndex: i,
				Client:   strings.TrimSpace(row["nom"]),
				Reason:   result.Err().Error(),
			})
			continue
		}

		key := clientKey{
			Name:       strings.TrimSpace(row["nom"]),
			Address:    strings.TrimSpace(row["adresse"]),
			PostalCode: strings.TrimSpace(row["code_postal"]),
			City:       strings.TrimSpace(row["ville"]),
		}
		pos, seen := index[key]
		if !seen {
			index[key] = len(ordered)
			ordered = append(ordered, clientGroup{
				key:      key,
				siret:    strings.TrimSpace(row["siret"]),
				email:    strings.TrimSpace(row["email"]),
				firstRow: i,
			})
			pos = index[key]
		}
		ordered[pos].rows = append(ordered[pos].rows, row)
	}
	return ordered
}

func (s *generatorService) lineItem(row reader.Row) invoicedomain.LineItem {
	designation := strings.TrimSpace(row["designation"])
	if designation == "" {
		designation = "Prestation"
	}
	rate := s.cfg.DefaultTVARate
	if raw := strings.TrimSpace(row["taux_tva"]); raw != "" {
		rate = raw
	}
	item := invoicedomain.LineItem{
		Designation: designation,
		Quantity:    mustDecimal(row["quantite"]),
		UnitPriceHT: mustDecimal(row["prix_unitaire_ht"]),
		TaxRate:     mustDecimal(rate),
	}
	if raw := row.Value("remise_pourcent", "remise"); raw != "" {
		item.DiscountPct = mustDecimal(raw)
	}
	return item
}

func (s *generatorService) writeExports(invoices []export.Invoice, year int) ([]string, error) {
	if err := os.MkdirAll(s.cfg.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var files []string
	write := func(name string, fn func(f *os.File) error) error {
		path := filepath.Join(s.cfg.ExportDir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	if err := write(export.FECFileName(s.cfg.Company.SIREN, year), func(f *os.File) error {
		return export.WriteFEC(f, invoices)
	}); err != nil {
		return nil, err
	}
	if err := write(fmt.Sprintf("ventes_sage_%d.csv", year), func(f *os.File) error {
		return export.WriteSage(f, invoices)
	}); err != nil {
		return nil, err
	}
	if err := write(fmt.Sprintf("ventes_cegid_%d.txt", year), func(f *os.File) error {
		return export.WriteCegid(f, invoices)
	}); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *generatorService) writeArchive(docType documentdomain.Type, year int, artifacts []string) (string, error) {
	name := fmt.Sprintf("%s_%d_%s.zip", docType, year, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.cfg.ArchiveDir, name)
	if _, err := archive.Create(path, artifacts); err != nil {
		return "", fmt.Errorf("archive batch: %w", err)
	}
	return path, nil
}

func (s *generatorService) writeArtifact(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.cfg.OutputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return path, nil
}

func (s *generatorService) year(requested int) int {
	if requested > 0 {
		return requested
	}
	return time.Now().Year()
}

// mustDecimal parses values already checked by validation.
func mustDecimal(raw string) decimal.Decimal {
	return decimal.RequireFromString(normalizeDecimal(raw))
}

func normalizeDecimal(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
}
