package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	LogLevel  string
	LogFormat string

	Company Company

	InvoicePrefix  string
	PayslipPrefix  string
	ContractPrefix string

	DefaultTVARate  string
	PaymentTerms    string
	LatePaymentRate string
	RecoveryFee     string

	OutputDir  string
	ArchiveDir string
	ExportDir  string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// Company identifies the issuing business on generated documents.
type Company struct {
	Name       string
	Address    string
	PostalCode string
	City       string
	SIRET      string
	SIREN      string
	TVAIntra   string
	Phone      string
	Email      string
	IBAN       string
	BIC        string
	LogoPath   string
}

// PrefixFor returns the document number prefix for a document type value.
func (c Config) PrefixFor(documentType string) string {
	switch documentType {
	case "facture":
		return c.InvoicePrefix
	case "fiche_paie":
		return c.PayslipPrefix
	case "contrat":
		return c.ContractPrefix
	default:
		return "DOC"
	}
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "gendoc"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		Company: Company{
			Name:       getenv("COMPANY_NAME", "Votre Entreprise"),
			Address:    getenv("COMPANY_ADDRESS", "123 Rue de l'Exemple"),
			PostalCode: getenv("COMPANY_POSTAL_CODE", "75001"),
			City:       getenv("COMPANY_CITY", "Paris"),
			SIRET:      strings.TrimSpace(getenv("COMPANY_SIRET", "")),
			SIREN:      strings.TrimSpace(getenv("COMPANY_SIREN", "")),
			TVAIntra:   strings.TrimSpace(getenv("COMPANY_TVA_INTRACOM", "")),
			Phone:      getenv("COMPANY_PHONE", ""),
			Email:      getenv("COMPANY_EMAIL", ""),
			IBAN:       strings.TrimSpace(getenv("COMPANY_IBAN", "")),
			BIC:        strings.TrimSpace(getenv("COMPANY_BIC", "")),
			LogoPath:   getenv("COMPANY_LOGO_PATH", ""),
		},

		InvoicePrefix:  getenv("INVOICE_PREFIX", "FAC"),
		PayslipPrefix:  getenv("PAYSLIP_PREFIX", "PAI"),
		ContractPrefix: getenv("CONTRACT_PREFIX", "CTR"),

		DefaultTVARate:  getenv("DEFAULT_TVA_RATE", "20.0"),
		PaymentTerms:    getenv("PAYMENT_TERMS", "Paiement à 30 jours"),
		LatePaymentRate: getenv("LATE_PAYMENT_RATE", "3.0"),
		RecoveryFee:     getenv("RECOVERY_FEE", "40.0"),

		OutputDir:  getenv("OUTPUT_DIR", "output"),
		ArchiveDir: getenv("ARCHIVE_DIR", "archives"),
		ExportDir:  getenv("EXPORT_DIR", "exports"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "gendoc"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
