package service

import (
	"context"
	"fmt"
	"time"

	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	"github.com/smallbiznis/gendoc/internal/observability/logger"
	"github.com/smallbiznis/gendoc/internal/observability/metrics"
	"github.com/smallbiznis/gendoc/internal/sequence/domain"
	"github.com/smallbiznis/gendoc/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxAttempts  = 5
	retryBackoff = 25 * time.Millisecond
)

// ServiceParam defines dependencies for the numbering service.
type ServiceParam struct {
	fx.In
	DB      *gorm.DB
	Metrics *metrics.Metrics
}

type sequenceService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// New creates the numbering service.
func New(p ServiceParam) domain.Service {
	return &sequenceService{
		db:      p.DB,
		metrics: p.Metrics,
	}
}

// Next issues the next number for (documentType, year) in one atomic
// upsert-increment. The first call for a key yields 1. Transient lock
// errors are retried a few times before giving up.
func (s *sequenceService) Next(ctx context.Context, documentType string, year int) (int64, error) {
	if !documentdomain.Type(documentType).Valid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownDocumentType, documentType)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		n, err := s.increment(ctx, documentType, year)
		if err == nil {
			return n, nil
		}
		if !db.IsBusyErr(err) {
			return 0, fmt.Errorf("increment numbering: %w", err)
		}

		lastErr = err
		s.metrics.ObserveSequenceRetry()
		logger.FromContext(ctx).Warn("numbering contended, retrying",
			zap.String("document_type", documentType),
			zap.Int("year", year),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, lastErr)
}

func (s *sequenceService) increment(ctx context.Context, documentType string, year int) (int64, error) {
	conn := s.db.WithContext(ctx)

	switch db.DialectName(s.db) {
	case "mysql":
		// LAST_INSERT_ID carries the incremented value back on the
		// same connection; run both statements in one transaction.
		var n int64
		err := conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(
				`INSERT INTO numbering (document_type, year, last_number, updated_at)
				 VALUES (?, ?, LAST_INSERT_ID(1), NOW())
				 ON DUPLICATE KEY UPDATE
				   last_number = LAST_INSERT_ID(last_number + 1),
				   updated_at = NOW()`,
				documentType, year,
			).Error; err != nil {
				return err
			}
			return tx.Raw(`SELECT LAST_INSERT_ID()`).Scan(&n).Error
		})
		return n, err
	default:
		// postgres and sqlite both support ON CONFLICT ... RETURNING
		var n int64
		err := conn.Raw(
			`INSERT INTO numbering (document_type, year, last_number, updated_at)
			 VALUES (?, ?, 1, CURRENT_TIMESTAMP)
			 ON CONFLICT (document_type, year) DO UPDATE SET
			   last_number = numbering.last_number + 1,
			   updated_at = CURRENT_TIMESTAMP
			 RETURNING last_number`,
			documentType, year,
		).Scan(&n).Error
		return n, err
	}
}
