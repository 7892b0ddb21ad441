package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gendoc/internal/document/domain"
	"github.com/smallbiznis/gendoc/internal/observability/logger"
	"github.com/smallbiznis/gendoc/pkg/db"
	"github.com/smallbiznis/gendoc/pkg/db/option"
	"github.com/smallbiznis/gendoc/pkg/db/pagination"
	"github.com/smallbiznis/gendoc/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceParam defines dependencies for the document log service.
type ServiceParam struct {
	fx.In
	DB        *gorm.DB
	Documents repository.Repository[domain.Document]
	Node      *snowflake.Node
}

type documentService struct {
	db        *gorm.DB
	documents repository.Repository[domain.Document]
	node      *snowflake.Node
}

// New creates the document log service.
func New(p ServiceParam) domain.Service {
	return &documentService{
		db:        p.DB,
		documents: p.Documents,
		node:      p.Node,
	}
}

func (s *documentService) Log(ctx context.Context, doc *domain.Document) error {
	if !doc.DocumentType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidType, doc.DocumentType)
	}
	if doc.ID == 0 {
		doc.ID = s.node.Generate()
	}
	if doc.Status == "" {
		doc.Status = domain.StatusGenerated
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateNumber, doc.Number)
		}
		return fmt.Errorf("log document: %w", err)
	}

	logger.FromContext(ctx).Info("document logged",
		zap.String("number", doc.Number),
		zap.String("document_type", string(doc.DocumentType)),
		zap.String("status", doc.Status),
	)
	return nil
}

func (s *documentService) GetByNumber(ctx context.Context, number string) (domain.Document, error) {
	doc, err := s.documents.FindOne(ctx, &domain.Document{Number: number})
	if err != nil {
		return domain.Document{}, fmt.Errorf("find document: %w", err)
	}
	if doc == nil {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}
	return *doc, nil
}

func (s *documentService) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	if req.Type != "" && !req.Type.Valid() {
		return domain.ListResponse{}, fmt.Errorf("%w: %q", domain.ErrInvalidType, req.Type)
	}

	limit, offset := pagination.Clamp(req.Limit, req.Offset)
	query := &domain.Document{}
	if req.Type != "" {
		query.DocumentType = req.Type
	}

	docs, err := s.documents.Find(ctx, query,
		option.WithOrder("created_at DESC, id DESC"),
		option.WithLimit(limit),
		option.WithOffset(offset),
	)
	if err != nil {
		return domain.ListResponse{}, fmt.Errorf("list documents: %w", err)
	}
	total, err := s.documents.Count(ctx, query)
	if err != nil {
		return domain.ListResponse{}, fmt.Errorf("count documents: %w", err)
	}

	resp := domain.ListResponse{
		Documents: make([]domain.Document, 0, len(docs)),
		Page:      pagination.PageInfo{Limit: limit, Offset: offset, Total: total},
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, *doc)
	}
	return resp, nil
}

func (s *documentService) Stats(ctx context.Context) (domain.Stats, error) {
	var rows []struct {
		DocumentType domain.Type
		TotalAmount  string
	}
	err := s.db.WithContext(ctx).
		Model(&domain.Document{}).
		Select("document_type", "total_amount").
		Find(&rows).Error
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load stats: %w", err)
	}

	stats := domain.Stats{ByType: make(map[domain.Type]domain.TypeStats)}
	sums := make(map[domain.Type]decimal.Decimal)
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.TotalAmount)
		if err != nil {
			amount = decimal.Zero
		}
		entry := stats.ByType[row.DocumentType]
		entry.Count++
		sums[row.DocumentType] = sums[row.DocumentType].Add(amount)
		stats.ByType[row.DocumentType] = entry
		stats.TotalDocuments++
	}
	for docType, entry := range stats.ByType {
		entry.TotalAmount = sums[docType].StringFixed(2)
		stats.ByType[docType] = entry
	}
	return stats, nil
}
