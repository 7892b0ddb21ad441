package repository

import (
	"context"

	"github.com/smallbiznis/gendoc/pkg/db/option"
)

// Repository is a generic keyed store over a gorm model.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Count(ctx context.Context, query *T) (int64, error)
}
