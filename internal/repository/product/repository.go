package product

import (
	"context"

	"giftcard-store/internal/domain"
)

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
