package product

import (
	"context"
	"time"

	"giftcard-store/internal/domain"
	productrepo "giftcard-store/internal/repository/product"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 512
	DefaultCacheTTL  = 30 * time.Second
)

type Service struct {
	repo  productrepo.Repository
	cache *expirable.LRU[string, domain.Product]
}

// Option customizes a Service.
type Option func(*options)

type options struct {
	cacheTTL time.Duration
}

// WithCacheTTL bounds how long a product read by Get is served from memory.
// Writes from other processes, such as the importer, become visible once
// the entry expires.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

func New(repo productrepo.Repository, opts ...Option) *Service {
	o := options{cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}
	cache := expirable.NewLRU[string, domain.Product](defaultCacheSize, nil, o.cacheTTL)
	return &Service{repo: repo, cache: cache}
}

// ListResult carries one page of products plus the unpaged match count.
type ListResult struct {
	Total   int              `json:"total"`
	Results []domain.Product `json:"results"`
}

func (s *Service) List(ctx context.Context, f productrepo.Filter) (ListResult, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return ListResult{Total: total, Results: products}, nil
}

// Get returns a product by id, served from the cache until the entry expires.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := s.cache.Get(id); ok {
		return &p, nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, *p)
	return p, nil
}

// GetMany looks products up directly in the repository, bypassing the cache
// so checkout always prices against current rows.
func (s *Service) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	products, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
		s.cache.Add(p.ID, p)
	}
	return out, nil
}

func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.Remove(saved.ID)
	return saved, nil
}
