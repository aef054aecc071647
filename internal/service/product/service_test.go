package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"giftcard-store/internal/domain"
	productrepo "giftcard-store/internal/repository/product"
)

type stubRepo struct {
	products   map[string]domain.Product
	getCalls   int
	lastFilter productrepo.Filter
	listErr    error
}

func (s *stubRepo) List(_ context.Context, f productrepo.Filter) ([]domain.Product, int, error) {
	s.lastFilter = f
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return nil, 0, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.getCalls++
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.products[p.ID] = p
	return &p, nil
}

func TestServiceGetCaches(t *testing.T) {
	repo := &stubRepo{products: map[string]domain.Product{"p1": {ID: "p1", Name: "Steam"}}}
	svc := New(repo)

	for i := 0; i < 3; i++ {
		p, err := svc.Get(context.Background(), "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if p.Name != "Steam" {
			t.Fatalf("unexpected product %+v", p)
		}
	}
	if repo.getCalls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.getCalls)
	}
}

func TestServiceGetNotFoundIsNotCached(t *testing.T) {
	repo := &stubRepo{products: map[string]domain.Product{}}
	svc := New(repo)

	for i := 0; i < 2; i++ {
		if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if repo.getCalls != 2 {
		t.Fatalf("expected 2 repo calls, got %d", repo.getCalls)
	}
}

func TestServiceGetSeesPriceChangeAfterTTL(t *testing.T) {
	repo := &stubRepo{products: map[string]domain.Product{"p1": {ID: "p1", PriceCents: 2500}}}
	svc := New(repo, WithCacheTTL(10*time.Millisecond))

	if _, err := svc.Get(context.Background(), "p1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	// Simulates an import run by another process writing straight to storage.
	repo.products["p1"] = domain.Product{ID: "p1", PriceCents: 3000}

	time.Sleep(50 * time.Millisecond)
	p, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.PriceCents != 3000 {
		t.Fatalf("expected current price 3000, got %d", p.PriceCents)
	}
	if repo.getCalls != 2 {
		t.Fatalf("expected 2 repo calls, got %d", repo.getCalls)
	}
}

func TestServiceGetManyRefreshesCache(t *testing.T) {
	repo := &stubRepo{products: map[string]domain.Product{"p1": {ID: "p1", PriceCents: 2500}}}
	svc := New(repo)

	if _, err := svc.Get(context.Background(), "p1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	repo.products["p1"] = domain.Product{ID: "p1", PriceCents: 3000}
	if _, err := svc.GetMany(context.Background(), []string{"p1"}); err != nil {
		t.Fatalf("get many: %v", err)
	}
	p, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.PriceCents != 3000 {
		t.Fatalf("expected refreshed price 3000, got %d", p.PriceCents)
	}
}

func TestServiceUpsertInvalidates(t *testing.T) {
	repo := &stubRepo{products: map[string]domain.Product{"p1": {ID: "p1", Name: "Old"}}}
	svc := New(repo)

	if _, err := svc.Get(context.Background(), "p1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.Upsert(context.Background(), domain.Product{ID: "p1", Name: "New"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "New" {
		t.Fatalf("expected refreshed product, got %+v", p)
	}
}

func TestServiceListClampsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	res, err := svc.List(context.Background(), productrepo.Filter{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Limit != 20 {
		t.Fatalf("expected clamped limit 20, got %d", repo.lastFilter.Limit)
	}
	if res.Results == nil {
		t.Fatalf("expected non-nil results slice")
	}
}

func TestServiceGetMany(t *testing.T) {
	repo := &stubRepo{products: map[string]domain.Product{"a": {ID: "a"}, "b": {ID: "b"}}}
	svc := New(repo)

	got, err := svc.GetMany(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
}
