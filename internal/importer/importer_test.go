package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"giftcard-store/internal/domain"

	"github.com/rs/zerolog"
)

type stubProductRepo struct {
	items []domain.Product
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `key,sku,name,description,price,currency,category,image_url
steam-25,GC-STEAM-25,Steam Wallet $25,Games,25.00,usd,Gaming,/images/steam.png
,,,,,,,
netflix-30,,Netflix $30,,29.99,,streaming,
xbox-50,GC-XBOX-50,Xbox $50,,50,USD,gaming,/images/xbox.png
gift-box,GC-BOX,Mystery Box,,10.5,USD,gift-ideas,`

	repo := &stubProductRepo{}
	catRepo := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, catRepo, zerolog.Nop())

	res, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if res.Products != 4 || len(repo.items) != 4 {
		t.Fatalf("expected 4 products imported, got %+v (%d saved)", res, len(repo.items))
	}
	if res.Categories != 3 || len(catRepo.items) != 3 {
		t.Fatalf("expected 3 category upserts, got %+v", catRepo.items)
	}

	first := repo.items[0]
	if first.Key != "steam-25" || first.SKU != "GC-STEAM-25" || first.PriceCents != 2500 || first.Currency != "USD" || first.Category != "gaming" {
		t.Fatalf("unexpected product data: %+v", first)
	}
	second := repo.items[1]
	if second.SKU != "NETFLIX-30" || second.PriceCents != 2999 || second.Currency != "USD" {
		t.Fatalf("expected defaults applied, got %+v", second)
	}
	if repo.items[3].PriceCents != 1050 {
		t.Fatalf("expected 1050 cents, got %d", repo.items[3].PriceCents)
	}
	if catRepo.items[2].Name != "Gift Ideas" {
		t.Fatalf("expected derived category name, got %q", catRepo.items[2].Name)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing price column": "key,name\nsteam,Steam",
		"bad price":            "key,name,price\nsteam,Steam,free",
		"negative price":       "key,name,price\nsteam,Steam,-5",
		"sub-cent price":       "key,name,price\nsteam,Steam,1.005",
		"missing name":         "key,name,price\nsteam,,5",
	}
	for name, data := range cases {
		imp := NewCSVImporter(strings.NewReader(data), &stubProductRepo{}, &stubCategoryRepo{}, zerolog.Nop())
		if _, err := imp.Run(context.Background()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	imp := NewCSVImporter(strings.NewReader("key,name,price\nsteam,Steam,abc"), &stubProductRepo{}, &stubCategoryRepo{}, zerolog.Nop())
	if _, err := imp.Run(context.Background()); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
