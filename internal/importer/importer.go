package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"giftcard-store/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads a gift card catalog CSV and inserts/updates products
// and the categories they reference.
//
// Expected header: key,sku,name,description,price,currency,category,image_url.
// Column order is free and unknown columns are ignored.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
	logger       zerolog.Logger
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, logger zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
		logger:       logger,
	}
}

// Result summarizes an import run.
type Result struct {
	Products   int
	Categories int
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"key", "name", "price"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing %q column", required)
		}
	}

	seenCategories := map[string]bool{}
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if p == nil {
			continue
		}

		if p.Category != "" && !seenCategories[p.Category] {
			if _, err := i.categoryRepo.Upsert(ctx, domain.Category{Key: p.Category, Name: categoryName(p.Category)}); err != nil {
				return res, fmt.Errorf("upsert category %q: %w", p.Category, err)
			}
			seenCategories[p.Category] = true
			res.Categories++
		}

		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return res, fmt.Errorf("upsert product %q: %w", p.Key, err)
		}
		res.Products++
		i.logger.Debug().Str("key", p.Key).Int64("price_cents", p.PriceCents).Msg("importer: product saved")
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns nil for blank rows.
func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	key := pick(record, index, "key")
	name := pick(record, index, "name")
	rawPrice := pick(record, index, "price")
	if key == "" && name == "" && rawPrice == "" {
		return nil, nil
	}
	if key == "" || name == "" {
		return nil, fmt.Errorf("%w: key and name are required", domain.ErrInvalidInput)
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q for %s", domain.ErrInvalidInput, rawPrice, key)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price for %s must be positive", domain.ErrInvalidInput, key)
	}
	if !price.Equal(price.Round(2)) {
		return nil, fmt.Errorf("%w: price %s for %s has more than two decimals", domain.ErrInvalidInput, rawPrice, key)
	}

	sku := pick(record, index, "sku")
	if sku == "" {
		sku = strings.ToUpper(key)
	}
	currency := strings.ToUpper(pick(record, index, "currency"))
	if currency == "" {
		currency = "USD"
	}

	return &domain.Product{
		Key:         key,
		SKU:         sku,
		Name:        name,
		Description: pick(record, index, "description"),
		PriceCents:  price.Shift(2).IntPart(),
		Currency:    currency,
		Category:    strings.ToLower(pick(record, index, "category")),
		ImageURL:    pick(record, index, "image_url"),
	}, nil
}

func categoryName(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
