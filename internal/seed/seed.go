package seed

import (
	"context"
	"fmt"

	"giftcard-store/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

var categories = []domain.Category{
	{Key: "gaming", Name: "Gaming"},
	{Key: "streaming", Name: "Streaming"},
	{Key: "shopping", Name: "Shopping"},
	{Key: "music", Name: "Music"},
}

var products = []domain.Product{
	{
		Key:         "steam-25",
		SKU:         "GC-STEAM-25",
		Name:        "Steam Wallet $25",
		Description: "Add funds to a Steam wallet for games and software.",
		PriceCents:  2500,
		Category:    "gaming",
		ImageURL:    "/images/steam.png",
	},
	{
		Key:         "xbox-50",
		SKU:         "GC-XBOX-50",
		Name:        "Xbox $50",
		Description: "Credit for games, apps and Game Pass on Xbox.",
		PriceCents:  5000,
		Category:    "gaming",
		ImageURL:    "/images/xbox.png",
	},
	{
		Key:         "playstation-20",
		SKU:         "GC-PSN-20",
		Name:        "PlayStation Store $20",
		Description: "Wallet top-up for the PlayStation Store.",
		PriceCents:  2000,
		Category:    "gaming",
		ImageURL:    "/images/playstation.png",
	},
	{
		Key:         "netflix-30",
		SKU:         "GC-NFLX-30",
		Name:        "Netflix $30",
		Description: "Pay for a Netflix membership without a card.",
		PriceCents:  2999,
		Category:    "streaming",
		ImageURL:    "/images/netflix.png",
	},
	{
		Key:         "spotify-10",
		SKU:         "GC-SPOT-10",
		Name:        "Spotify Premium $10",
		Description: "One month of Spotify Premium.",
		PriceCents:  999,
		Category:    "music",
		ImageURL:    "/images/spotify.png",
	},
	{
		Key:         "apple-25",
		SKU:         "GC-APPLE-25",
		Name:        "Apple Gift Card $25",
		Description: "For apps, games, music and iCloud storage.",
		PriceCents:  2500,
		Category:    "music",
		ImageURL:    "/images/apple.png",
	},
	{
		Key:         "amazon-50",
		SKU:         "GC-AMZN-50",
		Name:        "Amazon.com $50",
		Description: "Spend on millions of items at Amazon.com.",
		PriceCents:  5000,
		Category:    "shopping",
		ImageURL:    "/images/amazon.png",
	},
	{
		Key:         "google-play-15",
		SKU:         "GC-GPLAY-15",
		Name:        "Google Play $15",
		Description: "Apps, games, movies and books on Google Play.",
		PriceCents:  1500,
		Category:    "shopping",
		ImageURL:    "/images/google-play.png",
	},
}

// Apply inserts the demo gift card catalog. It is idempotent via ON CONFLICT
// in the repositories.
func Apply(ctx context.Context, productRepo ProductWriter, categoryRepo CategoryWriter) error {
	for _, c := range categories {
		if _, err := categoryRepo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Key, err)
		}
	}
	for _, p := range products {
		if p.Currency == "" {
			p.Currency = "USD"
		}
		if _, err := productRepo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}
	return nil
}
