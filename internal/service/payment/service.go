package payment

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"giftcard-store/internal/domain"
	"giftcard-store/internal/events"
	paymentrepo "giftcard-store/internal/repository/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the number of units of one product per checkout.
const MaxLineQuantity = 1000

var allowedMethods = map[string]bool{
	"card":   true,
	"paypal": true,
	"wallet": true,
}

// Catalog resolves the current price of the products being bought.
type Catalog interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

type Service struct {
	repo      paymentrepo.Repository
	catalog   Catalog
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func New(repo paymentrepo.Repository, catalog Catalog, publisher events.Publisher, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutInput is what the storefront submits. Total is the amount the
// client displayed and is checked against the catalog.
type CheckoutInput struct {
	Items  []ItemInput     `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Email  string          `json:"email"`
	Method string          `json:"method"`
}

type Receipt struct {
	PaymentID   string `json:"paymentId"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// Checkout prices the items from the catalog, records the payment and its
// order in one write and publishes order.paid.v1.
func (s *Service) Checkout(ctx context.Context, customer domain.Customer, in CheckoutInput) (*Receipt, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		email = customer.Email
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", domain.ErrInvalidInput)
	}
	method := strings.TrimSpace(strings.ToLower(in.Method))
	if method == "" {
		method = "card"
	}
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidInput, in.Method)
	}

	items, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	var total int64
	currency := ""
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %s", domain.ErrInvalidInput, it.ProductID)
		}
		if currency == "" {
			currency = p.Currency
		} else if p.Currency != currency {
			return nil, fmt.Errorf("%w: mixed currencies %s and %s", domain.ErrInvalidInput, currency, p.Currency)
		}
		lines = append(lines, domain.OrderLine{
			ProductID:      p.ID,
			Name:           p.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: p.PriceCents,
		})
		lineTotal, ok := mulCents(p.PriceCents, it.Quantity)
		if !ok || lineTotal > math.MaxInt64-total {
			return nil, fmt.Errorf("%w: order total out of range", domain.ErrInvalidInput)
		}
		total += lineTotal
	}

	claimed := in.Total.Shift(2).Round(0).IntPart()
	if claimed != total {
		return nil, fmt.Errorf("%w: total %s does not match catalog total %s", domain.ErrInvalidInput,
			in.Total.StringFixed(2), decimal.New(total, -2).StringFixed(2))
	}

	now := s.now().UTC()
	payment := domain.Payment{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		Email:       email,
		Method:      method,
		AmountCents: total,
		Currency:    currency,
		Status:      domain.PaymentSucceeded,
		CreatedAt:   now,
	}
	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		PaymentID:  payment.ID,
		Lines:      lines,
		TotalCents: total,
		Currency:   currency,
		Status:     domain.OrderPaid,
		CreatedAt:  now,
	}
	if err := s.repo.CreateWithOrder(ctx, payment, order); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	// The order is committed at this point and a broker outage must not fail it.
	if err := s.publisher.PublishOrderPaid(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("payment: publish order paid")
	}

	return &Receipt{
		PaymentID:   payment.ID,
		OrderID:     order.ID,
		Status:      payment.Status,
		AmountCents: total,
		Currency:    currency,
	}, nil
}

// ListOrders returns the customer's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	orders, err := s.repo.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// mergeItems validates quantities and folds repeated product ids together,
// keeping first-seen order.
func mergeItems(in []ItemInput) ([]ItemInput, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one item required", domain.ErrInvalidInput)
	}
	out := make([]ItemInput, 0, len(in))
	seen := make(map[string]int, len(in))
	for _, it := range in {
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for %s must be at least 1", domain.ErrInvalidInput, id)
		}
		if it.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: quantity for %s exceeds %d", domain.ErrInvalidInput, id, MaxLineQuantity)
		}
		if idx, ok := seen[id]; ok {
			if out[idx].Quantity > MaxLineQuantity-it.Quantity {
				return nil, fmt.Errorf("%w: quantity for %s exceeds %d", domain.ErrInvalidInput, id, MaxLineQuantity)
			}
			out[idx].Quantity += it.Quantity
			continue
		}
		seen[id] = len(out)
		out = append(out, ItemInput{ProductID: id, Quantity: it.Quantity})
	}
	return out, nil
}

// mulCents multiplies a unit price by a quantity and reports false on
// overflow or a negative price.
func mulCents(cents int64, quantity int) (int64, bool) {
	if cents < 0 {
		return 0, false
	}
	q := int64(quantity)
	if cents != 0 && q > math.MaxInt64/cents {
		return 0, false
	}
	return cents * q, true
}
