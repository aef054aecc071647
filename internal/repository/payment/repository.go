package payment

import (
	"context"

	"giftcard-store/internal/domain"
)

// Repository records payments and the orders they pay for.
type Repository interface {
	// CreateWithOrder writes both documents atomically.
	CreateWithOrder(ctx context.Context, p domain.Payment, o domain.Order) error
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
