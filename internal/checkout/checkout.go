// Package checkout turns the cart into a payment request and clears the
// cart once the payment is confirmed.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"giftcard-store/internal/cart"
	"giftcard-store/internal/client"

	"github.com/rs/zerolog"
)

const statusSucceeded = "succeeded"

var (
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrNotSucceeded is returned when the payment was recorded with a
	// status other than succeeded. The cart is left untouched.
	ErrNotSucceeded = errors.New("checkout: payment did not succeed")
)

// Payments submits a payment for the current cart contents.
type Payments interface {
	SubmitPayment(ctx context.Context, req client.PaymentRequest) (*client.PaymentReceipt, error)
}

// Cart is the part of the cart container checkout needs.
type Cart interface {
	State() cart.State
	Dispatch(a cart.Action) cart.State
}

type Input struct {
	Email  string
	Method string
}

type Submitter struct {
	Cart     Cart
	Payments Payments
	Logger   zerolog.Logger
}

// Submit sends the cart's items and total at this moment. CLEAR_CART is
// dispatched only after a succeeded receipt.
func (s *Submitter) Submit(ctx context.Context, in Input) (*client.PaymentReceipt, error) {
	state := s.Cart.State()
	if state.Empty() {
		return nil, ErrEmptyCart
	}

	req := client.PaymentRequest{
		Items:  make([]client.PaymentItem, 0, len(state.Items)),
		Total:  state.Total,
		Email:  strings.TrimSpace(in.Email),
		Method: strings.TrimSpace(in.Method),
	}
	for _, it := range state.Items {
		req.Items = append(req.Items, client.PaymentItem{ProductID: it.ID, Quantity: it.Quantity})
	}

	receipt, err := s.Payments.SubmitPayment(ctx, req)
	if err != nil {
		s.Logger.Warn().Err(err).Int("lines", len(req.Items)).Msg("checkout: payment failed, cart kept")
		return nil, fmt.Errorf("submit payment: %w", err)
	}
	if receipt == nil || receipt.Status != statusSucceeded {
		status := ""
		if receipt != nil {
			status = receipt.Status
		}
		s.Logger.Warn().Str("status", status).Msg("checkout: payment not succeeded, cart kept")
		return receipt, fmt.Errorf("%w: status %q", ErrNotSucceeded, status)
	}

	s.Cart.Dispatch(cart.ClearCart())
	s.Logger.Info().Str("order_id", receipt.OrderID).Int64("amount_cents", receipt.AmountCents).Msg("checkout: order placed")
	return receipt, nil
}
