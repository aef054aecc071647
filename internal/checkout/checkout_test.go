package checkout

import (
	"context"
	"errors"
	"testing"

	"giftcard-store/internal/cart"
	"giftcard-store/internal/cart/store"
	"giftcard-store/internal/client"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayments struct {
	receipt *client.PaymentReceipt
	err     error
	calls   []client.PaymentRequest
}

func (s *stubPayments) SubmitPayment(_ context.Context, req client.PaymentRequest) (*client.PaymentReceipt, error) {
	s.calls = append(s.calls, req)
	return s.receipt, s.err
}

func filledCart(t *testing.T) (*cart.Container, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	c := cart.New(mem)
	c.AddItem(cart.Product{ID: "steam-25", Name: "Steam $25", Price: decimal.RequireFromString("25.00")}, 2)
	c.AddItem(cart.Product{ID: "spotify-10", Name: "Spotify", Price: decimal.RequireFromString("9.99")}, 1)
	return c, mem
}

func TestSubmit_ClearsCartOnSuccess(t *testing.T) {
	c, mem := filledCart(t)
	payments := &stubPayments{receipt: &client.PaymentReceipt{PaymentID: "pay-1", OrderID: "ord-1", Status: "succeeded", AmountCents: 5999}}
	s := &Submitter{Cart: c, Payments: payments, Logger: zerolog.Nop()}

	receipt, err := s.Submit(context.Background(), Input{Email: " me@example.com ", Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", receipt.OrderID)

	require.Len(t, payments.calls, 1)
	req := payments.calls[0]
	assert.Equal(t, "59.99", req.Total.StringFixed(2))
	assert.Equal(t, "me@example.com", req.Email)
	assert.Equal(t, []client.PaymentItem{
		{ProductID: "steam-25", Quantity: 2},
		{ProductID: "spotify-10", Quantity: 1},
	}, req.Items)

	assert.True(t, c.State().Empty())
	_, ok, err := mem.Load()
	require.NoError(t, err)
	assert.False(t, ok, "snapshot should be removed after checkout")
}

func TestSubmit_EmptyCart(t *testing.T) {
	payments := &stubPayments{}
	s := &Submitter{Cart: cart.New(nil), Payments: payments, Logger: zerolog.Nop()}

	_, err := s.Submit(context.Background(), Input{Email: "me@example.com"})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, payments.calls)
}

func TestSubmit_KeepsCartOnFailure(t *testing.T) {
	c, _ := filledCart(t)
	before := c.State()
	s := &Submitter{Cart: c, Payments: &stubPayments{err: &client.APIError{Status: 400, Message: "total mismatch"}}, Logger: zerolog.Nop()}

	_, err := s.Submit(context.Background(), Input{})
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, 400))
	assert.Equal(t, before, c.State())
}

func TestSubmit_KeepsCartOnNonSuccessStatus(t *testing.T) {
	c, _ := filledCart(t)
	before := c.State()
	s := &Submitter{Cart: c, Payments: &stubPayments{receipt: &client.PaymentReceipt{Status: "pending"}}, Logger: zerolog.Nop()}

	receipt, err := s.Submit(context.Background(), Input{})
	assert.True(t, errors.Is(err, ErrNotSucceeded))
	require.NotNil(t, receipt)
	assert.Equal(t, "pending", receipt.Status)
	assert.Equal(t, before, c.State())

	s.Payments = &stubPayments{}
	_, err = s.Submit(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrNotSucceeded)
	assert.Equal(t, before, c.State())
}
