package events

import (
	"context"
	"time"

	"giftcard-store/internal/domain"

	"github.com/google/uuid"
)

const (
	EventsExchange      = "giftcard.events"
	OrderPaidRoutingKey = "order.paid.v1"
	producerName        = "giftcard-api"
)

// Publisher emits domain events after they are committed.
type Publisher interface {
	PublishOrderPaid(ctx context.Context, o domain.Order) error
	Close() error
}

// Envelope is the common wrapper for every published event.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}

type OrderPaidLine struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type OrderPaid struct {
	OrderID    string          `json:"orderId"`
	PaymentID  string          `json:"paymentId"`
	CustomerID string          `json:"customerId"`
	TotalCents int64           `json:"totalCents"`
	Currency   string          `json:"currency"`
	Items      []OrderPaidLine `json:"items"`
}

// NewOrderPaid builds the order.paid.v1 envelope, partitioned by customer.
func NewOrderPaid(o domain.Order, now time.Time) Envelope[OrderPaid] {
	lines := make([]OrderPaidLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderPaidLine{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	return Envelope[OrderPaid]{
		EventName:    "OrderPaid",
		EventVersion: 1,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: o.CustomerID,
		OccurredAt:   now.UTC(),
		Payload: OrderPaid{
			OrderID:    o.ID,
			PaymentID:  o.PaymentID,
			CustomerID: o.CustomerID,
			TotalCents: o.TotalCents,
			Currency:   o.Currency,
			Items:      lines,
		},
	}
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderPaid(context.Context, domain.Order) error { return nil }
func (Nop) Close() error                                         { return nil }
