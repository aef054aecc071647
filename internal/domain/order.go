package domain

import "time"

const (
	PaymentSucceeded = "succeeded"
	OrderPaid        = "paid"
)

// OrderLine is a priced line captured at payment time.
type OrderLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// Payment records a checkout attempt. There is no gateway behind it.
type Payment struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	Email       string    `json:"email"`
	Method      string    `json:"method"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	PaymentID  string      `json:"paymentId"`
	Lines      []OrderLine `json:"items"`
	TotalCents int64       `json:"totalCents"`
	Currency   string      `json:"currency"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}
