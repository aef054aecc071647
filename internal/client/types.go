package client

import (
	"time"

	"giftcard-store/internal/cart"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int       `json:"expiresIn"`
	Customer     *Customer `json:"customer"`
}

type Product struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Price returns the unit price in major currency units.
func (p Product) Price() decimal.Decimal {
	return decimal.New(p.PriceCents, -2)
}

// CartProduct is the reference handed to the cart on ADD_ITEM.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price(),
		Image:    p.ImageURL,
		Category: p.Category,
	}
}

type ProductPage struct {
	Total   int       `json:"total"`
	Results []Product `json:"results"`
}

type Category struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type PaymentItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PaymentRequest struct {
	Items  []PaymentItem   `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Email  string          `json:"email"`
	Method string          `json:"method"`
}

type PaymentReceipt struct {
	PaymentID   string `json:"paymentId"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

type OrderLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type Order struct {
	ID         string      `json:"id"`
	PaymentID  string      `json:"paymentId"`
	Items      []OrderLine `json:"items"`
	TotalCents int64       `json:"totalCents"`
	Currency   string      `json:"currency"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Total returns the order total in major currency units.
func (o Order) Total() decimal.Decimal {
	return decimal.New(o.TotalCents, -2)
}
