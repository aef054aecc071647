package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"giftcard-store/internal/db"
	"giftcard-store/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type postgresRepo struct {
	pool   db.Pool
	logger zerolog.Logger
}

func NewPostgres(pool db.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) CreateWithOrder(ctx context.Context, p domain.Payment, o domain.Order) error {
	paymentDoc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payment: %w", err)
	}
	orderDoc, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
INSERT INTO payments (id, customer_id, document, created_at)
VALUES ($1, $2, $3, $4)
`, p.ID, p.CustomerID, paymentDoc, p.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("payment_id", p.ID).Msg("payment repo: insert payment")
		return err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO orders (id, customer_id, payment_id, document, created_at)
VALUES ($1, $2, $3, $4, $5)
`, o.ID, o.CustomerID, o.PaymentID, orderDoc, o.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("order_id", o.ID).Msg("payment repo: insert order")
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Info().Str("payment_id", p.ID).Str("order_id", o.ID).Int64("amount_cents", p.AmountCents).Msg("payment repo: recorded")
	return nil
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT document
FROM orders
WHERE customer_id::text = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var o domain.Order
		if err := json.Unmarshal(doc, &o); err != nil {
			r.logger.Error().Err(err).Str("customer_id", customerID).Msg("payment repo: decode order")
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
