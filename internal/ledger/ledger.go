package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchasedItem struct {
	ProductID    uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PurchaseDate time.Time `json:"purchase_date"`
	KeyValue     string    `json:"key"`
}

type TransactionItem struct {
	ProductID       uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	TransactionDate time.Time `json:"transaction_date"`
	AmountCents     int64     `json:"amount_cents"`
}

type Repo struct{ DB *pgxpool.Pool }

// Purchased returns one page of the user's library, newest first, with the
// redemption key assigned at purchase.
func (r *Repo) Purchased(ctx context.Context, userID uuid.UUID, page, limit int) ([]PurchasedItem, int, error) {
	offset, limit := pageBounds(page, limit)

	rows, err := r.DB.Query(ctx, `
		SELECT pp.product_id, p.name, pp.purchase_date, COALESCE(k.key_value, '')
		FROM purchased_products pp
		JOIN products p ON p.id = pp.product_id
		LEFT JOIN LATERAL (
			SELECT key_value FROM keys
			WHERE product_id = pp.product_id AND user_id = pp.user_id
			ORDER BY assigned_at DESC LIMIT 1
		) k ON true
		WHERE pp.user_id = $1
		ORDER BY pp.purchase_date DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PurchasedItem
	for rows.Next() {
		var it PurchasedItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.PurchaseDate, &it.KeyValue); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM purchased_products WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, totalPages(total, limit), nil
}

// Transactions returns one page of the user's purchase ledger, newest first.
func (r *Repo) Transactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]TransactionItem, int, error) {
	offset, limit := pageBounds(page, limit)

	rows, err := r.DB.Query(ctx, `
		SELECT t.product_id, p.name, t.transaction_date, t.amount_cents
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.user_id = $1
		ORDER BY t.transaction_date DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []TransactionItem
	for rows.Next() {
		var it TransactionItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.TransactionDate, &it.AmountCents); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, totalPages(total, limit), nil
}

func pageBounds(page, limit int) (offset, lim int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	return (page - 1) * limit, limit
}

func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}
