package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("product not in cart")
	ErrBadQuantity    = errors.New("quantity must be positive")
	ErrUnknownProduct = errors.New("unknown product")
)

// Line is one cart row joined with the product it refers to and any active
// discount.
type Line struct {
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	Image           string    `json:"image"`
	DiscountPercent *int      `json:"discount_percent,omitempty"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.product_id, c.quantity, p.name, p.price_cents, p.image, d.discount_percent
		FROM cart c
		JOIN products p ON p.id = c.product_id
		LEFT JOIN LATERAL (
			SELECT discount_percent FROM discounts
			WHERE product_id = c.product_id AND end_date >= $2
			ORDER BY id DESC LIMIT 1
		) d ON true
		WHERE c.user_id = $1
		ORDER BY c.added_at`, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Name, &l.PriceCents, &l.Image, &l.DiscountPercent); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Add creates the line or increments the existing quantity.
func (r *Repo) Add(ctx context.Context, userID, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrBadQuantity
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart(user_id, product_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity`,
		userID, productID, qty)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownProduct
		}
		return err
	}
	return nil
}

func (r *Repo) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrBadQuantity
	}
	ct, err := r.DB.Exec(ctx,
		`UPDATE cart SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM cart WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
