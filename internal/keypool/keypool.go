package keypool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOutOfStock reports a product whose pool has no unassigned keys left.
type ErrOutOfStock struct{ ProductID uuid.UUID }

func (e ErrOutOfStock) Error() string {
	return fmt.Sprintf("no keys available for product %s", e.ProductID)
}

type Key struct {
	ID         uuid.UUID  `json:"id"`
	ProductID  uuid.UUID  `json:"product_id"`
	Value      string     `json:"key"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}

type Repo struct{ DB *pgxpool.Pool }

// ClaimOne binds one unassigned key for the product to the buyer in a single
// conditional update. SKIP LOCKED sends concurrent claims to different rows;
// when the pool is empty the update touches zero rows and the claim fails.
// Runs on the caller's transaction so a failed checkout releases the key.
func (r *Repo) ClaimOne(ctx context.Context, tx pgx.Tx, productID, userID uuid.UUID, now time.Time) (uuid.UUID, error) {
	var keyID uuid.UUID
	err := tx.QueryRow(ctx, `
		UPDATE keys SET user_id = $2, assigned_at = $3
		WHERE id = (
			SELECT id FROM keys
			WHERE product_id = $1 AND user_id IS NULL
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id`, productID, userID, now).Scan(&keyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrOutOfStock{ProductID: productID}
	}
	if err != nil {
		return uuid.Nil, err
	}
	return keyID, nil
}

// CountAvailable returns the number of unassigned keys per product.
// Products with an empty pool are present with a zero count.
func (r *Repo) CountAvailable(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(productIDs))
	for _, id := range productIDs {
		out[id] = 0
	}

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, COUNT(*) FROM keys
		WHERE product_id = ANY($1) AND user_id IS NULL
		GROUP BY product_id`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

// AddKeys loads unassigned keys into a product's pool.
func (r *Repo) AddKeys(ctx context.Context, productID uuid.UUID, values []string) (int, error) {
	added := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := r.DB.Exec(ctx,
			`INSERT INTO keys(id, product_id, key_value) VALUES ($1, $2, $3)`,
			uuid.New(), productID, v); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
