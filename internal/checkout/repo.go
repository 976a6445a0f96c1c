package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keyhaven/keyhaven/internal/keypool"
)

// Result describes a committed checkout.
type Result struct {
	Lines      []PurchasedLine
	TotalCents int64
}

type PgRepo struct {
	DB   *pgxpool.Pool
	Keys *keypool.Repo
}

type cartLine struct {
	productID       uuid.UUID
	quantity        int
	priceCents      int64
	discountPercent int
}

// Purchase converts the user's cart into one transaction row, one ownership
// row and one claimed key per cart line, then clears the cart. Everything
// runs in a single database transaction: any failure, including an exhausted
// key pool, leaves no partial trace. One line buys one license; the stored
// quantity does not multiply the charge or the key count.
func (r *PgRepo) Purchase(ctx context.Context, userID uuid.UUID) (Result, error) {
	now := time.Now().UTC()

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lines, err := loadCart(ctx, tx, userID, now)
	if err != nil {
		return Result{}, err
	}
	if len(lines) == 0 {
		// Empty cart checks out trivially with zero writes.
		return Result{}, nil
	}

	res := Result{Lines: make([]PurchasedLine, 0, len(lines))}
	for _, l := range lines {
		amount := EffectiveAmount(l.priceCents, l.discountPercent)

		if _, err := tx.Exec(ctx, `
			INSERT INTO transactions(id, user_id, product_id, amount_cents, transaction_date)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), userID, l.productID, amount, now); err != nil {
			return Result{}, err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO purchased_products(id, user_id, product_id, purchase_date)
			VALUES ($1, $2, $3, $4)`,
			uuid.New(), userID, l.productID, now); err != nil {
			return Result{}, err
		}

		if _, err := r.Keys.ClaimOne(ctx, tx, l.productID, userID, now); err != nil {
			return Result{}, err
		}

		res.Lines = append(res.Lines, PurchasedLine{ProductID: l.productID, AmountCents: amount})
		res.TotalCents += amount
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id = $1`, userID); err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}
	return res, nil
}

func loadCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID, now time.Time) ([]cartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT c.product_id, c.quantity, p.price_cents, COALESCE(d.discount_percent, 0)
		FROM cart c
		JOIN products p ON p.id = c.product_id
		LEFT JOIN LATERAL (
			SELECT discount_percent FROM discounts
			WHERE product_id = c.product_id AND end_date >= $2
			ORDER BY id DESC LIMIT 1
		) d ON true
		WHERE c.user_id = $1
		ORDER BY c.added_at`, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.quantity, &l.priceCents, &l.discountPercent); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
