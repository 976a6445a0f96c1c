package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadyFavorite = errors.New("product already in favorites")
	ErrNotFavorite     = errors.New("product not in favorites")
)

type Favorites struct {
	DB       *pgxpool.Pool
	Products *Repo
}

func (f *Favorites) Add(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := f.DB.Exec(ctx, `
		INSERT INTO favorites(user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyFavorite
	}
	return nil
}

func (f *Favorites) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := f.DB.Exec(ctx,
		`DELETE FROM favorites WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFavorite
	}
	return nil
}

// List returns the user's favorite products decorated with active discounts.
func (f *Favorites) List(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	rows, err := f.DB.Query(ctx, `
		SELECT `+prefixedProductCols("p")+`
		FROM favorites f JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	return f.Products.withDiscounts(ctx, out)
}

func prefixedProductCols(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.description, ` + alias + `.price_cents, ` +
		alias + `.image, ` + alias + `.banner, ` + alias + `.category, ` + alias + `.steam_app_id, ` +
		alias + `.recommended, ` + alias + `.is_new, ` + alias + `.created_at`
}
