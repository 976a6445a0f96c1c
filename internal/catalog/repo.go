package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

type ListParams struct {
	Category string
	Search   string
	SortBy   string
	Order    string
	Limit    int
}

// Columns the client may sort products by.
var sortable = map[string]string{
	"name":       "name",
	"price":      "price_cents",
	"created_at": "created_at",
}

const productCols = `id, name, description, price_cents, image, banner, category,
	steam_app_id, recommended, is_new, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Image, &p.Banner,
		&p.Category, &p.SteamAppID, &p.Recommended, &p.IsNew, &p.CreatedAt)
	return p, err
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	args := []any{}
	where := ""
	if params.Category != "" {
		args = append(args, params.Category)
		where = fmt.Sprintf(" WHERE category = $%d", len(args))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		if where == "" {
			where = fmt.Sprintf(" WHERE name ILIKE $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
		}
	}
	q += where

	if col, ok := sortable[params.SortBy]; ok {
		dir := "ASC"
		if params.Order == "desc" {
			dir = "DESC"
		}
		q += " ORDER BY " + col + " " + dir
	} else {
		q += " ORDER BY created_at DESC"
	}
	if params.Limit > 0 {
		args = append(args, params.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	return r.withDiscounts(ctx, out)
}

func (r *Repo) Recommended(ctx context.Context, limit int) ([]Product, error) {
	return r.listFlag(ctx, "recommended", limit)
}

func (r *Repo) New(ctx context.Context, limit int) ([]Product, error) {
	return r.listFlag(ctx, "is_new", limit)
}

func (r *Repo) listFlag(ctx context.Context, flag string, limit int) ([]Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE `+flag+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	return r.withDiscounts(ctx, out)
}

// Discounted returns products that currently carry an active discount.
func (r *Repo) Discounted(ctx context.Context, now time.Time) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productCols+` FROM products
		WHERE id IN (SELECT product_id FROM discounts WHERE end_date >= $1)
		ORDER BY created_at DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	return r.withDiscounts(ctx, out)
}

func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}

	if pct, err := r.ActiveDiscount(ctx, id, time.Now().UTC()); err != nil {
		return Product{}, err
	} else if pct != nil {
		p.DiscountPercent = pct
	}
	return p, nil
}

// ActiveDiscount resolves the single active discount for a product, or nil.
// Overlapping active rows tie-break on highest id (most recently created).
func (r *Repo) ActiveDiscount(ctx context.Context, productID uuid.UUID, now time.Time) (*int, error) {
	var pct int
	err := r.DB.QueryRow(ctx, `
		SELECT discount_percent FROM discounts
		WHERE product_id = $1 AND end_date >= $2
		ORDER BY id DESC LIMIT 1`, productID, now).Scan(&pct)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pct, nil
}

// withDiscounts decorates products with their active discount percent in one
// batch query.
func (r *Repo) withDiscounts(ctx context.Context, products []Product) ([]Product, error) {
	if len(products) == 0 {
		return products, nil
	}
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT ON (product_id) product_id, discount_percent
		FROM discounts
		WHERE product_id = ANY($1) AND end_date >= $2
		ORDER BY product_id, id DESC`, ids, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pcts := map[uuid.UUID]int{}
	for rows.Next() {
		var id uuid.UUID
		var pct int
		if err := rows.Scan(&id, &pct); err != nil {
			return nil, err
		}
		pcts[id] = pct
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		if pct, ok := pcts[products[i].ID]; ok {
			p := pct
			products[i].DiscountPercent = &p
		}
	}
	return products, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
