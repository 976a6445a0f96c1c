package catalog

import (
	"context"

	"github.com/google/uuid"
)

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Banner      string `json:"banner"`
	Category    string `json:"category"`
	SteamAppID  *int64 `json:"steam_app_id"`
	Recommended bool   `json:"recommended"`
	IsNew       bool   `json:"is_new"`
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, description, price_cents, image, banner, category,
			steam_app_id, recommended, is_new)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, in.Name, in.Description, in.PriceCents, in.Image, in.Banner, in.Category,
		in.SteamAppID, in.Recommended, in.IsNew)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, in ProductInput) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, description=$3, price_cents=$4, image=$5, banner=$6,
			category=$7, steam_app_id=$8, recommended=$9, is_new=$10
		WHERE id=$1`,
		id, in.Name, in.Description, in.PriceCents, in.Image, in.Banner, in.Category,
		in.SteamAppID, in.Recommended, in.IsNew)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Page returns one admin page of products with the total product count.
func (r *Repo) Page(ctx context.Context, page, limit int) ([]Product, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
