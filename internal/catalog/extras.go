package catalog

import "context"

func (r *Repo) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Sliders(ctx context.Context) ([]Slider, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT s.id, s.product_id, s.image, s.description, p.name
		FROM sliders s JOIN products p ON p.id = s.product_id
		ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slider
	for rows.Next() {
		var s Slider
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Image, &s.Description, &s.ProductName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
