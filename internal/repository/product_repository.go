package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/minhhua/figure-store/internal/model"
)

// ProductRepo provides CRUD over the `products` table. The images list is
// stored as a JSON-encoded array in a single column.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = "id, name, description, price, category_id, images, brand, material, scale, release_date, created_at, updated_at"

// Create inserts a product and populates the generated ID and timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, category_id, images, brand, material, scale, release_date)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Name, p.Description, p.Price, p.CategoryID, string(images),
		p.Brand, p.Material, p.Scale, p.ReleaseDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM products WHERE id=?", p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a product by id. Returns ErrNotFound when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all products ordered by id.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productCols+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update persists every mutable product field and refreshes updated_at.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name=?, description=?, price=?, category_id=?, images=?, brand=?, material=?, scale=?, release_date=?, updated_at=NOW()
		 WHERE id=?`,
		p.Name, p.Description, p.Price, p.CategoryID, string(images),
		p.Brand, p.Material, p.Scale, p.ReleaseDate, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return r.db.QueryRowContext(ctx,
		"SELECT updated_at FROM products WHERE id=?", p.ID,
	).Scan(&p.UpdatedAt)
}

// Delete removes a product row. Returns ErrNotFound when no row matched.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	var description, images, brand, material, scale sql.NullString
	var release sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &p.CategoryID,
		&images, &brand, &material, &scale, &release, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Brand = brand.String
	p.Material = material.String
	p.Scale = scale.String
	if release.Valid {
		t := release.Time
		p.ReleaseDate = &t
	}
	if images.Valid && images.String != "" {
		// A corrupt images column should not fail the whole read.
		_ = json.Unmarshal([]byte(images.String), &p.Images)
	}
	return &p, nil
}
