package repository

import (
	"context"
	"database/sql"

	"github.com/minhhua/figure-store/internal/model"
)

// CategoryRepo provides CRUD over the `categories` table.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo returns a CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a category and populates the generated ID and created_at.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, description, image) VALUES (?,?,?)",
		c.Name, c.Description, c.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM categories WHERE id=?", c.ID,
	).Scan(&c.CreatedAt)
}

// GetByID fetches a category by id. Returns ErrNotFound when absent.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	var description, image sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, image, created_at FROM categories WHERE id=? LIMIT 1", id,
	).Scan(&c.ID, &c.Name, &description, &image, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	c.Image = image.String
	return &c, nil
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, image, created_at FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		var description, image sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &image, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = description.String
		c.Image = image.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update persists name, description and image for an existing category.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name=?, description=?, image=? WHERE id=?",
		c.Name, c.Description, c.Image, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a category row. Returns ErrNotFound when no row matched.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
