package repository

import (
	"context"
	"database/sql"

	"github.com/minhhua/figure-store/internal/model"
)

// OrderRepo provides CRUD over the `orders` table and its `order_items`
// child rows. The owning customer id is written once at insert and never
// updated afterwards.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, customer_id, total_price, status, payment_method,
	shipping_street, shipping_city, shipping_postal_code, shipping_country, shipping_phone,
	created_at, updated_at`

// Create inserts the order and its items in one transaction and populates
// the generated ID, defaulted status and timestamps on o.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	if o.Status == "" {
		o.Status = model.StatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "Credit Card"
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_id, total_price, status, payment_method,
		   shipping_street, shipping_city, shipping_postal_code, shipping_country, shipping_phone)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		o.CustomerID, o.TotalPrice, o.Status, o.PaymentMethod,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.ShippingAddress.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	if len(o.Items) > 0 {
		// Single multi-row insert for all items.
		q := "INSERT INTO order_items (order_id, product_id, quantity) VALUES "
		args := make([]interface{}, 0, len(o.Items)*3)
		for i, it := range o.Items {
			if i > 0 {
				q += ","
			}
			q += "(?,?,?)"
			args = append(args, o.ID, it.ProductID, it.Quantity)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM orders WHERE id=?", o.ID,
	).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches any order by id, items included. Returns ErrNotFound when
// no such order exists.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	return r.getWhere(ctx, "id=?", id)
}

// GetByIDForCustomer fetches an order by id restricted to the given owner in
// a single lookup. An order owned by someone else is indistinguishable from a
// nonexistent one: both return ErrNotFound. That masking is deliberate policy,
// not an accident of the query filter; callers must not "helpfully" turn it
// into a 403.
func (r *OrderRepo) GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Order, error) {
	return r.getWhere(ctx, "id=? AND customer_id=?", id, customerID)
}

// List returns all orders, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.listWhere(ctx, "", nil)
}

// ListByCustomer returns all orders owned by the given customer, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Order, error) {
	return r.listWhere(ctx, "WHERE customer_id=?", []interface{}{customerID})
}

// Update persists the mutable order fields (status, total price, payment
// method, shipping address) and refreshes updated_at. Items and the owner are
// not touched. Intended for the admin mutation path; the customer path goes
// through UpdateShippingAddress.
func (r *OrderRepo) Update(ctx context.Context, o *model.Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET total_price=?, status=?, payment_method=?,
		     shipping_street=?, shipping_city=?, shipping_postal_code=?, shipping_country=?, shipping_phone=?,
		     updated_at=NOW()
		 WHERE id=?`,
		o.TotalPrice, o.Status, o.PaymentMethod,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.ShippingAddress.Phone, o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, o.ID); err != nil {
			return err
		}
	}
	return r.db.QueryRowContext(ctx,
		"SELECT updated_at FROM orders WHERE id=?", o.ID,
	).Scan(&o.UpdatedAt)
}

// UpdateShippingAddress writes o's shipping address columns only and
// refreshes updated_at on both the row and o. Status, items and totals are
// left untouched regardless of what o carries.
func (r *OrderRepo) UpdateShippingAddress(ctx context.Context, o *model.Order) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET shipping_street=?, shipping_city=?, shipping_postal_code=?, shipping_country=?, shipping_phone=?,
		     updated_at=NOW()
		 WHERE id=?`,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.ShippingAddress.Phone, o.ID)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		"SELECT updated_at FROM orders WHERE id=?", o.ID,
	).Scan(&o.UpdatedAt)
}

// Delete removes an order and, via ON DELETE CASCADE, its items. Returns
// ErrNotFound when no row matched.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) getWhere(ctx context.Context, where string, args ...interface{}) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE "+where+" LIMIT 1", args...)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) listWhere(ctx context.Context, where string, args []interface{}) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders "+where+" ORDER BY id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *model.Order) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, quantity FROM order_items WHERE order_id=? ORDER BY id", o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Status, &o.PaymentMethod,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
