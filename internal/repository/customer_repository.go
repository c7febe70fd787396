package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhhua/figure-store/internal/model"
	"github.com/minhhua/figure-store/internal/utils"
)

// CustomerRepo provides CRUD over the `customers` table. Email and username
// are unique columns; violations surface as ErrEmailExists / ErrUsernameExists
// so handlers can report which identifier clashed. Emails are stored exactly
// as supplied (lookups are case-sensitive).
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = "id, name, email, username, password_hash, address, phone, date_of_birth, role, created_at, updated_at"

// Create hashes the password and inserts a new customer, populating the
// generated ID and timestamps on c. Uniqueness is pre-checked so the caller
// gets a precise sentinel; a concurrent insert can still trip the database
// constraint, which is mapped to ErrEmailExists as a fallback.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer, password string, cost int) error {
	if err := r.checkUnique(ctx, c.Email, c.Username, 0); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	if c.Role == "" {
		c.Role = model.RoleCustomer
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (name, email, username, password_hash, address, phone, date_of_birth, role)
		 VALUES (?,?,?,?,?,?,?,?)`,
		c.Name, c.Email, c.Username, c.PasswordHash, c.Address, c.Phone, c.DateOfBirth, c.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM customers WHERE id=?", c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByEmail fetches a customer by email. Returns ErrNotFound when absent.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.getWhere(ctx, "email=?", email)
}

// GetByID fetches a customer by id. Returns ErrNotFound when absent.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	return r.getWhere(ctx, "id=?", id)
}

// List returns all customers ordered by id.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+customerCols+" FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update persists every mutable field of c and refreshes updated_at. The
// caller is expected to have loaded c and applied its changes; uniqueness of
// a changed email or username is re-checked against all other rows. Role is
// written as-is, so self-service paths must not alter it before calling.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	if err := r.checkUnique(ctx, c.Email, c.Username, c.ID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers
		 SET name=?, email=?, username=?, password_hash=?, address=?, phone=?, date_of_birth=?, role=?, updated_at=NOW()
		 WHERE id=?`,
		c.Name, c.Email, c.Username, c.PasswordHash, c.Address, c.Phone, c.DateOfBirth, c.Role, c.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean a no-op write to an existing row; confirm
		// existence before reporting ErrNotFound.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return r.db.QueryRowContext(ctx,
		"SELECT updated_at FROM customers WHERE id=?", c.ID,
	).Scan(&c.UpdatedAt)
}

// Delete removes a customer row. Returns ErrNotFound when no row matched.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) getWhere(ctx context.Context, where string, arg interface{}) (*model.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+customerCols+" FROM customers WHERE "+where+" LIMIT 1", arg)
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// checkUnique reports ErrEmailExists or ErrUsernameExists when another row
// (id different from selfID) already holds the email or username.
func (r *CustomerRepo) checkUnique(ctx context.Context, email, username string, selfID uint64) error {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM customers WHERE email=? AND id<>? LIMIT 1", email, selfID).Scan(&id)
	if err == nil {
		return ErrEmailExists
	}
	if err != sql.ErrNoRows {
		return err
	}
	err = r.db.QueryRowContext(ctx,
		"SELECT id FROM customers WHERE username=? AND id<>? LIMIT 1", username, selfID).Scan(&id)
	if err == nil {
		return ErrUsernameExists
	}
	if err != sql.ErrNoRows {
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var c model.Customer
	var address, phone sql.NullString
	var dob sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Username, &c.PasswordHash,
		&address, &phone, &dob, &c.Role, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Address = address.String
	c.Phone = phone.String
	if dob.Valid {
		t := dob.Time
		c.DateOfBirth = &t
	}
	return &c, nil
}

// isDuplicateKey recognizes MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
