package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("customer not found")

type Customer struct {
	ID             int64           `json:"id"`
	CompanyName    string          `json:"company_name"`
	ContactPerson  *string         `json:"contact_person,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	AlternatePhone *string         `json:"alternate_phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	City           *string         `json:"city,omitempty"`
	District       *string         `json:"district,omitempty"`
	Category       *string         `json:"category,omitempty"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Notes          *string         `json:"notes,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const columns = `
id, company_name, contact_person, email, phone, alternate_phone, address, city,
district, category, credit_limit, notes, is_active, created_at, updated_at`

func scan(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(
		&c.ID, &c.CompanyName, &c.ContactPerson, &c.Email, &c.Phone, &c.AlternatePhone,
		&c.Address, &c.City, &c.District, &c.Category, &c.CreditLimit, &c.Notes,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

type ListFilter struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Customer, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}

	where := "WHERE 1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where += " AND (company_name ILIKE " + p + " OR contact_person ILIKE " + p + " OR phone ILIKE " + p + ")"
	}
	if f.Category != "" {
		where += " AND category = " + arg(f.Category)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + columns + " FROM customers " + where +
		" ORDER BY created_at DESC LIMIT " + arg(f.PerPage) + " OFFSET " + arg((f.Page-1)*f.PerPage)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	return scan(r.db.QueryRow(ctx, "SELECT "+columns+" FROM customers WHERE id = $1", id))
}

func (r *Repository) Create(ctx context.Context, c *Customer) (*Customer, error) {
	const q = `
INSERT INTO customers (company_name, contact_person, email, phone, alternate_phone,
                       address, city, district, category, credit_limit, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, is_active, created_at, updated_at
`
	if err := r.db.QueryRow(ctx, q,
		c.CompanyName, c.ContactPerson, c.Email, c.Phone, c.AlternatePhone,
		c.Address, c.City, c.District, c.Category, c.CreditLimit, c.Notes,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) Update(ctx context.Context, c *Customer) (*Customer, error) {
	const q = `
UPDATE customers
SET company_name = $1, contact_person = $2, email = $3, phone = $4, alternate_phone = $5,
    address = $6, city = $7, district = $8, category = $9, credit_limit = $10, notes = $11,
    is_active = $12, updated_at = NOW()
WHERE id = $13
RETURNING updated_at
`
	if err := r.db.QueryRow(ctx, q,
		c.CompanyName, c.ContactPerson, c.Email, c.Phone, c.AlternatePhone,
		c.Address, c.City, c.District, c.Category, c.CreditLimit, c.Notes,
		c.IsActive, c.ID,
	).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Deactivate soft-deletes; order history keeps pointing at the row.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "UPDATE customers SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
