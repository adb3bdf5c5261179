package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sapaghor/internal/docnum"
	"sapaghor/internal/history"
	"sapaghor/internal/workflow"
	"sapaghor/pkg/db"
)

type Repository struct {
	db      *pgxpool.Pool
	history *history.Repository
}

func NewRepository(pool *pgxpool.Pool, hist *history.Repository) *Repository {
	return &Repository{db: pool, history: hist}
}

const orderColumns = `
id, order_number, customer_id, order_type, status, work_name, description,
order_date, expected_delivery_date, actual_delivery_date,
subtotal, discount, tax_amount, total_amount, paid_amount, due_amount,
design_fee, urgency_fee, cashing_fee, misc_fee,
payment_status, special_instructions, internal_notes,
created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderType, &o.Status, &o.WorkName, &o.Description,
		&o.OrderDate, &o.ExpectedDeliveryDate, &o.ActualDeliveryDate,
		&o.Subtotal, &o.Discount, &o.TaxAmount, &o.TotalAmount, &o.PaidAmount, &o.DueAmount,
		&o.DesignFee, &o.UrgencyFee, &o.CashingFee, &o.MiscFee,
		&o.PaymentStatus, &o.SpecialInstructions, &o.InternalNotes,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

type ListFilter struct {
	Status     string
	OrderType  string
	CustomerID int64
	Search     string
	Page       int
	PerPage    int
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Order, int, error) {
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
	if f.Status != "" {
		where += " AND status = " + arg(f.Status)
	}
	if f.OrderType != "" {
		where += " AND order_type = " + arg(f.OrderType)
	}
	if f.CustomerID > 0 {
		where += " AND customer_id = " + arg(f.CustomerID)
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where += " AND (order_number ILIKE " + p + " OR work_name ILIKE " + p + ")"
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + orderColumns + " FROM orders " + where +
		" ORDER BY created_at DESC LIMIT " + arg(f.PerPage) + " OFFSET " + arg((f.Page-1)*f.PerPage)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	items, err := r.itemsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *Repository) itemsByOrder(ctx context.Context, orderID int64) ([]Item, error) {
	const q = `
SELECT id, order_id, product_name, description, quantity, size, color, material_type,
       unit_price, total_price,
       plate, paper, duplicate, ink, printing, binding, laminating, others
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductName, &it.Description, &it.Quantity, &it.Size, &it.Color, &it.MaterialType,
			&it.UnitPrice, &it.TotalPrice,
			&it.Plate, &it.Paper, &it.Duplicate, &it.Ink, &it.Printing, &it.Binding, &it.Laminating, &it.Others,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts the order, its items, and the initial history row in one
// transaction. New orders always start at the first workflow stage.
func (r *Repository) Create(ctx context.Context, o *Order, items []Item) (*Order, error) {
	o.Status = workflow.StatusOrder
	o.UpdateTotals(items)

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		num, err := nextOrderNumber(ctx, tx, time.Now())
		if err != nil {
			return err
		}
		o.OrderNumber = num

		const q = `
INSERT INTO orders (order_number, customer_id, order_type, status, work_name, description,
                    expected_delivery_date, subtotal, discount, tax_amount, total_amount,
                    paid_amount, due_amount, design_fee, urgency_fee, cashing_fee, misc_fee,
                    payment_status, special_instructions, internal_notes, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING id, order_date, created_at, updated_at
`
		if err := tx.QueryRow(ctx, q,
			o.OrderNumber, o.CustomerID, o.OrderType, string(o.Status), o.WorkName, o.Description,
			o.ExpectedDeliveryDate, o.Subtotal, o.Discount, o.TaxAmount, o.TotalAmount,
			o.PaidAmount, o.DueAmount, o.DesignFee, o.UrgencyFee, o.CashingFee, o.MiscFee,
			string(o.PaymentStatus), o.SpecialInstructions, o.InternalNotes, o.CreatedBy,
		).Scan(&o.ID, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = o.ID
			if err := insertItem(ctx, tx, &items[i]); err != nil {
				return err
			}
		}

		notes := "Order created"
		_, err = history.Insert(ctx, tx, o.ID, o.Status, &notes, o.CreatedBy, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func insertItem(ctx context.Context, tx pgx.Tx, it *Item) error {
	const q = `
INSERT INTO order_items (order_id, product_name, description, quantity, size, color, material_type,
                         unit_price, total_price, plate, paper, duplicate, ink, printing, binding,
                         laminating, others)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id
`
	return tx.QueryRow(ctx, q,
		it.OrderID, it.ProductName, it.Description, it.Quantity, it.Size, it.Color, it.MaterialType,
		it.UnitPrice, it.TotalPrice, it.Plate, it.Paper, it.Duplicate, it.Ink, it.Printing, it.Binding,
		it.Laminating, it.Others,
	).Scan(&it.ID)
}

// nextOrderNumber reads the month's highest order number under lock so two
// concurrent creates cannot mint the same serial.
func nextOrderNumber(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	prefix := docnum.MonthPrefix("SAP", now)
	const q = `
SELECT order_number FROM orders
WHERE order_number LIKE $1
ORDER BY id DESC
LIMIT 1
FOR UPDATE
`
	var last string
	err := tx.QueryRow(ctx, q, prefix+"%").Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	return docnum.Next(prefix, last), nil
}

type UpdateParams struct {
	WorkName             *string
	Description          *string
	ExpectedDeliveryDate *time.Time
	Discount             *string
	SpecialInstructions  *string
	InternalNotes        *string
	Items                []Item
}

// Update edits the clerical fields and, when items are supplied, replaces them
// wholesale and recomputes totals, mirroring how the front office re-enters a
// corrected job sheet.
func (r *Repository) Update(ctx context.Context, id int64, p UpdateParams) (*Order, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		o, err := scanOrder(tx.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return err
		}

		if p.WorkName != nil {
			o.WorkName = p.WorkName
		}
		if p.Description != nil {
			o.Description = p.Description
		}
		if p.ExpectedDeliveryDate != nil {
			o.ExpectedDeliveryDate = p.ExpectedDeliveryDate
		}
		if p.Discount != nil {
			d, err := parseAmount(*p.Discount)
			if err != nil {
				return err
			}
			o.Discount = d
		}
		if p.SpecialInstructions != nil {
			o.SpecialInstructions = p.SpecialInstructions
		}
		if p.InternalNotes != nil {
			o.InternalNotes = p.InternalNotes
		}

		items := p.Items
		if items != nil {
			if _, err := tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = id
				if err := insertItem(ctx, tx, &items[i]); err != nil {
					return err
				}
			}
		} else {
			if items, err = r.itemsByOrderTx(ctx, tx, id); err != nil {
				return err
			}
		}
		o.UpdateTotals(items)

		const q = `
UPDATE orders
SET work_name = $1, description = $2, expected_delivery_date = $3, discount = $4,
    special_instructions = $5, internal_notes = $6,
    subtotal = $7, total_amount = $8, due_amount = $9, payment_status = $10,
    updated_at = NOW()
WHERE id = $11
`
		_, err = tx.Exec(ctx, q,
			o.WorkName, o.Description, o.ExpectedDeliveryDate, o.Discount,
			o.SpecialInstructions, o.InternalNotes,
			o.Subtotal, o.TotalAmount, o.DueAmount, string(o.PaymentStatus), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) itemsByOrderTx(ctx context.Context, tx pgx.Tx, orderID int64) ([]Item, error) {
	const q = `
SELECT id, order_id, product_name, description, quantity, size, color, material_type,
       unit_price, total_price,
       plate, paper, duplicate, ink, printing, binding, laminating, others
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := tx.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductName, &it.Description, &it.Quantity, &it.Size, &it.Color, &it.MaterialType,
			&it.UnitPrice, &it.TotalPrice,
			&it.Plate, &it.Paper, &it.Duplicate, &it.Ink, &it.Printing, &it.Binding, &it.Laminating, &it.Others,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// --- order.Store implementation ---

func (r *Repository) GetOrderStatus(ctx context.Context, orderID int64) (workflow.Status, error) {
	var s workflow.Status
	err := r.db.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1", orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &StorageError{Op: "get status", Err: err}
	}
	return s, nil
}

// ApplyTransition performs the compare-and-swap status write and the history
// append in one transaction. The row lock serializes writers per order; the
// status predicate catches a writer that read before our commit.
func (r *Repository) ApplyTransition(ctx context.Context, orderID int64, next, expected workflow.Status, rec TransitionRecord) (*history.Entry, error) {
	var entry *history.Entry
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var current workflow.Status
		err := tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current != expected {
			return ErrConflict
		}

		const q = `
UPDATE orders
SET status = $1,
    actual_delivery_date = CASE WHEN $1 = 'delivered' THEN NOW() ELSE actual_delivery_date END,
    updated_at = NOW()
WHERE id = $2 AND status = $3
`
		tag, err := tx.Exec(ctx, q, string(next), orderID, string(expected))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrConflict
		}

		entry, err = history.Insert(ctx, tx, orderID, next, rec.Notes, rec.ChangedBy, rec.ChangedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, &StorageError{Op: "apply transition", Err: err}
	}
	return entry, nil
}

func (r *Repository) ListHistory(ctx context.Context, orderID int64) ([]history.Entry, error) {
	return r.history.ListByOrder(ctx, orderID)
}
