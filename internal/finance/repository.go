package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sapaghor/internal/docnum"
	"sapaghor/pkg/db"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func nextNumber(ctx context.Context, tx pgx.Tx, table, column, kind string, now time.Time) (string, error) {
	prefix := docnum.MonthPrefix(kind, now)
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIKE $1 ORDER BY id DESC LIMIT 1 FOR UPDATE`, column, table, column)
	var last string
	err := tx.QueryRow(ctx, q, prefix+"%").Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	return docnum.Next(prefix, last), nil
}

// RecordPayment books a payment against an order in one transaction: the
// payment row, the order's paid/due amounts and payment status, and, when the
// payment is allocated to an invoice, that invoice's settlement state.
func (r *Repository) RecordPayment(ctx context.Context, p *Payment) (*Payment, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var total, paid decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT total_amount, paid_amount FROM orders WHERE id = $1 FOR UPDATE", p.OrderID,
		).Scan(&total, &paid)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		num, err := nextNumber(ctx, tx, "payments", "payment_number", "PAY", time.Now())
		if err != nil {
			return err
		}
		p.PaymentNumber = num

		const qInsert = `
INSERT INTO payments (payment_number, order_id, invoice_id, amount, payment_type,
                      payment_method, reference_number, notes, received_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, payment_date, created_at
`
		if err := tx.QueryRow(ctx, qInsert,
			p.PaymentNumber, p.OrderID, p.InvoiceID, p.Amount, p.PaymentType,
			p.PaymentMethod, p.ReferenceNumber, p.Notes, p.ReceivedBy,
		).Scan(&p.ID, &p.PaymentDate, &p.CreatedAt); err != nil {
			return err
		}

		paid = paid.Add(p.Amount)
		due := total.Sub(paid)
		status := "pending"
		switch {
		case due.LessThanOrEqual(decimal.Zero):
			status = "paid"
		case paid.GreaterThan(decimal.Zero):
			status = "partial"
		}
		const qOrder = `
UPDATE orders SET paid_amount = $1, due_amount = $2, payment_status = $3, updated_at = NOW()
WHERE id = $4
`
		if _, err := tx.Exec(ctx, qOrder, paid, due, status, p.OrderID); err != nil {
			return err
		}

		if p.InvoiceID != nil {
			var invPaid, invTotal decimal.Decimal
			err := tx.QueryRow(ctx,
				"SELECT paid_amount, total_amount FROM invoices WHERE id = $1 FOR UPDATE", *p.InvoiceID,
			).Scan(&invPaid, &invTotal)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvoiceNotFound
			}
			if err != nil {
				return err
			}
			invPaid = invPaid.Add(p.Amount)
			const qInv = `UPDATE invoices SET paid_amount = $1, status = $2 WHERE id = $3`
			if _, err := tx.Exec(ctx, qInv, invPaid, string(settleInvoice(invPaid, invTotal)), *p.InvoiceID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

type PaymentFilter struct {
	OrderID       int64
	PaymentMethod string
	Page          int
	PerPage       int
}

func (r *Repository) ListPayments(ctx context.Context, f PaymentFilter) ([]Payment, int, error) {
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
	if f.OrderID > 0 {
		where += " AND order_id = " + arg(f.OrderID)
	}
	if f.PaymentMethod != "" {
		where += " AND payment_method = " + arg(f.PaymentMethod)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
SELECT id, payment_number, order_id, invoice_id, amount, payment_type, payment_method,
       reference_number, notes, received_by, payment_date, created_at
FROM payments ` + where + " ORDER BY created_at DESC LIMIT " + arg(f.PerPage) + " OFFSET " + arg((f.Page-1)*f.PerPage)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.PaymentNumber, &p.OrderID, &p.InvoiceID, &p.Amount, &p.PaymentType, &p.PaymentMethod,
			&p.ReferenceNumber, &p.Notes, &p.ReceivedBy, &p.PaymentDate, &p.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// CreateInvoice snapshots the order's money fields at issue time; later edits
// to the order do not rewrite issued invoices.
func (r *Repository) CreateInvoice(ctx context.Context, orderID int64, taxRate decimal.Decimal, dueDate *time.Time, notes, terms *string, createdBy *int64) (*Invoice, error) {
	var inv *Invoice
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var subtotal, discount decimal.Decimal
		err := tx.QueryRow(ctx, "SELECT subtotal, discount FROM orders WHERE id = $1", orderID).Scan(&subtotal, &discount)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		num, err := nextNumber(ctx, tx, "invoices", "invoice_number", "INV", time.Now())
		if err != nil {
			return err
		}

		due := time.Now().AddDate(0, 0, 30)
		if dueDate != nil {
			due = *dueDate
		}
		tax := invoiceTax(subtotal, discount, taxRate)
		totalAmount := subtotal.Sub(discount).Add(tax)

		inv = &Invoice{
			InvoiceNumber: num,
			OrderID:       orderID,
			Status:        InvoiceDraft,
			DueDate:       due,
			Subtotal:      subtotal,
			Discount:      discount,
			TaxRate:       taxRate,
			TaxAmount:     tax,
			TotalAmount:   totalAmount,
			PaidAmount:    decimal.Zero,
			Notes:         notes,
			Terms:         terms,
			CreatedBy:     createdBy,
		}

		const q = `
INSERT INTO invoices (invoice_number, order_id, status, due_date, subtotal, discount,
                      tax_rate, tax_amount, total_amount, paid_amount, notes, terms, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, created_at
`
		return tx.QueryRow(ctx, q,
			inv.InvoiceNumber, inv.OrderID, string(inv.Status), inv.DueDate, inv.Subtotal, inv.Discount,
			inv.TaxRate, inv.TaxAmount, inv.TotalAmount, inv.PaidAmount, inv.Notes, inv.Terms, inv.CreatedBy,
		).Scan(&inv.ID, &inv.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	const q = `
SELECT id, invoice_number, order_id, status, due_date, subtotal, discount, tax_rate,
       tax_amount, total_amount, paid_amount, notes, terms, created_by, created_at
FROM invoices WHERE id = $1
`
	var inv Invoice
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.Status, &inv.DueDate, &inv.Subtotal,
		&inv.Discount, &inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount, &inv.PaidAmount,
		&inv.Notes, &inv.Terms, &inv.CreatedBy, &inv.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) ListInvoices(ctx context.Context, status string, page, perPage int) ([]Invoice, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	where := "WHERE 1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if status != "" {
		where += " AND status = " + arg(status)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
SELECT id, invoice_number, order_id, status, due_date, subtotal, discount, tax_rate,
       tax_amount, total_amount, paid_amount, notes, terms, created_by, created_at
FROM invoices ` + where + " ORDER BY created_at DESC LIMIT " + arg(perPage) + " OFFSET " + arg((page-1)*perPage)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.Status, &inv.DueDate, &inv.Subtotal,
			&inv.Discount, &inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount, &inv.PaidAmount,
			&inv.Notes, &inv.Terms, &inv.CreatedBy, &inv.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

func (r *Repository) MarkInvoiceSent(ctx context.Context, id int64) (*Invoice, error) {
	// Only drafts move to sent; anything further along is reported as-is.
	_, err := r.db.Exec(ctx, "UPDATE invoices SET status = $1 WHERE id = $2 AND status = $3",
		string(InvoiceSent), id, string(InvoiceDraft))
	if err != nil {
		return nil, err
	}
	return r.GetInvoice(ctx, id)
}

// CreateExpense books a shop expense with an EXPyymm#### number.
func (r *Repository) CreateExpense(ctx context.Context, e *Expense) (*Expense, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		num, err := nextNumber(ctx, tx, "expenses", "expense_number", "EXP", time.Now())
		if err != nil {
			return err
		}
		e.ExpenseNumber = num

		const q = `
INSERT INTO expenses (expense_number, category, description, amount, payment_method,
                      reference_number, expense_date, vendor_name, notes, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at
`
		return tx.QueryRow(ctx, q,
			e.ExpenseNumber, e.Category, e.Description, e.Amount, e.PaymentMethod,
			e.ReferenceNumber, e.ExpenseDate, e.VendorName, e.Notes, e.CreatedBy,
		).Scan(&e.ID, &e.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

type ExpenseFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

func (r *Repository) ListExpenses(ctx context.Context, f ExpenseFilter) ([]Expense, int, error) {
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
	if f.Category != "" {
		where += " AND category = " + arg(f.Category)
	}
	if f.StartDate != nil {
		where += " AND expense_date >= " + arg(*f.StartDate)
	}
	if f.EndDate != nil {
		where += " AND expense_date <= " + arg(*f.EndDate)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM expenses "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
SELECT id, expense_number, category, description, amount, payment_method,
       reference_number, expense_date, vendor_name, notes, created_by, created_at
FROM expenses ` + where + " ORDER BY created_at DESC LIMIT " + arg(f.PerPage) + " OFFSET " + arg((f.Page-1)*f.PerPage)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(
			&e.ID, &e.ExpenseNumber, &e.Category, &e.Description, &e.Amount, &e.PaymentMethod,
			&e.ReferenceNumber, &e.ExpenseDate, &e.VendorName, &e.Notes, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
