package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sapaghor/internal/workflow"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// StatusCounts returns how many orders sit in each status, raw from storage.
// The workflow package projects this onto the canonical stage order.
func (r *Repository) StatusCounts(ctx context.Context) (map[workflow.Status]int, error) {
	rows, err := r.db.Query(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[workflow.Status]int{}
	for rows.Next() {
		var s workflow.Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}

type OrderStats struct {
	Today   int `json:"today"`
	Week    int `json:"week"`
	Month   int `json:"month"`
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

type FinanceStats struct {
	MonthRevenue    decimal.Decimal `json:"month_revenue"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	MonthExpenses   decimal.Decimal `json:"month_expenses"`
	NetIncome       decimal.Decimal `json:"net_income"`
}

type Stats struct {
	Orders    OrderStats   `json:"orders"`
	Customers int          `json:"customers"`
	Finance   FinanceStats `json:"finance"`
}

func (r *Repository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	today := now.Truncate(24 * time.Hour)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	var s Stats
	const qOrders = `
SELECT
  COUNT(*) FILTER (WHERE created_at >= $1),
  COUNT(*) FILTER (WHERE created_at >= $2),
  COUNT(*) FILTER (WHERE created_at >= $3),
  COUNT(*),
  COUNT(*) FILTER (WHERE status NOT IN ('delivered', 'cancelled'))
FROM orders
`
	if err := r.db.QueryRow(ctx, qOrders, today, weekAgo, monthAgo).Scan(
		&s.Orders.Today, &s.Orders.Week, &s.Orders.Month, &s.Orders.Total, &s.Orders.Pending,
	); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers WHERE is_active").Scan(&s.Customers); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_date >= $1", monthAgo,
	).Scan(&s.Finance.MonthRevenue); err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(due_amount), 0) FROM orders WHERE due_amount > 0",
	).Scan(&s.Finance.PendingPayments); err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE expense_date >= $1", monthAgo,
	).Scan(&s.Finance.MonthExpenses); err != nil {
		return nil, err
	}
	s.Finance.NetIncome = s.Finance.MonthRevenue.Sub(s.Finance.MonthExpenses)

	return &s, nil
}
