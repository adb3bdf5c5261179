package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sapaghor/internal/workflow"
)

// Entry is one immutable row of an order's status trail. Rows are only ever
// appended; nothing updates or deletes them.
type Entry struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Status    workflow.Status `json:"status"`
	Notes     *string         `json:"notes,omitempty"`
	ChangedBy *int64          `json:"changed_by,omitempty"`
	ChangedAt time.Time       `json:"changed_at"`
}

// StatusLabel keeps API payloads self-describing for the client.
func (e Entry) StatusLabel() workflow.Label {
	return workflow.LabelFor(e.Status)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert appends one history row inside the caller's transaction so the status
// write and its trail entry commit or roll back together.
func Insert(ctx context.Context, tx pgx.Tx, orderID int64, status workflow.Status, notes *string, changedBy *int64, changedAt time.Time) (*Entry, error) {
	const q = `
INSERT INTO order_status_history (order_id, status, notes, changed_by, changed_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	e := Entry{OrderID: orderID, Status: status, Notes: notes, ChangedBy: changedBy, ChangedAt: changedAt}
	if err := tx.QueryRow(ctx, q, orderID, string(status), notes, changedBy, changedAt).Scan(&e.ID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]Entry, error) {
	const q = `
SELECT id, order_id, status, notes, changed_by, changed_at
FROM order_status_history
WHERE order_id = $1
ORDER BY changed_at ASC, id ASC
`
	rows, err := r.db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Notes, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
