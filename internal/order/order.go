package order

import (
	"time"

	"github.com/shopspring/decimal"

	"sapaghor/internal/workflow"
)

type OrderType string

const (
	TypePreOrder OrderType = "pre_order"
	TypeRegular  OrderType = "regular_order"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  int64           `json:"customer_id"`
	OrderType   OrderType       `json:"order_type"`
	Status      workflow.Status `json:"status"`

	WorkName    *string `json:"work_name,omitempty"`
	Description *string `json:"description,omitempty"`

	OrderDate            time.Time  `json:"order_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date,omitempty"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	DueAmount   decimal.Decimal `json:"due_amount"`

	DesignFee  decimal.Decimal `json:"design_fee"`
	UrgencyFee decimal.Decimal `json:"urgency_fee"`
	CashingFee decimal.Decimal `json:"cashing_fee"`
	MiscFee    decimal.Decimal `json:"misc_fee"`

	PaymentStatus PaymentStatus `json:"payment_status"`

	SpecialInstructions *string `json:"special_instructions,omitempty"`
	InternalNotes       *string `json:"internal_notes,omitempty"`

	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []Item `json:"items,omitempty"`
}

type Item struct {
	ID      int64 `json:"id"`
	OrderID int64 `json:"order_id"`

	ProductName  string  `json:"product_name"`
	Description  *string `json:"description,omitempty"`
	Quantity     int     `json:"quantity"`
	Size         *string `json:"size,omitempty"`
	Color        *string `json:"color,omitempty"`
	MaterialType *string `json:"material_type,omitempty"`

	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`

	// Per-item material cost breakdown, entered by the press staff.
	Plate      decimal.Decimal `json:"plate"`
	Paper      decimal.Decimal `json:"paper"`
	Duplicate  decimal.Decimal `json:"duplicate"`
	Ink        decimal.Decimal `json:"ink"`
	Printing   decimal.Decimal `json:"printing"`
	Binding    decimal.Decimal `json:"binding"`
	Laminating decimal.Decimal `json:"laminating"`
	Others     decimal.Decimal `json:"others"`
}

func (i Item) MaterialsTotal() decimal.Decimal {
	return i.Plate.Add(i.Paper).Add(i.Duplicate).Add(i.Ink).
		Add(i.Printing).Add(i.Binding).Add(i.Laminating).Add(i.Others)
}

func (o *Order) ExtraFeesTotal() decimal.Decimal {
	return o.DesignFee.Add(o.UrgencyFee).Add(o.CashingFee).Add(o.MiscFee)
}

// UpdateTotals recomputes the derived money fields from items and fees.
// total = subtotal + extra fees - discount + tax; due = total - paid.
func (o *Order) UpdateTotals(items []Item) {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Add(o.ExtraFeesTotal()).Sub(o.Discount).Add(o.TaxAmount)
	o.DueAmount = o.TotalAmount.Sub(o.PaidAmount)

	switch {
	case o.DueAmount.LessThanOrEqual(decimal.Zero):
		o.PaymentStatus = PaymentPaid
	case o.PaidAmount.GreaterThan(decimal.Zero):
		o.PaymentStatus = PaymentPartial
	default:
		o.PaymentStatus = PaymentPending
	}
}
