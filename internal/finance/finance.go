// Package finance covers the money paperwork around orders: payments received,
// invoices issued, and shop expenses. All arithmetic is decimal; amounts cross
// the API as strings.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID              int64           `json:"id"`
	PaymentNumber   string          `json:"payment_number"`
	OrderID         int64           `json:"order_id"`
	InvoiceID       *int64          `json:"invoice_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentType     string          `json:"payment_type"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	ReceivedBy      *int64          `json:"received_by,omitempty"`
	PaymentDate     time.Time       `json:"payment_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
)

type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       int64           `json:"order_id"`
	Status        InvoiceStatus   `json:"status"`
	DueDate       time.Time       `json:"due_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Notes         *string         `json:"notes,omitempty"`
	Terms         *string         `json:"terms,omitempty"`
	CreatedBy     *int64          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Expense struct {
	ID              int64           `json:"id"`
	ExpenseNumber   string          `json:"expense_number"`
	Category        string          `json:"category"`
	Description     *string         `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	ExpenseDate     time.Time       `json:"expense_date"`
	VendorName      *string         `json:"vendor_name,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedBy       *int64          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ExpenseCategories is the fixed set the bookkeeping screens offer.
var ExpenseCategories = []string{
	"materials", "utilities", "rent", "salary", "transport",
	"maintenance", "marketing", "office_supplies", "other",
}

func ValidExpenseCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// invoiceTax computes the tax amount from the invoice base and a percentage
// rate, rounded to the currency scale.
func invoiceTax(subtotal, discount, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// settleInvoice derives the invoice status after a payment lands on it.
func settleInvoice(paid, total decimal.Decimal) InvoiceStatus {
	if paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero) {
		return InvoicePaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return InvoicePartial
	}
	return InvoiceSent
}
