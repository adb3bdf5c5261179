package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUpdateTotals(t *testing.T) {
	o := &Order{
		Discount:   d("50"),
		TaxAmount:  d("0"),
		DesignFee:  d("500"),
		UrgencyFee: d("0"),
		CashingFee: d("0"),
		MiscFee:    d("25"),
		PaidAmount: d("1000"),
	}
	items := []Item{
		{TotalPrice: d("1200.00")},
		{TotalPrice: d("800.50")},
	}

	o.UpdateTotals(items)

	if !o.Subtotal.Equal(d("2000.50")) {
		t.Fatalf("subtotal = %s", o.Subtotal)
	}
	// 2000.50 + 525 - 50 = 2475.50
	if !o.TotalAmount.Equal(d("2475.50")) {
		t.Fatalf("total = %s", o.TotalAmount)
	}
	if !o.DueAmount.Equal(d("1475.50")) {
		t.Fatalf("due = %s", o.DueAmount)
	}
	if o.PaymentStatus != PaymentPartial {
		t.Fatalf("payment status = %s, want partial", o.PaymentStatus)
	}
}

func TestUpdateTotals_PaymentStatusBoundaries(t *testing.T) {
	o := &Order{}
	o.UpdateTotals(nil)
	// Zero total, zero paid: nothing due, counts as paid.
	if o.PaymentStatus != PaymentPaid {
		t.Fatalf("empty order payment status = %s", o.PaymentStatus)
	}

	o = &Order{PaidAmount: d("0")}
	o.UpdateTotals([]Item{{TotalPrice: d("100")}})
	if o.PaymentStatus != PaymentPending {
		t.Fatalf("unpaid order payment status = %s", o.PaymentStatus)
	}

	o = &Order{PaidAmount: d("100")}
	o.UpdateTotals([]Item{{TotalPrice: d("100")}})
	if o.PaymentStatus != PaymentPaid {
		t.Fatalf("settled order payment status = %s", o.PaymentStatus)
	}
}

func TestItemMaterialsTotal(t *testing.T) {
	it := Item{
		Plate:   d("120"),
		Paper:   d("340.25"),
		Ink:     d("60"),
		Binding: d("80"),
		Others:  d("10"),
	}
	if !it.MaterialsTotal().Equal(d("610.25")) {
		t.Fatalf("materials total = %s", it.MaterialsTotal())
	}
}
