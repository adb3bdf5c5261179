package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestInvoiceTax_RoundsToCurrencyScale(t *testing.T) {
	// (1000 - 100) * 7.5% = 67.50
	got := invoiceTax(d("1000"), d("100"), d("7.5"))
	if !got.Equal(d("67.50")) {
		t.Fatalf("tax = %s, want 67.50", got)
	}

	// (333.33 - 0) * 5% = 16.6665 -> 16.67
	got = invoiceTax(d("333.33"), d("0"), d("5"))
	if !got.Equal(d("16.67")) {
		t.Fatalf("tax = %s, want 16.67", got)
	}
}

func TestSettleInvoice(t *testing.T) {
	if got := settleInvoice(d("0"), d("500")); got != InvoiceSent {
		t.Fatalf("unpaid = %s, want sent", got)
	}
	if got := settleInvoice(d("200"), d("500")); got != InvoicePartial {
		t.Fatalf("partial = %s, want partial", got)
	}
	if got := settleInvoice(d("500"), d("500")); got != InvoicePaid {
		t.Fatalf("settled = %s, want paid", got)
	}
	if got := settleInvoice(d("600"), d("500")); got != InvoicePaid {
		t.Fatalf("overpaid = %s, want paid", got)
	}
}

func TestValidExpenseCategory(t *testing.T) {
	if !ValidExpenseCategory("materials") {
		t.Fatalf("materials must be valid")
	}
	if ValidExpenseCategory("bribes") {
		t.Fatalf("unknown category accepted")
	}
}
