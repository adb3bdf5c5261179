package docnum

import (
	"testing"
	"time"
)

func TestMonthPrefix(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	if got := MonthPrefix("SAP", now); got != "SAP2608" {
		t.Fatalf("prefix = %q, want SAP2608", got)
	}
}

func TestNext_StartsAtOne(t *testing.T) {
	if got := Next("SAP2608", ""); got != "SAP26080001" {
		t.Fatalf("first number = %q", got)
	}
}

func TestNext_Increments(t *testing.T) {
	if got := Next("EXP2608", "EXP26080042"); got != "EXP26080043" {
		t.Fatalf("next number = %q", got)
	}
}
