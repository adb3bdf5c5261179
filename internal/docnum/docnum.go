// Package docnum generates the sequential document numbers used across the
// shop's paperwork: SAP2608#### orders, PAY2608#### payments, and so on.
// A number is <prefix><yymm><4-digit serial>, with the serial restarting each
// month.
package docnum

import (
	"fmt"
	"strconv"
	"time"
)

// MonthPrefix returns e.g. "SAP2608" for August 2026.
func MonthPrefix(kind string, now time.Time) string {
	return kind + now.Format("0601")
}

// Next produces the number after last within a month prefix. last is the
// highest existing number for the prefix, or empty when none exist yet.
func Next(prefix, last string) string {
	serial := 1
	if len(last) >= 4 {
		if n, err := strconv.Atoi(last[len(last)-4:]); err == nil {
			serial = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, serial)
}
