package workflow

import "fmt"

// Status is an order's position in the production workflow.
type Status string

const (
	StatusOrder            Status = "order"
	StatusDesignSent       Status = "design_sent"
	StatusProofGiven       Status = "proof_given"
	StatusProofComplete    Status = "proof_complete"
	StatusPlateSetting     Status = "plate_setting"
	StatusPrintingComplete Status = "printing_complete"
	StatusBindingSent      Status = "binding_sent"
	StatusOrderReady       Status = "order_ready"
	StatusDelivered        Status = "delivered"

	// StatusCancelled is a terminal side-exit, not a stage on the track.
	StatusCancelled Status = "cancelled"
)

// stages is the canonical production order. Cancelled is deliberately absent.
var stages = [...]Status{
	StatusOrder,
	StatusDesignSent,
	StatusProofGiven,
	StatusProofComplete,
	StatusPlateSetting,
	StatusPrintingComplete,
	StatusBindingSent,
	StatusOrderReady,
	StatusDelivered,
}

// StageCount is the number of non-cancelled stages.
const StageCount = len(stages)

// Stages returns the canonical stage sequence. The returned slice is a copy.
func Stages() []Status {
	out := make([]Status, StageCount)
	copy(out[:], stages[:])
	return out
}

// IndexOf returns the position of s in the canonical stage order, or -1 for
// cancelled and unknown codes.
func IndexOf(s Status) int {
	for i, st := range stages {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether s permits no further transition.
func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

func ParseStatus(s string) (Status, error) {
	if Status(s) == StatusCancelled {
		return StatusCancelled, nil
	}
	if IndexOf(Status(s)) >= 0 {
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status: %s", s)
}
