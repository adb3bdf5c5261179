package workflow

// predecessors maps each target status to the statuses it may be entered from.
// Mostly linear, but order_ready also accepts printing_complete because binding
// is skipped for single-sheet jobs. Cancellation is handled in CanTransition
// since it is legal from any non-terminal status.
var predecessors = map[Status][]Status{
	StatusDesignSent:       {StatusOrder},
	StatusProofGiven:       {StatusDesignSent},
	StatusProofComplete:    {StatusProofGiven},
	StatusPlateSetting:     {StatusProofComplete},
	StatusPrintingComplete: {StatusPlateSetting},
	StatusBindingSent:      {StatusPrintingComplete},
	StatusOrderReady:       {StatusBindingSent, StatusPrintingComplete},
	StatusDelivered:        {StatusOrderReady},
}

// CanTransition reports whether from -> to is a legal status change.
// Terminal statuses permit nothing, cancellation is open to every live order,
// and re-submitting the current status is accepted so retries stay idempotent.
func CanTransition(from, to Status) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	if to == from {
		return true
	}
	for _, p := range predecessors[to] {
		if p == from {
			return true
		}
	}
	return false
}
