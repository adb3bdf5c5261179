package workflow

import "testing"

func TestCanTransition_LinearSteps(t *testing.T) {
	st := Stages()
	for i := 0; i < len(st)-1; i++ {
		if !CanTransition(st[i], st[i+1]) {
			t.Fatalf("expected %s -> %s allowed", st[i], st[i+1])
		}
	}
}

func TestCanTransition_NoSkipping(t *testing.T) {
	if CanTransition(StatusDesignSent, StatusPlateSetting) {
		t.Fatalf("design_sent -> plate_setting must be rejected")
	}
	if CanTransition(StatusOrder, StatusDelivered) {
		t.Fatalf("order -> delivered must be rejected")
	}
}

func TestCanTransition_OrderReadyHasTwoPredecessors(t *testing.T) {
	if !CanTransition(StatusBindingSent, StatusOrderReady) {
		t.Fatalf("binding_sent -> order_ready must be allowed")
	}
	if !CanTransition(StatusPrintingComplete, StatusOrderReady) {
		t.Fatalf("printing_complete -> order_ready must be allowed (binding skipped)")
	}
}

func TestCanTransition_CancelFromAnyLiveStatus(t *testing.T) {
	for _, s := range Stages() {
		if s == StatusDelivered {
			continue
		}
		if !CanTransition(s, StatusCancelled) {
			t.Fatalf("expected %s -> cancelled allowed", s)
		}
	}
}

func TestCanTransition_TerminalStatusesAreFinal(t *testing.T) {
	targets := append(Stages(), StatusCancelled)
	for _, to := range targets {
		if CanTransition(StatusDelivered, to) {
			t.Fatalf("delivered -> %s must be rejected", to)
		}
		if CanTransition(StatusCancelled, to) {
			t.Fatalf("cancelled -> %s must be rejected", to)
		}
	}
}

func TestCanTransition_SelfIsIdempotent(t *testing.T) {
	if !CanTransition(StatusProofGiven, StatusProofGiven) {
		t.Fatalf("re-confirming the current status must be allowed")
	}
}
