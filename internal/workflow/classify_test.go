package workflow

import (
	"errors"
	"testing"
)

func TestClassify_Cancelled(t *testing.T) {
	c, err := Classify(StatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsCancelled {
		t.Fatalf("expected IsCancelled")
	}
	if c.Stages != nil {
		t.Fatalf("cancelled classification should not carry a stage track")
	}
}

func TestClassify_FirstStage(t *testing.T) {
	c, err := Classify(StatusOrder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Index != 0 {
		t.Fatalf("index = %d, want 0", c.Index)
	}
	if c.Stages[0].State != StageCurrent {
		t.Fatalf("stage 0 = %s, want current", c.Stages[0].State)
	}
	for _, sp := range c.Stages[1:] {
		if sp.State != StagePending {
			t.Fatalf("stage %s = %s, want pending", sp.Status, sp.State)
		}
	}
}

func TestClassify_MidStagePartitions(t *testing.T) {
	for k, s := range Stages() {
		c, err := Classify(s)
		if err != nil {
			t.Fatalf("classify %s: %v", s, err)
		}
		for p, sp := range c.Stages {
			want := StagePending
			switch {
			case p < k:
				want = StageCompleted
			case p == k:
				want = StageCurrent
			}
			if sp.State != want {
				t.Fatalf("classify(%s) stage %d = %s, want %s", s, p, sp.State, want)
			}
		}
	}
}

func TestClassify_UnknownStatusIsAnError(t *testing.T) {
	if _, err := Classify("designer_assigned"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestProgressPercent(t *testing.T) {
	if p, err := ProgressPercent(StatusOrder); err != nil || p != 11 {
		t.Fatalf("first stage = %d (%v), want 11", p, err)
	}
	if p, err := ProgressPercent(StatusDelivered); err != nil || p != 100 {
		t.Fatalf("delivered = %d (%v), want 100", p, err)
	}
	if p, err := ProgressPercent(StatusCancelled); err != nil || p != 0 {
		t.Fatalf("cancelled = %d (%v), want 0", p, err)
	}
	if _, err := ProgressPercent("nope"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}
