package workflow

import "testing"

func TestIndexOf_MatchesStageOrder(t *testing.T) {
	for i, s := range Stages() {
		if got := IndexOf(s); got != i {
			t.Fatalf("IndexOf(%s) = %d, want %d", s, got, i)
		}
		// Stable across repeated calls.
		if got := IndexOf(s); got != i {
			t.Fatalf("IndexOf(%s) unstable on second call: %d", s, got)
		}
	}
}

func TestIndexOf_CancelledAndUnknownAreOffTrack(t *testing.T) {
	if got := IndexOf(StatusCancelled); got != -1 {
		t.Fatalf("IndexOf(cancelled) = %d, want -1", got)
	}
	if got := IndexOf("shipped"); got != -1 {
		t.Fatalf("IndexOf(shipped) = %d, want -1", got)
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("plate_setting"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("cancelled"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("order_placed"); err == nil {
		t.Fatalf("expected error for retired status code")
	}
}

func TestLabelFor_FallbackHumanizesCode(t *testing.T) {
	l := LabelFor("foo_bar")
	if l.En != "foo bar" || l.Bn != "foo bar" {
		t.Fatalf("unexpected fallback label: %+v", l)
	}
	if LabelFor(StatusCancelled).Bn != "বাতিল" {
		t.Fatalf("cancelled label missing")
	}
}
