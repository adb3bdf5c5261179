package workflow

import "testing"

func TestProjectCounts_EmptyIsFullyPopulated(t *testing.T) {
	got := ProjectCounts(nil)
	if len(got) != StageCount+1 {
		t.Fatalf("expected %d rows, got %d", StageCount+1, len(got))
	}
	for _, row := range got {
		if row.Count != 0 {
			t.Fatalf("expected zero count for %s, got %d", row.Status, row.Count)
		}
	}
	if got[len(got)-1].Status != StatusCancelled {
		t.Fatalf("cancelled must be the trailing row, got %s", got[len(got)-1].Status)
	}
}

func TestProjectCounts_PreservesStageOrder(t *testing.T) {
	got := ProjectCounts(map[Status]int{
		StatusPlateSetting: 4,
		StatusCancelled:    2,
	})
	for i, s := range Stages() {
		if got[i].Status != s {
			t.Fatalf("row %d = %s, want %s", i, got[i].Status, s)
		}
	}
	if got[IndexOf(StatusPlateSetting)].Count != 4 {
		t.Fatalf("plate_setting count lost")
	}
	if got[StageCount].Count != 2 {
		t.Fatalf("cancelled count lost")
	}
}
