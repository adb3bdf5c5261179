package workflow

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownStatus marks a status code outside the catalog. Callers decide
// whether to degrade (render nothing highlighted) or reject; classification
// never silently assumes stage zero.
var ErrUnknownStatus = errors.New("unknown status")

type StageState string

const (
	StageCompleted StageState = "completed"
	StageCurrent   StageState = "current"
	StagePending   StageState = "pending"
)

type StageProgress struct {
	Status Status     `json:"status"`
	Label  Label      `json:"label"`
	State  StageState `json:"state"`
}

type Classification struct {
	// Index is the current position on the stage track; -1 when cancelled.
	Index       int             `json:"index"`
	IsCancelled bool            `json:"is_cancelled"`
	Stages      []StageProgress `json:"stages"`
}

// Classify places current on the stage track. For cancelled orders the track is
// not meaningful and Stages is nil; the caller renders the cancelled banner.
func Classify(current Status) (Classification, error) {
	if current == StatusCancelled {
		return Classification{Index: -1, IsCancelled: true}, nil
	}

	idx := IndexOf(current)
	if idx < 0 {
		return Classification{}, fmt.Errorf("%w: %s", ErrUnknownStatus, current)
	}

	out := Classification{Index: idx, Stages: make([]StageProgress, 0, StageCount)}
	for p, s := range stages {
		state := StagePending
		switch {
		case p < idx:
			state = StageCompleted
		case p == idx:
			state = StageCurrent
		}
		out.Stages = append(out.Stages, StageProgress{Status: s, Label: LabelFor(s), State: state})
	}
	return out, nil
}

// ProgressPercent reports how far along the track an order is. The first stage
// counts as reached, so a fresh order is 1-of-9 (11%), not 0%. Cancelled orders
// report 0 with no error; unknown codes report 0 with ErrUnknownStatus.
func ProgressPercent(current Status) (int, error) {
	if current == StatusCancelled {
		return 0, nil
	}
	idx := IndexOf(current)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownStatus, current)
	}
	return int(math.Round(float64(idx+1) / float64(StageCount) * 100)), nil
}
