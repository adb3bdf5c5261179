package workflow

// StageAggregate is one row of the dashboard/sidebar count projection.
type StageAggregate struct {
	Status Status `json:"status"`
	Label  Label  `json:"label"`
	Count  int    `json:"count"`
}

// ProjectCounts spreads raw per-status counts over the canonical stage order,
// zero-filling missing stages, with cancelled as a trailing entry. The result
// always has StageCount+1 rows; renderers rely on the stable length.
func ProjectCounts(raw map[Status]int) []StageAggregate {
	out := make([]StageAggregate, 0, StageCount+1)
	for _, s := range stages {
		out = append(out, StageAggregate{Status: s, Label: LabelFor(s), Count: raw[s]})
	}
	out = append(out, StageAggregate{
		Status: StatusCancelled,
		Label:  LabelFor(StatusCancelled),
		Count:  raw[StatusCancelled],
	})
	return out
}
