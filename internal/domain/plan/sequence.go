package plan

// ActionSequence is an ordered plan together with the states it was produced
// for. It is a value object: built once by the planner, replayed read-only by
// the validator.
type ActionSequence struct {
	Actions      []Action
	InitialState State
	GoalState    State
}

func (s ActionSequence) TotalDuration() float64 {
	var sum float64
	for _, a := range s.Actions {
		sum += a.Duration
	}
	return sum
}

func (s ActionSequence) TotalCost() float64 {
	var sum float64
	for _, a := range s.Actions {
		sum += a.Cost
	}
	return sum
}

func (s ActionSequence) ActionIDs() []string {
	ids := make([]string, 0, len(s.Actions))
	for _, a := range s.Actions {
		ids = append(ids, a.ID)
	}
	return ids
}

// ValidationReport is the outcome of replaying a sequence. FailedIndex is -1
// unless a precondition broke, in which case UnmetClause names the first
// clause that did not hold at that position.
type ValidationReport struct {
	Valid         bool   `json:"valid"`
	FailedIndex   int    `json:"failed_index"`
	FailedAction  string `json:"failed_action,omitempty"`
	UnmetClause   string `json:"unmet_clause,omitempty"`
	GoalSatisfied bool   `json:"goal_satisfied"`
}

// ValidateSequence replays the sequence action by action from its initial
// state and checks the final state against the goal. This is the
// authoritative correctness oracle for the planning pipeline and depends on
// nothing but Action.Execute semantics, so it can be run without a planner.
func ValidateSequence(seq ActionSequence) ValidationReport {
	report := ValidationReport{Valid: true, FailedIndex: -1}
	state := seq.InitialState.Clone()
	for i, a := range seq.Actions {
		if unmet, failed := firstUnmet(a.Preconditions, state); failed {
			report.Valid = false
			report.FailedIndex = i
			report.FailedAction = a.ID
			report.UnmetClause = unmet.String()
			return report
		}
		state = state.Apply(a.Effects)
	}
	report.GoalSatisfied = state.Satisfies(seq.GoalState)
	if !report.GoalSatisfied {
		report.Valid = false
	}
	return report
}
