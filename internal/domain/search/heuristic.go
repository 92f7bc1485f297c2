package search

import "planverse/internal/domain/plan"

type heuristicFunc func(state, goal plan.State) float64

// goalDistance counts goal facts whose value is missing or mismatched in the
// snapshot.
func goalDistance(state, goal plan.State) float64 {
	var unmet float64
	for fact, want := range goal {
		got, ok := state[fact]
		if !ok || !got.Equal(want) {
			unmet++
		}
	}
	return unmet
}

func newHeuristic(h Heuristic) (heuristicFunc, error) {
	switch h {
	case HeuristicGoalDistance, "":
		return goalDistance, nil
	default:
		return nil, ErrUnknownHeuristic
	}
}
