package search

import (
	"context"
	"time"

	"planverse/internal/domain/plan"
)

// Planner runs goal-directed search over the state graph induced by a
// problem's action set. It holds no state between calls, so one value can
// serve any number of concurrent planning requests.
type Planner struct {
	Now func() time.Time
}

// Plan explores snapshots reachable from the initial state until the goal
// test passes, the frontier drains, or a depth/time bound trips. The loop is
// the same for every algorithm; only the frontier ordering and the priority
// function differ. Bound hits are reported in Result.Reason, never as errors:
// an error return means the problem itself was unusable (unknown algorithm,
// heuristic, or objective).
func (p Planner) Plan(ctx context.Context, problem Problem) (Result, error) {
	nowFn := p.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	startedAt := nowFn()

	result := Result{Algorithm: problem.Algorithm}
	finish := func(r Result) Result {
		r.PlanningTime = nowFn().Sub(startedAt)
		return r
	}

	front, err := newFrontier(problem.Algorithm)
	if err != nil {
		return finish(result), err
	}
	heuristic, err := newHeuristic(problem.Heuristic)
	if err != nil {
		return finish(result), err
	}
	objective, err := objectiveOf(problem.Objective)
	if err != nil {
		return finish(result), err
	}

	maxDepth := problem.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	maxTime := problem.MaxTime
	if maxTime <= 0 {
		maxTime = DefaultMaxTime
	}

	goal := problem.Goal
	if problem.Initial.Satisfies(goal) {
		return finish(solved(problem, &node{state: problem.Initial.Clone()}, 0)), nil
	}
	if len(problem.Actions) == 0 {
		result.Reason = ReasonNoActions
		return finish(result), nil
	}

	root := &node{state: problem.Initial.Clone()}
	root.priority = priorityOf(problem.Algorithm, objective(root), heuristic(root.state, goal))
	front.push(root)

	// bestG tracks the cheapest objective value seen per snapshot. A child is
	// only queued when it strictly improves on that, which both prunes cycles
	// (costs are non-negative) and lets A* reopen a state found again via a
	// cheaper path.
	bestG := map[string]float64{root.state.Fingerprint(): objective(root)}
	inserted := 0
	depthCut := false

	for !front.empty() {
		if ctx.Err() != nil || nowFn().Sub(startedAt) > maxTime {
			result.Reason = ReasonTimeBudgetExceeded
			return finish(result), nil
		}

		current := front.pop()
		if current.state.Satisfies(goal) {
			return finish(solved(problem, current, result.NodesExpanded)), nil
		}
		result.NodesExpanded++

		if current.depth >= maxDepth {
			depthCut = true
			continue
		}

		for _, action := range problem.Actions {
			if !action.CanExecute(current.state) {
				continue
			}
			nextState, err := action.Execute(current.state)
			if err != nil {
				continue
			}

			inserted++
			child := &node{
				state:    nextState,
				path:     appendPath(current.path, action),
				cost:     current.cost + action.Cost,
				duration: current.duration + action.Duration,
				depth:    current.depth + 1,
				seq:      inserted,
			}
			g := objective(child)
			key := nextState.Fingerprint()
			if prev, seen := bestG[key]; seen && prev <= g {
				continue
			}
			bestG[key] = g
			child.priority = priorityOf(problem.Algorithm, g, heuristic(child.state, goal))
			front.push(child)
		}
	}

	if depthCut {
		result.Reason = ReasonDepthExceeded
	} else {
		result.Reason = ReasonNoSolution
	}
	return finish(result), nil
}

func solved(problem Problem, n *node, expanded int) Result {
	return Result{
		Sequence: plan.ActionSequence{
			Actions:      n.path,
			InitialState: problem.Initial.Clone(),
			GoalState:    problem.Goal.Clone(),
		},
		TotalCost:     n.cost,
		TotalDuration: n.duration,
		NodesExpanded: expanded,
		Success:       true,
		Algorithm:     problem.Algorithm,
	}
}

// priorityOf computes the frontier ordering key: h for greedy, g+h for A*.
// BFS ignores priorities entirely.
func priorityOf(algorithm Algorithm, g, h float64) float64 {
	switch algorithm {
	case AlgorithmGreedy:
		return h
	case AlgorithmAStar:
		return g + h
	default:
		return 0
	}
}

// objectiveOf selects the scalar accumulated as g(n). Cost and duration are
// independent fields on an action; the caller chooses which one the search
// minimizes.
func objectiveOf(o Objective) (func(*node) float64, error) {
	switch o {
	case ObjectiveCost, "":
		return func(n *node) float64 { return n.cost }, nil
	case ObjectiveDuration:
		return func(n *node) float64 { return n.duration }, nil
	default:
		return nil, ErrUnknownObjective
	}
}

// appendPath copies before appending so sibling nodes never share a backing
// array.
func appendPath(path []plan.Action, next plan.Action) []plan.Action {
	out := make([]plan.Action, len(path), len(path)+1)
	copy(out, path)
	return append(out, next)
}
