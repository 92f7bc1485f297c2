package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planverse/internal/domain/plan"
)

func mustAction(t *testing.T, def plan.ActionDefinition) plan.Action {
	t.Helper()
	a, err := plan.NewAction(def)
	require.NoError(t, err)
	return a
}

func moveProblem(t *testing.T, algorithm Algorithm) Problem {
	t.Helper()
	move := mustAction(t, plan.ActionDefinition{
		ID:            "move",
		Preconditions: []string{"at_living_room=True"},
		Effects:       []string{"at_living_room=False", "at_kitchen=True"},
		Cost:          1,
		Duration:      5,
	})
	return Problem{
		Initial:   plan.NewState(map[string]any{"at_living_room": true, "at_kitchen": false}),
		Goal:      plan.NewState(map[string]any{"at_kitchen": true}),
		Actions:   []plan.Action{move},
		Algorithm: algorithm,
	}
}

func TestPlanSingleStep(t *testing.T) {
	for _, algorithm := range []Algorithm{AlgorithmBFS, AlgorithmGreedy, AlgorithmAStar} {
		t.Run(string(algorithm), func(t *testing.T) {
			result, err := Planner{}.Plan(context.Background(), moveProblem(t, algorithm))
			require.NoError(t, err)

			assert.True(t, result.Success)
			assert.Equal(t, []string{"move"}, result.Sequence.ActionIDs())
			assert.Equal(t, 1.0, result.TotalCost)
			assert.Equal(t, 5.0, result.TotalDuration)
			assert.Equal(t, ReasonNone, result.Reason)
		})
	}
}

func TestPlanGoalAlreadySatisfied(t *testing.T) {
	problem := moveProblem(t, AlgorithmBFS)
	problem.Initial = plan.NewState(map[string]any{"at_kitchen": "True"})

	result, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Sequence.Actions)
	assert.Zero(t, result.TotalCost)
}

func TestPlanNoActions(t *testing.T) {
	problem := Problem{
		Initial:   plan.NewState(map[string]any{"x": false}),
		Goal:      plan.NewState(map[string]any{"x": true}),
		Algorithm: AlgorithmBFS,
	}
	result, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonNoActions, result.Reason)
	assert.Empty(t, result.Sequence.Actions)
}

func TestPlanMutuallyExclusiveGoalExhaustsFrontier(t *testing.T) {
	// Both effects are needed, but each action's precondition rules out the
	// other having run first. The frontier must drain, not time out.
	a := mustAction(t, plan.ActionDefinition{
		ID:            "a",
		Preconditions: []string{"mode=idle"},
		Effects:       []string{"mode=busy_a", "done_a=True"},
		Cost:          1,
	})
	b := mustAction(t, plan.ActionDefinition{
		ID:            "b",
		Preconditions: []string{"mode=idle"},
		Effects:       []string{"mode=busy_b", "done_b=True"},
		Cost:          1,
	})
	problem := Problem{
		Initial:   plan.NewState(map[string]any{"mode": "idle"}),
		Goal:      plan.NewState(map[string]any{"done_a": true, "done_b": true}),
		Actions:   []plan.Action{a, b},
		Algorithm: AlgorithmBFS,
	}

	result, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonNoSolution, result.Reason)
}

func TestPlanDepthExceeded(t *testing.T) {
	step := mustAction(t, plan.ActionDefinition{
		ID:            "step",
		Preconditions: []string{"pos=0"},
		Effects:       []string{"pos=1"},
		Cost:          1,
	})
	step2 := mustAction(t, plan.ActionDefinition{
		ID:            "step2",
		Preconditions: []string{"pos=1"},
		Effects:       []string{"pos=2"},
		Cost:          1,
	})
	problem := Problem{
		Initial:   plan.NewState(map[string]any{"pos": 0}),
		Goal:      plan.NewState(map[string]any{"pos": 2}),
		Actions:   []plan.Action{step, step2},
		Algorithm: AlgorithmBFS,
		MaxDepth:  1,
	}

	result, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonDepthExceeded, result.Reason)
}

func TestPlanTimeBudgetExceeded(t *testing.T) {
	// A fake clock that jumps far past the budget on its second reading.
	readings := 0
	clock := func() time.Time {
		readings++
		return time.Unix(0, 0).Add(time.Duration(readings) * time.Hour)
	}
	problem := moveProblem(t, AlgorithmBFS)
	problem.MaxTime = time.Millisecond

	result, err := Planner{Now: clock}.Plan(context.Background(), problem)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonTimeBudgetExceeded, result.Reason)
}

func TestPlanContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Planner{}.Plan(ctx, moveProblem(t, AlgorithmAStar))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonTimeBudgetExceeded, result.Reason)
}

func TestPlanUnknownVariants(t *testing.T) {
	problem := moveProblem(t, Algorithm("dijkstra"))
	_, err := Planner{}.Plan(context.Background(), problem)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	problem = moveProblem(t, AlgorithmBFS)
	problem.Heuristic = Heuristic("landmarks")
	_, err = Planner{}.Plan(context.Background(), problem)
	assert.ErrorIs(t, err, ErrUnknownHeuristic)

	problem = moveProblem(t, AlgorithmBFS)
	problem.Objective = Objective("energy")
	_, err = Planner{}.Plan(context.Background(), problem)
	assert.ErrorIs(t, err, ErrUnknownObjective)
}

// twoRoutesProblem offers a short expensive route and a long cheap one.
func twoRoutesProblem(t *testing.T, algorithm Algorithm) Problem {
	t.Helper()
	direct := mustAction(t, plan.ActionDefinition{
		ID:            "direct",
		Preconditions: []string{"at=start"},
		Effects:       []string{"at=goal"},
		Cost:          10,
	})
	hop1 := mustAction(t, plan.ActionDefinition{
		ID:            "hop1",
		Preconditions: []string{"at=start"},
		Effects:       []string{"at=mid"},
		Cost:          1,
	})
	hop2 := mustAction(t, plan.ActionDefinition{
		ID:            "hop2",
		Preconditions: []string{"at=mid"},
		Effects:       []string{"at=goal"},
		Cost:          1,
	})
	return Problem{
		Initial:   plan.NewState(map[string]any{"at": "start"}),
		Goal:      plan.NewState(map[string]any{"at": "goal"}),
		Actions:   []plan.Action{direct, hop1, hop2},
		Algorithm: algorithm,
	}
}

func TestAStarFindsCheapestRoute(t *testing.T) {
	result, err := Planner{}.Plan(context.Background(), twoRoutesProblem(t, AlgorithmAStar))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{"hop1", "hop2"}, result.Sequence.ActionIDs())
	assert.Equal(t, 2.0, result.TotalCost)
}

func TestBFSFindsShortestActionCount(t *testing.T) {
	result, err := Planner{}.Plan(context.Background(), twoRoutesProblem(t, AlgorithmBFS))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{"direct"}, result.Sequence.ActionIDs())
}

func TestAStarNeverCostlierThanBFSOnUnitCosts(t *testing.T) {
	problem := twoRoutesProblem(t, AlgorithmBFS)
	for i := range problem.Actions {
		def := problem.Actions[i].Definition()
		def.Cost = 1
		unit, err := plan.NewAction(def)
		require.NoError(t, err)
		problem.Actions[i] = unit
	}

	bfs, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)

	problem.Algorithm = AlgorithmAStar
	astar, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)

	require.True(t, bfs.Success)
	require.True(t, astar.Success)
	assert.LessOrEqual(t, astar.TotalCost, bfs.TotalCost)
}

func TestObjectiveDuration(t *testing.T) {
	problem := twoRoutesProblem(t, AlgorithmAStar)
	// Re-weight so the direct route is cheap on cost but slow on duration.
	defs := map[string]struct{ cost, duration float64 }{
		"direct": {cost: 1, duration: 60},
		"hop1":   {cost: 5, duration: 1},
		"hop2":   {cost: 5, duration: 1},
	}
	for i := range problem.Actions {
		def := problem.Actions[i].Definition()
		w := defs[def.ID]
		def.Cost = w.cost
		def.Duration = w.duration
		a, err := plan.NewAction(def)
		require.NoError(t, err)
		problem.Actions[i] = a
	}
	problem.Objective = ObjectiveDuration

	result, err := Planner{}.Plan(context.Background(), problem)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{"hop1", "hop2"}, result.Sequence.ActionIDs())
	assert.Equal(t, 2.0, result.TotalDuration)
}

func TestPlanDeterminism(t *testing.T) {
	for _, algorithm := range []Algorithm{AlgorithmBFS, AlgorithmGreedy, AlgorithmAStar} {
		first, err := Planner{}.Plan(context.Background(), twoRoutesProblem(t, algorithm))
		require.NoError(t, err)
		second, err := Planner{}.Plan(context.Background(), twoRoutesProblem(t, algorithm))
		require.NoError(t, err)

		assert.Equal(t, first.Sequence.ActionIDs(), second.Sequence.ActionIDs(), "algorithm %s", algorithm)
		assert.Equal(t, first.TotalCost, second.TotalCost, "algorithm %s", algorithm)
	}
}

func TestPlanResultReplaysCleanly(t *testing.T) {
	result, err := Planner{}.Plan(context.Background(), twoRoutesProblem(t, AlgorithmAStar))
	require.NoError(t, err)
	require.True(t, result.Success)

	report := plan.ValidateSequence(result.Sequence)
	assert.True(t, report.Valid)
	assert.True(t, report.GoalSatisfied)
}

func TestPlanCountsExpandedNodes(t *testing.T) {
	result, err := Planner{}.Plan(context.Background(), twoRoutesProblem(t, AlgorithmBFS))
	require.NoError(t, err)
	assert.Greater(t, result.NodesExpanded, 0)
	assert.GreaterOrEqual(t, result.PlanningTime, time.Duration(0))
}
