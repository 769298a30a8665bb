package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertWalkable checks that consecutive steps are 8-adjacent and unblocked.
func assertWalkable(t *testing.T, g *Grid, start Position, route Route) {
	t.Helper()
	prev := start
	for i, step := range route {
		assert.Equal(t, 1, Chebyshev(prev, step), "step %d %v not adjacent to %v", i, step, prev)
		assert.False(t, g.IsBlocked(step.X, step.Y), "step %d %v is blocked", i, step)
		prev = step
	}
}

func TestFindPathScenarioUpperLeftAdjacency(t *testing.T) {
	g, start := parseGrid(t,
		"S....",
		"xxx.x",
		"....H",
	)

	route, err := NewPathPlanner().FindPath(g, start, g.Goal())
	require.NoError(t, err)

	assert.Equal(t, Route{{1, 0}, {2, 0}, {3, 1}}, route)
	assert.Equal(t, Chebyshev(start, g.Goal())-1, route.Len())
}

func TestFindPathScenarioFullAdjacency(t *testing.T) {
	// town hall in the lower-left corner
	g, start := parseGrid(t,
		"S....",
		"xxx.x",
		"H....",
	)

	planner := NewPathPlanner(WithGoalTest(FullAdjacency))
	route, err := planner.FindPath(g, start, g.Goal())
	require.NoError(t, err)

	assert.Equal(t, Route{{1, 0}, {2, 0}, {3, 1}, {2, 2}, {1, 2}}, route)
	assertWalkable(t, g, start, route)
	assert.NotContains(t, route, start)
	assert.NotContains(t, route, g.Goal())
}

func TestFindPathScenarioNarrowTestMissesLeftEdgeGoal(t *testing.T) {
	g, start := parseGrid(t,
		"S....",
		"xxx.x",
		"H....",
	)

	// both accepted offsets of a goal at x=0 lie outside the grid
	_, err := NewPathPlanner().FindPath(g, start, g.Goal())
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestFindPathAdmissibleOnOpenGrid(t *testing.T) {
	goals := []Position{{5, 3}, {9, 9}, {3, 7}, {6, 0}, {1, 1}, {2, 8}}
	start := Position{0, 0}

	for _, goal := range goals {
		g, err := NewGrid(10, 10, goal, nil, nil)
		require.NoError(t, err)

		route, err := NewPathPlanner().FindPath(g, start, goal)
		require.NoError(t, err, "goal %v", goal)
		assert.Equal(t, Chebyshev(start, goal)-1, route.Len(), "goal %v", goal)
		assertWalkable(t, g, start, route)
	}
}

func TestFindPathAdmissibleAnyDirectionFullAdjacency(t *testing.T) {
	start := Position{5, 5}
	goals := []Position{{0, 0}, {9, 0}, {0, 9}, {9, 9}, {5, 0}, {0, 5}, {8, 2}, {7, 7}}

	for _, goal := range goals {
		g, err := NewGrid(10, 10, goal, nil, nil)
		require.NoError(t, err)

		for _, pruning := range []bool{true, false} {
			planner := NewPathPlanner(WithGoalTest(FullAdjacency), WithQuadrantPruning(pruning))
			route, err := planner.FindPath(g, start, goal)
			require.NoError(t, err, "goal %v pruning %v", goal, pruning)
			assert.Equal(t, Chebyshev(start, goal)-1, route.Len(), "goal %v pruning %v", goal, pruning)
		}
	}
}

func TestFindPathDeterministic(t *testing.T) {
	g, start := parseGrid(t,
		"S.........",
		"..xx......",
		"...x..x...",
		"...x..x...",
		"......x...",
		"..xxxxx...",
		"..........",
		".......H..",
	)

	first, err := NewPathPlanner().FindPath(g, start, g.Goal())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := NewPathPlanner().FindPath(g, start, g.Goal())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assertWalkable(t, g, start, first)
}

func TestFindPathOnlyLowerRightApproach(t *testing.T) {
	g, start := parseGrid(t,
		"......",
		".xxx..",
		".xHx..",
		".xx...",
		"......",
		".....S",
	)

	_, err := NewPathPlanner().FindPath(g, start, g.Goal())
	assert.ErrorIs(t, err, ErrNoPath)

	route, err := NewPathPlanner(WithGoalTest(FullAdjacency)).FindPath(g, start, g.Goal())
	require.NoError(t, err)
	assert.Equal(t, Route{{4, 4}, {3, 3}}, route)
}

func TestFindPathEnclosedGoal(t *testing.T) {
	g, start := parseGrid(t,
		"S......",
		".......",
		"..xxx..",
		"..xHx..",
		"..xxx..",
		".......",
	)

	for _, test := range []GoalTest{UpperLeftAdjacency, FullAdjacency} {
		planner := NewPathPlanner(WithGoalTest(test))
		route, err := planner.FindPath(g, start, g.Goal())
		assert.ErrorIs(t, err, ErrNoPath)
		assert.Nil(t, route)
		assert.False(t, planner.LastStats().Found)
	}
}

func TestFindPathStartAlreadyAdjacent(t *testing.T) {
	g, _ := parseGrid(t, "...", ".SH", "...")

	route, err := NewPathPlanner().FindPath(g, Position{1, 1}, g.Goal())
	require.NoError(t, err)
	assert.Empty(t, route)
	assert.NotNil(t, route)
}

func TestFindPathOutOfBounds(t *testing.T) {
	g, _ := parseGrid(t, "...", "..H")
	planner := NewPathPlanner()

	_, err := planner.FindPath(g, Position{-1, 0}, g.Goal())
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = planner.FindPath(g, Position{0, 0}, Position{3, 1})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestFindPathAvoidsEnemy(t *testing.T) {
	g, start := parseGrid(t,
		"S....",
		"..E..",
		".....",
		"....H",
	)

	route, err := NewPathPlanner().FindPath(g, start, g.Goal())
	require.NoError(t, err)
	assert.NotContains(t, route, Position{2, 1})
	assert.Equal(t, 3, route.Len())
	assertWalkable(t, g, start, route)
}

func TestReplanAfterRelocationUsesFreshNeighbors(t *testing.T) {
	g, start := parseGrid(t,
		"S.....",
		"......",
		"......",
		"......",
		"......",
		".....H",
	)
	planner := NewPathPlanner()

	// the diagonal is the only 4-step route
	route, err := planner.FindPath(g, start, g.Goal())
	require.NoError(t, err)
	require.Equal(t, Route{{1, 1}, {2, 2}, {3, 3}, {4, 4}}, route)

	blocked := route[1]
	require.NoError(t, g.RelocateObstacle(blocked))
	require.True(t, ShouldReplan(route, blocked, true))

	replanned, err := planner.FindPath(g, route[0], g.Goal())
	require.NoError(t, err)
	assert.NotContains(t, replanned, blocked)
	assertWalkable(t, g, route[0], replanned)
	assert.Equal(t, 4, replanned.Len())

	assert.Equal(t, 2, planner.Plans())
	assert.False(t, planner.LastStats().Filtered, "pruning only applies to the first plan")
	assert.GreaterOrEqual(t, planner.Cache().Stats().Invalidations, 1)
}

func TestPlannerReset(t *testing.T) {
	g, start := parseGrid(t, "S...", "....", "...H")
	planner := NewPathPlanner()

	_, err := planner.FindPath(g, start, g.Goal())
	require.NoError(t, err)
	assert.True(t, planner.LastStats().Filtered)

	_, err = planner.FindPath(g, start, g.Goal())
	require.NoError(t, err)
	assert.False(t, planner.LastStats().Filtered)

	planner.Reset()
	assert.Equal(t, 0, planner.Plans())
	_, err = planner.FindPath(g, start, g.Goal())
	require.NoError(t, err)
	assert.True(t, planner.LastStats().Filtered)
}
