package algorithms

// GoalTest is the set of offsets from the goal that count as "adjacent".
type GoalTest []Position

var (
	// UpperLeftAdjacency accepts only (goal.x-1, goal.y) and (goal.x-1, goal.y-1).
	UpperLeftAdjacency = GoalTest{{-1, 0}, {-1, -1}}

	// FullAdjacency accepts all eight neighbors of the goal.
	FullAdjacency = GoalTest{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
)

// Satisfied reports whether p is one of the goal's accepted neighbors.
func (t GoalTest) Satisfied(p, goal Position) bool {
	for _, off := range t {
		if goal.Add(off) == p {
			return true
		}
	}
	return false
}

// NeighborFilter narrows expansion during one search. closed is the number of
// nodes expanded so far.
type NeighborFilter interface {
	Allow(to Position, closed int) bool
}

// FilterFactory builds a fresh filter for a search from start to goal.
type FilterFactory func(start, goal Position) NeighborFilter

// QuadrantFilter keeps expansion inside the quadrant around start that holds
// the goal, until the closed set reaches the start-goal bounding-box area.
// A zero offset on an axis matches both halves of that axis.
type QuadrantFilter struct {
	start  Position
	qx, qy int
	limit  int
	lifted bool
}

// NewQuadrantFilter - 첫 계획용 방향 가지치기 필터
func NewQuadrantFilter(start, goal Position) *QuadrantFilter {
	dx := goal.X - start.X
	dy := goal.Y - start.Y
	return &QuadrantFilter{
		start: start,
		qx:    sign(dx),
		qy:    sign(dy),
		limit: (abs(dx) + 1) * (abs(dy) + 1),
	}
}

// Allow implements NeighborFilter.
func (f *QuadrantFilter) Allow(to Position, closed int) bool {
	if !f.lifted && closed >= f.limit {
		f.lifted = true
	}
	if f.lifted {
		return true
	}
	return sameHalf(sign(to.X-f.start.X), f.qx) && sameHalf(sign(to.Y-f.start.Y), f.qy)
}

// Lifted reports whether the escape valve fired.
func (f *QuadrantFilter) Lifted() bool { return f.lifted }

// Limit - bounding-box area that lifts the restriction
func (f *QuadrantFilter) Limit() int { return f.limit }

// QuadrantPruning is the FilterFactory for QuadrantFilter.
func QuadrantPruning(start, goal Position) NeighborFilter {
	return NewQuadrantFilter(start, goal)
}

func sameHalf(a, b int) bool {
	return a == 0 || b == 0 || a == b
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
