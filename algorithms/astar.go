package algorithms

import (
	"container/heap"
	"errors"
	"fmt"
)

// ErrNoPath - open set exhausted without reaching a goal-adjacent cell.
// This is an expected outcome, not a failure of the planner.
var ErrNoPath = errors.New("no path to goal")

// SearchStats describes the last FindPath call.
type SearchStats struct {
	Expanded        int  `json:"expanded"`
	Generated       int  `json:"generated"`
	Pruned          int  `json:"pruned"`
	Filtered        bool `json:"filtered"`
	EscapeTriggered bool `json:"escape_triggered"`
	Found           bool `json:"found"`
	RouteLength     int  `json:"route_length"`
}

// PathPlanner runs A* searches for one episode. It keeps a NodeCache across
// searches and applies the neighbor filter only to the first plan.
type PathPlanner struct {
	cache    *NodeCache
	goalTest GoalTest
	filter   FilterFactory

	plans int
	stats SearchStats
}

// Option configures a PathPlanner.
type Option func(*PathPlanner)

// WithGoalTest replaces the goal adjacency offsets.
func WithGoalTest(t GoalTest) Option {
	return func(p *PathPlanner) { p.goalTest = t }
}

// WithQuadrantPruning toggles the directional pruning of the first plan.
func WithQuadrantPruning(enabled bool) Option {
	return func(p *PathPlanner) {
		if enabled {
			p.filter = QuadrantPruning
		} else {
			p.filter = nil
		}
	}
}

// WithNeighborFilter installs a custom first-plan filter.
func WithNeighborFilter(f FilterFactory) Option {
	return func(p *PathPlanner) { p.filter = f }
}

// WithCache shares an existing NodeCache.
func WithCache(c *NodeCache) Option {
	return func(p *PathPlanner) { p.cache = c }
}

// NewPathPlanner - PathPlanner 생성
func NewPathPlanner(options ...Option) *PathPlanner {
	p := &PathPlanner{
		goalTest: UpperLeftAdjacency,
		filter:   QuadrantPruning,
	}
	for _, option := range options {
		option(p)
	}
	if p.cache == nil {
		p.cache = NewNodeCache()
	}
	return p
}

// Cache returns the planner's node cache.
func (p *PathPlanner) Cache() *NodeCache { return p.cache }

// Plans - number of FindPath calls since the last Reset
func (p *PathPlanner) Plans() int { return p.plans }

// LastStats returns the statistics of the most recent search.
func (p *PathPlanner) LastStats() SearchStats { return p.stats }

// Reset starts a new episode: the next plan is a first plan again.
func (p *PathPlanner) Reset() {
	p.plans = 0
	p.cache.Invalidate()
	p.stats = SearchStats{}
}

// FindPath - A* 알고리즘으로 목표 인접 칸까지 경로 찾기
//
// The returned route excludes start and the goal cell and is ordered
// start→goal. ErrNoPath is returned when no goal-adjacent cell is reachable.
func (p *PathPlanner) FindPath(g *Grid, start, goal Position) (Route, error) {
	if !g.InBounds(start) {
		return nil, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !g.InBounds(goal) {
		return nil, fmt.Errorf("goal %v: %w", goal, ErrOutOfBounds)
	}

	var filter NeighborFilter
	if p.filter != nil && p.plans == 0 {
		filter = p.filter(start, goal)
	}
	p.plans++
	p.stats = SearchStats{Filtered: filter != nil}

	// A* 초기화
	openSet := make(openQueue, 0)
	heap.Init(&openSet)
	seq := 0

	gScore := map[Position]int{start: 0}
	cameFrom := make(map[Position]Position)
	closedSet := make(map[Position]bool)

	startNode := SearchNode{Pos: start}
	heap.Push(&openSet, &queueItem{pos: start, g: 0, f: p.cache.Heuristic(startNode, goal), seq: seq})

	for openSet.Len() > 0 {
		item := heap.Pop(&openSet).(*queueItem)

		// superseded entry
		if closedSet[item.pos] || item.g > gScore[item.pos] {
			continue
		}

		current := SearchNode{Pos: item.pos}
		if p.goalTest.Satisfied(current.Pos, goal) {
			route := reconstructRoute(cameFrom, current.Pos, start)
			p.stats.Found = true
			p.stats.RouteLength = len(route)
			p.markEscape(filter)
			return route, nil
		}

		closedSet[current.Pos] = true
		p.stats.Expanded++

		for _, neighbor := range p.cache.Neighbors(current, g) {
			if closedSet[neighbor.Pos] {
				continue
			}
			if filter != nil && !filter.Allow(neighbor.Pos, len(closedSet)) {
				p.stats.Pruned++
				continue
			}

			tentativeG := item.g + neighbor.TraverseCost()
			if existingG, ok := gScore[neighbor.Pos]; ok && tentativeG >= existingG {
				continue
			}

			gScore[neighbor.Pos] = tentativeG
			cameFrom[neighbor.Pos] = current.Pos
			seq++
			heap.Push(&openSet, &queueItem{
				pos: neighbor.Pos,
				g:   tentativeG,
				f:   tentativeG + p.cache.Heuristic(neighbor, goal),
				seq: seq,
			})
			p.stats.Generated++
		}
	}

	// 경로 없음
	p.markEscape(filter)
	return nil, ErrNoPath
}

func (p *PathPlanner) markEscape(filter NeighborFilter) {
	if q, ok := filter.(*QuadrantFilter); ok {
		p.stats.EscapeTriggered = q.Lifted()
	}
}

// reconstructRoute walks cameFrom back to start (exclusive) and reverses.
func reconstructRoute(cameFrom map[Position]Position, current, start Position) Route {
	route := Route{}
	for current != start {
		route = append(route, current)
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}
