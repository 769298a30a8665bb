package algorithms

// directions - 8방향 이동 (상하좌우 + 대각선), fixed order keeps searches deterministic
var directions = [8]Position{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// SearchNode is a regenerable view of one cell. Identity is Pos alone.
type SearchNode struct {
	Pos Position
}

// Chebyshev returns max(|dx|, |dy|), the exact unobstructed cost under
// 8-directional unit-cost movement.
func Chebyshev(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Heuristic - 목표까지의 체비셰프 거리
func (n SearchNode) Heuristic(goal Position) int {
	return Chebyshev(n.Pos, goal)
}

// TraverseCost is uniform; diagonal steps cost the same as straight ones.
func (n SearchNode) TraverseCost() int {
	return 1
}

// Neighbors lists the in-bounds, unblocked cells around n.
func (n SearchNode) Neighbors(g *Grid) []SearchNode {
	out := make([]SearchNode, 0, len(directions))
	for _, d := range directions {
		p := n.Pos.Add(d)
		if g.IsBlocked(p.X, p.Y) {
			continue
		}
		out = append(out, SearchNode{Pos: p})
	}
	return out
}

// CacheStats - hit/miss counters of a NodeCache
type CacheStats struct {
	HeuristicHits   int `json:"heuristic_hits"`
	HeuristicMisses int `json:"heuristic_misses"`
	NeighborHits    int `json:"neighbor_hits"`
	NeighborMisses  int `json:"neighbor_misses"`
	Invalidations   int `json:"invalidations"`
}

// NodeCache is a position-keyed arena of heuristic values and neighbor lists
// that outlives a single search. Neighbor lists are tied to the grid version
// they were computed at and are dropped as soon as the enemy moves.
type NodeCache struct {
	goal       Position
	hasGoal    bool
	heuristics map[Position]int

	grid      *Grid
	version   uint64
	neighbors map[Position][]SearchNode

	stats CacheStats
}

// NewNodeCache - 빈 캐시 생성
func NewNodeCache() *NodeCache {
	return &NodeCache{
		heuristics: make(map[Position]int),
		neighbors:  make(map[Position][]SearchNode),
	}
}

// Heuristic returns the cached estimate for n, computing it on a miss.
func (c *NodeCache) Heuristic(n SearchNode, goal Position) int {
	if !c.hasGoal || c.goal != goal {
		c.goal = goal
		c.hasGoal = true
		c.heuristics = make(map[Position]int)
	}

	if h, ok := c.heuristics[n.Pos]; ok {
		c.stats.HeuristicHits++
		return h
	}
	c.stats.HeuristicMisses++
	h := n.Heuristic(goal)
	c.heuristics[n.Pos] = h
	return h
}

// Neighbors returns the cached neighbor list for n on g.
func (c *NodeCache) Neighbors(n SearchNode, g *Grid) []SearchNode {
	if c.grid != g || c.version != g.Version() {
		c.reset(g)
	}

	if list, ok := c.neighbors[n.Pos]; ok {
		c.stats.NeighborHits++
		return list
	}
	c.stats.NeighborMisses++
	list := n.Neighbors(g)
	c.neighbors[n.Pos] = list
	return list
}

// Invalidate drops every cached neighbor list.
func (c *NodeCache) Invalidate() {
	c.reset(c.grid)
}

func (c *NodeCache) reset(g *Grid) {
	if len(c.neighbors) > 0 {
		c.stats.Invalidations++
	}
	c.neighbors = make(map[Position][]SearchNode)
	c.grid = g
	if g != nil {
		c.version = g.Version()
	}
}

// Len - number of cached neighbor lists
func (c *NodeCache) Len() int {
	return len(c.neighbors)
}

// Stats returns a copy of the counters.
func (c *NodeCache) Stats() CacheStats {
	return c.stats
}
