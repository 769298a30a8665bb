package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfBounds - position outside the grid extents (caller contract violation)
var ErrOutOfBounds = errors.New("position out of bounds")

// ErrInvalidGrid - 너비/높이가 0 이하이거나 칸 수 상한 초과
var ErrInvalidGrid = errors.New("invalid grid size")

// MaxGridCells - 그리드 하나가 가질 수 있는 최대 칸 수
const MaxGridCells = 1 << 20

// CheckSize reports ErrInvalidGrid unless width x height is a positive
// extent of at most MaxGridCells cells.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxGridCells/height {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidGrid)
	}
	return nil
}

// CellCode - occupancy value of one grid cell
type CellCode uint8

const (
	CellFree           CellCode = iota // 빈 칸
	CellObstacle                       // tree / resource
	CellMobileObstacle                 // enemy footman
	CellGoal                           // town hall
)

func (c CellCode) String() string {
	switch c {
	case CellFree:
		return "free"
	case CellObstacle:
		return "obstacle"
	case CellMobileObstacle:
		return "mobile_obstacle"
	case CellGoal:
		return "goal"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Position - integer grid coordinate, y grows downward
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p shifted by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// NoPosition is the remembered obstacle position when no enemy exists.
var NoPosition = Position{X: -1, Y: -1}

// Grid owns the occupancy map and the single mobile obstacle.
type Grid struct {
	width    int
	height   int
	cells    []CellCode
	goal     Position
	obstacle Position
	version  uint64
}

// NewGrid - 에피소드 시작 시 정적 지형으로 그리드 생성
//
// Writes happen in the order goal, static obstacles, enemy. A static
// obstacle on the goal cell wins; the enemy only lands on a free cell.
func NewGrid(width, height int, goal Position, obstacles []Position, enemy *Position) (*Grid, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}

	g := &Grid{
		width:    width,
		height:   height,
		cells:    make([]CellCode, width*height),
		goal:     goal,
		obstacle: NoPosition,
	}

	if !g.InBounds(goal) {
		return nil, fmt.Errorf("goal %v: %w", goal, ErrOutOfBounds)
	}
	g.cells[g.index(goal)] = CellGoal

	for _, ob := range obstacles {
		if !g.InBounds(ob) {
			return nil, fmt.Errorf("obstacle %v: %w", ob, ErrOutOfBounds)
		}
		g.cells[g.index(ob)] = CellObstacle
	}

	if enemy != nil {
		if err := g.RelocateObstacle(*enemy); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *Grid) index(p Position) int {
	return p.Y*g.width + p.X
}

// Width - x extent
func (g *Grid) Width() int { return g.width }

// Height - y extent
func (g *Grid) Height() int { return g.height }

// Goal - town hall position, fixed at construction
func (g *Grid) Goal() Position { return g.goal }

// Version increases on every obstacle relocation.
func (g *Grid) Version() uint64 { return g.version }

// InBounds reports whether p lies in [0,width)×[0,height).
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// CellAt returns the code stored at (x, y).
func (g *Grid) CellAt(x, y int) (CellCode, error) {
	p := Position{X: x, Y: y}
	if !g.InBounds(p) {
		return CellFree, fmt.Errorf("cell %v: %w", p, ErrOutOfBounds)
	}
	return g.cells[g.index(p)], nil
}

// IsBlocked is true iff the cell holds anything but CellFree.
// Cells outside the grid count as blocked.
func (g *Grid) IsBlocked(x, y int) bool {
	code, err := g.CellAt(x, y)
	if err != nil {
		return true
	}
	return code != CellFree
}

// ObstaclePosition returns the enemy position, false when none is tracked.
func (g *Grid) ObstaclePosition() (Position, bool) {
	if g.obstacle == NoPosition {
		return NoPosition, false
	}
	return g.obstacle, true
}

// RelocateObstacle - 적 위치 이동
//
// Clears the previous enemy cell and marks p. Calling it with the current
// position leaves the cells unchanged apart from the version bump.
func (g *Grid) RelocateObstacle(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("enemy %v: %w", p, ErrOutOfBounds)
	}

	if g.obstacle != NoPosition {
		prev := g.index(g.obstacle)
		// only clear what the enemy itself wrote
		if g.cells[prev] == CellMobileObstacle {
			g.cells[prev] = CellFree
		}
	}

	// static terrain and the goal are never overwritten
	if next := g.index(p); g.cells[next] == CellFree {
		g.cells[next] = CellMobileObstacle
	}
	g.obstacle = p
	g.version++
	return nil
}

// String renders the grid row by row: '.' free, 'x' obstacle, 'E' enemy, 'H' goal.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			switch g.cells[y*g.width+x] {
			case CellObstacle:
				sb.WriteByte('x')
			case CellMobileObstacle:
				sb.WriteByte('E')
			case CellGoal:
				sb.WriteByte('H')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
