package services

import (
	"fmt"
	"math/rand"
	"siege-planner/algorithms"
	"siege-planner/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MapGenerator handles random map generation and keeps the last map active
type MapGenerator struct {
	mu           sync.RWMutex
	activeMap    *models.MapGrid
	generationMu sync.Mutex
	rng          *rand.Rand
}

// NewMapGenerator creates a new MapGenerator instance
func NewMapGenerator() *MapGenerator {
	return NewSeededMapGenerator(time.Now().UnixNano())
}

// NewSeededMapGenerator - 고정 시드 (재현 가능한 맵)
func NewSeededMapGenerator(seed int64) *MapGenerator {
	return &MapGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GenerateMap creates a map with random trees, a town hall in the lower half,
// a footman in the upper half and an enemy patrolling the middle row.
//
// The patrol row and the town hall's upper-left approach cells are kept free.
func (mg *MapGenerator) GenerateMap(width, height, obstacleCount int) (*models.MapGrid, error) {
	if width < 2 || height < 3 {
		return nil, fmt.Errorf("map %dx%d too small: %w", width, height, algorithms.ErrOutOfBounds)
	}
	if err := algorithms.CheckSize(width, height); err != nil {
		return nil, err
	}

	mg.generationMu.Lock()
	defer mg.generationMu.Unlock()

	patrolRow := height / 2

	// 타운홀: x ≥ 1, 순찰 줄 아래
	goal := algorithms.Position{
		X: 1 + mg.rng.Intn(width-1),
		Y: patrolRow + 1 + mg.rng.Intn(height-patrolRow-1),
	}
	// 풋맨: 순찰 줄 위
	start := algorithms.Position{
		X: mg.rng.Intn(width),
		Y: mg.rng.Intn(patrolRow),
	}

	reserved := map[algorithms.Position]bool{
		start: true,
		goal:  true,
		{X: goal.X - 1, Y: goal.Y}:     true,
		{X: goal.X - 1, Y: goal.Y - 1}: true,
	}

	mapGrid := &models.MapGrid{
		ID:        uuid.New().String(),
		Width:     width,
		Height:    height,
		Obstacles: mg.generateObstacles(width, height, patrolRow, obstacleCount, reserved),
		Goal:      goal,
		StartPos:  start,
		Enemy:     generatePatrol(width, patrolRow),
		CreatedAt: time.Now(),
	}

	mg.mu.Lock()
	mg.activeMap = mapGrid
	mg.mu.Unlock()

	return mapGrid, nil
}

// generateObstacles places trees on distinct free cells off the patrol row
func (mg *MapGenerator) generateObstacles(width, height, patrolRow, count int, reserved map[algorithms.Position]bool) []algorithms.Position {
	free := width*(height-1) - len(reserved)
	if count > free {
		count = free
	}

	obstacles := make([]algorithms.Position, 0, count)
	taken := make(map[algorithms.Position]bool, count)

	for len(obstacles) < count {
		p := algorithms.Position{X: mg.rng.Intn(width), Y: mg.rng.Intn(height)}
		if p.Y == patrolRow || reserved[p] || taken[p] {
			continue
		}
		taken[p] = true
		obstacles = append(obstacles, p)
	}

	return obstacles
}

// generatePatrol - 가운데 줄을 왕복하는 적
func generatePatrol(width, row int) *models.Enemy {
	patrol := make([]algorithms.Position, 0, 2*width)
	for x := 0; x < width; x++ {
		patrol = append(patrol, algorithms.Position{X: x, Y: row})
	}
	for x := width - 2; x > 0; x-- {
		patrol = append(patrol, algorithms.Position{X: x, Y: row})
	}
	return models.NewEnemy("enemy-1", "footman", patrol[0], patrol)
}

// GetActiveMap returns the current active map
func (mg *MapGenerator) GetActiveMap() *models.MapGrid {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return mg.activeMap
}

// IsPositionValid checks if a cell is inside the active map and not a tree
func (mg *MapGenerator) IsPositionValid(pos algorithms.Position) bool {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	if mg.activeMap == nil {
		return false
	}

	// 경계 체크
	if pos.X < 0 || pos.X >= mg.activeMap.Width || pos.Y < 0 || pos.Y >= mg.activeMap.Height {
		return false
	}

	for _, obstacle := range mg.activeMap.Obstacles {
		if obstacle == pos {
			return false
		}
	}
	return pos != mg.activeMap.Goal
}

// ClearMap removes the current active map
func (mg *MapGenerator) ClearMap() {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	mg.activeMap = nil
}
