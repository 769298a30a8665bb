package models

import "siege-planner/algorithms"

// Enemy - 적 풋맨 (이동하는 장애물)
type Enemy struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Position algorithms.Position   `json:"position"`
	Patrol   []algorithms.Position `json:"patrol,omitempty"` // 순찰 경로 (시뮬레이터용)
	IsActive bool                  `json:"is_active"`

	patrolIndex int
}

// NewEnemy - 적 생성
func NewEnemy(id, name string, pos algorithms.Position, patrol []algorithms.Position) *Enemy {
	return &Enemy{
		ID:       id,
		Name:     name,
		Position: pos,
		Patrol:   patrol,
		IsActive: true,
	}
}

// Advance - 순찰 경로의 다음 칸으로 이동
func (e *Enemy) Advance() algorithms.Position {
	if len(e.Patrol) == 0 {
		return e.Position
	}
	e.Position = e.Patrol[e.patrolIndex%len(e.Patrol)]
	e.patrolIndex++
	return e.Position
}
