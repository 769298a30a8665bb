package models

import (
	"time"

	"siege-planner/algorithms"
)

// EpisodeSnapshot - 에피소드 시작 시 외부 시뮬레이션이 넘겨주는 정적 지형
type EpisodeSnapshot struct {
	MapID     string                `json:"map_id,omitempty"`
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Start     algorithms.Position   `json:"start"`
	Goal      algorithms.Position   `json:"goal"`      // 타운홀
	Obstacles []algorithms.Position `json:"obstacles"` // 나무/자원
	Enemy     *algorithms.Position  `json:"enemy,omitempty"`
}

// PlannerOptions - 요청별 플래너 설정 (nil 이면 서버 기본값)
type PlannerOptions struct {
	QuadrantPruning *bool `json:"quadrant_pruning,omitempty"`
	FullAdjacency   *bool `json:"full_adjacency,omitempty"`
}

// MapGrid represents a generated map
type MapGrid struct {
	ID        string                `json:"id"`
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Obstacles []algorithms.Position `json:"obstacles"`
	Goal      algorithms.Position   `json:"goal"`
	StartPos  algorithms.Position   `json:"start_position"`
	Enemy     *Enemy                `json:"enemy,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// Snapshot converts a generated map into an episode snapshot.
func (m *MapGrid) Snapshot() EpisodeSnapshot {
	snap := EpisodeSnapshot{
		MapID:     m.ID,
		Width:     m.Width,
		Height:    m.Height,
		Start:     m.StartPos,
		Goal:      m.Goal,
		Obstacles: m.Obstacles,
	}
	if m.Enemy != nil {
		pos := m.Enemy.Position
		snap.Enemy = &pos
	}
	return snap
}
