package models

import (
	"time"
)

// PlanLog - 계획/행동 이벤트 로그
type PlanLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	EpisodeID string    `gorm:"index;size:64" json:"episode_id"`
	EventType string    `gorm:"index;size:32" json:"event_type"` // "plan", "replan", "no_path", "move", "attack", "invalid_plan"
	Tick      int       `json:"tick"`

	// 풋맨 위치
	AgentX int `json:"agent_x"`
	AgentY int `json:"agent_y"`

	// 적 위치 (없으면 -1)
	EnemyX int `json:"enemy_x"`
	EnemyY int `json:"enemy_y"`

	// 탐색 통계
	RouteLength     int   `json:"route_length"`
	Expanded        int   `json:"expanded"`
	Pruned          int   `json:"pruned"`
	EscapeTriggered bool  `json:"escape_triggered"`
	PlanMicros      int64 `json:"plan_micros"`

	// 결정
	Action    string `json:"action"`
	Direction string `json:"direction"`

	// 메타데이터
	DataJSON string `json:"data_json"` // 원본 경로 JSON
}

// LogStats - 로그 통계
type LogStats struct {
	TotalLogs   int64            `json:"total_logs"`
	EventCounts map[string]int64 `json:"event_counts"`
	TimeRange   string           `json:"time_range"`
}
