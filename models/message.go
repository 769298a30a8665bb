package models

import (
	"time"

	"siege-planner/algorithms"
)

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Web
	MessageTypePosition    = "position"     // 풋맨 위치 업데이트
	MessageTypeRouteUpdate = "route_update" // 새 경로 (최초 계획/재계획)
	MessageTypeDecision    = "decision"     // tick 결정
	MessageTypeNoPath      = "no_path"      // 경로 없음
	MessageTypeEpisodeEnd  = "episode_end"  // 에피소드 종료 요약

	// Server → All
	MessageTypeMapUpdate  = "map_update"  // 맵 업데이트
	MessageTypeSystemInfo = "system_info" // 시스템 정보
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	EpisodeID string      `json:"episode_id,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// NewMessage - 현재 시각으로 메시지 생성
func NewMessage(msgType, episodeID string, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		Type:      msgType,
		EpisodeID: episodeID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ========================================
// 경로 데이터
// ========================================
type RouteData struct {
	Start     algorithms.Position    `json:"start"`
	Goal      algorithms.Position    `json:"goal"`
	Points    algorithms.Route       `json:"points"`
	Length    int                    `json:"length"`
	Replan    bool                   `json:"replan"`
	Stats     algorithms.SearchStats `json:"stats"`
	Algorithm string                 `json:"algorithm"` // "a_star"
	CreatedAt time.Time              `json:"created_at"`
}

// ========================================
// 위치 데이터
// ========================================
type PositionData struct {
	Agent algorithms.Position  `json:"agent"`
	Enemy *algorithms.Position `json:"enemy,omitempty"`
	Tick  int                  `json:"tick"`
}

// ========================================
// 시스템 정보
// ========================================
type SystemInfo struct {
	ConnectedClients int       `json:"connected_clients"`
	Episodes         int       `json:"episodes"`
	ServerTime       time.Time `json:"server_time"`
	Uptime           int64     `json:"uptime"` // 가동 시간 (초)
}
