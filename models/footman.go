package models

import (
	"time"

	"siege-planner/algorithms"
)

// ========================================
// 행동(Action) 상수
// ========================================
const (
	ActionMove        = "move"         // 다음 칸으로 이동
	ActionAttack      = "attack"       // 인접한 타운홀 공격
	ActionIdle        = "idle"         // 경로 없음 → 대기
	ActionInvalidPlan = "invalid_plan" // 경로 소진, 타운홀과 인접하지 않음
	ActionFinished    = "finished"     // 타운홀 파괴됨
)

// Action - tick 결정 타입
type Action string

// Direction - 8방향 (y 는 아래로 증가)
type Direction string

const (
	North     Direction = "north"
	NorthEast Direction = "northeast"
	East      Direction = "east"
	SouthEast Direction = "southeast"
	South     Direction = "south"
	SouthWest Direction = "southwest"
	West      Direction = "west"
	NorthWest Direction = "northwest"
)

// ========================================
// Tick 결정
// ========================================
type TickDecision struct {
	Tick      int                  `json:"tick"`
	Action    Action               `json:"action"`
	Direction Direction            `json:"direction,omitempty"`
	Target    *algorithms.Position `json:"target,omitempty"` // 이동할 칸
	Replanned bool                 `json:"replanned"`
	NoPath    bool                 `json:"no_path"`
	Remaining int                  `json:"remaining"` // 남은 경로 길이
	Reason    string               `json:"reason,omitempty"`
}

// ========================================
// 에피소드 요약 (terminal 통계)
// ========================================
type EpisodeSummary struct {
	ID            string              `json:"id"`
	MapID         string              `json:"map_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	LastTick      time.Time           `json:"last_tick"`
	Ticks         int                 `json:"ticks"`
	Plans         int                 `json:"plans"`
	Replans       int                 `json:"replans"`
	PlanningTime  time.Duration       `json:"planning_time"`
	ExecutionTime time.Duration       `json:"execution_time"`
	Route         algorithms.Route    `json:"route"`
	Goal          algorithms.Position `json:"goal"`
	NoPath        bool                `json:"no_path"`
	Finished      bool                `json:"finished"`
}
