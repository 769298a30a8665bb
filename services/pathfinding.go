package services

import (
	"errors"
	"log"
	"siege-planner/algorithms"
	"siege-planner/models"
	"time"
)

// PlanRequest - 단발성 경로 계획 요청
type PlanRequest struct {
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Start     algorithms.Position   `json:"start"`
	Goal      algorithms.Position   `json:"goal"`
	Obstacles []algorithms.Position `json:"obstacles"`
	Enemy     *algorithms.Position  `json:"enemy,omitempty"`
	models.PlannerOptions
}

// PlanResult - 경로 계획 결과
type PlanResult struct {
	Route  algorithms.Route       `json:"route"`
	NoPath bool                   `json:"no_path"`
	Stats  algorithms.SearchStats `json:"stats"`
	Cache  algorithms.CacheStats  `json:"cache"`
	Took   time.Duration          `json:"took"`
}

// PlanOnce builds a grid from the request and runs a single search with a
// fresh planner, so the first-plan neighbor filter applies.
//
// ErrNoPath is reported through PlanResult.NoPath; other errors are returned.
func PlanOnce(req PlanRequest, cfg PlannerConfig) (*PlanResult, error) {
	grid, err := algorithms.NewGrid(req.Width, req.Height, req.Goal, req.Obstacles, req.Enemy)
	if err != nil {
		return nil, err
	}

	planner := algorithms.NewPathPlanner(cfg.With(&req.PlannerOptions).Options()...)

	began := time.Now()
	route, err := planner.FindPath(grid, req.Start, req.Goal)
	result := &PlanResult{
		Route: route,
		Stats: planner.LastStats(),
		Cache: planner.Cache().Stats(),
		Took:  time.Since(began),
	}

	switch {
	case errors.Is(err, algorithms.ErrNoPath):
		result.NoPath = true
		result.Route = algorithms.Route{}
		log.Printf("❌ 경로를 찾을 수 없습니다 (%v → %v)", req.Start, req.Goal)
	case err != nil:
		return nil, err
	default:
		log.Printf("✅ 경로 탐색 성공: %d steps, expanded=%d", len(route), result.Stats.Expanded)
	}

	return result, nil
}
