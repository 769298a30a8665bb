package handlers

import (
	"errors"
	"log"
	"siege-planner/algorithms"
	"siege-planner/models"
	"siege-planner/services"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	plannerConfig  services.PlannerConfig
	episodeManager *services.EpisodeManager
	simulator      *services.Simulator
	startedAt      = time.Now()
)

// InitEpisodeService - 에피소드 관리자와 시뮬레이터 초기화
//
// Route updates and decisions go to web clients and into the log buffer.
func InitEpisodeService(cfg services.PlannerConfig) *services.EpisodeManager {
	hooks := services.EpisodeHooks{
		Broadcast: Manager.BroadcastMessage,
		Record:    services.AddLog,
	}
	plannerConfig = cfg
	episodeManager = services.NewEpisodeManager(cfg, hooks)
	simulator = services.NewSimulator(cfg, hooks)
	log.Printf("✅ 에피소드 서비스 초기화 (quadrant_pruning=%v, full_adjacency=%v)", cfg.QuadrantPruning, cfg.FullAdjacency)
	return episodeManager
}

func episodeCount() int {
	if episodeManager == nil {
		return 0
	}
	return episodeManager.Count()
}

// errorStatus - 서비스 에러 → HTTP 상태 코드
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEpisodeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, algorithms.ErrOutOfBounds), errors.Is(err, algorithms.ErrInvalidGrid):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrSimulatorRunning):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrDatabaseUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

// CreateEpisodeRequest - 에피소드 생성 요청
type CreateEpisodeRequest struct {
	models.EpisodeSnapshot
	Planner *models.PlannerOptions `json:"planner,omitempty"`
}

// TickRequest - tick 요청 (현재 풋맨/적 위치)
type TickRequest struct {
	Agent algorithms.Position  `json:"agent"`
	Enemy *algorithms.Position `json:"enemy,omitempty"`
}

// HandleCreateEpisode - 에피소드 생성 및 최초 경로 계획
func HandleCreateEpisode(c *fiber.Ctx) error {
	var req CreateEpisodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "잘못된 요청 형식입니다",
		})
	}

	summary, err := episodeManager.Create(req.EpisodeSnapshot, req.Planner)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"episode": summary,
	})
}

// HandleListEpisodes - 진행 중인 에피소드 목록
func HandleListEpisodes(c *fiber.Ctx) error {
	ids := episodeManager.IDs()
	return c.JSON(fiber.Map{
		"success":  true,
		"count":    len(ids),
		"episodes": ids,
	})
}

// HandleGetEpisode - 에피소드 요약 조회
func HandleGetEpisode(c *fiber.Ctx) error {
	summary, err := episodeManager.Summary(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"episode": summary,
	})
}

// HandleTick - 한 턴 진행
func HandleTick(c *fiber.Ctx) error {
	var req TickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "잘못된 요청 형식입니다",
		})
	}

	decision, err := episodeManager.Tick(c.Params("id"), req.Agent, req.Enemy)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"decision": decision,
	})
}

// HandleDeleteEpisode - 에피소드 종료
func HandleDeleteEpisode(c *fiber.Ctx) error {
	summary, err := episodeManager.Remove(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"episode": summary,
	})
}

// SimulateRequest - 시뮬레이션 요청
type SimulateRequest struct {
	services.SimulationOptions
	IntervalMS int  `json:"interval_ms"`
	Background bool `json:"background"`
}

// HandleSimulate - 랜덤 맵에서 시뮬레이션 실행
//
// Foreground runs return the whole result; background runs stream over the
// websocket and are polled through /api/simulate/status.
func HandleSimulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "잘못된 요청 형식입니다",
		})
	}
	opts := req.SimulationOptions
	opts.Interval = time.Duration(req.IntervalMS) * time.Millisecond

	if req.Background {
		if err := simulator.Start(opts); err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success": true,
			"message": "시뮬레이션 시작",
		})
	}

	result, err := simulator.Simulate(c.UserContext(), opts)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

// HandleSimulateStatus - 백그라운드 시뮬레이션 상태
func HandleSimulateStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"running": simulator.IsRunning(),
		"result":  simulator.LastResult(),
	})
}

// HandleSimulateStop - 백그라운드 시뮬레이션 중지
func HandleSimulateStop(c *fiber.Ctx) error {
	simulator.Stop()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "시뮬레이션 중지",
	})
}
