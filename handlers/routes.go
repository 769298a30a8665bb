package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes - REST API 와 WebSocket 라우트 등록
func SetupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Siege planner 서버가 실행 중입니다.")
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "OK",
			"clients":  Manager.GetClientCount(),
			"episodes": episodeCount(),
			"time":     time.Now().Format(time.RFC3339),
		})
	})

	// 단발성 경로 탐색
	api.Post("/pathfinding", HandlePathfinding)

	// 에피소드
	episodes := api.Group("/episodes")
	episodes.Post("/", HandleCreateEpisode)
	episodes.Get("/", HandleListEpisodes)
	episodes.Get("/:id", HandleGetEpisode)
	episodes.Post("/:id/tick", HandleTick)
	episodes.Delete("/:id", HandleDeleteEpisode)

	// 시뮬레이션
	api.Post("/simulate", HandleSimulate)
	api.Get("/simulate/status", HandleSimulateStatus)
	api.Post("/simulate/stop", HandleSimulateStop)

	// 로그 조회 API
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", HandleGetRecentLogs)     // 최근 로그
	logsAPI.Get("/range", HandleGetLogsByTimeRange) // 시간 범위
	logsAPI.Get("/type", HandleGetLogsByEventType)  // 이벤트 타입별
	logsAPI.Get("/stats", HandleGetLogStats)        // 통계

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/web", websocket.New(HandleWebClientWebSocket))
}
