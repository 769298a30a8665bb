package main

import (
	"log"
	"os"
	"os/signal"
	"siege-planner/handlers"
	"siege-planner/services"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// .env 파일 + 환경 변수
	cfg := services.LoadConfig()

	// DB 연결 (DB_DRIVER 미설정 시 로그 저장 안 함)
	if err := services.InitDatabase(cfg); err != nil {
		log.Fatalf("❌ DB 초기화 실패: %v", err)
	}

	// 로깅 시스템 초기화
	services.InitLogging(cfg.LogFlushSize, cfg.LogFlushInterval)
	defer services.StopLogging() // 종료 시 남은 로그 저장

	manager := handlers.InitEpisodeService(cfg.Planner)

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go manager.RunCleanup(cfg.EpisodeIdleTimeout, stopCleanup)

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	go handlers.Manager.Start()

	handlers.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("🛑 서버 종료 중...")
		_ = app.Shutdown()
	}()

	log.Printf("🚀 서버 시작: http://localhost:%s", cfg.Port)
	log.Printf("📡 WebSocket: ws://localhost:%s/websocket/web", cfg.Port)
	log.Printf("🗺️  에피소드 API: POST http://localhost:%s/api/episodes", cfg.Port)
	log.Printf("💾 로그 API: GET http://localhost:%s/api/logs/*", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ 서버 오류: %v", err)
	}
}
