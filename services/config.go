package services

import (
	"log"
	"os"
	"siege-planner/algorithms"
	"siege-planner/models"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - 환경 변수 기반 서버 설정
type Config struct {
	Port        string
	CORSOrigins string

	// DB
	DBDriver      string // "mysql" | "sqlite" | "" (로그 저장 안 함)
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string
	SQLitePath    string

	// 로깅 버퍼
	LogFlushSize     int
	LogFlushInterval time.Duration

	// 플래너
	Planner PlannerConfig

	// 에피소드 정리
	EpisodeIdleTimeout time.Duration
}

// PlannerConfig - 플래너 기본 동작
type PlannerConfig struct {
	// QuadrantPruning (PLANNER_QUADRANT_PRUNING, default true) restricts the
	// first plan to cells on the goal's side of the start until the closed
	// set covers the start-goal bounding box. A start whose only exits lead
	// away from the goal can therefore get NoPath on a solvable map, and the
	// episode then idles. Set false for unrestricted A*.
	QuadrantPruning bool
	// FullAdjacency (PLANNER_FULL_ADJACENCY) accepts all 8 neighbours of the
	// town hall instead of only its left and upper-left cells.
	FullAdjacency bool
}

// Options converts the config into planner options.
func (c PlannerConfig) Options() []algorithms.Option {
	goalTest := algorithms.UpperLeftAdjacency
	if c.FullAdjacency {
		goalTest = algorithms.FullAdjacency
	}
	return []algorithms.Option{
		algorithms.WithQuadrantPruning(c.QuadrantPruning),
		algorithms.WithGoalTest(goalTest),
	}
}

// With overlays per-request options on top of the server defaults.
func (c PlannerConfig) With(opts *models.PlannerOptions) PlannerConfig {
	if opts == nil {
		return c
	}
	if opts.QuadrantPruning != nil {
		c.QuadrantPruning = *opts.QuadrantPruning
	}
	if opts.FullAdjacency != nil {
		c.FullAdjacency = *opts.FullAdjacency
	}
	return c
}

// LoadConfig - .env 파일과 환경 변수에서 설정 읽기
//
// Missing .env files are not an error; variables already present in the
// process environment take precedence over the file.
func LoadConfig(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Println("⚠️  .env 파일을 찾을 수 없습니다. 환경 변수만 사용합니다.")
	}

	return &Config{
		Port:        envString("PORT", "3000"),
		CORSOrigins: envString("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000"),

		DBDriver:      strings.ToLower(envString("DB_DRIVER", "")),
		MySQLHost:     envString("MYSQL_HOST", ""),
		MySQLPort:     envInt("MYSQL_PORT", 3306),
		MySQLUser:     envString("MYSQL_USER", ""),
		MySQLPassword: envString("MYSQL_PASSWORD", ""),
		MySQLDatabase: envString("MYSQL_DATABASE", ""),
		SQLitePath:    envString("SQLITE_PATH", "siege.db"),

		LogFlushSize:     envInt("LOG_FLUSH_SIZE", 50),
		LogFlushInterval: envDuration("LOG_FLUSH_INTERVAL", 10*time.Second),

		Planner: PlannerConfig{
			QuadrantPruning: envBool("PLANNER_QUADRANT_PRUNING", true),
			FullAdjacency:   envBool("PLANNER_FULL_ADJACENCY", false),
		},

		EpisodeIdleTimeout: envDuration("EPISODE_IDLE_TIMEOUT", 30*time.Minute),
	}
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
