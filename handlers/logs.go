package handlers

import (
	"siege-planner/services"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}

// HandleGetRecentLogs - 최근 로그 조회
func HandleGetRecentLogs(c *fiber.Ctx) error {
	episodeID := c.Query("episode_id") // 비어 있으면 전체

	logs, err := services.GetRecentLogs(episodeID, queryLimit(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// HandleGetLogsByTimeRange - 시간 범위로 로그 조회
func HandleGetLogsByTimeRange(c *fiber.Ctx) error {
	episodeID := c.Query("episode_id")

	// 기본: 24시간 전 ~ 현재
	start := time.Now().Add(-24 * time.Hour)
	end := time.Now()

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid start time format (use RFC3339)",
			})
		}
		start = parsed
	}
	if s := c.Query("end"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end time format (use RFC3339)",
			})
		}
		end = parsed
	}

	logs, err := services.GetLogsByTimeRange(episodeID, start, end, queryLimit(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"time_range": fiber.Map{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
		"logs": logs,
	})
}

// HandleGetLogsByEventType - 이벤트 타입별 로그 조회 (plan, replan, no_path, move, attack ...)
func HandleGetLogsByEventType(c *fiber.Ctx) error {
	episodeID := c.Query("episode_id")
	eventType := c.Query("event_type")

	if eventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "event_type parameter is required",
		})
	}

	logs, err := services.GetLogsByEventType(episodeID, eventType, queryLimit(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"event_type": eventType,
		"logs":       logs,
	})
}

// HandleGetLogStats - 로그 통계 조회
func HandleGetLogStats(c *fiber.Ctx) error {
	episodeID := c.Query("episode_id")

	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := services.GetLogStats(episodeID, hours)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
