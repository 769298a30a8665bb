package handlers

import (
	"log"
	"siege-planner/services"

	"github.com/gofiber/fiber/v2"
)

type PathfindingResponse struct {
	Success bool                 `json:"success"`
	Result  *services.PlanResult `json:"result,omitempty"`
	Message string               `json:"message,omitempty"`
}

func HandlePathfinding(c *fiber.Ctx) error {
	var req services.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: "잘못된 요청 형식입니다",
		})
	}

	log.Printf("📍 경로 탐색 요청: %v → %v, 맵 %dx%d, 장애물 %d개",
		req.Start, req.Goal, req.Width, req.Height, len(req.Obstacles))

	result, err := services.PlanOnce(req, plannerConfig)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(PathfindingResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	if result.NoPath {
		return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
			Success: false,
			Result:  result,
			Message: "경로를 찾을 수 없습니다",
		})
	}

	return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
		Success: true,
		Result:  result,
		Message: "경로 탐색 성공",
	})
}
