package services

import (
	"errors"
	"fmt"
	"siege-planner/algorithms"
	"siege-planner/models"
)

// ErrInvalidStep - 다음 칸이 8방향 인접 칸이 아님
var ErrInvalidStep = errors.New("next step is not adjacent")

// DirectionFor - 좌표 차이를 8방향으로 변환 (y 는 아래로 증가)
func DirectionFor(dx, dy int) (models.Direction, error) {
	switch {
	case dx == 1 && dy == 1:
		return models.SouthEast, nil
	case dx == 1 && dy == 0:
		return models.East, nil
	case dx == 1 && dy == -1:
		return models.NorthEast, nil
	case dx == 0 && dy == 1:
		return models.South, nil
	case dx == 0 && dy == -1:
		return models.North, nil
	case dx == -1 && dy == 1:
		return models.SouthWest, nil
	case dx == -1 && dy == 0:
		return models.West, nil
	case dx == -1 && dy == -1:
		return models.NorthWest, nil
	}
	return "", fmt.Errorf("delta (%d,%d): %w", dx, dy, ErrInvalidStep)
}

// DirectionBetween - from 에서 to 로 가는 방향
func DirectionBetween(from, to algorithms.Position) (models.Direction, error) {
	return DirectionFor(to.X-from.X, to.Y-from.Y)
}

// Step - 방향으로 한 칸 이동한 좌표
func Step(from algorithms.Position, dir models.Direction) algorithms.Position {
	switch dir {
	case models.North:
		return algorithms.Position{X: from.X, Y: from.Y - 1}
	case models.NorthEast:
		return algorithms.Position{X: from.X + 1, Y: from.Y - 1}
	case models.East:
		return algorithms.Position{X: from.X + 1, Y: from.Y}
	case models.SouthEast:
		return algorithms.Position{X: from.X + 1, Y: from.Y + 1}
	case models.South:
		return algorithms.Position{X: from.X, Y: from.Y + 1}
	case models.SouthWest:
		return algorithms.Position{X: from.X - 1, Y: from.Y + 1}
	case models.West:
		return algorithms.Position{X: from.X - 1, Y: from.Y}
	case models.NorthWest:
		return algorithms.Position{X: from.X - 1, Y: from.Y - 1}
	}
	return from
}
