package services

import (
	"errors"
	"fmt"
	"log"
	"siege-planner/algorithms"
	"siege-planner/models"
	"time"
)

// EpisodeHooks - 에피소드 이벤트 전달 (nil 이면 무시)
type EpisodeHooks struct {
	Broadcast func(models.WebSocketMessage)
	Record    func(models.PlanLog)
}

// Episode drives one footman toward the town hall. It owns the grid, the
// planner and its node cache, and is not safe for concurrent use.
type Episode struct {
	ID    string
	MapID string

	grid    *algorithms.Grid
	planner *algorithms.PathPlanner
	goal    algorithms.Position
	hooks   EpisodeHooks

	route  algorithms.Route     // 아직 꺼내지 않은 경로
	next   *algorithms.Position // 현재 이동 중인 칸
	noPath bool

	tick          int
	plans         int
	replans       int
	planningTime  time.Duration
	executionTime time.Duration
	createdAt     time.Time
	lastTick      time.Time
	finished      bool
}

// NewEpisode - 스냅샷으로 그리드를 만들고 최초 경로 계획
func NewEpisode(id string, snap models.EpisodeSnapshot, cfg PlannerConfig, hooks EpisodeHooks) (*Episode, error) {
	grid, err := algorithms.NewGrid(snap.Width, snap.Height, snap.Goal, snap.Obstacles, snap.Enemy)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	if !grid.InBounds(snap.Start) {
		return nil, fmt.Errorf("start %v: %w", snap.Start, algorithms.ErrOutOfBounds)
	}

	now := time.Now()
	e := &Episode{
		ID:        id,
		MapID:     snap.MapID,
		grid:      grid,
		planner:   algorithms.NewPathPlanner(cfg.Options()...),
		goal:      snap.Goal,
		hooks:     hooks,
		createdAt: now,
		lastTick:  now,
	}

	log.Printf("🗺️  [%s] 에피소드 생성 %dx%d, 장애물 %d개\n%s", id, snap.Width, snap.Height, len(snap.Obstacles), grid)

	if err := e.plan(snap.Start, snap.Enemy, false); err != nil {
		return nil, err
	}
	return e, nil
}

// plan runs the planner from start; ErrNoPath leaves an empty route.
func (e *Episode) plan(start algorithms.Position, enemy *algorithms.Position, replan bool) error {
	began := time.Now()
	route, err := e.planner.FindPath(e.grid, start, e.goal)
	took := time.Since(began)

	e.planningTime += took
	e.plans++
	if replan {
		e.replans++
	}
	stats := e.planner.LastStats()

	eventType := "plan"
	if replan {
		eventType = "replan"
	}

	switch {
	case errors.Is(err, algorithms.ErrNoPath):
		e.route = nil
		e.next = nil
		e.noPath = true
		log.Printf("❌ [%s] 경로를 찾을 수 없습니다 (start=%v, expanded=%d)", e.ID, start, stats.Expanded)
		e.record(PlanEventLog(e.ID, "no_path", e.tick, start, enemy, nil, stats, took))
		e.broadcast(models.MessageTypeNoPath, models.RouteData{
			Start: start, Goal: e.goal, Replan: replan, Stats: stats,
			Algorithm: "a_star", CreatedAt: time.Now(),
		})
		return nil
	case err != nil:
		return err
	}

	e.route = route
	e.next = nil
	e.noPath = false

	log.Printf("✅ [%s] %s #%d: %d steps (expanded=%d, pruned=%d, escape=%v) in %v",
		e.ID, eventType, e.plans, len(route), stats.Expanded, stats.Pruned, stats.EscapeTriggered, took)
	e.record(PlanEventLog(e.ID, eventType, e.tick, start, enemy, route, stats, took))
	e.broadcast(models.MessageTypeRouteUpdate, models.RouteData{
		Start: start, Goal: e.goal, Points: e.Route(), Length: len(route), Replan: replan,
		Stats: stats, Algorithm: "a_star", CreatedAt: time.Now(),
	})
	return nil
}

// pending - 현재 목표 칸 + 남은 경로
func (e *Episode) pending() algorithms.Route {
	if e.next == nil {
		return e.route
	}
	out := make(algorithms.Route, 0, len(e.route)+1)
	out = append(out, *e.next)
	return append(out, e.route...)
}

// Tick - 한 턴의 행동 결정
//
// The enemy position is only written into the grid when it lands on the
// pending route; the footman then replans from its current cell.
func (e *Episode) Tick(agent algorithms.Position, enemy *algorithms.Position) (models.TickDecision, error) {
	began := time.Now()
	planBefore := e.planningTime

	e.tick++
	e.lastTick = began
	decision := models.TickDecision{Tick: e.tick}

	if e.finished {
		decision.Action = models.ActionFinished
		return decision, nil
	}
	if !e.grid.InBounds(agent) {
		return decision, fmt.Errorf("agent %v: %w", agent, algorithms.ErrOutOfBounds)
	}

	enemyPos, present := algorithms.NoPosition, false
	if enemy != nil {
		enemyPos, present = *enemy, true
	}

	if algorithms.ShouldReplan(e.pending(), enemyPos, present) {
		log.Printf("🔄 [%s] 적이 경로 위 %v 에 있음 → 재계획", e.ID, enemyPos)
		if err := e.grid.RelocateObstacle(enemyPos); err != nil {
			return decision, err
		}
		if err := e.plan(agent, enemy, true); err != nil {
			return decision, err
		}
		decision.Replanned = true
	}

	// 다음 칸 꺼내기
	if len(e.route) > 0 && (e.next == nil || *e.next == agent) {
		step := e.route[0]
		e.route = e.route[1:]
		e.next = &step
	}

	switch {
	case e.next != nil && *e.next != agent:
		dir, err := DirectionBetween(agent, *e.next)
		if err != nil {
			decision.Action = models.ActionInvalidPlan
			decision.Reason = err.Error()
			log.Printf("⚠️ [%s] Invalid path. Could not determine direction: %v", e.ID, err)
			break
		}
		target := *e.next
		decision.Action = models.ActionMove
		decision.Direction = dir
		decision.Target = &target
	case algorithms.Chebyshev(agent, e.goal) <= 1:
		decision.Action = models.ActionAttack
	case e.noPath:
		decision.Action = models.ActionIdle
		decision.Reason = algorithms.ErrNoPath.Error()
	default:
		decision.Action = models.ActionInvalidPlan
		decision.Reason = "route exhausted away from the goal"
		log.Printf("⚠️ [%s] Invalid plan. Cannot attack town hall from %v", e.ID, agent)
	}

	decision.NoPath = e.noPath
	decision.Remaining = len(e.route)

	e.executionTime += time.Since(began) - (e.planningTime - planBefore)
	e.record(DecisionLog(e.ID, agent, enemy, decision))
	e.broadcast(models.MessageTypeDecision, decision)
	return decision, nil
}

// Finish ends the episode and emits its summary; later ticks report
// ActionFinished.
func (e *Episode) Finish() models.EpisodeSummary {
	e.finished = true
	summary := e.Summary()
	log.Printf("🏁 [%s] Total turns: %d, planning: %v, execution: %v, total: %v",
		e.ID, e.tick, e.planningTime, e.executionTime, e.planningTime+e.executionTime)
	e.broadcast(models.MessageTypeEpisodeEnd, summary)
	return summary
}

// Route returns a copy of the steps not yet taken, excluding the current one.
func (e *Episode) Route() algorithms.Route {
	out := make(algorithms.Route, len(e.route))
	copy(out, e.route)
	return out
}

// Grid exposes the episode grid for read-only inspection.
func (e *Episode) Grid() *algorithms.Grid { return e.grid }

// NoPath reports whether the last plan found nothing.
func (e *Episode) NoPath() bool { return e.noPath }

// LastTick - 마지막 tick 시각
func (e *Episode) LastTick() time.Time { return e.lastTick }

// Summary - 에피소드 통계
func (e *Episode) Summary() models.EpisodeSummary {
	return models.EpisodeSummary{
		ID:            e.ID,
		MapID:         e.MapID,
		CreatedAt:     e.createdAt,
		LastTick:      e.lastTick,
		Ticks:         e.tick,
		Plans:         e.plans,
		Replans:       e.replans,
		PlanningTime:  e.planningTime,
		ExecutionTime: e.executionTime,
		Route:         e.pending(),
		Goal:          e.goal,
		NoPath:        e.noPath,
		Finished:      e.finished,
	}
}

func (e *Episode) record(entry models.PlanLog) {
	if e.hooks.Record != nil {
		e.hooks.Record(entry)
	}
}

func (e *Episode) broadcast(msgType string, data interface{}) {
	if e.hooks.Broadcast != nil {
		e.hooks.Broadcast(models.NewMessage(msgType, e.ID, data))
	}
}
