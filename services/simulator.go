package services

import (
	"context"
	"errors"
	"log"
	"siege-planner/algorithms"
	"siege-planner/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 시뮬레이션 종료 사유
const (
	OutcomeSuccess     = "success"      // 타운홀 공격
	OutcomeNoPath      = "no_path"      // 경로 없음
	OutcomeInvalidPlan = "invalid_plan" // 경로 소진
	OutcomeTickLimit   = "tick_limit"   // 최대 tick 도달
	OutcomeCancelled   = "cancelled"    // 중지됨
)

// ErrSimulatorRunning - 이미 백그라운드 시뮬레이션 실행 중
var ErrSimulatorRunning = errors.New("simulation already running")

// SimulationOptions - 시뮬레이션 설정
type SimulationOptions struct {
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	Obstacles int                    `json:"obstacles"`
	MaxTicks  int                    `json:"max_ticks"`
	Interval  time.Duration          `json:"-"` // tick 간격 (0 이면 즉시)
	Seed      *int64                 `json:"seed,omitempty"`
	Planner   *models.PlannerOptions `json:"planner,omitempty"`
}

// SimulationResult - 시뮬레이션 결과
type SimulationResult struct {
	EpisodeID  string                `json:"episode_id"`
	Map        *models.MapGrid       `json:"map"`
	Outcome    string                `json:"outcome"`
	Trajectory algorithms.Route      `json:"trajectory"` // 풋맨이 실제로 지나간 칸
	Decisions  []models.TickDecision `json:"decisions"`
	Summary    models.EpisodeSummary `json:"summary"`
}

// Simulator - 스크립트된 적 순찰과 함께 에피소드를 tick 단위로 진행
type Simulator struct {
	cfg           PlannerConfig
	hooks         EpisodeHooks
	broadcastFunc func(models.WebSocketMessage)

	// 제어
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	last    *SimulationResult
	mu      sync.RWMutex
}

// NewSimulator - 시뮬레이터 생성
func NewSimulator(cfg PlannerConfig, hooks EpisodeHooks) *Simulator {
	return &Simulator{
		cfg:           cfg,
		hooks:         hooks,
		broadcastFunc: hooks.Broadcast,
	}
}

func (s *Simulator) defaults(opts SimulationOptions) SimulationOptions {
	if opts.Width <= 0 {
		opts.Width = 12
	}
	if opts.Height <= 0 {
		opts.Height = 12
	}
	if opts.Obstacles < 0 {
		opts.Obstacles = 0
	}
	if opts.MaxTicks <= 0 && opts.Width <= algorithms.MaxGridCells/opts.Height {
		opts.MaxTicks = 4 * opts.Width * opts.Height
	}
	return opts
}

// Simulate - 맵 생성 후 에피소드를 끝까지 진행
func (s *Simulator) Simulate(ctx context.Context, opts SimulationOptions) (*SimulationResult, error) {
	opts = s.defaults(opts)
	if err := algorithms.CheckSize(opts.Width, opts.Height); err != nil {
		return nil, err
	}

	gen := NewMapGenerator()
	if opts.Seed != nil {
		gen = NewSeededMapGenerator(*opts.Seed)
	}
	mapGrid, err := gen.GenerateMap(opts.Width, opts.Height, opts.Obstacles)
	if err != nil {
		return nil, err
	}

	s.broadcast(models.MessageTypeMapUpdate, "", mapGrid)

	episode, err := NewEpisode(uuid.New().String(), mapGrid.Snapshot(), s.cfg.With(opts.Planner), s.hooks)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, episode, mapGrid, opts.MaxTicks, opts.Interval)
}

// Run - 에피소드 메인 루프
//
// Each tick the enemy advances along its patrol first, then the footman
// asks the episode for a decision and applies it.
func (s *Simulator) Run(ctx context.Context, episode *Episode, mapGrid *models.MapGrid, maxTicks int, interval time.Duration) (*SimulationResult, error) {
	result := &SimulationResult{
		EpisodeID:  episode.ID,
		Map:        mapGrid,
		Outcome:    OutcomeTickLimit,
		Trajectory: algorithms.Route{mapGrid.StartPos},
	}
	agent := mapGrid.StartPos

	log.Printf("🚀 [%s] 시뮬레이션 시작 (start=%v, goal=%v)", episode.ID, agent, mapGrid.Goal)

	for tick := 0; tick < maxTicks; tick++ {
		select {
		case <-ctx.Done():
			result.Outcome = OutcomeCancelled
			result.Summary = episode.Summary()
			return result, ctx.Err()
		default:
		}

		var enemy *algorithms.Position
		if mapGrid.Enemy != nil && mapGrid.Enemy.IsActive {
			pos := mapGrid.Enemy.Advance()
			enemy = &pos
		}

		decision, err := episode.Tick(agent, enemy)
		if err != nil {
			result.Summary = episode.Summary()
			return result, err
		}
		result.Decisions = append(result.Decisions, decision)

		switch decision.Action {
		case models.ActionMove:
			next := Step(agent, decision.Direction)
			// 적이 막고 있으면 이번 tick 은 대기
			if enemy == nil || next != *enemy {
				agent = next
				result.Trajectory = append(result.Trajectory, agent)
			}
		case models.ActionAttack:
			result.Outcome = OutcomeSuccess
		case models.ActionIdle:
			result.Outcome = OutcomeNoPath
		case models.ActionInvalidPlan:
			result.Outcome = OutcomeInvalidPlan
		}

		s.broadcast(models.MessageTypePosition, episode.ID, models.PositionData{
			Agent: agent,
			Enemy: enemy,
			Tick:  decision.Tick,
		})

		if decision.Action != models.ActionMove {
			break
		}

		if interval > 0 {
			select {
			case <-ctx.Done():
				result.Outcome = OutcomeCancelled
				result.Summary = episode.Summary()
				return result, ctx.Err()
			case <-time.After(interval):
			}
		}
	}

	result.Summary = episode.Finish()
	log.Printf("🛑 [%s] 시뮬레이션 종료: %s (%d ticks)", episode.ID, result.Outcome, len(result.Decisions))
	return result, nil
}

// Start - 백그라운드 시뮬레이션 시작
func (s *Simulator) Start(opts SimulationOptions) error {
	d := s.defaults(opts)
	if err := algorithms.CheckSize(d.Width, d.Height); err != nil {
		return err
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSimulatorRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		result, err := s.Simulate(ctx, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("❌ 시뮬레이션 오류: %v", err)
		}

		s.mu.Lock()
		s.running = false
		s.cancel = nil
		if result != nil {
			s.last = result
		}
		s.mu.Unlock()
		cancel()
	}()
	return nil
}

// Stop - 시뮬레이션 중지 후 종료 대기
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	log.Println("🛑 시뮬레이터 중지")
}

// IsRunning - 실행 중 여부
func (s *Simulator) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// LastResult - 마지막 백그라운드 실행 결과
func (s *Simulator) LastResult() *SimulationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Simulator) broadcast(msgType, episodeID string, data interface{}) {
	if s.broadcastFunc == nil {
		return
	}
	s.broadcastFunc(models.NewMessage(msgType, episodeID, data))
}
