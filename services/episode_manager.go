package services

import (
	"errors"
	"fmt"
	"log"
	"siege-planner/algorithms"
	"siege-planner/models"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEpisodeNotFound - 등록되지 않은 에피소드
var ErrEpisodeNotFound = errors.New("episode not found")

// EpisodeManager - 진행 중인 에피소드 관리
type EpisodeManager struct {
	mu       sync.RWMutex
	episodes map[string]*episodeEntry // episode_id -> entry
	cfg      PlannerConfig
	hooks    EpisodeHooks
}

// episodeEntry serializes every call into a single episode.
type episodeEntry struct {
	mu       sync.Mutex
	episode  *Episode
	lastPing time.Time
}

// NewEpisodeManager - Manager 생성
func NewEpisodeManager(cfg PlannerConfig, hooks EpisodeHooks) *EpisodeManager {
	return &EpisodeManager{
		episodes: make(map[string]*episodeEntry),
		cfg:      cfg,
		hooks:    hooks,
	}
}

// Create - 에피소드 등록 및 최초 경로 계획
func (m *EpisodeManager) Create(snap models.EpisodeSnapshot, opts *models.PlannerOptions) (models.EpisodeSummary, error) {
	id := uuid.New().String()

	episode, err := NewEpisode(id, snap, m.cfg.With(opts), m.hooks)
	if err != nil {
		return models.EpisodeSummary{}, err
	}

	m.mu.Lock()
	m.episodes[id] = &episodeEntry{episode: episode, lastPing: time.Now()}
	m.mu.Unlock()

	log.Printf("[Manager] Episode registered: %s\n", id)
	return episode.Summary(), nil
}

func (m *EpisodeManager) entry(id string) (*episodeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.episodes[id]
	if !exists {
		return nil, fmt.Errorf("%s: %w", id, ErrEpisodeNotFound)
	}
	return e, nil
}

// Tick - 에피소드 한 턴 진행
func (m *EpisodeManager) Tick(id string, agent algorithms.Position, enemy *algorithms.Position) (models.TickDecision, error) {
	e, err := m.entry(id)
	if err != nil {
		return models.TickDecision{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastPing = time.Now()
	return e.episode.Tick(agent, enemy)
}

// Summary - 에피소드 통계 조회
func (m *EpisodeManager) Summary(id string) (models.EpisodeSummary, error) {
	e, err := m.entry(id)
	if err != nil {
		return models.EpisodeSummary{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.episode.Summary(), nil
}

// Remove - 에피소드 종료 및 등록 해제
func (m *EpisodeManager) Remove(id string) (models.EpisodeSummary, error) {
	m.mu.Lock()
	e, exists := m.episodes[id]
	if exists {
		delete(m.episodes, id)
	}
	m.mu.Unlock()

	if !exists {
		return models.EpisodeSummary{}, fmt.Errorf("%s: %w", id, ErrEpisodeNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	log.Printf("[Manager] Episode removed: %s\n", id)
	return e.episode.Finish(), nil
}

// Count - 현재 등록된 에피소드 수
func (m *EpisodeManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.episodes)
}

// IDs - 등록된 에피소드 ID 목록 (정렬)
func (m *EpisodeManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]string, 0, len(m.episodes))
	for id := range m.episodes {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// CleanupIdle - 오래 tick 되지 않은 에피소드 정리
//
// 주어진 타임아웃 동안 호출되지 않은 에피소드를 제거한다.
func (m *EpisodeManager) CleanupIdle(timeout time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	now := time.Now()

	for id, e := range m.episodes {
		e.mu.Lock()
		idle := now.Sub(e.lastPing) > timeout
		e.mu.Unlock()

		if idle {
			delete(m.episodes, id)
			log.Printf("[Manager] Episode cleanup: %s (idle)\n", id)
			count++
		}
	}

	return count
}

// RunCleanup - 주기적으로 CleanupIdle 실행 (stop 이 닫히면 종료)
func (m *EpisodeManager) RunCleanup(timeout time.Duration, stop <-chan struct{}) {
	interval := timeout / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanupIdle(timeout); n > 0 {
				log.Printf("🧹 유휴 에피소드 %d개 정리", n)
			}
		case <-stop:
			return
		}
	}
}
