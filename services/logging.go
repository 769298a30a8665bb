package services

import (
	"encoding/json"
	"fmt"
	"log"
	"siege-planner/algorithms"
	"siege-planner/models"
	"sync"
	"time"

	"gorm.io/gorm"
)

// LogSink - 버퍼가 비워질 때 로그를 저장하는 함수
type LogSink func(logs []models.PlanLog) error

// LogBuffer - 로깅 버퍼 (비동기 일괄 처리)
type LogBuffer struct {
	logs      []models.PlanLog
	mu        sync.Mutex
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	sink      LogSink
	stopChan  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

var logBuffer *LogBuffer

// dbSink - GORM 일괄 저장
func dbSink(logs []models.PlanLog) error {
	if db == nil {
		return nil
	}
	return db.CreateInBatches(logs, 100).Error
}

// NewLogBuffer - 버퍼 생성 및 자동 플러시 고루틴 시작
func NewLogBuffer(flushSize int, flushInterval time.Duration, sink LogSink) *LogBuffer {
	if flushSize <= 0 {
		flushSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Second
	}
	lb := &LogBuffer{
		logs:      make([]models.PlanLog, 0, flushSize*2),
		flushSize: flushSize,
		flushTime: flushInterval,
		sink:      sink,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	go lb.autoFlush()
	return lb
}

// InitLogging - 전역 로깅 시스템 초기화
func InitLogging(flushSize int, flushInterval time.Duration) {
	logBuffer = NewLogBuffer(flushSize, flushInterval, dbSink)
	log.Printf("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", flushSize, flushInterval)
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	defer close(lb.done)

	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// Add - 버퍼에 추가, 가득 차면 비동기 플러시
func (lb *LogBuffer) Add(entry models.PlanLog) {
	lb.mu.Lock()
	lb.logs = append(lb.logs, entry)
	size := len(lb.logs)
	lb.mu.Unlock()

	if size >= lb.flushSize {
		go lb.Flush()
	}
}

// Len - 저장 대기 중인 로그 수
func (lb *LogBuffer) Len() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.logs)
}

// Flush - 버퍼의 모든 로그를 저장
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.PlanLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]
	lb.mu.Unlock()

	if lb.sink == nil {
		return
	}
	if err := lb.sink(logsToSave); err != nil {
		log.Printf("❌ 로그 저장 실패: %v", err)
		return
	}
	log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
}

// Stop flushes what is left and waits for the flush goroutine to exit.
func (lb *LogBuffer) Stop() {
	lb.stopOnce.Do(func() {
		close(lb.stopChan)
	})
	<-lb.done
}

// AddLog - 전역 버퍼에 추가
func AddLog(entry models.PlanLog) {
	if logBuffer == nil {
		return
	}
	logBuffer.Add(entry)
}

// StopLogging - 로깅 시스템 종료
func StopLogging() {
	if logBuffer != nil {
		logBuffer.Stop()
		log.Println("🛑 로깅 시스템 종료")
	}
}

// newPlanLog - 공통 필드 채우기
func newPlanLog(episodeID, eventType string, tick int, agent algorithms.Position, enemy *algorithms.Position) models.PlanLog {
	entry := models.PlanLog{
		CreatedAt: time.Now(),
		EpisodeID: episodeID,
		EventType: eventType,
		Tick:      tick,
		AgentX:    agent.X,
		AgentY:    agent.Y,
		EnemyX:    algorithms.NoPosition.X,
		EnemyY:    algorithms.NoPosition.Y,
	}
	if enemy != nil {
		entry.EnemyX = enemy.X
		entry.EnemyY = enemy.Y
	}
	return entry
}

// PlanEventLog - 계획/재계획/경로없음 로그
func PlanEventLog(episodeID, eventType string, tick int, start algorithms.Position, enemy *algorithms.Position,
	route algorithms.Route, stats algorithms.SearchStats, took time.Duration) models.PlanLog {
	entry := newPlanLog(episodeID, eventType, tick, start, enemy)
	entry.RouteLength = len(route)
	entry.Expanded = stats.Expanded
	entry.Pruned = stats.Pruned
	entry.EscapeTriggered = stats.EscapeTriggered
	entry.PlanMicros = took.Microseconds()

	routeJSON, _ := json.Marshal(route)
	entry.DataJSON = string(routeJSON)
	return entry
}

// DecisionLog - tick 결정 로그
func DecisionLog(episodeID string, agent algorithms.Position, enemy *algorithms.Position, decision models.TickDecision) models.PlanLog {
	entry := newPlanLog(episodeID, string(decision.Action), decision.Tick, agent, enemy)
	entry.Action = string(decision.Action)
	entry.Direction = string(decision.Direction)
	entry.RouteLength = decision.Remaining
	return entry
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(episodeID string, eventType string, limit int) ([]models.PlanLog, error) {
	if db == nil {
		return nil, ErrDatabaseUnavailable
	}
	var logs []models.PlanLog
	query := db.Where("event_type = ?", eventType)
	if episodeID != "" {
		query = query.Where("episode_id = ?", episodeID)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// GetLogStats - 로그 통계
func GetLogStats(episodeID string, hours int) (*models.LogStats, error) {
	if db == nil {
		return nil, ErrDatabaseUnavailable
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	base := db.Model(&models.PlanLog{}).Where("created_at >= ?", since)
	if episodeID != "" {
		base = base.Where("episode_id = ?", episodeID)
	}

	var totalLogs int64
	if err := base.Session(&gorm.Session{}).Count(&totalLogs).Error; err != nil {
		return nil, err
	}

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	err := base.Session(&gorm.Session{}).
		Select("event_type, COUNT(*) as count").
		Group("event_type").
		Scan(&eventCounts).Error
	if err != nil {
		return nil, err
	}

	eventMap := make(map[string]int64, len(eventCounts))
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	return &models.LogStats{
		TotalLogs:   totalLogs,
		EventCounts: eventMap,
		TimeRange:   fmt.Sprintf("Last %d hours", hours),
	}, nil
}
