package services

import (
	"encoding/json"
	"errors"
	"siege-planner/algorithms"
	"siege-planner/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink collects flushed batches.
type captureSink struct {
	mu      sync.Mutex
	batches [][]models.PlanLog
	err     error
}

func (c *captureSink) save(logs []models.PlanLog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, logs)
	return c.err
}

func (c *captureSink) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

func TestLogBufferFlushOnSize(t *testing.T) {
	sink := &captureSink{}
	lb := NewLogBuffer(3, time.Hour, sink.save)
	defer lb.Stop()

	lb.Add(models.PlanLog{EventType: "plan"})
	lb.Add(models.PlanLog{EventType: "move"})
	assert.Equal(t, 2, lb.Len())
	assert.Equal(t, 0, sink.total())

	lb.Add(models.PlanLog{EventType: "attack"})
	assert.Eventually(t, func() bool { return sink.total() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, lb.Len())
}

func TestLogBufferFlushOnInterval(t *testing.T) {
	sink := &captureSink{}
	lb := NewLogBuffer(100, 10*time.Millisecond, sink.save)
	defer lb.Stop()

	lb.Add(models.PlanLog{EventType: "plan"})
	assert.Eventually(t, func() bool { return sink.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestLogBufferStopFlushesRemaining(t *testing.T) {
	sink := &captureSink{}
	lb := NewLogBuffer(100, time.Hour, sink.save)

	lb.Add(models.PlanLog{EventType: "plan"})
	lb.Add(models.PlanLog{EventType: "replan"})
	lb.Stop()
	lb.Stop()

	assert.Equal(t, 2, sink.total())
}

func TestLogBufferSinkErrorDropsBatch(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	lb := NewLogBuffer(100, time.Hour, sink.save)
	defer lb.Stop()

	lb.Add(models.PlanLog{EventType: "plan"})
	lb.Flush()
	assert.Equal(t, 0, lb.Len())
	assert.Equal(t, 1, sink.total())
}

func TestAddLogWithoutBuffer(t *testing.T) {
	// no InitLogging in tests: must not panic
	AddLog(models.PlanLog{EventType: "plan"})
}

func TestPlanEventLog(t *testing.T) {
	enemy := algorithms.Position{X: 2, Y: 2}
	route := algorithms.Route{{X: 1, Y: 1}, {X: 2, Y: 1}}
	stats := algorithms.SearchStats{Expanded: 7, Pruned: 2, EscapeTriggered: true}

	entry := PlanEventLog("ep", "replan", 3, algorithms.Position{X: 0, Y: 0}, &enemy, route, stats, 1500*time.Microsecond)

	assert.Equal(t, "ep", entry.EpisodeID)
	assert.Equal(t, "replan", entry.EventType)
	assert.Equal(t, 3, entry.Tick)
	assert.Equal(t, 2, entry.EnemyX)
	assert.Equal(t, 2, entry.RouteLength)
	assert.Equal(t, 7, entry.Expanded)
	assert.True(t, entry.EscapeTriggered)
	assert.Equal(t, int64(1500), entry.PlanMicros)

	var decoded algorithms.Route
	require.NoError(t, json.Unmarshal([]byte(entry.DataJSON), &decoded))
	assert.Equal(t, route, decoded)
}

func TestDecisionLogWithoutEnemy(t *testing.T) {
	entry := DecisionLog("ep", algorithms.Position{X: 1, Y: 0}, nil, models.TickDecision{
		Tick:      2,
		Action:    models.ActionMove,
		Direction: models.East,
		Remaining: 4,
	})

	assert.Equal(t, "move", entry.EventType)
	assert.Equal(t, "east", entry.Direction)
	assert.Equal(t, algorithms.NoPosition.X, entry.EnemyX)
	assert.Equal(t, algorithms.NoPosition.Y, entry.EnemyY)
	assert.Equal(t, 4, entry.RouteLength)
}

func TestQueriesWithoutDatabase(t *testing.T) {
	_, err := GetRecentLogs("", 10)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
	_, err = GetLogsByEventType("", "plan", 10)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
	_, err = GetLogsByTimeRange("", time.Now().Add(-time.Hour), time.Now(), 10)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
	_, err = GetLogStats("", 24)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}
