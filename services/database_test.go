package services

import (
	"path/filepath"
	"siege-planner/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useSQLite points the package DB at a fresh file for one test.
func useSQLite(t *testing.T) {
	t.Helper()
	prev := db
	t.Cleanup(func() {
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		db = prev
	})

	require.NoError(t, InitDatabase(&Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "plans.db"),
	}))
	require.NotNil(t, GetDB())
}

func TestInitDatabaseDisabled(t *testing.T) {
	prev := db
	db = nil
	t.Cleanup(func() { db = prev })

	require.NoError(t, InitDatabase(&Config{}))
	assert.Nil(t, GetDB())
}

func TestInitDatabaseRejectsConfig(t *testing.T) {
	assert.Error(t, InitDatabase(&Config{DBDriver: "mysql"}))
	assert.Error(t, InitDatabase(&Config{DBDriver: "postgres"}))
}

func TestPlanLogsRoundTripSQLite(t *testing.T) {
	useSQLite(t)

	now := time.Now()
	logs := []models.PlanLog{
		{CreatedAt: now.Add(-3 * time.Second), EpisodeID: "a", EventType: "plan", RouteLength: 4},
		{CreatedAt: now.Add(-2 * time.Second), EpisodeID: "a", EventType: "move", Action: "move"},
		{CreatedAt: now.Add(-1 * time.Second), EpisodeID: "a", EventType: "replan", RouteLength: 5},
		{CreatedAt: now, EpisodeID: "b", EventType: "plan", RouteLength: 2},
	}
	require.NoError(t, dbSink(logs))

	recent, err := GetRecentLogs("a", 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "replan", recent[0].EventType)

	all, err := GetRecentLogs("", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	plans, err := GetLogsByEventType("", "plan", 10)
	require.NoError(t, err)
	assert.Len(t, plans, 2)

	ranged, err := GetLogsByTimeRange("a", now.Add(-2500*time.Millisecond), now, 10)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	stats, err := GetLogStats("a", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalLogs)
	assert.Equal(t, int64(1), stats.EventCounts["replan"])
	assert.Equal(t, "Last 1 hours", stats.TimeRange)
}

func TestLogBufferWritesToSQLite(t *testing.T) {
	useSQLite(t)

	lb := NewLogBuffer(10, time.Hour, dbSink)
	lb.Add(newPlanLog("ep", "plan", 0, pos(0, 0), nil))
	lb.Add(newPlanLog("ep", "move", 1, pos(1, 0), nil))
	lb.Stop()

	logs, err := GetRecentLogs("ep", 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}
