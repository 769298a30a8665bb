package models

import (
	"encoding/json"
	"siege-planner/algorithms"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnemyAdvanceCyclesPatrol(t *testing.T) {
	patrol := []algorithms.Position{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	e := NewEnemy("enemy-1", "footman", patrol[0], patrol)
	assert.True(t, e.IsActive)

	var seen []algorithms.Position
	for i := 0; i < 4; i++ {
		seen = append(seen, e.Advance())
	}
	assert.Equal(t, []algorithms.Position{patrol[0], patrol[1], patrol[2], patrol[0]}, seen)
	assert.Equal(t, patrol[0], e.Position)
}

func TestEnemyWithoutPatrolStays(t *testing.T) {
	e := NewEnemy("enemy-1", "footman", algorithms.Position{X: 3, Y: 3}, nil)
	assert.Equal(t, algorithms.Position{X: 3, Y: 3}, e.Advance())
}

func TestMapGridSnapshot(t *testing.T) {
	m := &MapGrid{
		ID:        "map-1",
		Width:     4,
		Height:    4,
		Obstacles: []algorithms.Position{{X: 1, Y: 1}},
		Goal:      algorithms.Position{X: 3, Y: 3},
		StartPos:  algorithms.Position{X: 0, Y: 0},
	}

	snap := m.Snapshot()
	assert.Equal(t, "map-1", snap.MapID)
	assert.Nil(t, snap.Enemy)

	m.Enemy = NewEnemy("enemy-1", "footman", algorithms.Position{X: 2, Y: 0}, nil)
	snap = m.Snapshot()
	require.NotNil(t, snap.Enemy)

	// the snapshot holds a copy, not the live enemy position
	m.Enemy.Position = algorithms.Position{X: 0, Y: 3}
	assert.Equal(t, algorithms.Position{X: 2, Y: 0}, *snap.Enemy)
}

func TestTickDecisionJSON(t *testing.T) {
	d := TickDecision{Tick: 1, Action: ActionAttack}
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "attack", out["action"])
	assert.NotContains(t, out, "direction")
	assert.NotContains(t, out, "target")
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(MessageTypeDecision, "ep", TickDecision{Tick: 2})
	assert.Equal(t, MessageTypeDecision, msg.Type)
	assert.Equal(t, "ep", msg.EpisodeID)
	assert.Positive(t, msg.Timestamp)
}
