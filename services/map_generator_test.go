package services

import (
	"siege-planner/algorithms"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMapLayout(t *testing.T) {
	mg := NewSeededMapGenerator(7)

	for i := 0; i < 50; i++ {
		m, err := mg.GenerateMap(10, 9, 20)
		require.NoError(t, err)

		patrolRow := m.Height / 2
		assert.GreaterOrEqual(t, m.Goal.X, 1)
		assert.Greater(t, m.Goal.Y, patrolRow)
		assert.Less(t, m.StartPos.Y, patrolRow)
		assert.Len(t, m.Obstacles, 20)

		seen := make(map[algorithms.Position]bool)
		approach := []algorithms.Position{
			{X: m.Goal.X - 1, Y: m.Goal.Y},
			{X: m.Goal.X - 1, Y: m.Goal.Y - 1},
		}
		for _, ob := range m.Obstacles {
			assert.False(t, seen[ob], "duplicate obstacle %v", ob)
			seen[ob] = true
			assert.NotEqual(t, patrolRow, ob.Y)
			assert.NotEqual(t, m.Goal, ob)
			assert.NotEqual(t, m.StartPos, ob)
			assert.NotContains(t, approach, ob)
		}

		require.NotNil(t, m.Enemy)
		for _, p := range m.Enemy.Patrol {
			assert.Equal(t, patrolRow, p.Y)
		}
	}
}

func TestGenerateMapSeeded(t *testing.T) {
	a, err := NewSeededMapGenerator(42).GenerateMap(12, 12, 15)
	require.NoError(t, err)
	b, err := NewSeededMapGenerator(42).GenerateMap(12, 12, 15)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Obstacles, b.Obstacles)
	assert.Equal(t, a.Goal, b.Goal)
	assert.Equal(t, a.StartPos, b.StartPos)
}

func TestGenerateMapCapsObstacles(t *testing.T) {
	m, err := NewSeededMapGenerator(1).GenerateMap(3, 3, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(m.Obstacles), 3*2)
}

func TestGenerateMapTooSmall(t *testing.T) {
	_, err := NewMapGenerator().GenerateMap(1, 5, 0)
	assert.ErrorIs(t, err, algorithms.ErrOutOfBounds)
	_, err = NewMapGenerator().GenerateMap(5, 2, 0)
	assert.ErrorIs(t, err, algorithms.ErrOutOfBounds)
}

func TestActiveMap(t *testing.T) {
	mg := NewSeededMapGenerator(3)
	assert.Nil(t, mg.GetActiveMap())
	assert.False(t, mg.IsPositionValid(algorithms.Position{}))

	m, err := mg.GenerateMap(8, 8, 5)
	require.NoError(t, err)
	assert.Same(t, m, mg.GetActiveMap())

	assert.True(t, mg.IsPositionValid(m.StartPos))
	assert.False(t, mg.IsPositionValid(m.Goal))
	assert.False(t, mg.IsPositionValid(m.Obstacles[0]))
	assert.False(t, mg.IsPositionValid(algorithms.Position{X: 8, Y: 0}))

	mg.ClearMap()
	assert.Nil(t, mg.GetActiveMap())
}

func TestSnapshotFromGeneratedMap(t *testing.T) {
	m, err := NewSeededMapGenerator(5).GenerateMap(10, 10, 10)
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, m.ID, snap.MapID)
	require.NotNil(t, snap.Enemy)
	assert.Equal(t, m.Enemy.Position, *snap.Enemy)

	_, err = NewEpisode("gen", snap, defaultPlanner, EpisodeHooks{})
	require.NoError(t, err)
}
