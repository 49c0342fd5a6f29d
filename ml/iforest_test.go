package ml

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainTestForest(t *testing.T) (*Forest, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "isolation_forest.json")
	forest, summary, err := TrainSynthetic(path, 42)
	require.NoError(t, err)
	require.Equal(t, 1000, summary.Samples)
	require.Equal(t, 100, summary.Trees)
	return forest, path
}

// A healthy reading scores strictly above an obviously broken one, and
// the forest separates them across the decision boundary.
func TestForestSeparatesNormalFromExtreme(t *testing.T) {
	forest, _ := trainTestForest(t)

	normal := []float64{65, 24, 70}
	extreme := []float64{25, 36, 25} // low moisture, high temp, dry air

	normalOutlier, normalScore := forest.Predict(normal)
	extremeOutlier, extremeScore := forest.Predict(extreme)

	assert.False(t, normalOutlier, "healthy reading flagged as outlier (score %v)", normalScore)
	assert.True(t, extremeOutlier, "broken reading not flagged (score %v)", extremeScore)
	assert.Greater(t, normalScore, extremeScore)
}

func TestForestFlagsSingleSensorAnomalies(t *testing.T) {
	forest, _ := trainTestForest(t)

	cases := [][]float64{
		{25, 24, 70}, // low moisture
		{65, 38, 70}, // high temperature
		{65, 24, 25}, // low air humidity
	}
	for _, x := range cases {
		outlier, score := forest.Predict(x)
		assert.True(t, outlier, "expected outlier for %v (score %v)", x, score)
	}
}

// Save/load round-trips the exact decision function.
func TestForestPersistence(t *testing.T) {
	forest, path := trainTestForest(t)

	loaded, err := LoadForest(path)
	require.NoError(t, err)

	for _, x := range [][]float64{{65, 24, 70}, {25, 36, 25}, {60, 24, 65}} {
		assert.Equal(t, forest.Decision(x), loaded.Decision(x), "input %v", x)
	}
	assert.Equal(t, forest.Offset, loaded.Offset)
}

func TestLoadForestMissingFile(t *testing.T) {
	_, err := LoadForest(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// A scorer without a model never fails: it reports not-outlier at score
// zero and flags itself unavailable.
func TestScorerFailSoft(t *testing.T) {
	s := NewScorer(filepath.Join(t.TempDir(), "missing.json"))

	assert.False(t, s.Available())
	isOutlier, score := s.Score(25, 36, 25)
	assert.False(t, isOutlier)
	assert.Equal(t, 0.0, score)
	assert.True(t, s.TrainedAt().IsZero())
}

func TestScorerReloadAfterTraining(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isolation_forest.json")
	s := NewScorer(path)
	require.False(t, s.Available())

	_, _, err := TrainSynthetic(path, 42)
	require.NoError(t, err)
	require.NoError(t, s.Reload())

	assert.True(t, s.Available())
	isOutlier, score := s.Score(25, 36, 25)
	assert.True(t, isOutlier)
	assert.Less(t, score, 0.0)
	assert.False(t, s.TrainedAt().IsZero())
}
