package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/models"
)

func TestNewRejectsBadDefinitions(t *testing.T) {
	log := logger.NewNoOpLogger()

	_, err := New([]models.IntentDefinition{{Name: ""}}, log)
	assert.Error(t, err)

	_, err = New([]models.IntentDefinition{
		{Name: "dup", Patterns: []string{"a"}},
		{Name: "dup", Patterns: []string{"b"}},
	}, log)
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	content := `[{"name":"greet","patterns":["hello"],"action":"chat.greet"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c := Load(path, logger.NewTestLogger(t))
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Has("greet"))
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: "does/not/exist.json"},
		{name: "no path configured", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Load(tt.path, logger.NewNoOpLogger())
			assert.Equal(t, len(DefaultDefinitions()), c.Len())
			assert.True(t, c.Has("create_task"))
			assert.True(t, c.Has("sync_tasks"))
		})
	}
}

func TestLoadFallsBackOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := Load(path, logger.NewNoOpLogger())
	assert.Equal(t, len(DefaultDefinitions()), c.Len())
}

func TestSnapshotIsIsolated(t *testing.T) {
	c, err := New([]models.IntentDefinition{
		{Name: "greet", Patterns: []string{"hello"}},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	snap := c.Snapshot()
	snap[0].Patterns[0] = "mutated"
	snap[0].Name = "mutated"

	def, ok := c.Get("greet")
	require.True(t, ok)
	assert.Equal(t, []string{"hello"}, def.Patterns)
}

func TestAppendTraining(t *testing.T) {
	c, err := New([]models.IntentDefinition{
		{Name: "greet", Patterns: []string{"hello"}, Examples: []string{"Hello there"}},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	patternAdded, exampleAdded, err := c.AppendTraining("greet", "Hiya Friend")
	require.NoError(t, err)
	assert.True(t, patternAdded)
	assert.True(t, exampleAdded)

	def, _ := c.Get("greet")
	assert.Contains(t, def.Patterns, "hiya friend")
	assert.Contains(t, def.Examples, "Hiya Friend")
}

func TestAppendTrainingDeduplicates(t *testing.T) {
	c, err := New([]models.IntentDefinition{
		{Name: "greet", Patterns: []string{"hello"}},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, _, err = c.AppendTraining("greet", "Good Morning")
	require.NoError(t, err)

	// Same message again, different case for the pattern comparison.
	patternAdded, exampleAdded, err := c.AppendTraining("greet", "Good Morning")
	require.NoError(t, err)
	assert.False(t, patternAdded)
	assert.False(t, exampleAdded)

	def, _ := c.Get("greet")
	assert.Len(t, def.Patterns, 2)
	assert.Len(t, def.Examples, 1)
}

func TestAppendTrainingUnknownIntent(t *testing.T) {
	c, err := New([]models.IntentDefinition{
		{Name: "greet", Patterns: []string{"hello"}},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, _, err = c.AppendTraining("nope", "whatever")
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeUnknownIntentLabel))
}

func TestDefaultDefinitionsAreValid(t *testing.T) {
	_, err := New(DefaultDefinitions(), logger.NewNoOpLogger())
	assert.NoError(t, err)
}
