package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"model_args": {"type": "mlm", "lr": 2e-5},
		"dataset_args": {"batch_size": 8},
		"trainer_args": {"monitor": "val_loss"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mlm", cfg.ModelArgs.String("type", ""))
	assert.Equal(t, 2e-5, cfg.ModelArgs.Float("lr", 0))
	assert.Equal(t, 8, cfg.DatasetArgs.Int("batch_size", 0))
	assert.Equal(t, "val_loss", cfg.TrainerArgs.String("monitor", ""))
}

func TestLoadConfigDefaultsEmptyMaps(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.NotNil(t, cfg.ModelArgs)
	assert.NotNil(t, cfg.DatasetArgs)
	assert.NotNil(t, cfg.TrainerArgs)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
