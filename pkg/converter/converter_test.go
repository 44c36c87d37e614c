package converter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEncoderDir(t *testing.T, withConfig bool) string {
	t.Helper()
	dir := t.TempDir()

	if withConfig {
		config := map[string]any{
			"hidden_size":             384,
			"max_position_embeddings": 256,
			"model_type":              "bert",
		}
		raw, err := json.Marshal(config)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), raw, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.txt"), []byte("[PAD]\n[CLS]\nhello\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pytorch_model.bin"), []byte("weights"), 0o644))

	return dir
}

func readJSONFile(t *testing.T, path string, value any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, value))
}

func TestConverterRun(t *testing.T) {
	encoderDir := createEncoderDir(t, true)
	outputPath := filepath.Join(t.TempDir(), "converted")

	conv := New(encoderDir, "cls,mean", outputPath)
	err := conv.Run(context.Background())
	require.NoError(t, err)

	pooling := Pooling{}
	readJSONFile(t, filepath.Join(outputPath, "1_Pooling", "config.json"), &pooling)
	assert.Equal(t, 384, pooling.WordEmbeddingDimension)
	assert.True(t, pooling.CLSToken)
	assert.True(t, pooling.MeanTokens)
	assert.False(t, pooling.MaxTokens)
	assert.False(t, pooling.MeanSqrtLenTokens)

	modules := []moduleEntry{}
	readJSONFile(t, filepath.Join(outputPath, "modules.json"), &modules)
	require.Len(t, modules, 2)
	assert.Equal(t, transformerModuleType, modules[0].Type)
	assert.Equal(t, poolingModuleType, modules[1].Type)
	assert.Equal(t, "1_Pooling", modules[1].Path)

	sbertConfig := map[string]any{}
	readJSONFile(t, filepath.Join(outputPath, "sentence_bert_config.json"), &sbertConfig)
	assert.Equal(t, float64(256), sbertConfig["max_seq_length"])

	assert.FileExists(t, filepath.Join(outputPath, "vocab.txt"))
	assert.FileExists(t, filepath.Join(outputPath, "pytorch_model.bin"))
}

func TestConverterRunPatchesVersion(t *testing.T) {
	encoderDir := createEncoderDir(t, true)
	outputPath := filepath.Join(t.TempDir(), "converted")

	conv := New(encoderDir, "mean", outputPath)
	require.NoError(t, conv.Run(context.Background()))

	config := map[string]any{}
	readJSONFile(t, filepath.Join(outputPath, "config.json"), &config)
	assert.Equal(t, Version, config["__version__"])
	// The original encoder fields survive the patch.
	assert.Equal(t, "bert", config["model_type"])
}

func TestConverterRunWithoutEncoderConfig(t *testing.T) {
	encoderDir := createEncoderDir(t, false)
	outputPath := filepath.Join(t.TempDir(), "converted")

	conv := New(encoderDir, "mean", outputPath)
	require.NoError(t, conv.Run(context.Background()))

	assert.NoFileExists(t, filepath.Join(outputPath, "config.json"))

	pooling := Pooling{}
	readJSONFile(t, filepath.Join(outputPath, "1_Pooling", "config.json"), &pooling)
	assert.Equal(t, defaultWordEmbeddingSize, pooling.WordEmbeddingDimension)
	assert.True(t, pooling.MeanTokens)
}

func TestConverterRunMissingOutputPath(t *testing.T) {
	conv := New("somewhere", "mean", "")
	err := conv.Run(context.Background())
	assert.ErrorIs(t, err, ErrOutputPathMustBeSet)
}

func TestConverterRunEmptyEncoderDir(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "converted")
	conv := New(t.TempDir(), "mean", outputPath)

	err := conv.Run(context.Background())
	assert.Error(t, err)
}
