package lm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
)

func TestBackboneConfigFromArgs(t *testing.T) {
	cfg := backboneConfigFromArgs(pipeline.Args{
		"vocab_size":          1000,
		"embedding_size":      64,
		"num_attention_heads": 2,
		"num_hidden_layers":   1,
		"attention_key_dim":   16,
		"dropout":             0.2,
	})

	assert.Equal(t, 1000, cfg.vocabSize)
	assert.Equal(t, 64, cfg.embedDim)
	assert.Equal(t, 2, cfg.numHeads)
	assert.Equal(t, 1, cfg.numLayers)
	assert.Equal(t, 16, cfg.keyDim)
	assert.Equal(t, 0.2, cfg.dropout)
}

func TestBackboneConfigDefaults(t *testing.T) {
	cfg := backboneConfigFromArgs(pipeline.Args{})

	assert.Equal(t, 30522, cfg.vocabSize)
	assert.Equal(t, 128, cfg.embedDim)
	assert.Equal(t, 4, cfg.numHeads)
	assert.Equal(t, 2, cfg.numLayers)
	assert.Equal(t, 8, cfg.keyDim)
	assert.Equal(t, 0.1, cfg.dropout)
}
