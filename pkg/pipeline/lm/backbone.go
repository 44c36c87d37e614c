package lm

import (
	"fmt"

	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/layers"
	"github.com/gomlx/gomlx/ml/train/losses"
	"github.com/gomlx/gomlx/types/shapes"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
)

const dtype = shapes.Float32

// backboneConfig sizes the token backbone shared by the language modeling objectives.
// The objectives differ in how their data modules collate inputs and labels, not in
// the layers below the readout.
type backboneConfig struct {
	vocabSize int
	embedDim  int
	numHeads  int
	numLayers int
	keyDim    int
	dropout   float64
}

func backboneConfigFromArgs(modelArgs pipeline.Args) backboneConfig {
	return backboneConfig{
		vocabSize: modelArgs.Int("vocab_size", 30522),
		embedDim:  modelArgs.Int("embedding_size", 128),
		numHeads:  modelArgs.Int("num_attention_heads", 4),
		numLayers: modelArgs.Int("num_hidden_layers", 2),
		keyDim:    modelArgs.Int("attention_key_dim", 8),
		dropout:   modelArgs.Float("dropout", 0.1),
	}
}

// modelGraph builds the computation graph: token embeddings with a learned positional
// embedding, stacked attention layers and a readout to vocabulary logits.
func (cfg backboneConfig) modelGraph(ctx *context.Context, spec any, inputs []*Node) []*Node {
	_ = spec
	tokens := inputs[0]
	g := tokens.Graph()

	mask := NotEqual(tokens, ZerosLike(tokens))
	embed := layers.Embedding(ctx.In("tokens"), tokens, dtype, cfg.vocabSize, cfg.embedDim)
	embed = Where(mask, embed, ZerosLike(embed))

	// One learned embedding per sequence position. Shape: [1, maxLen, embedDim]
	posEmbedShape := embed.Shape().Copy()
	posEmbedShape.Dimensions[0] = 1
	posEmbedVar := ctx.VariableWithShape("positional", posEmbedShape)
	embed = Add(embed, posEmbedVar.ValueGraph(g))

	var dropoutRate *Node
	if cfg.dropout > 0 {
		dropoutRate = ConstAsDType(g, dtype, cfg.dropout)
	}

	for ii := 0; ii < cfg.numLayers; ii++ {
		ctx := ctx.In(fmt.Sprintf("att_layer_%d", ii))
		residual := embed
		embed = layers.MultiHeadAttention(ctx, embed, embed, embed, cfg.numHeads, cfg.keyDim).
			SetKeyMask(mask).SetQueryMask(mask).
			SetOutputDim(cfg.embedDim).
			SetValueHeadDim(cfg.embedDim).Done()
		if dropoutRate != nil {
			embed = layers.Dropout(ctx.In("dropout_1"), embed, dropoutRate)
		}
		embed = layers.LayerNormalization(ctx.In("normalization_1"), embed, -1).Done()
		attentionOutput := embed

		embed = layers.Dense(ctx.In("ffn_1"), embed, true, cfg.embedDim)
		embed = Tanh(embed)
		embed = layers.Dense(ctx.In("ffn_2"), embed, true, cfg.embedDim)
		if dropoutRate != nil {
			embed = layers.Dropout(ctx.In("dropout_2"), embed, dropoutRate)
		}
		embed = Add(embed, attentionOutput)
		embed = layers.LayerNormalization(ctx.In("normalization_2"), embed, -1).Done()

		if ii > 0 {
			embed = Add(residual, embed)
		}
	}

	logits := layers.DenseWithBias(ctx.In("readout"), embed, cfg.vocabSize)

	return []*Node{logits}
}

// sequenceCrossEntropy adapts the framework sparse cross entropy to per-token labels:
// logits are shaped [batch, seq, vocab] while labels come in as [batch, seq].
func sequenceCrossEntropy(labels, logits []*Node) *Node {
	lab := labels[0]
	if lab.Rank() == logits[0].Rank()-1 {
		lab = ExpandDims(lab, -1)
	}

	return losses.SparseCategoricalCrossEntropyLogits([]*Node{lab}, logits)
}
