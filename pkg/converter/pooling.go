package converter

import "strings"

// Pooling describes how token-level embeddings are reduced to a single sentence
// vector. The JSON tags follow the sentence-transformers pooling configuration file.
type Pooling struct {
	WordEmbeddingDimension int  `json:"word_embedding_dimension"`
	CLSToken               bool `json:"pooling_mode_cls_token"`
	MeanTokens             bool `json:"pooling_mode_mean_tokens"`
	MaxTokens              bool `json:"pooling_mode_max_tokens"`
	MeanSqrtLenTokens      bool `json:"pooling_mode_mean_sqrt_len_tokens"`
}

// ParsePoolingModes resolves a comma-separated list of pooling mode tags. Supported
// tags are cls, max, mean and mean_sqrt; more than one can be combined. Unrecognised
// tags are ignored.
func ParsePoolingModes(modes string) Pooling {
	pooling := Pooling{}
	for _, mode := range strings.Split(modes, ",") {
		switch strings.TrimSpace(mode) {
		case "cls":
			pooling.CLSToken = true
		case "max":
			pooling.MaxTokens = true
		case "mean":
			pooling.MeanTokens = true
		case "mean_sqrt":
			pooling.MeanSqrtLenTokens = true
		}
	}

	return pooling
}
