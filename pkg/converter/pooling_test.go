package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePoolingModesClsMean(t *testing.T) {
	pooling := ParsePoolingModes("cls,mean")
	assert.True(t, pooling.CLSToken)
	assert.True(t, pooling.MeanTokens)
	assert.False(t, pooling.MaxTokens)
	assert.False(t, pooling.MeanSqrtLenTokens)
}

func TestParsePoolingModesAll(t *testing.T) {
	pooling := ParsePoolingModes("cls,max,mean,mean_sqrt")
	assert.True(t, pooling.CLSToken)
	assert.True(t, pooling.MaxTokens)
	assert.True(t, pooling.MeanTokens)
	assert.True(t, pooling.MeanSqrtLenTokens)
}

func TestParsePoolingModesWhitespace(t *testing.T) {
	pooling := ParsePoolingModes(" cls , mean_sqrt ")
	assert.True(t, pooling.CLSToken)
	assert.True(t, pooling.MeanSqrtLenTokens)
	assert.False(t, pooling.MaxTokens)
	assert.False(t, pooling.MeanTokens)
}

func TestParsePoolingModesUnknownTagsIgnored(t *testing.T) {
	pooling := ParsePoolingModes("cls,first_token,mean,sqrt")
	assert.True(t, pooling.CLSToken)
	assert.True(t, pooling.MeanTokens)
	assert.False(t, pooling.MaxTokens)
	assert.False(t, pooling.MeanSqrtLenTokens)
}

func TestParsePoolingModesEmpty(t *testing.T) {
	pooling := ParsePoolingModes("")
	assert.Equal(t, Pooling{}, pooling)
}
