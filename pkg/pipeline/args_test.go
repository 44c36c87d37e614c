package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgsString(t *testing.T) {
	args := Args{"name": "value", "number": 5}
	assert.Equal(t, "value", args.String("name", "def"))
	assert.Equal(t, "def", args.String("missing", "def"))
	assert.Equal(t, "def", args.String("number", "def"))
}

func TestArgsInt(t *testing.T) {
	args := Args{"int": 5, "float": 8.0, "string": "x"}
	assert.Equal(t, 5, args.Int("int", 1))
	// JSON decoding produces float64 numbers.
	assert.Equal(t, 8, args.Int("float", 1))
	assert.Equal(t, 1, args.Int("string", 1))
	assert.Equal(t, 1, args.Int("missing", 1))
}

func TestArgsFloat(t *testing.T) {
	args := Args{"float": 2e-5, "int": 3}
	assert.Equal(t, 2e-5, args.Float("float", 1))
	assert.Equal(t, 3.0, args.Float("int", 1))
	assert.Equal(t, 1.0, args.Float("missing", 1))
}

func TestArgsHas(t *testing.T) {
	args := Args{"key": nil}
	assert.True(t, args.Has("key"))
	assert.False(t, args.Has("missing"))
}

func TestArgsClone(t *testing.T) {
	args := Args{"key": "value"}
	clone := args.Clone()
	assert.Equal(t, args, clone)

	clone["key"] = "other"
	assert.Equal(t, "value", args["key"])
}
