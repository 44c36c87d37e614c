package cli

import (
	"github.com/caarlos0/env/v11"
	"github.com/gomlx/gomlx/ml/data"
	"github.com/pkg/errors"
)

// Settings holds the environment-derived configuration shared by the commands.
type Settings struct {
	HFToken  string `env:"HF_TOKEN"`
	CacheDir string `env:"LMPIPE_CACHE_DIR" envDefault:"~/.cache/lmpipe"`
}

// LoadSettings parses the environment and expands the cache directory.
func LoadSettings() (*Settings, error) {
	settings := &Settings{}
	err := env.Parse(settings)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse environment")
	}
	settings.CacheDir = data.ReplaceTildeInDir(settings.CacheDir)

	return settings, nil
}
