package pipeline

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Config holds the three flat argument maps a training pipeline consumes. The maps are
// passed through unchanged to the framework constructors.
type Config struct {
	ModelArgs   Args `json:"model_args"`
	DatasetArgs Args `json:"dataset_args"`
	TrainerArgs Args `json:"trainer_args"`
}

// LoadConfig reads a pipeline configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", path)
	}

	cfg := &Config{}
	err = json.Unmarshal(raw, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file %s", path)
	}

	if cfg.ModelArgs == nil {
		cfg.ModelArgs = Args{}
	}
	if cfg.DatasetArgs == nil {
		cfg.DatasetArgs = Args{}
	}
	if cfg.TrainerArgs == nil {
		cfg.TrainerArgs = Args{}
	}

	return cfg, nil
}
