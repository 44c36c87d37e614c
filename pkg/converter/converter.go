package converter

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	configFileName           = "config.json"
	modulesFileName          = "modules.json"
	poolingDirName           = "1_Pooling"
	sentenceBertConfigName   = "sentence_bert_config.json"
	defaultMaxSeqLength      = 512
	defaultCopyConcurrency   = 4
	transformerModuleType    = "sentence_transformers.models.Transformer"
	poolingModuleType        = "sentence_transformers.models.Pooling"
	defaultWordEmbeddingSize = 768
)

var ErrOutputPathMustBeSet = errors.New("output path must be set")

// Converter assembles a sentence-embedding model bundle from a pretrained encoder and
// a pooling configuration.
type Converter struct {
	ModelNameOrPath string
	OutputPath      string
	Pooling         Pooling
	CacheDir        string
	AuthToken       string
	Concurrency     int
}

// New creates a converter for the given encoder, pooling mode list and output path.
func New(modelNameOrPath, poolingModes, outputPath string) *Converter {
	return &Converter{
		ModelNameOrPath: modelNameOrPath,
		OutputPath:      outputPath,
		Pooling:         ParsePoolingModes(poolingModes),
		Concurrency:     defaultCopyConcurrency,
	}
}

// encoderConfig is the slice of the encoder config.json the converter cares about.
type encoderConfig struct {
	HiddenSize            int `json:"hidden_size"`
	DModel                int `json:"d_model"`
	MaxPositionEmbeddings int `json:"max_position_embeddings"`
}

// Run fetches the encoder, writes the bundle and patches the saved config with the
// converter version. Partially written bundles are left behind on failure.
func (c *Converter) Run(ctx context.Context) error {
	if c.OutputPath == "" {
		return ErrOutputPathMustBeSet
	}

	files, err := c.fetchEncoder(ctx)
	if err != nil {
		return errors.Wrapf(err, "unable to fetch encoder %s", c.ModelNameOrPath)
	}

	pooling, maxSeqLength, err := c.resolvePooling(files)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Join(c.OutputPath, poolingDirName), 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create output path %s", c.OutputPath)
	}

	err = c.copyEncoderFiles(ctx, files)
	if err != nil {
		return err
	}

	err = writeJSON(filepath.Join(c.OutputPath, poolingDirName, configFileName), pooling)
	if err != nil {
		return err
	}
	err = writeJSON(filepath.Join(c.OutputPath, modulesFileName), bundleModules())
	if err != nil {
		return err
	}
	err = writeJSON(filepath.Join(c.OutputPath, sentenceBertConfigName), map[string]any{
		"max_seq_length": maxSeqLength,
		"do_lower_case":  false,
	})
	if err != nil {
		return err
	}

	return c.patchVersion()
}

// resolvePooling derives the word embedding dimension and the maximum sequence length
// from the encoder config and merges them into the pooling configuration.
func (c *Converter) resolvePooling(files []encoderFile) (Pooling, int, error) {
	pooling := c.Pooling
	pooling.WordEmbeddingDimension = defaultWordEmbeddingSize
	maxSeqLength := defaultMaxSeqLength

	for _, file := range files {
		if file.Name != configFileName {
			continue
		}
		raw, err := os.ReadFile(file.Path)
		if err != nil {
			return pooling, 0, errors.Wrapf(err, "unable to read encoder config %s", file.Path)
		}
		cfg := encoderConfig{}
		err = json.Unmarshal(raw, &cfg)
		if err != nil {
			return pooling, 0, errors.Wrapf(err, "unable to parse encoder config %s", file.Path)
		}
		if cfg.HiddenSize > 0 {
			pooling.WordEmbeddingDimension = cfg.HiddenSize
		} else if cfg.DModel > 0 {
			pooling.WordEmbeddingDimension = cfg.DModel
		}
		if cfg.MaxPositionEmbeddings > 0 && cfg.MaxPositionEmbeddings < maxSeqLength {
			maxSeqLength = cfg.MaxPositionEmbeddings
		}

		break
	}

	return pooling, maxSeqLength, nil
}

// copyEncoderFiles copies the encoder files into the bundle root concurrently.
func (c *Converter) copyEncoderFiles(ctx context.Context, files []encoderFile) error {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	errGrp, _ := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrency)
	for _, file := range files {
		file := file
		errGrp.Go(func() error {
			err := copyFile(file.Path, filepath.Join(c.OutputPath, file.Name))
			if err != nil {
				return errors.Wrapf(err, "unable to copy encoder file %s", file.Name)
			}

			return nil
		})
	}

	return errGrp.Wait()
}

// patchVersion injects the converter version into the saved encoder config, when the
// bundle has one.
func (c *Converter) patchVersion() error {
	configPath := filepath.Join(c.OutputPath, configFileName)
	raw, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrapf(err, "unable to read saved config %s", configPath)
	}

	config := map[string]any{}
	err = json.Unmarshal(raw, &config)
	if err != nil {
		return errors.Wrapf(err, "unable to parse saved config %s", configPath)
	}
	config["__version__"] = Version

	return writeJSON(configPath, config)
}

type moduleEntry struct {
	Idx  int    `json:"idx"`
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

func bundleModules() []moduleEntry {
	return []moduleEntry{
		{Idx: 0, Name: "0", Path: "", Type: transformerModuleType},
		{Idx: 1, Name: "1", Path: poolingDirName, Type: poolingModuleType},
	}
}

func writeJSON(path string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "unable to encode %s", path)
	}

	err = os.WriteFile(path, raw, 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()

		return err
	}

	return out.Close()
}
