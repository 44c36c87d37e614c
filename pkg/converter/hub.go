package converter

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/gomlx/go-huggingface/hub"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// encoderFileNames is the standard file set of a pretrained transformer encoder on
// the hub. Only config.json is required; a repo carries whichever weight and
// tokenizer files fit its architecture.
var encoderFileNames = []string{
	configFileName,
	"pytorch_model.bin",
	"model.safetensors",
	"tokenizer.json",
	"tokenizer_config.json",
	"vocab.txt",
	"merges.txt",
	"special_tokens_map.json",
	"spiece.model",
	"sentencepiece.bpe.model",
}

// encoderFile is one encoder file resolved to a local path.
type encoderFile struct {
	Name string
	Path string
}

// fetchEncoder resolves the encoder source: a local directory is used as-is, anything
// else is treated as a hub model ID and downloaded into the cache.
func (c *Converter) fetchEncoder(ctx context.Context) ([]encoderFile, error) {
	info, err := os.Stat(c.ModelNameOrPath)
	if err == nil && info.IsDir() {
		return listEncoderDir(c.ModelNameOrPath)
	}

	return c.downloadEncoder(ctx)
}

func listEncoderDir(dir string) ([]encoderFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list encoder directory %s", dir)
	}

	files := []encoderFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, encoderFile{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	if len(files) == 0 {
		return nil, errors.Errorf("encoder directory %s is empty", dir)
	}

	return files, nil
}

// downloadEncoder fetches the standard encoder file set concurrently. Optional files
// missing from the repo are skipped; a repo without config.json is rejected.
func (c *Converter) downloadEncoder(ctx context.Context) ([]encoderFile, error) {
	repo := hub.New(c.ModelNameOrPath).WithCacheDir(c.CacheDir)
	if c.AuthToken != "" {
		repo = repo.WithAuth(c.AuthToken)
	}

	err := repo.DownloadInfo(false)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read hub info for %s", c.ModelNameOrPath)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	files := []encoderFile{}

	errGrp, _ := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrency)
	for _, name := range encoderFileNames {
		name := name
		errGrp.Go(func() error {
			localPath, err := repo.DownloadFile(name)
			if err != nil {
				if name == configFileName {
					return errors.Wrapf(err, "unable to download %s", name)
				}

				return nil
			}

			mu.Lock()
			files = append(files, encoderFile{Name: name, Path: localPath})
			mu.Unlock()

			return nil
		})
	}

	err = errGrp.Wait()
	if err != nil {
		return nil, err
	}

	return files, nil
}
