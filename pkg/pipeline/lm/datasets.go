package lm

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/gomlx/go-huggingface/hub"
	"github.com/gomlx/go-huggingface/tokenizers"
	"github.com/gomlx/go-huggingface/tokenizers/api"
	"github.com/gomlx/gomlx/ml/train"
	"github.com/gomlx/gomlx/types/tensor"
	"github.com/pkg/errors"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
)

const (
	defaultMaxLength = 512
	defaultBatchSize = 8
	defaultSeed      = 42
)

// example is one record of a JSONL dataset file. Plain language modeling objectives
// read `text`; conditional generation reads `source` and `target` and falls back to
// `text` when they are absent.
type example struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// collateFn turns one tokenized example into an (inputs, labels) pair of fixed length.
// Token IDs stay native ints all the way to the tensor: the framework maps Go int to
// its 64-bit integer dtype.
type collateFn func(rng *rand.Rand, tok api.Tokenizer, ex example, maxLength int) (inputs, labels []int, err error)

// dataModule holds the shared behaviour of the four objective data modules: it keeps
// the dataset arguments verbatim, loads the tokenizer lazily and materialises the
// train/validation datasets from JSONL files.
type dataModule struct {
	name        string
	datasetArgs pipeline.Args
	tokenizerID string
	cacheDir    string
	authToken   string
	tokenizer   api.Tokenizer
	collate     collateFn

	trainDS      *lmDataset
	validationDS *lmDataset
}

func newDataModule(name string, modelArgs, datasetArgs pipeline.Args, collate collateFn) dataModule {
	tokenizerID := modelArgs.String("tokenizer", modelArgs.String("model_name_or_path", ""))

	return dataModule{
		name:        name,
		datasetArgs: datasetArgs,
		tokenizerID: tokenizerID,
		cacheDir:    modelArgs.String("cache_dir", ""),
		collate:     collate,
	}
}

func (m *dataModule) Name() string { return m.name }

// DatasetArguments returns the arguments the module was constructed with, unmodified.
func (m *dataModule) DatasetArguments() pipeline.Args { return m.datasetArgs }

// SetTokenizer injects a tokenizer, skipping the hub download in Setup.
func (m *dataModule) SetTokenizer(tok api.Tokenizer) { m.tokenizer = tok }

// SetAuthToken sets the token used to download gated tokenizers from the hub.
func (m *dataModule) SetAuthToken(token string) { m.authToken = token }

// Setup loads the tokenizer and builds the train and validation datasets. It is the
// only place where the module touches the disk or the network.
func (m *dataModule) Setup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "setup cancelled")
	}

	if m.tokenizer == nil {
		repo := hub.New(m.tokenizerID).WithCacheDir(m.cacheDir)
		if m.authToken != "" {
			repo = repo.WithAuth(m.authToken)
		}
		tok, err := tokenizers.New(repo)
		if err != nil {
			return errors.Wrapf(err, "unable to load tokenizer %s", m.tokenizerID)
		}
		m.tokenizer = tok
	}

	rng := rand.New(rand.NewSource(int64(m.datasetArgs.Int("seed", defaultSeed))))
	maxLength := m.datasetArgs.Int("max_length", defaultMaxLength)
	batchSize := m.datasetArgs.Int("batch_size", defaultBatchSize)

	trainDS, err := m.buildDataset(rng, m.name+"-train", m.datasetArgs.String("train_file", ""), maxLength, batchSize, true)
	if err != nil {
		return err
	}
	validationDS, err := m.buildDataset(rng, m.name+"-validation", m.datasetArgs.String("validation_file", ""), maxLength, batchSize, false)
	if err != nil {
		return err
	}

	m.trainDS = trainDS
	m.validationDS = validationDS

	return nil
}

func (m *dataModule) buildDataset(rng *rand.Rand, name, path string, maxLength, batchSize int, loop bool) (*lmDataset, error) {
	if path == "" {
		return nil, errors.Errorf("no dataset file configured for %s", name)
	}

	examples, err := readExamples(path)
	if err != nil {
		return nil, err
	}

	allInputs := make([][]int, 0, len(examples))
	allLabels := make([][]int, 0, len(examples))
	for _, ex := range examples {
		inputs, labels, err := m.collate(rng, m.tokenizer, ex, maxLength)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to collate example for %s", name)
		}
		if inputs == nil {
			continue
		}
		allInputs = append(allInputs, inputs)
		allLabels = append(allLabels, labels)
	}

	ds := &lmDataset{name: name, loop: loop}
	for start := 0; start < len(allInputs); start += batchSize {
		end := start + batchSize
		if end > len(allInputs) {
			end = len(allInputs)
		}
		ds.batches = append(ds.batches, lmBatch{
			inputs: tensor.FromValue(allInputs[start:end]),
			labels: tensor.FromValue(allLabels[start:end]),
		})
	}

	return ds, nil
}

// TrainDataset cycles forever over the training batches.
func (m *dataModule) TrainDataset() train.Dataset { return m.trainDS }

// ValidationDataset yields the validation batches once.
func (m *dataModule) ValidationDataset() train.Dataset { return m.validationDS }

// NumTrainBatches returns the number of batches in one epoch of the training set.
// It is only meaningful after Setup.
func (m *dataModule) NumTrainBatches() int {
	if m.trainDS == nil {
		return 0
	}

	return len(m.trainDS.batches)
}

func readExamples(path string) ([]example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open dataset file %s", path)
	}
	defer file.Close()

	examples := []example{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ex := example{}
		err := json.Unmarshal([]byte(line), &ex)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse dataset file %s", path)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "unable to read dataset file %s", path)
	}

	return examples, nil
}

// lmDataset feeds pre-collated batches to the framework training loop. Yield must be
// safe for concurrent use: the training loop wraps the dataset in data.Parallel, which
// calls it from several goroutines.
type lmDataset struct {
	name    string
	batches []lmBatch
	mu      sync.Mutex
	next    int
	loop    bool
}

type lmBatch struct {
	inputs tensor.Tensor
	labels tensor.Tensor
}

func (ds *lmDataset) Name() string { return ds.name }

func (ds *lmDataset) Yield() (spec any, inputs []tensor.Tensor, labels []tensor.Tensor, err error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if len(ds.batches) == 0 {
		return nil, nil, nil, io.EOF
	}
	if ds.next >= len(ds.batches) {
		if !ds.loop {
			return nil, nil, nil, io.EOF
		}
		ds.next = 0
	}

	batch := ds.batches[ds.next]
	ds.next++

	return nil, []tensor.Tensor{batch.inputs}, []tensor.Tensor{batch.labels}, nil
}

func (ds *lmDataset) Reset() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.next = 0
}

var _ train.Dataset = (*lmDataset)(nil)

// MLMDataModule prepares batches for masked language modeling: input positions are
// masked at the configured probability and the labels keep the original tokens.
type MLMDataModule struct{ dataModule }

func NewMLMDataModule(modelArgs, datasetArgs pipeline.Args) *MLMDataModule {
	probability := datasetArgs.Float("mlm_probability", 0.15)
	collate := func(rng *rand.Rand, tok api.Tokenizer, ex example, maxLength int) ([]int, []int, error) {
		ids := tok.Encode(ex.Text)
		if len(ids) == 0 {
			return nil, nil, nil
		}
		maskID, err := tok.SpecialTokenID(api.TokMask)
		if err != nil {
			return nil, nil, errors.Wrap(err, "tokenizer has no mask token")
		}
		pad := padID(tok)
		labels := padTruncate(ids, maxLength, pad)
		inputs := maskTokens(rng, labels, maskID, pad, probability)

		return inputs, labels, nil
	}

	return &MLMDataModule{newDataModule("mlm-data-module", modelArgs, datasetArgs, collate)}
}

// CLMDataModule prepares batches for causal language modeling: labels are the inputs
// shifted by one position.
type CLMDataModule struct{ dataModule }

func NewCLMDataModule(modelArgs, datasetArgs pipeline.Args) *CLMDataModule {
	collate := func(rng *rand.Rand, tok api.Tokenizer, ex example, maxLength int) ([]int, []int, error) {
		ids := tok.Encode(ex.Text)
		if len(ids) < 2 {
			return nil, nil, nil
		}
		if len(ids) > maxLength+1 {
			ids = ids[:maxLength+1]
		}
		pad := padID(tok)
		inputs := padTruncate(ids[:len(ids)-1], maxLength, pad)
		labels := padTruncate(ids[1:], maxLength, pad)

		return inputs, labels, nil
	}

	return &CLMDataModule{newDataModule("clm-data-module", modelArgs, datasetArgs, collate)}
}

// CGMDataModule prepares batches for conditional generation: inputs come from the
// source text and labels from the target text.
type CGMDataModule struct{ dataModule }

func NewCGMDataModule(modelArgs, datasetArgs pipeline.Args) *CGMDataModule {
	collate := func(rng *rand.Rand, tok api.Tokenizer, ex example, maxLength int) ([]int, []int, error) {
		source := ex.Source
		if source == "" {
			source = ex.Text
		}
		target := ex.Target
		if target == "" {
			target = ex.Text
		}
		sourceIDs := tok.Encode(source)
		targetIDs := tok.Encode(target)
		if len(sourceIDs) == 0 || len(targetIDs) == 0 {
			return nil, nil, nil
		}
		pad := padID(tok)
		inputs := padTruncate(sourceIDs, maxLength, pad)
		labels := padTruncate(targetIDs, maxLength, pad)

		return inputs, labels, nil
	}

	return &CGMDataModule{newDataModule("cgm-data-module", modelArgs, datasetArgs, collate)}
}

// PLMDataModule prepares batches for permutation language modeling: spans of the
// input are permuted at the configured probability and the labels keep the original
// order.
type PLMDataModule struct{ dataModule }

func NewPLMDataModule(modelArgs, datasetArgs pipeline.Args) *PLMDataModule {
	probability := datasetArgs.Float("plm_probability", 1.0/6)
	maxSpanLength := datasetArgs.Int("max_span_length", 5)
	collate := func(rng *rand.Rand, tok api.Tokenizer, ex example, maxLength int) ([]int, []int, error) {
		ids := tok.Encode(ex.Text)
		if len(ids) == 0 {
			return nil, nil, nil
		}
		pad := padID(tok)
		labels := padTruncate(ids, maxLength, pad)
		inputs := permuteSpans(rng, labels, pad, probability, maxSpanLength)

		return inputs, labels, nil
	}

	return &PLMDataModule{newDataModule("plm-data-module", modelArgs, datasetArgs, collate)}
}

func padID(tok api.Tokenizer) int {
	id, err := tok.SpecialTokenID(api.TokPad)
	if err != nil {
		return 0
	}

	return id
}

func padTruncate(ids []int, length, pad int) []int {
	out := make([]int, length)
	copy(out, ids)
	for i := len(ids); i < length; i++ {
		out[i] = pad
	}

	return out
}

// maskTokens replaces every non-padding token with the mask token at the given
// probability. The input slice is not modified.
func maskTokens(rng *rand.Rand, ids []int, maskID, pad int, probability float64) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	for i, id := range ids {
		if id == pad {
			continue
		}
		if rng.Float64() < probability {
			out[i] = maskID
		}
	}

	return out
}

// permuteSpans shuffles spans of up to maxSpanLength tokens, each span starting with
// the given probability. Spans never cover padding positions. The input slice is not
// modified.
func permuteSpans(rng *rand.Rand, ids []int, pad int, probability float64, maxSpanLength int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	if maxSpanLength < 2 {
		return out
	}
	for i := 0; i < len(out); {
		if out[i] == pad || rng.Float64() >= probability {
			i++

			continue
		}
		end := i + 2 + rng.Intn(maxSpanLength-1)
		if end > len(out) {
			end = len(out)
		}
		for j := i + 1; j < end; j++ {
			if out[j] == pad {
				end = j

				break
			}
		}
		span := out[i:end]
		rng.Shuffle(len(span), func(a, b int) { span[a], span[b] = span[b], span[a] })
		i = end
	}

	return out
}
