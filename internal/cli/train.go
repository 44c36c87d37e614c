package cli

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
	"github.com/askiada/lm-pipeline/pkg/pipeline/drawer"
	"github.com/askiada/lm-pipeline/pkg/pipeline/lm"
	"github.com/askiada/lm-pipeline/pkg/pipeline/measure"
	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

var (
	trainPipelineName string
	trainConfigPath   string
	trainDrawPath     string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run a training pipeline from a configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadSettings()
		if err != nil {
			return err
		}

		cfg, err := pipeline.LoadConfig(trainConfigPath)
		if err != nil {
			return err
		}

		factory := pipeline.Get(trainPipelineName)
		if factory == nil {
			return errors.Wrapf(pipeline.ErrUnknownPipeline, "%q (available: %s)",
				trainPipelineName, strings.Join(pipeline.Names(), ", "))
		}
		trainingPipeline := factory()
		if lmPipeline, ok := trainingPipeline.(*lm.Pipeline); ok {
			lmPipeline.AuthToken = settings.HFToken
		}

		msr := measure.NewDefaultMeasure()
		opts := []model.Option{measure.PipelineMeasure(msr)}
		if trainDrawPath != "" {
			opts = append(opts, drawer.PipelineDrawer(drawer.NewSVGDrawer(trainDrawPath), msr))
		}

		return trainingPipeline.Train(cmd.Context(), cfg, opts...)
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainPipelineName, "pipeline", lm.PipelineName, "Name of the registered training pipeline.")
	trainCmd.Flags().StringVar(&trainConfigPath, "config", "", "Path to the JSON configuration file.")
	trainCmd.Flags().StringVar(&trainDrawPath, "draw", "", "Optional path to draw the pipeline stages with their timings.")
	_ = trainCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(trainCmd)
}
