package cli

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
	"github.com/askiada/lm-pipeline/pkg/pipeline/drawer"
	"github.com/askiada/lm-pipeline/pkg/pipeline/lm"
	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

var (
	describePipelineName string
	describeConfigPath   string
	describeOutPath      string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Draw the stages of a configured training pipeline without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipeline.LoadConfig(describeConfigPath)
		if err != nil {
			return err
		}

		factory := pipeline.Get(describePipelineName)
		if factory == nil {
			return errors.Wrapf(pipeline.ErrUnknownPipeline, "%q (available: %s)",
				describePipelineName, strings.Join(pipeline.Names(), ", "))
		}
		trainingPipeline := factory()

		opt := drawer.PipelineDrawer(drawer.NewSVGDrawer(describeOutPath), nil)
		err = opt.New()
		if err != nil {
			return err
		}
		err = pipeline.WalkStages(trainingPipeline.Stages(cfg), []model.Option{opt}, nil)
		if err != nil {
			return err
		}

		return opt.Finish()
	},
}

func init() {
	describeCmd.Flags().StringVar(&describePipelineName, "pipeline", lm.PipelineName, "Name of the registered training pipeline.")
	describeCmd.Flags().StringVar(&describeConfigPath, "config", "", "Path to the JSON configuration file.")
	describeCmd.Flags().StringVar(&describeOutPath, "out", "pipeline.svg", "Path of the drawn pipeline file.")
	_ = describeCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(describeCmd)
}
