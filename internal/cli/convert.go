package cli

import (
	"github.com/spf13/cobra"

	"github.com/askiada/lm-pipeline/pkg/converter"
)

var (
	convertModelNameOrPath string
	convertPooling         string
	convertOutputPath      string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Wrap a pretrained transformer encoder into a sentence-embedding model",
	Long: `Create a sentence-embedding model bundle having a given pretrained model as
word embedding model plus a pooling layer. More than one pooling mode can be
combined.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadSettings()
		if err != nil {
			return err
		}

		conv := converter.New(convertModelNameOrPath, convertPooling, convertOutputPath)
		conv.CacheDir = settings.CacheDir
		conv.AuthToken = settings.HFToken

		return conv.Run(cmd.Context())
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertModelNameOrPath, "model-name-or-path", "", "HF model name or path.")
	convertCmd.Flags().StringVar(&convertPooling, "pooling", "", "Comma separated pooling modes. Supported types: cls, max, mean, mean_sqrt.")
	convertCmd.Flags().StringVar(&convertOutputPath, "output-path", "", "Path to the converted model.")
	_ = convertCmd.MarkFlagRequired("model-name-or-path")
	_ = convertCmd.MarkFlagRequired("pooling")
	_ = convertCmd.MarkFlagRequired("output-path")

	rootCmd.AddCommand(convertCmd)
}
