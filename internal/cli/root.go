package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lmpipe",
	Short: "Thin utilities around language model training frameworks",
	Long: `lmpipe wraps existing machine-learning frameworks with thin command-line
utilities: a converter that turns a pretrained transformer encoder into a
sentence-embedding model bundle by attaching a pooling configuration, and
training pipelines that wire configuration files into framework training
runs for language modeling objectives.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
