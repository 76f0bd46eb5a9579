package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/mikey/sms-spam-classifier/internal/di"
)

var flags = &di.Flags{}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sms-classifier",
	Short: "Train and serve an SMS spam classifier",
	Long: `sms-classifier trains spam/ham classifiers on TF-IDF features of SMS
messages and serves the persisted model over HTTP.

Typical workflow:
  sms-classifier prepare   # raw collection -> processed CSV
  sms-classifier train     # fit, evaluate and persist the model
  sms-classifier serve     # POST /predict {"sms": "..."}`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to config file (default: search ./configs, $HOME/.sms-classifier, /etc/sms-classifier)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// invoke builds the command container and runs fn with its dependencies injected
func invoke(cmd *cobra.Command, fn any) error {
	container, err := di.BuildCLIContainer(flags, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}
	return dig.RootCause(container.Invoke(fn))
}
