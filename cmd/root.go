package cmd

import (
	"fmt"
	"os"

	"github.com/opsplit/opsplit/utils/config"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "opsplit",
	Short: "Split coarse operation sequences into executable sub-steps",
	Long: `opsplit is a command line tool that decomposes coarse-grained operation
sequences into fine-grained sub-steps an automated agent can execute,
grounding each LLM call on a local knowledge base of operation manuals.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Verbose = verbose
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default .opsplit.yaml or OPSPLIT_CONFIG)")
}

// loadConfig resolves the configuration for a command invocation
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	return config.LoadOrDefault(path)
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
