package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cvmatch/internal/config"
)

var envName string

var rootCmd = &cobra.Command{
	Use:           "cvmatch",
	Short:         "cvmatch: keyword search over applicant résumés",
	Long:          "Ranks résumés by keyword occurrences with KMP, Boyer-Moore, Aho-Corasick or Levenshtein matching.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", config.GetEnv(),
		"configuration environment, selects config/<env>.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}
