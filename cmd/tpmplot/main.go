// Package main provides the tpmplot command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tpmplot",
		Short: "Summarize RNA-seq read counts into per-condition expression profiles",
		Long: `tpmplot turns featureCounts-style read count tables and a GFF3
annotation into normalized, per-condition expression summaries:
counts are converted to log2(TPM+1), replicate columns are grouped by
their condition prefix, and each selected gene yields a mean line with
a mean ± SD band per condition.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newSummarizeCmd())
	cmd.AddCommand(newGenesCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires up viper: ~/.tpmplot.yaml plus TPMPLOT_* env vars.
func initConfig() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.cache_size", 256)

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".tpmplot")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TPMPLOT")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
