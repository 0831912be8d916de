package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "calcpad",
	Short: "Four-function pocket calculator",
	Long: `calcpad is a four-function pocket calculator. Run it without arguments
for an interactive keypad, or use "calcpad eval" to feed keys from the command line.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: runTUI,
}

func Execute() {
	rootCmd.SetArgs(keyArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log key presses to stderr")
	rootCmd.PersistentFlags().String("log-level", "debug", "log level used with --verbose")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("calcpad")
	viper.AutomaticEnv()
}

// newLogger returns a development logger on stderr when verbose output is
// requested and a no-op logger otherwise.
func newLogger() (*zap.Logger, error) {
	if !viper.GetBool("verbose") {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	if err := cfg.Level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	return cfg.Build()
}
