package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calcpad/internal/calculator"
)

var evalTrace bool

var evalCmd = &cobra.Command{
	Use:   "eval <keys>...",
	Short: "Press keys and print the display",
	Long: `Eval presses the given keys on a fresh calculator and prints the final display.
Each argument is split into one key per character, so "5+3=" and "5 + 3 =" are equivalent.`,
	Example: `  calcpad eval 5+3=
  calcpad eval --trace "5+5=="
  calcpad eval -5+3=
  calcpad eval -- -5+3=`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return evaluate(cmd.OutOrStdout(), strings.Join(args, " "), evalTrace, logger)
	},
}

func init() {
	evalCmd.Flags().BoolVarP(&evalTrace, "trace", "t", false, "print the display after every key")
	rootCmd.AddCommand(evalCmd)
}

// keyArgs inserts "--" ahead of the first eval argument that starts with a
// minus sign followed by a digit or dot, so input such as "-5+3=" reaches eval
// as keys instead of being parsed as a shorthand flag.
func keyArgs(args []string) []string {
	evalAt := -1
	for i, a := range args {
		if a == evalCmd.Name() {
			evalAt = i
			break
		}
	}
	if evalAt < 0 {
		return args
	}

	for i := evalAt + 1; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args
		}
		if len(a) > 1 && a[0] == '-' && (a[1] == '.' || (a[1] >= '0' && a[1] <= '9')) {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}

func evaluate(w io.Writer, input string, trace bool, logger *zap.Logger) error {
	keys, err := calculator.ParseKeys(input)
	if err != nil {
		return fmt.Errorf("parse keys: %w", err)
	}

	st := calculator.Run(calculator.NewEngine(), keys, func(i int, k calculator.Key, st calculator.State) {
		logger.Debug("key pressed",
			zap.Int("index", i),
			zap.String("key", k.String()),
			zap.String("display", st.Display),
		)
		if trace {
			fmt.Fprintf(w, "%-3s %s\n", k, st.Display)
		}
	})

	if !trace {
		fmt.Fprintln(w, st.Display)
	}
	return nil
}
