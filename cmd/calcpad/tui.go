package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"calcpad/internal/calculator"
	"calcpad/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive keypad",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	m := tui.NewModel(calculator.NewEngine(), logger)

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}
