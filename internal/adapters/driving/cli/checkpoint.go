package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint [name]",
	Short: "Mark the current state with a permanent named entry",
	Long: `Appends a named checkpoint to the local version log. Checkpoints are
permanent: pruning the log never removes them.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckpoint,
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
}

func runCheckpoint(cmd *cobra.Command, args []string) error {
	name := args[0]

	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	history, err := openLocalHistory(ws)
	if err != nil {
		return err
	}

	if err := history.Checkpoint(name); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	cmd.Printf("Checkpoint %q recorded.\n", name)
	return nil
}
