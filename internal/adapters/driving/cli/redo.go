package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Step the workspace one undone change forward",
	Long: `Asks the remote store to redo the last undone change and writes the
returned document to design.json. When the remote is unreachable,
falls back to the local version log.`,
	RunE: runRedo,
}

func init() {
	rootCmd.AddCommand(redoCmd)
}

func runRedo(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	result, err := ws.client.Redo(context.Background(), ws.cfg.WorkspaceID)
	if err != nil {
		if domain.IsTransient(err) {
			return redoLocally(cmd, ws)
		}
		return fmt.Errorf("redo: %w", err)
	}

	if !result.Success {
		cmd.Println("Nothing to redo.")
		return nil
	}
	if err := ws.svc.WriteDocument(result.Data); err != nil {
		return err
	}
	cmd.Printf("Redid change (version %d -> %d).\n", result.PreviousVersion, result.CurrentVersion)
	return nil
}

// redoLocally steps forward using the local version log when the
// remote is unreachable.
func redoLocally(cmd *cobra.Command, ws *workspace) error {
	history, err := openLocalHistory(ws)
	if err != nil {
		return err
	}

	document, err := history.Redo()
	if err != nil {
		return err
	}
	if document == nil {
		cmd.Println("Remote unreachable and nothing to redo locally.")
		return nil
	}
	if err := ws.svc.WriteDocument(document); err != nil {
		return err
	}
	cmd.Println("Remote unreachable; redid from the local version log.")
	return nil
}
