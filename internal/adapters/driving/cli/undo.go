package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	journalfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/journal/file"
	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/services"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Step the workspace one change back",
	Long: `Asks the remote store to undo the last change and writes the returned
document to design.json. When the remote is unreachable, falls back to
the local version log.`,
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	result, err := ws.client.Undo(context.Background(), ws.cfg.WorkspaceID)
	if err != nil {
		if domain.IsTransient(err) {
			return undoLocally(cmd, ws)
		}
		return fmt.Errorf("undo: %w", err)
	}

	if !result.Success {
		cmd.Println("Nothing to undo.")
		return nil
	}
	if err := ws.svc.WriteDocument(result.Data); err != nil {
		return err
	}
	cmd.Printf("Undid last change (version %d -> %d).\n", result.PreviousVersion, result.CurrentVersion)
	return nil
}

// undoLocally steps back using the local version log when the remote
// is unreachable.
func undoLocally(cmd *cobra.Command, ws *workspace) error {
	history, err := openLocalHistory(ws)
	if err != nil {
		return err
	}

	document, err := history.Undo()
	if err != nil {
		return err
	}
	if document == nil {
		cmd.Println("Remote unreachable and nothing to undo locally.")
		return nil
	}
	if err := ws.svc.WriteDocument(document); err != nil {
		return err
	}
	cmd.Println("Remote unreachable; undid from the local version log.")
	return nil
}

// openLocalHistory builds the journal-backed history service over the
// current document.
func openLocalHistory(ws *workspace) (*services.HistoryService, error) {
	_, document, err := ws.svc.Open()
	if err != nil {
		return nil, err
	}

	journal, err := journalfile.NewJournalStore(ws.dir)
	if err != nil {
		return nil, err
	}
	history := services.NewHistoryService(journal, document)
	if err := history.Init(); err != nil {
		return nil, err
	}
	return history, nil
}
