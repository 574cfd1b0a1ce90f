package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	journalfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/journal/file"
	watchfsnotify "github.com/custodia-labs/designsync-cli/internal/adapters/driven/watch/fsnotify"
	"github.com/custodia-labs/designsync-cli/internal/core/services"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Watch design.json and sync every edit to the remote",
	Long: `Runs the sync loop until interrupted: watches design.json, debounces
rapid edits, and pushes the latest state to the remote store. Each
synced change is recorded in the local version log for undo/redo.`,
	RunE: runDev,
}

func init() {
	rootCmd.AddCommand(devCmd)
}

func runDev(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	_, document, err := ws.svc.Open()
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	journal, err := journalfile.NewJournalStore(ws.dir)
	if err != nil {
		return err
	}
	history := services.NewHistoryService(journal, document)
	if err := history.Init(); err != nil {
		return err
	}

	watcher, err := watchfsnotify.NewWatcher()
	if err != nil {
		return err
	}

	loop := services.NewSyncLoop(services.SyncConfig{
		WorkspaceID:     ws.cfg.WorkspaceID,
		DocumentPath:    ws.svc.DocumentPath(),
		Debounce:        settings.Debounce(),
		RefreshInterval: settings.RefreshInterval(),
	}, ws.client, ws.creds, watcher, history)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (workspace %s). Press Ctrl+C to stop.\n",
		services.DocumentFileName, ws.cfg.WorkspaceID)

	if err := loop.Run(ctx); err != nil {
		return err
	}

	status := loop.Status()
	cmd.Printf("Stopped. %d change(s) synced, %d no-op(s), %d dropped.\n",
		status.Synced, status.NoOps, status.Dropped)
	return nil
}
