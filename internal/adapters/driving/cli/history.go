package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the change timeline of this workspace",
	Long: `Shows the remote patch timeline when the remote is reachable, or the
local version log otherwise. Checkpoints appear with their names.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

var (
	versionStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	timeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	opStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("150"))
	checkpointStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

func runHistory(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	events, err := ws.client.History(context.Background(), ws.cfg.WorkspaceID)
	if err != nil {
		if domain.IsTransient(err) {
			return localHistoryView(cmd, ws)
		}
		return fmt.Errorf("history: %w", err)
	}

	if len(events) == 0 {
		cmd.Println("No changes yet.")
		return nil
	}
	cmd.Print(renderRemoteHistory(events, historyLimit))
	return nil
}

// localHistoryView falls back to the journal when the remote is
// unreachable.
func localHistoryView(cmd *cobra.Command, ws *workspace) error {
	history, err := openLocalHistory(ws)
	if err != nil {
		return err
	}

	entries := history.Entries()
	if len(entries) == 0 {
		cmd.Println("Remote unreachable and the local version log is empty.")
		return nil
	}
	cmd.Println("Remote unreachable; showing the local version log.")
	cmd.Print(renderLocalHistory(entries, historyLimit))
	return nil
}

// renderRemoteHistory formats the remote patch timeline, newest first.
func renderRemoteHistory(events []domain.PatchEvent, limit int) string {
	var b strings.Builder
	for i := len(events) - 1; i >= 0 && len(events)-1-i < limit; i-- {
		event := events[i]
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			versionStyle.Render(fmt.Sprintf("v%d", event.Version)),
			timeStyle.Render(event.Timestamp.Local().Format(time.RFC822)),
			opStyle.Render(summariseOps(event.Patches)),
		))
	}
	return b.String()
}

// renderLocalHistory formats journal entries, newest first.
func renderLocalHistory(entries []domain.LocalLogEntry, limit int) string {
	var b strings.Builder
	for i := len(entries) - 1; i >= 0 && len(entries)-1-i < limit; i-- {
		entry := entries[i]
		if entry.IsCheckpoint() {
			b.WriteString(fmt.Sprintf("%s  %s  %s\n",
				versionStyle.Render(fmt.Sprintf("v%d", entry.V)),
				timeStyle.Render(entry.TS.Local().Format(time.RFC822)),
				checkpointStyle.Render("checkpoint: "+entry.CheckpointName),
			))
			continue
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			versionStyle.Render(fmt.Sprintf("v%d", entry.V)),
			timeStyle.Render(entry.TS.Local().Format(time.RFC822)),
			opStyle.Render(summariseOps(entry.Patches)),
		))
	}
	return b.String()
}

// summariseOps compresses a patch list into "N add, M replace" form.
func summariseOps(patches []domain.PatchOp) string {
	if len(patches) == 0 {
		return "no changes"
	}
	counts := map[domain.PatchOpKind]int{}
	for _, p := range patches {
		counts[p.Op]++
	}
	var parts []string
	for _, kind := range []domain.PatchOpKind{domain.OpAdd, domain.OpReplace, domain.OpRemove} {
		if counts[kind] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[kind], kind))
		}
	}
	return strings.Join(parts, ", ")
}
