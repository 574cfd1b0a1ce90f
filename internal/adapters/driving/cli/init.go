package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/config/file"
	credfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/credentials/file"
	journalfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/journal/file"
	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/remote/httpclient"
	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/services"
)

var initRemoteURL string

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialise this directory as a synced workspace",
	Long: `Creates a workspace on the remote store and ties this directory to it.
An existing design.json seeds the remote document; otherwise a minimal
seed document is written. Requires prior login.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initRemoteURL, "remote", "", "remote store base URL (defaults to settings)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]

	remoteURL := initRemoteURL
	if remoteURL == "" {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		remoteURL = settings.DefaultRemoteURL
	}
	if remoteURL == "" {
		return errors.New("no remote URL: pass --remote or set default_remote_url in settings")
	}

	creds, err := credfile.NewCredentialsStore("")
	if err != nil {
		return err
	}
	stored, err := creds.Load()
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return errors.New("not logged in: run 'designsync login' first")
		}
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	client := httpclient.NewClient(httpclient.Config{BaseURL: remoteURL})
	client.SetToken(stored.AccessToken)

	svc := services.NewWorkspaceService(dir, configfile.NewWorkspaceConfigStore(dir), client)
	cfg, err := svc.Init(context.Background(), name, remoteURL)
	if err != nil {
		return fmt.Errorf("init workspace: %w", err)
	}

	// Materialise the journal directory alongside the config.
	if _, err := journalfile.NewJournalStore(dir); err != nil {
		return err
	}

	cmd.Printf("Workspace %q initialised (id %s).\n", name, cfg.WorkspaceID)
	cmd.Printf("Edit %s and run 'designsync dev' to start syncing.\n", services.DocumentFileName)
	return nil
}
