// Package cli provides the cobra command surface of designsync.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/config/file"
	credfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/credentials/file"
	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/remote/httpclient"
	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/services"
	"github.com/custodia-labs/designsync-cli/internal/logger"
)

// Build-time version information, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "designsync",
	Short: "Keep a local design.json in sync with a shared remote store",
	Long: `designsync watches a structured document (design.json) on local disk
and keeps it synchronized with a shared remote store, with
git-independent undo/redo and named checkpoints.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// workspace bundles everything an initialised directory offers a
// command: its config, a client pointed at its remote, and the
// workspace service.
type workspace struct {
	dir    string
	cfg    *domain.WorkspaceConfig
	client *httpclient.Client
	svc    *services.WorkspaceService
	creds  *credfile.CredentialsStore
}

// openWorkspace loads the current directory as an initialised
// workspace and attaches stored credentials to the client, if any.
func openWorkspace() (*workspace, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	configs := configfile.NewWorkspaceConfigStore(dir)
	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}

	creds, err := credfile.NewCredentialsStore("")
	if err != nil {
		return nil, err
	}

	client := httpclient.NewClient(httpclient.Config{BaseURL: cfg.RemoteURL})
	if stored, err := creds.Load(); err == nil {
		client.SetToken(stored.AccessToken)
	}

	return &workspace{
		dir:    dir,
		cfg:    cfg,
		client: client,
		svc:    services.NewWorkspaceService(dir, configs, client),
		creds:  creds,
	}, nil
}

// loadSettings reads the user-level settings file.
func loadSettings() (*domain.Settings, error) {
	store, err := configfile.NewSettingsStore("")
	if err != nil {
		return nil, err
	}
	return store.Load()
}
