package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/config/file"
	credfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/credentials/file"
	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/remote/httpclient"
)

var loginRemoteURL string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the remote store",
	Long: `Prompts for email and password, exchanges them for an access token,
and stores the token in ~/.designsync/credentials.json (owner-only).`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginRemoteURL, "remote", "", "remote store base URL (defaults to workspace config or settings)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	remoteURL, err := resolveLoginRemote()
	if err != nil {
		return err
	}

	email, password, err := promptCredentials(cmd)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(httpclient.Config{BaseURL: remoteURL})
	creds, err := client.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	store, err := credfile.NewCredentialsStore("")
	if err != nil {
		return err
	}
	if err := store.Save(*creds); err != nil {
		return err
	}

	cmd.Printf("Logged in to %s.\n", remoteURL)
	return nil
}

// resolveLoginRemote picks the remote URL: flag, then workspace
// config, then user settings.
func resolveLoginRemote() (string, error) {
	if loginRemoteURL != "" {
		return loginRemoteURL, nil
	}

	if dir, err := os.Getwd(); err == nil {
		if cfg, err := configfile.NewWorkspaceConfigStore(dir).Load(); err == nil {
			return cfg.RemoteURL, nil
		}
	}

	settings, err := loadSettings()
	if err != nil {
		return "", err
	}
	if settings.DefaultRemoteURL != "" {
		return settings.DefaultRemoteURL, nil
	}
	return "", errors.New("no remote URL: pass --remote or set default_remote_url in settings")
}

// promptCredentials reads the email from stdin and the password
// without echo.
func promptCredentials(cmd *cobra.Command) (string, string, error) {
	cmd.Print("Email: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)

	cmd.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return email, string(raw), nil
}
