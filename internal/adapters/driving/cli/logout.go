package cli

import (
	"github.com/spf13/cobra"

	credfile "github.com/custodia-labs/designsync-cli/internal/adapters/driven/credentials/file"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored access token",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	store, err := credfile.NewCredentialsStore("")
	if err != nil {
		return err
	}
	if err := store.Delete(); err != nil {
		return err
	}
	cmd.Println("Logged out.")
	return nil
}
