package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/designsync-cli/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/designsync-cli/internal/core/services"
)

var (
	serveAddr     string
	serveDataDir  string
	serveMemory   bool
	serveEmail    string
	servePassword string
	serveSecret   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference remote store",
	Long: `Hosts the remote workspace store over HTTP, backed by SQLite (or an
in-memory store with --memory). Useful for local development and as
the reference implementation of the remote protocol.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8600", "listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "database directory (defaults to ~/.designsync/data)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "use an in-memory store (data is lost on exit)")
	serveCmd.Flags().StringVar(&serveEmail, "email", "", "accepted login email")
	serveCmd.Flags().StringVar(&servePassword, "password", "", "accepted login password")
	serveCmd.Flags().StringVar(&serveSecret, "secret", "", "token signing secret (random when omitted)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveEmail == "" || servePassword == "" {
		return errors.New("--email and --password are required")
	}

	secret := []byte(serveSecret)
	if len(secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		secret = []byte(hex.EncodeToString(buf))
		cmd.Println("No --secret given; tokens will not survive a restart.")
	}

	mutator, closeStore, err := buildMutator()
	if err != nil {
		return err
	}
	defer closeStore()

	server := httpapi.NewServer(httpapi.Config{
		Email:    serveEmail,
		Password: servePassword,
		Secret:   secret,
	}, mutator)

	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	cmd.Printf("Remote store listening on %s.\n", serveAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}

// buildMutator wires the mutation service over the selected storage.
func buildMutator() (*services.MutationService, func(), error) {
	if serveMemory {
		return services.NewMutationService(memory.NewRecordStore(), memory.NewEventStore()),
			func() {}, nil
	}

	store, err := sqlite.NewStore(serveDataDir)
	if err != nil {
		return nil, nil, err
	}
	return services.NewMutationService(store.RecordStore(), store.EventStore()),
		func() { store.Close() }, nil
}
