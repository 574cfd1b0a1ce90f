package driven

import "github.com/custodia-labs/designsync-cli/internal/core/domain"

// CredentialsStore persists the user's access token
// (~/.designsync/credentials.json, owner-only permissions).
type CredentialsStore interface {
	// Load reads the stored credentials.
	// Returns domain.ErrNotAuthenticated if none exist.
	Load() (*domain.Credentials, error)

	// Save writes credentials, creating or replacing the file.
	Save(creds domain.Credentials) error

	// Delete removes the credentials file. Deleting credentials that
	// do not exist is not an error.
	Delete() error

	// Path returns the credentials file path.
	Path() string
}
