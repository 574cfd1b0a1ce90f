// Command designsync keeps a local design.json synchronized with a
// shared remote store, with git-independent undo/redo and checkpoints.
package main

import (
	"os"

	"github.com/custodia-labs/designsync-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
