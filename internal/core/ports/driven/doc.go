// Package driven defines the driven ports (secondary adapters) of the
// hexagonal architecture: interfaces the core services depend on and
// that infrastructure adapters implement.
//
//   - RecordStore / EventStore: persistence behind the mutation handler
//   - RemoteClient: the RPC surface the sync loop talks to
//   - JournalStore: the local append-only event journal
//   - CredentialsStore / WorkspaceConfigStore / SettingsStore: local files
//   - FileWatcher: filesystem change notifications
package driven
