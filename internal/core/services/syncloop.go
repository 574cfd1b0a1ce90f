package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/designsync-cli/internal/logger"
)

// Ensure SyncLoop implements the interface.
var _ driving.SyncRunner = (*SyncLoop)(nil)

// SyncConfig configures a workspace sync loop.
type SyncConfig struct {
	// WorkspaceID is the remote record ID.
	WorkspaceID string

	// DocumentPath is the local design.json path.
	DocumentPath string

	// Debounce is the quiet period after the last write before a sync
	// attempt starts.
	Debounce time.Duration

	// RefreshInterval is how often credentials are re-read from disk
	// and re-attached to the client.
	RefreshInterval time.Duration
}

// syncResult carries a completed remote update back into the actor.
type syncResult struct {
	doc    domain.Document
	result *domain.UpdateResult
	err    error
}

// SyncLoop watches the local document file, debounces rapid edits,
// and pushes the latest state to the remote with optimistic
// concurrency control.
//
// It is a single logical actor per workspace: remote mutations are
// never issued concurrently. While an update is in flight, further
// edits overwrite a single pending-payload slot, so at most the latest
// edit is ever sent and intermediate ones coalesce away.
type SyncLoop struct {
	cfg     SyncConfig
	client  driven.RemoteClient
	creds   driven.CredentialsStore
	watcher driven.FileWatcher
	history driving.History

	mu              sync.Mutex
	status          driving.SyncStatus
	pending         domain.Document
	hasPending      bool
	lastSynced      domain.Document
	expectedVersion int64

	resultCh chan syncResult
}

// NewSyncLoop creates a sync loop for one workspace.
func NewSyncLoop(
	cfg SyncConfig,
	client driven.RemoteClient,
	creds driven.CredentialsStore,
	watcher driven.FileWatcher,
	history driving.History,
) *SyncLoop {
	if cfg.Debounce <= 0 {
		cfg.Debounce = domain.Settings{}.Debounce()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = domain.Settings{}.RefreshInterval()
	}
	return &SyncLoop{
		cfg:      cfg,
		client:   client,
		creds:    creds,
		watcher:  watcher,
		history:  history,
		status:   driving.SyncStatus{State: driving.StateIdle},
		resultCh: make(chan syncResult, 1),
	}
}

// Run drives the loop until the context is cancelled (clean shutdown,
// returns nil) or a fatal error occurs. Journal write failures are
// fatal: history integrity is never silently dropped.
func (l *SyncLoop) Run(ctx context.Context) error {
	defer l.dispose()

	creds, err := l.creds.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	l.client.SetToken(creds.AccessToken)

	if err := l.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch workspace: %w", err)
	}

	changes, err := l.watcher.Watch(ctx, l.cfg.DocumentPath)
	if err != nil {
		return fmt.Errorf("watch %s: %w", l.cfg.DocumentPath, err)
	}

	// The debounce timer starts parked; file changes arm it.
	debounce := time.NewTimer(l.cfg.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	refresh := time.NewTicker(l.cfg.RefreshInterval)
	defer refresh.Stop()

	logger.Info("Sync loop running for workspace %s", l.cfg.WorkspaceID)

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-changes:
			if !ok {
				return nil
			}
			l.onFileChange(debounce)

		case <-debounce.C:
			l.onDebounceFired(ctx)

		case res := <-l.resultCh:
			if err := l.onSyncDone(ctx, res); err != nil {
				return err
			}

		case <-refresh.C:
			l.refreshCredentials()
		}
	}
}

// Refresh re-reads the remote record, resetting the expected version
// and the last-synced baseline, and clears a pending conflict signal.
// It does not rewrite the local file: the next local edit submits the
// full document and wins (last writer wins).
func (l *SyncLoop) Refresh(ctx context.Context) error {
	record, err := l.client.Get(ctx, l.cfg.WorkspaceID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSynced = record.Data
	l.expectedVersion = record.Version
	l.status.ExpectedVersion = record.Version
	l.status.Conflicted = false
	return nil
}

// Status returns a snapshot of the loop state.
func (l *SyncLoop) Status() driving.SyncStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// onFileChange resets the debounce timer. Bursts of filesystem events
// (editors writing several times per keystroke) collapse into one
// timer expiry.
func (l *SyncLoop) onFileChange(debounce *time.Timer) {
	l.mu.Lock()
	if l.status.State == driving.StateIdle {
		l.status.State = driving.StateDebouncing
	}
	l.mu.Unlock()

	if !debounce.Stop() {
		select {
		case <-debounce.C:
		default:
		}
	}
	debounce.Reset(l.cfg.Debounce)
	logger.Debug("File change observed, debouncing %s", l.cfg.Debounce)
}

// onDebounceFired reads and parses the file, then attempts a sync.
func (l *SyncLoop) onDebounceFired(ctx context.Context) {
	doc, err := l.readDocument()
	if err != nil {
		// Mid-edit states are often unparseable; wait for the next write.
		l.mu.Lock()
		if l.status.State == driving.StateDebouncing {
			l.status.State = driving.StateIdle
		}
		l.status.LastError = fmt.Sprintf("cannot parse %s: %v", l.cfg.DocumentPath, err)
		l.mu.Unlock()
		logger.Warn("Skipping sync: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status.State == driving.StateSyncing {
		// Single-flight: overwrite the pending slot with the latest
		// parse instead of issuing a second concurrent call.
		l.pending = doc
		l.hasPending = true
		logger.Debug("Sync in flight, payload queued")
		return
	}

	if l.status.Conflicted {
		l.status.State = driving.StateIdle
		logger.Warn("Workspace is stale, sync paused until refresh")
		return
	}

	if len(domain.Diff(l.lastSynced, doc)) == 0 {
		l.status.State = driving.StateIdle
		l.status.NoOps++
		logger.Debug("Edit is a structural no-op, nothing to sync")
		return
	}

	l.startSyncLocked(ctx, doc)
}

// startSyncLocked launches the remote call. Caller holds l.mu.
func (l *SyncLoop) startSyncLocked(ctx context.Context, doc domain.Document) {
	l.status.State = driving.StateSyncing
	expected := l.expectedVersion

	go func() {
		result, err := l.client.Update(ctx, l.cfg.WorkspaceID, doc, expected)
		l.resultCh <- syncResult{doc: doc, result: result, err: err}
	}()
}

// onSyncDone handles a completed remote call: records the change in
// the local journal, advances the expected version, and drains the
// pending slot if a newer edit arrived meanwhile.
func (l *SyncLoop) onSyncDone(ctx context.Context, res syncResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.err != nil {
		l.classifyFailureLocked(res.err)
		if errors.Is(res.err, domain.ErrAccessDenied) {
			return fmt.Errorf("workspace %s: %w", l.cfg.WorkspaceID, domain.ErrAccessDenied)
		}
		return nil
	}

	if res.result.NoChanges {
		l.expectedVersion = res.result.Version
		l.status.ExpectedVersion = res.result.Version
		l.status.NoOps++
	} else {
		patches := domain.Diff(l.lastSynced, res.doc)
		inverse, err := domain.Invert(patches, l.lastSynced)
		if err != nil {
			return fmt.Errorf("invert synced patch: %w", err)
		}
		if err := l.history.RecordChange(patches, inverse); err != nil {
			return fmt.Errorf("record synced change: %w", err)
		}
		l.history.SetDocument(res.doc)

		l.lastSynced = res.doc
		l.expectedVersion = res.result.Version
		l.status.ExpectedVersion = res.result.Version
		l.status.Synced++
		l.status.LastSyncAt = time.Now()
		l.status.LastError = ""
		logger.Info("Synced version %d (event %d)", res.result.Version, res.result.EventVersion)
	}

	// Drain loop: a newer edit waiting in the slot goes out immediately.
	if l.hasPending {
		doc := l.pending
		l.pending = nil
		l.hasPending = false
		if len(domain.Diff(l.lastSynced, doc)) > 0 {
			l.startSyncLocked(ctx, doc)
			return nil
		}
		l.status.NoOps++
	}
	l.status.State = driving.StateIdle
	return nil
}

// classifyFailureLocked translates a remote error into the taxonomy
// and one user-facing line. The dropped edit is not retried; the next
// file change is the only retry trigger. Caller holds l.mu.
func (l *SyncLoop) classifyFailureLocked(err error) {
	l.pending = nil
	l.hasPending = false
	l.status.State = driving.StateIdle

	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		l.status.Conflicted = true
		l.status.LastError = "workspace changed remotely: stale version, re-sync from remote required"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrTokenExpired):
		l.status.LastError = "authentication required: run 'designsync login'"
	case errors.Is(err, domain.ErrAccessDenied):
		l.status.LastError = "access to this workspace was denied"
	case errors.Is(err, domain.ErrNotFound):
		l.status.LastError = "workspace no longer exists on the remote"
	default:
		l.status.Dropped++
		l.status.LastError = "sync failed, edit dropped; the next change will retry"
	}
	log.Printf("designsync: %s", l.status.LastError)
	logger.Debug("Sync failure detail: %v", err)
}

// refreshCredentials re-reads the credentials file and swaps the token
// on the client without interrupting an in-flight sync.
func (l *SyncLoop) refreshCredentials() {
	creds, err := l.creds.Load()
	if err != nil {
		logger.Warn("Credential refresh failed: %v", err)
		return
	}
	l.client.SetToken(creds.AccessToken)
	logger.Debug("Credentials re-attached")
}

// dispose marks the loop disposed and releases the watcher. Timers are
// released by Run's defers; an in-flight remote call may finish on its
// own without being awaited further.
func (l *SyncLoop) dispose() {
	l.mu.Lock()
	l.status.State = driving.StateDisposed
	l.mu.Unlock()
	if err := l.watcher.Close(); err != nil {
		logger.Warn("Watcher close: %v", err)
	}
}

// readDocument loads and parses the local document file.
func (l *SyncLoop) readDocument() (domain.Document, error) {
	raw, err := os.ReadFile(l.cfg.DocumentPath)
	if err != nil {
		return nil, err
	}
	return domain.DecodeDocument(raw)
}
