package docstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultWatchDebounce = 200 * time.Millisecond

// fingerprint identifies one version of a document file.
type fingerprint struct {
	size    int64
	modTime int64
	present bool
}

func fingerprintOf(info os.FileInfo) fingerprint {
	return fingerprint{size: info.Size(), modTime: info.ModTime().UnixNano(), present: true}
}

// ChangeEvent reports a document changed by someone other than this process.
type ChangeEvent struct {
	Document ledger.DocumentName
	At       time.Time
	Removed  bool
}

// Watcher reports writes to known documents that did not go through the Store.
type Watcher struct {
	store    *Store
	debounce time.Duration
	known    map[string]ledger.DocumentName
	lastSeen map[ledger.DocumentName]fingerprint
	pending  map[ledger.DocumentName]time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a document must stay quiet before it is checked.
func WithDebounce(debounce time.Duration) WatcherOption {
	return func(watcher *Watcher) {
		if debounce > 0 {
			watcher.debounce = debounce
		}
	}
}

// NewWatcher returns a Watcher over the store's directory.
func NewWatcher(store *Store, options ...WatcherOption) *Watcher {
	watcher := &Watcher{
		store:    store,
		debounce: defaultWatchDebounce,
		known:    map[string]ledger.DocumentName{},
		lastSeen: map[ledger.DocumentName]fingerprint{},
		pending:  map[ledger.DocumentName]time.Time{},
	}
	for _, name := range ledger.KnownDocuments() {
		watcher.known[name.FileName()] = name
	}
	for _, option := range options {
		if option != nil {
			option(watcher)
		}
	}
	return watcher
}

// Run watches until ctx is done, calling handle for every external change.
func (watcher *Watcher) Run(ctx context.Context, handle func(ChangeEvent)) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()
	if err := notifier.Add(watcher.store.Dir()); err != nil {
		return err
	}
	for _, name := range watcher.known {
		watcher.lastSeen[name] = watcher.stat(name)
	}

	ticker := time.NewTicker(watcher.debounce / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			name, known := watcher.known[filepath.Base(event.Name)]
			if !known || event.Op == fsnotify.Chmod {
				continue
			}
			watcher.pending[name] = time.Now()
		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			watcher.store.logger.Warn("document watcher error", zap.Error(err))
		case now := <-ticker.C:
			watcher.flush(now, handle)
		}
	}
}

func (watcher *Watcher) flush(now time.Time, handle func(ChangeEvent)) {
	for name, lastEvent := range watcher.pending {
		if now.Sub(lastEvent) < watcher.debounce {
			continue
		}
		delete(watcher.pending, name)
		current := watcher.stat(name)
		if current == watcher.lastSeen[name] {
			continue
		}
		watcher.lastSeen[name] = current
		if current.present && watcher.store.isOwnWrite(name, current) {
			continue
		}
		handle(ChangeEvent{Document: name, At: now.UTC(), Removed: !current.present})
	}
}

func (watcher *Watcher) stat(name ledger.DocumentName) fingerprint {
	info, err := os.Stat(watcher.store.Path(name))
	if err != nil {
		return fingerprint{}
	}
	return fingerprintOf(info)
}

func (store *Store) isOwnWrite(name ledger.DocumentName, current fingerprint) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.fingerprints[name] == current
}
