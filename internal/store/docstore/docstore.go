package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"go.uber.org/zap"
)

const (
	errorOperationStore   = "store"
	errorCodeRead         = "read"
	errorCodeNormalize    = "normalize"
	errorCodeEncode       = "encode"
	errorCodeWrite        = "write"
	errorCodeLock         = "lock"
	errorCodeQuarantine   = "quarantine"
	errorCodeBackup       = "backup"
	errorCodeCanceled     = "canceled"
	backupStampLayout     = "20060102_150405"
	quarantineStampLayout = "20060102T150405Z"
	defaultLockPoll       = 10 * time.Millisecond
	maxLockPoll           = 250 * time.Millisecond
	documentFileMode      = 0o644
)

// Store implements ledger.Store over one JSON file per document in a directory.
type Store struct {
	dir      string
	logger   *zap.Logger
	nowFn    func() time.Time
	lockPoll time.Duration

	mu           sync.Mutex
	locks        map[ledger.DocumentName]chan struct{}
	fingerprints map[ledger.DocumentName]fingerprint
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for data-loss warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// WithClock sets the clock used for backup and quarantine file names.
func WithClock(now func() time.Time) Option {
	return func(store *Store) {
		if now != nil {
			store.nowFn = now
		}
	}
}

// WithLockPollInterval sets the initial delay between cross-process lock attempts.
func WithLockPollInterval(interval time.Duration) Option {
	return func(store *Store) {
		if interval > 0 {
			store.lockPoll = interval
		}
	}
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string, options ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrapStoreError("directory", errorCodeWrite, err)
	}
	store := &Store{
		dir:          dir,
		logger:       zap.NewNop(),
		nowFn:        time.Now,
		lockPoll:     defaultLockPoll,
		locks:        map[ledger.DocumentName]chan struct{}{},
		fingerprints: map[ledger.DocumentName]fingerprint{},
	}
	for _, option := range options {
		if option != nil {
			option(store)
		}
	}
	return store, nil
}

// Dir returns the data directory.
func (store *Store) Dir() string {
	return store.dir
}

// Path returns the file backing name.
func (store *Store) Path(name ledger.DocumentName) string {
	return filepath.Join(store.dir, name.FileName())
}

// Read loads doc without locking. Absent files yield the empty default and
// corrupt files are logged and treated as empty; Read never writes.
func (store *Store) Read(ctx context.Context, doc ledger.Document) error {
	if err := ctx.Err(); err != nil {
		return canceledError(string(doc.Name()), err)
	}
	return store.load(doc, false)
}

// Update runs mutate between a locked load and an atomic save.
func (store *Store) Update(ctx context.Context, doc ledger.Document, mutate func(ctx context.Context) error) error {
	name := doc.Name()
	if err := ctx.Err(); err != nil {
		return canceledError(string(name), err)
	}
	release, err := store.acquire(ctx, name)
	if err != nil {
		return err
	}
	defer release()

	if err := store.load(doc, true); err != nil {
		return err
	}
	if err := mutate(ctx); err != nil {
		if errors.Is(err, ledger.ErrSkipSave) {
			return nil
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return canceledError(string(name), err)
	}
	return store.save(doc)
}

// Backup copies the current file to <name>_backup_<stamp>.json. A missing
// document has nothing to back up and yields an empty path.
func (store *Store) Backup(ctx context.Context, name ledger.DocumentName) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", canceledError(string(name), err)
	}
	data, err := os.ReadFile(store.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", wrapStoreError(string(name), errorCodeBackup, err)
	}
	backupPath := filepath.Join(store.dir, fmt.Sprintf("%s_backup_%s.json", name, store.nowFn().Format(backupStampLayout)))
	if err := writeAtomically(backupPath, data, nil); err != nil {
		return "", wrapStoreError(string(name), errorCodeBackup, err)
	}
	store.logger.Info("document backed up", zap.String("document", string(name)), zap.String("path", backupPath))
	return backupPath, nil
}

// load fills doc from disk. With quarantine set, corrupt content is moved
// aside before the reset.
func (store *Store) load(doc ledger.Document, quarantine bool) error {
	name := doc.Name()
	doc.Reset()
	data, err := os.ReadFile(store.Path(name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return store.normalize(doc)
	case err != nil:
		return wrapStoreError(string(name), errorCodeRead, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return store.normalize(doc)
	}
	if decodeErr := json.Unmarshal(data, doc); decodeErr != nil {
		doc.Reset()
		fields := []zap.Field{zap.String("document", string(name)), zap.Error(decodeErr)}
		if quarantine {
			quarantinePath, err := store.quarantine(name)
			if err != nil {
				return err
			}
			fields = append(fields, zap.String("quarantine", quarantinePath))
		}
		store.logger.Warn("corrupt document reset to empty default", fields...)
	}
	return store.normalize(doc)
}

func (store *Store) normalize(doc ledger.Document) error {
	if err := doc.Normalize(); err != nil {
		return wrapStoreError(string(doc.Name()), errorCodeNormalize, fmt.Errorf("%w: %w", ledger.ErrCorruptDocument, err))
	}
	return nil
}

func (store *Store) quarantine(name ledger.DocumentName) (string, error) {
	target := store.Path(name) + ".corrupt-" + store.nowFn().UTC().Format(quarantineStampLayout)
	if err := os.Rename(store.Path(name), target); err != nil {
		return "", wrapStoreError(string(name), errorCodeQuarantine, err)
	}
	return target, nil
}

func (store *Store) save(doc ledger.Document) error {
	name := doc.Name()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return wrapStoreError(string(name), errorCodeEncode, err)
	}
	data = append(data, '\n')
	// The fingerprint is recorded before the rename so the watcher never sees
	// this write before it is known.
	err = writeAtomically(store.Path(name), data, func(written fingerprint) {
		store.mu.Lock()
		store.fingerprints[name] = written
		store.mu.Unlock()
	})
	if err != nil {
		return wrapStoreError(string(name), errorCodeWrite, err)
	}
	return nil
}

// acquire takes the in-process and cross-process locks for name. Both waits
// honor ctx.
func (store *Store) acquire(ctx context.Context, name ledger.DocumentName) (func(), error) {
	store.mu.Lock()
	slot, ok := store.locks[name]
	if !ok {
		slot = make(chan struct{}, 1)
		store.locks[name] = slot
	}
	store.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, canceledError(string(name), ctx.Err())
	}

	lockFile, err := os.OpenFile(filepath.Join(store.dir, "."+string(name)+".lock"), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		<-slot
		return nil, wrapStoreError(string(name), errorCodeLock, err)
	}
	if err := store.lockFile(ctx, lockFile); err != nil {
		_ = lockFile.Close()
		<-slot
		return nil, err
	}
	return func() {
		if err := unlockFile(lockFile); err != nil {
			store.logger.Warn("document unlock failed", zap.String("document", string(name)), zap.Error(err))
		}
		_ = lockFile.Close()
		<-slot
	}, nil
}

func (store *Store) lockFile(ctx context.Context, lockFile *os.File) error {
	delay := store.lockPoll
	for {
		locked, err := tryLockFile(lockFile)
		if err != nil {
			return wrapStoreError(filepath.Base(lockFile.Name()), errorCodeLock, err)
		}
		if locked {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return canceledError(filepath.Base(lockFile.Name()), ctx.Err())
		case <-timer.C:
		}
		delay = min(delay*2, maxLockPoll)
	}
}

// writeAtomically writes data to a temp file in the target directory, fsyncs
// it and renames it over path. staged, if set, receives the fingerprint of the
// new content just before the rename.
func writeAtomically(path string, data []byte, staged func(fingerprint)) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tempPath := temp.Name()
	cleanup := func(cause error) error {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return cause
	}
	if _, err := temp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := temp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := temp.Chmod(documentFileMode); err != nil {
		return cleanup(err)
	}
	info, err := temp.Stat()
	if err != nil {
		return cleanup(err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if staged != nil {
		staged(fingerprintOf(info))
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if parent, err := os.Open(dir); err == nil {
		_ = parent.Sync()
		_ = parent.Close()
	}
	return nil
}

// canceledError keeps the context error visible to errors.Is.
func canceledError(subject string, err error) error {
	return ledger.WrapError(errorOperationStore, subject, errorCodeCanceled, err)
}

func wrapStoreError(subject string, code string, err error) error {
	return ledger.WrapError(errorOperationStore, subject, code, fmt.Errorf("%w: %w", ledger.ErrPersistence, err))
}

var _ ledger.Store = (*Store)(nil)
