package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/brainbrew/internal/storage"
)

// Change kinds passed to EventCallback.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventCallback is called after the watcher changes the index.
type EventCallback func(kind string, path string)

const reconcileDelay = 200 * time.Millisecond

// Watcher keeps the index in step with edits made to the vault outside the
// application.
type Watcher struct {
	db     NoteIndex
	store  storage.Provider
	root   string
	logger *slog.Logger
	cb     EventCallback
}

// NewWatcher prepares a watcher over the vault at root. cb may be nil.
func NewWatcher(db NoteIndex, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) *Watcher {
	if cb == nil {
		cb = func(string, string) {}
	}
	return &Watcher{db: db, store: store, root: root, logger: logger, cb: cb}
}

// Run watches the vault until ctx is cancelled. Directories created later are
// picked up. fsnotify reports only the old name of a rename, so renames drop
// the old entry at once and schedule a short reconcile pass to find the new
// one.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("watcher: started", slog.String("root", w.root))

	reconcile := time.NewTimer(reconcileDelay)
	reconcile.Stop()
	defer reconcile.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher: stopped")
			return nil

		case <-reconcile.C:
			w.reconcile()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !storage.SkipDir(w.root, ev.Name) {
						w.watchNewDir(fw, ev.Name)
					}
					continue
				}
			}
			if !storage.IsNote(ev.Name) {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if w.handle(ev.Op, rel) {
				reconcile.Reset(reconcileDelay)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// handle applies one file event and reports whether a reconcile is needed.
func (w *Watcher) handle(op fsnotify.Op, rel string) bool {
	switch {
	case op&(fsnotify.Create|fsnotify.Write) != 0:
		kind := EventUpdated
		if op&fsnotify.Create != 0 {
			kind = EventCreated
		}
		w.index(rel, kind)

	case op&fsnotify.Remove != 0:
		w.remove(rel)

	case op&fsnotify.Rename != 0:
		w.remove(rel)
		return true
	}
	return false
}

func (w *Watcher) index(rel, kind string) bool {
	data, err := w.store.Read(rel)
	if err != nil {
		w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return false
	}
	if err := IndexFile(w.db, rel, data, time.Now()); err != nil {
		w.logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", err.Error()))
		return false
	}
	w.logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
	w.cb(kind, rel)
	return true
}

func (w *Watcher) remove(rel string) {
	if err := w.db.DeleteNote(rel); err != nil {
		w.logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("watcher: deleted", slog.String("path", rel))
	w.cb(EventDeleted, rel)
}

// reconcile drops index entries whose files are gone and indexes files the
// index has not seen.
func (w *Watcher) reconcile() {
	checksums, err := w.db.AllChecksums()
	if err != nil {
		w.logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := w.store.List("")
	if err != nil {
		w.logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			w.remove(p)
		}
	}
	for p, cs := range disk {
		if checksums[p] != cs {
			w.index(p, EventCreated)
		}
	}
}

// watchNewDir starts watching dir and indexes notes already inside it.
func (w *Watcher) watchNewDir(fw *fsnotify.Watcher, dir string) {
	if err := w.addDirsRecursive(fw, dir); err != nil {
		w.logger.Warn("watcher: add new dir failed", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("watcher: watching new dir", slog.String("path", dir))
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if storage.SkipDir(w.root, p) {
				return filepath.SkipDir
			}
			return nil
		}
		if !storage.IsNote(p) {
			return nil
		}
		if rel, err := filepath.Rel(w.root, p); err == nil {
			w.index(filepath.ToSlash(rel), EventCreated)
		}
		return nil
	})
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if storage.SkipDir(w.root, path) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
