package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// WatchCatalog watches a catalog file and invokes onReload with the
// freshly decoded catalog whenever the file changes. A change that fails
// to decode is logged and skipped; the previous catalog stays in effect.
// The call blocks until ctx is done.
//
// The containing directory is watched rather than the file itself, so
// editors that replace the file on save keep triggering reloads.
func WatchCatalog(ctx context.Context, path string, log *zap.Logger, onReload func(*Catalog)) error {
	if log == nil {
		log = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create catalog watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch catalog directory %s", dir)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			catalog, err := LoadCatalog(path)
			if err != nil {
				log.Warn("catalog reload failed, keeping previous catalog",
					zap.String("path", path),
					zap.Error(err))
				continue
			}
			log.Info("catalog reloaded",
				zap.String("path", path),
				zap.Int("watches", len(catalog.Watches)))
			onReload(catalog)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
