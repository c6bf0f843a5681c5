package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

// docWatcher follows one document file.
type docWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	fn      func(domain.Fields)

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	// last is the raw content most recently delivered; nil means absent.
	last      []byte
	delivered bool
}

// Watch follows one document through the file system. The collection
// directory is watched rather than the file, so atomic replacements and
// deletions are seen.
func (s *Store) Watch(ctx context.Context, collection, key string, fn func(domain.Fields)) (func(), error) {
	path, err := s.docPath(collection, key)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating collection directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &docWatcher{
		watcher: watcher,
		path:    path,
		fn:      fn,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	s.watchMu.Lock()
	if s.closed {
		s.watchMu.Unlock()
		watcher.Close()
		return nil, domain.ErrStoreClosed
	}
	s.watchers[w] = struct{}{}
	s.watchMu.Unlock()

	go func() {
		w.run(ctx)
		s.watchMu.Lock()
		delete(s.watchers, w)
		s.watchMu.Unlock()
	}()

	return w.stop, nil
}

func (w *docWatcher) stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *docWatcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	// The watch is registered before the first read, so no change is lost.
	w.deliver()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.deliver()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.path, err)
		}
	}
}

// deliver reads the file and hands it to fn unless nothing changed since
// the last delivery. Unparseable content, such as a file caught mid-edit
// by a text editor, is skipped until the next event.
func (w *docWatcher) deliver() {
	fields, raw, err := readDocument(w.path)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fields, raw = nil, nil
	case err != nil:
		logger.Warn("watch %s: %v", w.path, err)
		return
	}

	if w.delivered && sameContent(w.last, raw) {
		return
	}
	w.last = raw
	w.delivered = true
	w.fn(fields)
}
