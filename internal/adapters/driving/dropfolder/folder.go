// Package dropfolder uploads files as they appear in a watched directory.
// It is the terminal counterpart of dragging a file onto the upload form.
package dropfolder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is uploaded.
const DefaultSettle = 500 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("dropfolder: closed")

// Result reports one upload attempt.
type Result struct {
	Path string
	Err  error
}

// Folder watches a directory and uploads every accepted file written to it.
// A file is uploaded once; a failed upload is retried on its next write.
type Folder struct {
	dir        string
	collection string
	uploads    driving.UploadService
	settle     time.Duration

	mu       sync.Mutex
	closed   bool
	watcher  *fsnotify.Watcher
	uploaded map[string]bool
	timers   map[string]*time.Timer
}

// New creates a drop folder over dir that uploads into collection.
func New(dir, collection string, uploads driving.UploadService) *Folder {
	return &Folder{
		dir:        dir,
		collection: collection,
		uploads:    uploads,
		settle:     DefaultSettle,
		uploaded:   make(map[string]bool),
		timers:     make(map[string]*time.Timer),
	}
}

// WithSettle overrides the quiet period before a file is uploaded.
func (f *Folder) WithSettle(d time.Duration) *Folder {
	f.settle = d
	return f
}

// Dir returns the watched directory.
func (f *Folder) Dir() string {
	return f.dir
}

// Watch starts watching. Results are delivered until ctx is cancelled,
// after which the channel is closed.
func (f *Folder) Watch(ctx context.Context) (<-chan Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	info, err := os.Stat(f.dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir: %s is not a directory", f.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", f.dir, err)
	}
	f.watcher = watcher

	results := make(chan Result)
	ready := make(chan string)
	go f.loop(ctx, watcher, ready, results)

	logger.Debug("Watching %s for uploads to %q", f.dir, f.collection)
	return results, nil
}

func (f *Folder) loop(ctx context.Context, watcher *fsnotify.Watcher, ready chan string, results chan<- Result) {
	done := make(chan struct{})
	defer close(results)
	defer close(done)
	defer f.stopTimers()

	for {
		select {
		case <-ctx.Done():
			watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if path := f.handleFsEvent(event); path != "" {
				f.schedule(path, ready, done)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)

		case path := <-ready:
			if f.isUploaded(path) {
				continue
			}
			result := f.upload(ctx, path)
			select {
			case results <- result:
			case <-ctx.Done():
				watcher.Close()
				return
			}
		}
	}
}

// handleFsEvent returns the path to upload for event, or "" to ignore it.
func (f *Folder) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return ""
	}
	if _, ok := domain.KindOf(name); !ok {
		return ""
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}

	if f.isUploaded(event.Name) {
		return ""
	}
	return event.Name
}

func (f *Folder) isUploaded(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploaded[path]
}

// schedule uploads path once it has been quiet for the settle period.
// Further writes push the upload back.
func (f *Folder) schedule(path string, ready chan<- string, done <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.timers[path]; ok {
		t.Reset(f.settle)
		return
	}
	f.timers[path] = time.AfterFunc(f.settle, func() {
		select {
		case ready <- path:
		case <-done:
		}
	})
}

func (f *Folder) upload(ctx context.Context, path string) Result {
	f.mu.Lock()
	delete(f.timers, path)
	f.mu.Unlock()

	err := f.uploads.UploadFile(ctx, path, f.collection)
	if err == nil {
		f.mu.Lock()
		f.uploaded[path] = true
		f.mu.Unlock()
	}
	return Result{Path: path, Err: err}
}

func (f *Folder) stopTimers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for path, t := range f.timers {
		t.Stop()
		delete(f.timers, path)
	}
}

// Close stops watching. It is safe to call more than once.
func (f *Folder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}
