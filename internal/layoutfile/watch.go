package layoutfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/keypad-popup/internal/keys"
)

// DefaultReloadDelay debounces bursts of writes from editors.
const DefaultReloadDelay = 100 * time.Millisecond

// Reload is the outcome of re-reading a watched layout file. Err is set
// when the file no longer parses or builds a catalog.
type Reload struct {
	File    *File
	Catalog *keys.Catalog
	Err     error
}

// Watcher re-reads a layout file whenever it is written or replaced.
type Watcher struct {
	path     string
	delay    time.Duration
	watcher  *fsnotify.Watcher
	onChange []func(Reload)

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher prepares a watcher for path. A delay <= 0 selects
// DefaultReloadDelay.
func NewWatcher(path string, delay time.Duration) *Watcher {
	if delay <= 0 {
		delay = DefaultReloadDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:   path,
		delay:  delay,
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnChange registers cb for every reload. Register callbacks before Start;
// they run on a timer goroutine.
func (w *Watcher) OnChange(cb func(Reload)) {
	w.onChange = append(w.onChange, cb)
}

// Start watches the directory holding the layout file so that editors
// which save by renaming are seen as well.
func (w *Watcher) Start() error {
	if w.path == "" {
		return errors.New("watch layout: no file to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}
	w.watcher = watcher
	w.done = make(chan struct{})
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(Reload{Err: fmt.Errorf("watch %s: %w", w.path, err)})
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	file, err := Load(w.path)
	if err != nil {
		w.notify(Reload{Err: err})
		return
	}
	catalog, err := file.Catalog()
	if err != nil {
		w.notify(Reload{File: file, Err: fmt.Errorf("%s: %w", file.Source, err)})
		return
	}
	w.notify(Reload{File: file, Catalog: catalog})
}

func (w *Watcher) notify(r Reload) {
	for _, cb := range w.onChange {
		cb(r)
	}
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	<-w.done
	return err
}
