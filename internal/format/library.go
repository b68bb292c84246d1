package format

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Library holds named compiled formats loaded from a directory of JSON
// descriptor files. The file name without extension is the format name.
// Thread-safe for concurrent use.
type Library struct {
	dir     string
	mu      sync.RWMutex
	formats map[string]Format
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewLibrary loads every descriptor in dir. Files that fail to compile are
// skipped with a log message so one bad descriptor does not take down the
// rest of the library.
func NewLibrary(dir string) (*Library, error) {
	lib := &Library{
		dir:     dir,
		formats: make(map[string]Format),
	}
	if err := lib.reload(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Get returns the compiled format for a name.
func (l *Library) Get(name string) (Format, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	f, ok := l.formats[name]
	return f, ok
}

// Names returns the loaded format names.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.formats))
	for name := range l.formats {
		names = append(names, name)
	}
	return names
}

// reload re-reads every descriptor file in the library directory.
func (l *Library) reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read format directory: %w", err)
	}

	formats := make(map[string]Format)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[FormatLibrary] Failed to read %s: %v", path, err)
			continue
		}

		desc, err := Parse(raw)
		if err != nil {
			log.Printf("[FormatLibrary] Failed to parse %s: %v", path, err)
			continue
		}

		compiled, err := Compile(desc)
		if err != nil {
			log.Printf("[FormatLibrary] Failed to compile %s: %v", path, err)
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		formats[name] = compiled
	}

	l.mu.Lock()
	l.formats = formats
	l.mu.Unlock()
	return nil
}

// Watch starts watching the library directory and reloads the formats when
// a descriptor file changes. Call Close to stop watching.
func (l *Library) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create format watcher: %w", err)
	}

	if err := watcher.Add(l.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch format directory: %w", err)
	}

	l.watcher = watcher
	l.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					if err := l.reload(); err != nil {
						log.Printf("[FormatLibrary] Reload failed: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[FormatLibrary] Watcher error: %v", err)
			case <-l.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the directory watcher if one is running.
func (l *Library) Close() error {
	if l.watcher == nil {
		return nil
	}
	close(l.done)
	err := l.watcher.Close()
	l.watcher = nil
	return err
}
