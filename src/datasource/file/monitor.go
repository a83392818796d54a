// monitor.go
package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor watches a drop folder for new dataset files (.csv or .xlsx)
// and hands each fresh write to a handler.
type FileMonitor struct {
	watchDir string
	watcher  *fsnotify.Watcher
	lastFile string
	lastMod  time.Time
	mu       sync.Mutex
}

func NewFileMonitor(dir string) (*FileMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &FileMonitor{
		watchDir: dir,
		watcher:  watcher,
	}, nil
}

func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}

// Watch blocks, invoking handler with the path of every newly written
// dataset file. Returns when the watcher is closed.
func (m *FileMonitor) Watch(handler func(string)) error {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}
			if !isDatasetFile(event.Name) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			m.mu.Lock()
			if info.ModTime().After(m.lastMod) {
				m.lastMod = info.ModTime()
				m.lastFile = event.Name
				go handler(event.Name)
			}
			m.mu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func isDatasetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
