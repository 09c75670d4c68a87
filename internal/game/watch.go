package game

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/logger"
)

// sceneWatcher reports scene file changes. It never blocks: the frame loop
// polls it between ticks and reloads when it fires.
type sceneWatcher struct {
	w   *fsnotify.Watcher
	log *zap.Logger
}

func newSceneWatcher(dir string) (*sceneWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating scene watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	log := logger.Named("watch")
	log.Info("watching scenes", zap.String("dir", dir))
	return &sceneWatcher{w: w, log: log}, nil
}

// changed drains pending events and returns the base names of scene files
// written, created or renamed since the last call.
func (s *sceneWatcher) changed() []string {
	var names []string
	for {
		select {
		case ev, ok := <-s.w.Events:
			if !ok {
				return names
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".xml") {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(ev.Name)
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		case err, ok := <-s.w.Errors:
			if !ok {
				return names
			}
			s.log.Warn("watcher error", zap.Error(err))
		default:
			return names
		}
	}
}

func (s *sceneWatcher) close() error {
	return s.w.Close()
}
