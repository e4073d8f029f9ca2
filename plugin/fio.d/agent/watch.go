// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchConfig notifies changed on every create, write, remove or rename
// of a '*.conf' file in the config dirs. Notifications are coalesced.
func (a *Agent) watchConfig(ctx context.Context, changed chan<- struct{}) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		a.Warningf("config watcher: %v", err)
		return
	}
	defer func() { _ = w.Close() }()

	var watched int
	for _, dir := range a.ConfDir {
		if err := w.Add(dir); err != nil {
			a.Debugf("config watcher: skip '%s': %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return
	}

	const ops = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".conf" || ev.Op&ops == 0 {
				continue
			}
			a.Debugf("config watcher: %s", ev)
			select {
			case changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.Warningf("config watcher: %v", err)
		}
	}
}
