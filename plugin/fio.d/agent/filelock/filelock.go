// SPDX-License-Identifier: GPL-3.0-or-later

package filelock

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Locker keeps one exclusive lock file per job, so two plugin processes
// never poll the same controller for the same job.
type Locker struct {
	dir   string
	locks map[string]*flock.Flock
}

func New(dir string) *Locker {
	return &Locker{
		dir:   dir,
		locks: make(map[string]*flock.Flock),
	}
}

// Lock acquires the lock for name. It returns false without an error
// when another process holds it.
func (l *Locker) Lock(name string) (bool, error) {
	filename := l.filename(name)

	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	fl := flock.New(filename)

	ok, err := fl.TryLock()
	if err != nil {
		_ = fl.Close()
		return false, fmt.Errorf("lock '%s': %v", filename, err)
	}
	if !ok {
		_ = fl.Close()
		return false, nil
	}

	l.locks[filename] = fl

	return true, nil
}

func (l *Locker) Unlock(name string) {
	filename := l.filename(name)

	if fl, ok := l.locks[filename]; ok {
		delete(l.locks, filename)
		_ = fl.Close()
	}
}

func (l *Locker) UnlockAll() {
	for filename, fl := range l.locks {
		delete(l.locks, filename)
		_ = fl.Close()
	}
}

func (l *Locker) filename(name string) string {
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return filepath.Join(l.dir, name+".job.lock")
}
