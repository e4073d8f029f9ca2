// SPDX-License-Identifier: GPL-3.0-or-later

package filelock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_Lock(t *testing.T) {
	tests := map[string]func(t *testing.T, dir string){
		"acquire a lock": func(t *testing.T, dir string) {
			l := New(dir)

			ok, err := l.Lock("fio_status_local")
			assert.True(t, ok)
			assert.NoError(t, err)
		},
		"acquire the same lock twice": func(t *testing.T, dir string) {
			l := New(dir)

			ok, err := l.Lock("fio_status_local")
			require.True(t, ok)
			require.NoError(t, err)

			ok, err = l.Lock("fio_status_local")
			assert.True(t, ok)
			assert.NoError(t, err)
		},
		"lock held by another locker": func(t *testing.T, dir string) {
			l1 := New(dir)
			l2 := New(dir)

			ok, err := l1.Lock("fio_status_local")
			require.True(t, ok)
			require.NoError(t, err)

			ok, err = l2.Lock("fio_status_local")
			assert.False(t, ok)
			assert.NoError(t, err)
		},
		"lock released by unlock": func(t *testing.T, dir string) {
			l1 := New(dir)
			l2 := New(dir)

			ok, err := l1.Lock("fio_status_local")
			require.True(t, ok)
			require.NoError(t, err)

			l1.Unlock("fio_status_local")

			ok, err = l2.Lock("fio_status_local")
			assert.True(t, ok)
			assert.NoError(t, err)
		},
		"directory does not exist": func(t *testing.T, dir string) {
			l := New(filepath.Join(dir, "missing"))

			ok, err := l.Lock("fio_status_local")
			assert.False(t, ok)
			assert.Error(t, err)
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			test(t, dir)
		})
	}
}

func TestLocker_UnlockAll(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	for _, name := range []string{"a", "b"} {
		ok, err := l.Lock(name)
		require.True(t, ok)
		require.NoError(t, err)
	}

	l.UnlockAll()

	assert.Empty(t, l.locks)
}
