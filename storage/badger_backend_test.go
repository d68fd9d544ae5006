package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestBadgerBackend(t *testing.T) *BadgerBackend {
	t.Helper()
	db, err := OpenBadger("", true, zaptest.NewLogger(t))
	require.NoError(t, err)
	backend := NewBadgerBackend(db)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestBadgerBackend_IterateRun(t *testing.T) {
	testIterateRun(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_GetPutDelete(t *testing.T) {
	testGetPutDelete(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_OnDisk(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenBadger(dir, false, nil)
	require.NoError(t, err)
	backend := NewBadgerBackend(db)
	require.NoError(t, backend.Put(3, "sequential", []byte("persisted")))
	require.NoError(t, backend.Close())

	db, err = OpenBadger(dir, false, nil)
	require.NoError(t, err)
	backend = NewBadgerBackend(db)
	defer backend.Close()

	buf, err := backend.Get(3, "sequential")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), buf)
}
