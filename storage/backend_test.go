package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIterateRun(t *testing.T, backend Backend) {
	err := backend.Put(1, "sequential", []byte("a"))
	assert.NoError(t, err)
	err = backend.Put(1, "parallel", []byte("b"))
	assert.NoError(t, err)
	err = backend.Put(2, "sequential", []byte("c"))
	assert.NoError(t, err)
	err = backend.Put(10, "other", []byte("d"))
	assert.NoError(t, err)

	var names []string
	var values []string

	initIndex := func() {
		names = make([]string, 0)
		values = make([]string, 0)
	}

	lambda := func(name string, buf []byte) error {
		names = append(names, name)
		values = append(values, string(buf))
		return nil
	}

	initIndex()
	err = backend.IterateRun(1, lambda)
	assert.NoError(t, err)
	assert.Equal(t, []string{"parallel", "sequential"}, names)
	assert.Equal(t, []string{"b", "a"}, values)

	initIndex()
	err = backend.IterateRun(2, lambda)
	assert.NoError(t, err)
	assert.Equal(t, []string{"sequential"}, names)
	assert.Equal(t, []string{"c"}, values)

	initIndex()
	err = backend.IterateRun(3, lambda)
	assert.NoError(t, err)
	assert.Empty(t, names)

	stop := errors.New("stop")
	calls := 0
	err = backend.IterateRun(1, func(string, []byte) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func testGetPutDelete(t *testing.T, backend Backend) {
	_, err := backend.Get(7, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	buf := []byte("(1,2,2,2,2,0)")
	require.NoError(t, backend.Put(7, "sequential", buf))
	buf[0] = 'x'

	got, err := backend.Get(7, "sequential")
	require.NoError(t, err)
	assert.Equal(t, []byte("(1,2,2,2,2,0)"), got)

	require.NoError(t, backend.Put(7, "sequential", []byte("replaced")))
	got, err = backend.Get(7, "sequential")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got)

	require.NoError(t, backend.Delete(7, "sequential"))
	_, err = backend.Get(7, "sequential")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryBackend_IterateRun(t *testing.T) {
	testIterateRun(t, NewInMemoryBackend())
}

func TestInMemoryBackend_GetPutDelete(t *testing.T) {
	testGetPutDelete(t, NewInMemoryBackend())
}

func TestGetKey(t *testing.T) {
	key := GetKey(1<<40+5, "parallel")

	assert.Equal(t, TallyPrefix, key[0])
	assert.Equal(t, int64(1<<40+5), GetRunIDFromKey(key))
	assert.Equal(t, "parallel", GetNameFromKey(key))
}

func TestGetRunPrefixOrdering(t *testing.T) {
	low := GetRunPrefix(RunPrefix, 255)
	high := GetRunPrefix(RunPrefix, 256)
	assert.Less(t, string(low), string(high))
}
