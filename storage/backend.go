package storage

import (
	"bytes"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/hyp3rd/ewrap"
)

// Every key starts with a one byte kind so tallies and run metadata can share
// one keyspace.
const (
	TallyPrefix byte = 't'
	RunPrefix   byte = 'r'
)

const runKeyLength = 9

// GetRunPrefix returns <kind><8-byte big-endian run ID>. Run IDs are
// non-negative, so byte order matches numeric order.
func GetRunPrefix(kind byte, runID int64) []byte {
	buf := make([]byte, runKeyLength)
	buf[0] = kind
	binary.BigEndian.PutUint64(buf[1:], uint64(runID))
	return buf
}

// GetKey returns <TallyPrefix><run ID><benchmark name>.
func GetKey(runID int64, name string) []byte {
	buf := GetRunPrefix(TallyPrefix, runID)
	return append(buf, name...)
}

func GetRunIDFromKey(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf[1:runKeyLength]))
}

func GetNameFromKey(buf []byte) string {
	return string(buf[runKeyLength:])
}

// Backend stores encoded tallies under (run ID, benchmark name).
type Backend interface {
	Get(runID int64, name string) ([]byte, error)
	Put(runID int64, name string, buf []byte) error
	Delete(runID int64, name string) error

	// IterateRun calls lambda for every tally of runID in name order and
	// stops at the first error.
	IterateRun(runID int64, lambda func(name string, buf []byte) error) error

	Close() error
}

type InMemoryBackend struct {
	tallyMap      map[string][]byte
	tallyMapMutex sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		tallyMap: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(runID int64, name string) ([]byte, error) {
	backend.tallyMapMutex.Lock()
	defer backend.tallyMapMutex.Unlock()
	buf, ok := backend.tallyMap[string(GetKey(runID, name))]
	if !ok {
		return nil, ewrap.Wrapf(ErrNotFound, "run %d benchmark %q", runID, name)
	}
	return bytes.Clone(buf), nil
}

func (backend *InMemoryBackend) Put(runID int64, name string, buf []byte) error {
	backend.tallyMapMutex.Lock()
	defer backend.tallyMapMutex.Unlock()
	backend.tallyMap[string(GetKey(runID, name))] = bytes.Clone(buf)
	return nil
}

func (backend *InMemoryBackend) Delete(runID int64, name string) error {
	backend.tallyMapMutex.Lock()
	defer backend.tallyMapMutex.Unlock()
	delete(backend.tallyMap, string(GetKey(runID, name)))
	return nil
}

func (backend *InMemoryBackend) IterateRun(runID int64, lambda func(string, []byte) error) error {
	prefix := string(GetRunPrefix(TallyPrefix, runID))

	backend.tallyMapMutex.Lock()
	keys := make([]string, 0)
	values := make(map[string][]byte)
	for k, v := range backend.tallyMap {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
			values[k] = bytes.Clone(v)
		}
	}
	backend.tallyMapMutex.Unlock()

	sort.Strings(keys)
	for _, k := range keys {
		if err := lambda(GetNameFromKey([]byte(k)), values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.tallyMapMutex.Lock()
	defer backend.tallyMapMutex.Unlock()
	backend.tallyMap = make(map[string][]byte)
	return nil
}
