package core

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/hyp3rd/ewrap"

	"tallybench/stats"
	"tallybench/storage"
)

// BackingStore persists tallies in their text form and keeps decoded copies
// in a ristretto cache.
type BackingStore struct {
	backend      storage.Backend
	cacheEnabled bool
	tallyCache   *ristretto.Cache[string, stats.Tally]
}

func NewBackingStore(backend storage.Backend, cacheEnabled bool, maxCost int64) (*BackingStore, error) {
	store := &BackingStore{
		backend:      backend,
		cacheEnabled: cacheEnabled,
	}
	if !cacheEnabled {
		return store, nil
	}

	tallyCache, err := ristretto.NewCache(&ristretto.Config[string, stats.Tally]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, ewrap.Wrap(err, "create tally cache")
	}
	store.tallyCache = tallyCache
	return store, nil
}

func cacheKey(runID int64, name string) string {
	return string(storage.GetKey(runID, name))
}

func (store *BackingStore) Get(runID int64, name string) (stats.Tally, error) {
	if store.cacheEnabled {
		tally, found := store.tallyCache.Get(cacheKey(runID, name))
		if found {
			return tally, nil
		}
	}
	buf, err := store.backend.Get(runID, name)
	if err != nil {
		return stats.NewTally(), err
	}
	tally, err := stats.ParseTally(string(buf))
	if err != nil {
		return stats.NewTally(), ewrap.Wrapf(err, "run %d benchmark %q", runID, name)
	}
	if store.cacheEnabled {
		store.tallyCache.Set(cacheKey(runID, name), tally, 1)
	}
	return tally, nil
}

func (store *BackingStore) Put(runID int64, name string, tally stats.Tally) error {
	buf, err := tally.MarshalText()
	if err != nil {
		return err
	}
	if err := store.backend.Put(runID, name, buf); err != nil {
		return err
	}
	if store.cacheEnabled {
		store.tallyCache.Set(cacheKey(runID, name), tally, 1)
	}
	return nil
}

func (store *BackingStore) Delete(runID int64, name string) error {
	if store.cacheEnabled {
		store.tallyCache.Del(cacheKey(runID, name))
	}
	return store.backend.Delete(runID, name)
}

// Iterate decodes every tally of runID in name order.
func (store *BackingStore) Iterate(runID int64, lambda func(name string, tally stats.Tally) error) error {
	return store.backend.IterateRun(runID, func(name string, buf []byte) error {
		var tally stats.Tally
		if err := tally.UnmarshalText(buf); err != nil {
			return ewrap.Wrapf(err, "run %d benchmark %q", runID, name)
		}
		return lambda(name, tally)
	})
}

// Wait blocks until pending cache writes are visible.
func (store *BackingStore) Wait() {
	if store.cacheEnabled {
		store.tallyCache.Wait()
	}
}

func (store *BackingStore) Close() error {
	if store.cacheEnabled {
		store.tallyCache.Close()
	}
	return store.backend.Close()
}
