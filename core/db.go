// Package core keeps benchmark results across sessions. Every session is a
// Run; each run holds one tally per benchmark name.
package core

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tallybench/stats"
	"tallybench/storage"
)

type DB struct {
	store  *BackingStore
	mds    storage.MetadataStore
	logger *zap.Logger
	runs   map[int64]*Run
	lastID int64
	closed bool
	mu     sync.RWMutex
}

// HistoryEntry is one run's tally for a benchmark.
type HistoryEntry struct {
	Run   RunInfo
	Tally stats.Tally
}

// New opens the badger store described by config and loads the runs already
// stored there.
func New(config *StoreConfig) (*DB, error) {
	if config == nil {
		config = TestStoreConfig()
	}
	badgerDb, err := storage.OpenBadger(config.Path, config.InMemory, config.logger())
	if err != nil {
		return nil, err
	}
	db, err := NewWithStores(
		storage.NewBadgerBackend(badgerDb),
		storage.NewBadgerMetadataStore(badgerDb),
		config)
	if err != nil {
		return nil, multierr.Append(err, badgerDb.Close())
	}
	return db, nil
}

// Open is New with the default configuration for the directory at path.
func Open(path string) (*DB, error) {
	return New(DefaultStoreConfig(path))
}

// NewWithStores builds a DB on caller supplied stores. Closing the DB closes
// the backend.
func NewWithStores(
	backend storage.Backend,
	mds storage.MetadataStore,
	config *StoreConfig) (*DB, error) {

	if config == nil {
		config = TestStoreConfig()
	}
	store, err := NewBackingStore(backend, config.CacheEnabled, config.cacheMaxCost())
	if err != nil {
		return nil, err
	}
	db := &DB{
		store:  store,
		mds:    mds,
		logger: config.logger(),
		runs:   make(map[int64]*Run),
	}
	if err := db.readRuns(); err != nil {
		return nil, multierr.Append(err, store.Close())
	}
	return db, nil
}

func (db *DB) readRuns() error {
	ids, err := db.mds.RunIDs()
	if err != nil {
		return ewrap.Wrap(err, "list runs")
	}
	for _, id := range ids {
		buf, err := db.mds.GetRun(id)
		if err != nil {
			return err
		}
		info, err := DeserializeRunInfo(buf)
		if err != nil {
			return ewrap.Wrapf(err, "run %d", id)
		}
		info.ID = id
		db.runs[id] = &Run{info: info, db: db}
		db.lastID = max(db.lastID, id)
	}
	db.logger.Debug("loaded runs", zap.Int("count", len(ids)))
	return nil
}

// whileOpen runs fn under the read lock, so Close waits for it to finish.
func (db *DB) whileOpen(fn func() error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return ErrClosed
	}
	return fn()
}

// nextID returns an ID derived from the wall clock and above every ID handed
// out so far. Callers record it in lastID once the run is stored.
func (db *DB) nextID(now time.Time) int64 {
	return max(now.UnixNano(), db.lastID+1)
}

// NewRun stores info under a fresh run ID. A zero Started is set to now.
func (db *DB) NewRun(info RunInfo) (*Run, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, ErrClosed
	}

	now := time.Now()
	if info.Started.IsZero() {
		info.Started = now
	}
	info.ID = db.nextID(now)

	buf, err := info.Serialize()
	if err != nil {
		return nil, err
	}
	if err := db.mds.PutRun(info.ID, buf); err != nil {
		return nil, ewrap.Wrapf(err, "store run %d", info.ID)
	}
	db.lastID = info.ID

	run := &Run{info: info, db: db}
	db.runs[info.ID] = run
	db.logger.Info("created run",
		zap.Int64("run", info.ID),
		zap.String("description", info.Description))
	return run, nil
}

func (db *DB) GetRun(id int64) (*Run, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, ErrClosed
	}
	run, ok := db.runs[id]
	if !ok {
		return nil, ewrap.Wrapf(ErrRunNotFound, "run %d", id)
	}
	return run, nil
}

// Runs returns all runs ordered by ID, oldest first.
func (db *DB) Runs() []*Run {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sortedRuns()
}

func (db *DB) sortedRuns() []*Run {
	ids := make([]int64, 0, len(db.runs))
	for id := range db.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	runs := make([]*Run, 0, len(ids))
	for _, id := range ids {
		runs = append(runs, db.runs[id])
	}
	return runs
}

// History returns the tally recorded under name in every run that has one,
// oldest run first.
func (db *DB) History(name string) ([]HistoryEntry, error) {
	history := make([]HistoryEntry, 0)
	err := db.whileOpen(func() error {
		for _, run := range db.sortedRuns() {
			tally, err := db.store.Get(run.ID(), name)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			history = append(history, HistoryEntry{Run: run.Info(), Tally: tally})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// Pooled merges every stored tally of name into one.
func (db *DB) Pooled(name string) (stats.Tally, error) {
	history, err := db.History(name)
	if err != nil {
		return stats.NewTally(), err
	}
	pooled := stats.NewTally()
	for _, entry := range history {
		pooled = pooled.Merge(entry.Tally)
	}
	return pooled, nil
}

func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	err := db.store.Close()
	db.logger.Info("closed database", zap.Int("runs", len(db.runs)), zap.Error(err))
	return err
}
