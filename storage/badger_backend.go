package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"
)

// badgerLogger routes badger's own logging through zap.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// OpenBadger opens the badger database at path, or a purely in-memory one
// when inMemory is set (path is then ignored).
func OpenBadger(path string, inMemory bool, logger *zap.Logger) (*badger.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if inMemory {
		path = ""
	}
	option := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(badgerLogger{sugar: logger.Named("badger").Sugar()})
	db, err := badger.Open(option)
	if err != nil {
		return nil, ewrap.Wrapf(err, "open badger at %q", path)
	}
	return db, nil
}

type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}

func txnGet(db *badger.DB, key []byte) ([]byte, error) {
	var buf []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return buf, err
}

func txnPut(db *badger.DB, key, buf []byte) error {
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

func (backend *BadgerBackend) Get(runID int64, name string) ([]byte, error) {
	buf, err := txnGet(backend.db, GetKey(runID, name))
	if errors.Is(err, ErrNotFound) {
		return nil, ewrap.Wrapf(ErrNotFound, "run %d benchmark %q", runID, name)
	}
	return buf, err
}

func (backend *BadgerBackend) Put(runID int64, name string, buf []byte) error {
	return txnPut(backend.db, GetKey(runID, name), buf)
}

func (backend *BadgerBackend) Delete(runID int64, name string) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(GetKey(runID, name))
	})
}

func (backend *BadgerBackend) IterateRun(runID int64, lambda func(string, []byte) error) error {
	prefix := GetRunPrefix(TallyPrefix, runID)
	return backend.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			item := iter.Item()
			buf, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := lambda(GetNameFromKey(item.Key()), buf); err != nil {
				return err
			}
		}
		return nil
	})
}
