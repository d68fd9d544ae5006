package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/hyp3rd/ewrap"
)

type BadgerMetadataStore struct {
	db *badger.DB
}

func NewBadgerMetadataStore(db *badger.DB) *BadgerMetadataStore {
	return &BadgerMetadataStore{db: db}
}

func (bms *BadgerMetadataStore) PutRun(runID int64, buf []byte) error {
	return txnPut(bms.db, GetRunPrefix(RunPrefix, runID), buf)
}

func (bms *BadgerMetadataStore) GetRun(runID int64) ([]byte, error) {
	buf, err := txnGet(bms.db, GetRunPrefix(RunPrefix, runID))
	if errors.Is(err, ErrNotFound) {
		return nil, ewrap.Wrapf(ErrNotFound, "run %d", runID)
	}
	return buf, err
}

func (bms *BadgerMetadataStore) RunIDs() ([]int64, error) {
	ids := make([]int64, 0)
	prefix := []byte{RunPrefix}
	err := bms.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		iterOpts.PrefetchValues = false
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) != runKeyLength {
				continue
			}
			ids = append(ids, GetRunIDFromKey(key))
		}
		return nil
	})
	return ids, err
}
