package storage

import (
	"bytes"
	"slices"
	"sync"

	"github.com/hyp3rd/ewrap"
)

// MetadataStore keeps one encoded run description per run ID.
type MetadataStore interface {
	PutRun(runID int64, buf []byte) error
	GetRun(runID int64) ([]byte, error)

	// RunIDs returns every stored run ID in ascending order.
	RunIDs() ([]int64, error)
}

type SimpleMetadataStore struct {
	runs  map[int64][]byte
	mutex sync.Mutex
}

func NewSimpleMetadataStore() *SimpleMetadataStore {
	return &SimpleMetadataStore{
		runs: make(map[int64][]byte),
	}
}

func (smm *SimpleMetadataStore) PutRun(id int64, buf []byte) error {
	smm.mutex.Lock()
	defer smm.mutex.Unlock()
	smm.runs[id] = bytes.Clone(buf)
	return nil
}

func (smm *SimpleMetadataStore) GetRun(id int64) ([]byte, error) {
	smm.mutex.Lock()
	defer smm.mutex.Unlock()
	buf, ok := smm.runs[id]
	if !ok {
		return nil, ewrap.Wrapf(ErrNotFound, "run %d", id)
	}
	return bytes.Clone(buf), nil
}

func (smm *SimpleMetadataStore) RunIDs() ([]int64, error) {
	smm.mutex.Lock()
	defer smm.mutex.Unlock()
	ids := make([]int64, 0, len(smm.runs))
	for id := range smm.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
