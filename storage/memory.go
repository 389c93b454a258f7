// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"
)

// MemoryStore - deterministic non-persistent store
//
// used to validate that the persistent backends are observably
// equivalent for the same transaction sequence; it has no I/O failure
// modes and always verifies the write-once invariant
//
// iterators observe a snapshot taken at creation time
type MemoryStore struct {
	sync.RWMutex

	columns [ColumnCount]map[string][]byte
	log     *logger.L
}

// NewMemoryStore - create an empty in-memory store
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		log: logger.New("storage-memory"),
	}
	for i := range s.columns {
		s.columns[i] = make(map[string][]byte)
	}
	return s
}

// GetRawBytes - physically stored value, nil when absent
func (s *MemoryStore) GetRawBytes(col Column, key []byte) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	value, ok := s.columns[col][string(key)]
	if !ok {
		return nil, nil
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// GetWithRCStripped - live payload of a refcounted column entry
func (s *MemoryStore) GetWithRCStripped(col Column, key []byte) ([]byte, error) {
	return getWithRCStripped(s, col, key)
}

// Write - apply a transaction
//
// the lock makes the whole transaction atomic with respect to every
// other access; there is nothing that can fail part way
func (s *MemoryStore) Write(trx *Transaction) error {
	s.Lock()
	defer s.Unlock()

	for _, op := range trx.Operations() {
		column := s.columns[op.Column]
		key := string(op.Key)

		switch op.kind {

		case opSet:
			column[key] = copyBytes(op.Value)

		case opInsert:
			if current, ok := column[key]; ok && !bytes.Equal(current, op.Value) {
				logger.Panicf("write once column: %s overwritten: key: %x", op.Column, op.Key)
			}
			column[key] = copyBytes(op.Value)

		case opUpdateRefcount:
			merged := MergeRefcounts(column[key], op.Value)
			if nil == merged {
				delete(column, key)
			} else {
				column[key] = merged
			}

		case opDelete:
			delete(column, key)

		case opDeleteAll:
			s.columns[op.Column] = make(map[string][]byte)

		case opDeleteRange:
			for k := range column {
				if k >= string(op.Key) && k < string(op.To) {
					delete(column, k)
				}
			}

		default:
			logger.Panicf("invalid operation kind: %d", op.kind)
		}
	}
	return nil
}

// Iter - ordered live entries, refcounts stripped
func (s *MemoryStore) Iter(col Column) Iterator {
	return s.snapshot(col, nil, nil, col.IsRC())
}

// IterPrefix - ordered live entries whose keys start with prefix
func (s *MemoryStore) IterPrefix(col Column, prefix []byte) Iterator {
	upper := prefixUpperBound(prefix)
	return s.snapshot(col, prefix, upper, col.IsRC())
}

// IterRange - ordered live entries in [lower, upper)
func (s *MemoryStore) IterRange(col Column, lower []byte, upper []byte) Iterator {
	return s.snapshot(col, lower, upper, col.IsRC())
}

// IterRawBytes - every physical entry, no refcount interpretation
func (s *MemoryStore) IterRawBytes(col Column) Iterator {
	return s.snapshot(col, nil, nil, false)
}

// Flush - nothing buffered, nothing durable
func (s *MemoryStore) Flush() error {
	return nil
}

// Compact - nothing to reclaim
func (s *MemoryStore) Compact() error {
	return nil
}

// Statistics - not tracked
func (s *MemoryStore) Statistics() *StoreStatistics {
	return nil
}

// ordered copy of the column contents within [lower, upper)
func (s *MemoryStore) snapshot(col Column, lower []byte, upper []byte, strip bool) Iterator {
	s.RLock()
	defer s.RUnlock()

	column := s.columns[col]
	keys := make([]string, 0, len(column))
	for k := range column {
		if nil != lower && k < string(lower) {
			continue
		}
		if nil != upper && k >= string(upper) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]element, 0, len(keys))
	for _, k := range keys {
		value := column[k]
		if strip {
			value = StripRefcount(value)
			if nil == value {
				continue // logically absent
			}
		} else {
			value = copyBytes(value)
		}
		entries = append(entries, element{key: []byte(k), value: value})
	}
	return &sliceIterator{entries: entries}
}

// a materialised key/value pair
type element struct {
	key   []byte
	value []byte
}

// iterator over a materialised entry list
type sliceIterator struct {
	entries []element
	current int
}

func (i *sliceIterator) Next() bool {
	if i.current >= len(i.entries) {
		return false
	}
	i.current += 1
	return i.current <= len(i.entries)
}

func (i *sliceIterator) Key() []byte {
	return i.entries[i.current-1].key
}

func (i *sliceIterator) Value() []byte {
	return i.entries[i.current-1].value
}

func (i *sliceIterator) Release() {
	i.entries = nil
	i.current = 0
}

func (i *sliceIterator) Error() error {
	return nil
}

func copyBytes(value []byte) []byte {
	result := make([]byte, len(value))
	copy(result, value)
	return result
}

// smallest key greater than every key with the given prefix
//
// nil when the prefix is all 0xff bytes, meaning no upper bound
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i -= 1 {
		if upper[i] < 0xff {
			upper[i] += 1
			return upper[:i+1]
		}
	}
	return nil
}
