// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
)

// Iterator - lazy ordered traversal over one column
//
// same discipline as a LevelDB iterator: the slices returned by Key and
// Value are only valid until the next call to Next; copy them if they
// must be preserved; Release must be called exactly once and Error
// checked afterwards
//
// an iterator is a fresh independent sequence; it is not restartable
// and must not be used after its store is finalised
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Store - the capability set every backend must provide
//
// implementations: LevelDBStore (leaf engine), ColdStore (archival
// tier), SplitStore (hot/cold router), MemoryStore (reference)
//
// a store is safe for concurrent use; Write calls are atomic with
// respect to each other, but an iterator running concurrently with a
// Write may or may not observe its effects depending on the backend
type Store interface {

	// GetRawBytes - exactly the physically stored value
	//
	// no refcount interpretation: on a refcounted column the count
	// suffix stays attached and entries with a non-positive count are
	// returned as existing; absence is nil, nil - never an error
	GetRawBytes(col Column, key []byte) ([]byte, error)

	// GetWithRCStripped - value of a refcounted column with the count
	// suffix removed
	//
	// nil when the key is absent or its count is not positive;
	// fatal on a non refcounted column
	GetWithRCStripped(col Column, key []byte) ([]byte, error)

	// Iter - all live entries of a column in lexicographic key order
	//
	// refcounted columns: non-positive entries are skipped and
	// payloads are returned pre-stripped
	Iter(col Column) Iterator

	// IterPrefix - like Iter restricted to keys with the given prefix
	//
	// positions by seek, never by scanning the whole column
	IterPrefix(col Column, prefix []byte) Iterator

	// IterRange - like Iter restricted to [lower, upper)
	//
	// a nil lower starts at the first key, a nil upper runs to the end
	IterRange(col Column, lower []byte, upper []byte) Iterator

	// IterRawBytes - every physical entry, unstripped, including
	// non-positive refcount entries; only for migration and
	// inspection tooling
	IterRawBytes(col Column) Iterator

	// Write - apply all operations of the transaction atomically
	//
	// on failure no partial effect is observable by later reads
	Write(trx *Transaction) error

	// Flush - force buffered state to durable storage
	Flush() error

	// Compact - reclaim space from dead entries, blocking while the
	// backend supports it, otherwise a no-op
	Compact() error

	// Statistics - best effort introspection, nil when untracked
	Statistics() *StoreStatistics
}

// StatsValue - one typed statistics value
type StatsValue interface {
	isStatsValue()
}

// Count - a plain counter value
type Count int64

// Sum - an accumulated total
type Sum int64

// Percentile - value at a percentile rank
type Percentile struct {
	Rank  uint32
	Value float64
}

// ColumnValue - a per column value
type ColumnValue struct {
	Column Column
	Value  int64
}

func (Count) isStatsValue()       {}
func (Sum) isStatsValue()         {}
func (Percentile) isStatsValue()  {}
func (ColumnValue) isStatsValue() {}

// StatsEntry - one named metric with its values
type StatsEntry struct {
	Name   string
	Values []StatsValue
}

// StoreStatistics - the exported statistics of a store
type StoreStatistics struct {
	Data []StatsEntry
}

// shared implementation of Store.GetWithRCStripped
//
// the one read-side rule that makes refcounted columns look like plain
// presence/absence maps: decode, drop dead entries, strip the suffix
func getWithRCStripped(s Store, col Column, key []byte) ([]byte, error) {
	if !col.IsRC() {
		logger.Panicf("storage: refcount stripped read on non refcounted column: %s", col)
	}
	raw, err := s.GetRawBytes(col, key)
	if nil != err {
		return nil, err
	}
	if nil == raw {
		return nil, nil
	}
	return StripRefcount(raw), nil
}
