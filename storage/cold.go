// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
)

// ColdStore - archival tier wrapper around a leaf store
//
// data lands here only at tier migration time and is not expected to
// mutate afterwards; reads pass through unchanged, writes are checked
// and rewritten:
//
//   - only cold eligible columns may be written
//   - deletions are a contract violation, archival data is never
//     removed through this path
//   - refcount updates are normalised to a count of one: the cold tier
//     never garbage collects, so a single ownership reference is all
//     it ever needs to record
type ColdStore struct {
	inner Store
	log   *logger.L
}

// NewColdStore - wrap a leaf store as the archival tier
func NewColdStore(inner Store) *ColdStore {
	return &ColdStore{
		inner: inner,
		log:   logger.New("storage-cold"),
	}
}

// GetRawBytes - physically stored value, nil when absent
func (s *ColdStore) GetRawBytes(col Column, key []byte) ([]byte, error) {
	return s.inner.GetRawBytes(col, key)
}

// GetWithRCStripped - live payload of a refcounted column entry
func (s *ColdStore) GetWithRCStripped(col Column, key []byte) ([]byte, error) {
	return getWithRCStripped(s, col, key)
}

// Write - apply a transaction after rewriting it for archival storage
func (s *ColdStore) Write(trx *Transaction) error {
	cold := NewTransaction()

	for _, op := range trx.Operations() {
		if !op.Column.IsCold() {
			logger.Panicf("write to cold storage of non cold column: %s", op.Column)
		}

		switch op.kind {

		case opSet:
			cold.Set(op.Column, op.Key, op.Value)

		case opInsert:
			cold.Insert(op.Column, op.Key, op.Value)

		case opUpdateRefcount:
			payload, count := DecodeRefcount(op.Value)
			if count <= 0 {
				s.log.Warnf("dropped non-positive refcount delta: column: %s key: %x count: %d", op.Column, op.Key, count)
				continue
			}
			cold.Set(op.Column, op.Key, EncodeRefcount(payload, 1))

		case opDelete, opDeleteAll, opDeleteRange:
			logger.Panicf("attempt to delete from cold storage: column: %s operation: %s", op.Column, op.kind)

		default:
			logger.Panicf("invalid operation kind: %d", op.kind)
		}
	}

	return s.inner.Write(cold)
}

// Iter - ordered live entries, refcounts stripped
func (s *ColdStore) Iter(col Column) Iterator {
	return s.inner.Iter(col)
}

// IterPrefix - ordered live entries whose keys start with prefix
func (s *ColdStore) IterPrefix(col Column, prefix []byte) Iterator {
	return s.inner.IterPrefix(col, prefix)
}

// IterRange - ordered live entries in [lower, upper)
func (s *ColdStore) IterRange(col Column, lower []byte, upper []byte) Iterator {
	return s.inner.IterRange(col, lower, upper)
}

// IterRawBytes - every physical entry, no refcount interpretation
func (s *ColdStore) IterRawBytes(col Column) Iterator {
	return s.inner.IterRawBytes(col)
}

// Flush - forward to the wrapped store
func (s *ColdStore) Flush() error {
	return s.inner.Flush()
}

// Compact - forward to the wrapped store
func (s *ColdStore) Compact() error {
	return s.inner.Compact()
}

// Statistics - forward to the wrapped store
func (s *ColdStore) Statistics() *StoreStatistics {
	return s.inner.Statistics()
}
