// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/bitmark-inc/logger"
)

// SplitStore - hot/cold router presenting one unified store
//
// every column routes to exactly one of: the hot store, the cold
// store, or both ("split": written hot, copied cold by an external
// migration); on a split column the hot tier wins conflicting reads
//
// a Write is atomic per tier: operations routed to one tier go down in
// a single transaction, but hot and cold are separate engines and are
// not committed as one unit
type SplitStore struct {
	hot    Store
	cold   Store
	policy TierPolicy
	cache  Cache
	log    *logger.L
}

// NewSplitStore - combine a hot store and an archival store
func NewSplitStore(hot Store, cold Store, policy TierPolicy) *SplitStore {
	return &SplitStore{
		hot:    hot,
		cold:   cold,
		policy: policy,
		cache:  newCache(),
		log:    logger.New("storage-split"),
	}
}

// GetRawBytes - physically stored value, nil when absent
//
// note that the raw representation of a refcounted entry may differ
// between tiers: the cold tier normalises counts to one
func (s *SplitStore) GetRawBytes(col Column, key []byte) ([]byte, error) {
	switch s.policy.Tier(col) {
	case TierHot:
		return s.hot.GetRawBytes(col, key)
	case TierCold:
		return s.cold.GetRawBytes(col, key)
	default:
		value, err := s.hot.GetRawBytes(col, key)
		if nil != err || nil != value {
			return value, err
		}
		return s.coldRead(col, key)
	}
}

// cold tier read with caching: cold data is written rarely and read
// often, so positive hits are kept in memory for a while
func (s *SplitStore) coldRead(col Column, key []byte) ([]byte, error) {
	cacheKey := string(encodeKey(col, key))
	if value, ok := s.cache.Get(cacheKey); ok {
		return value, nil
	}
	value, err := s.cold.GetRawBytes(col, key)
	if nil != err {
		return nil, err
	}
	if nil != value {
		s.cache.Set(cacheKey, value)
	}
	return value, nil
}

// GetWithRCStripped - live payload of a refcounted column entry
func (s *SplitStore) GetWithRCStripped(col Column, key []byte) ([]byte, error) {
	return getWithRCStripped(s, col, key)
}

// Write - route every operation to the tier owning its column
//
// split columns are written hot; the migration process copies them to
// the cold tier later
func (s *SplitStore) Write(trx *Transaction) error {
	hotTrx := NewTransaction()
	coldTrx := NewTransaction()

	for _, op := range trx.Operations() {
		op := op
		switch s.policy.Tier(op.Column) {
		case TierCold:
			coldTrx.ops = append(coldTrx.ops, op)
		default:
			hotTrx.ops = append(hotTrx.ops, op)
		}
	}

	if len(hotTrx.ops) > 0 {
		if err := s.hot.Write(hotTrx); nil != err {
			return err
		}
	}
	if len(coldTrx.ops) > 0 {
		if err := s.cold.Write(coldTrx); nil != err {
			return err
		}
	}
	return nil
}

// Iter - ordered live entries, refcounts stripped
func (s *SplitStore) Iter(col Column) Iterator {
	switch s.policy.Tier(col) {
	case TierHot:
		return s.hot.Iter(col)
	case TierCold:
		return s.cold.Iter(col)
	default:
		return newMergeIterator(s.hot.Iter(col), s.cold.Iter(col))
	}
}

// IterPrefix - ordered live entries whose keys start with prefix
func (s *SplitStore) IterPrefix(col Column, prefix []byte) Iterator {
	switch s.policy.Tier(col) {
	case TierHot:
		return s.hot.IterPrefix(col, prefix)
	case TierCold:
		return s.cold.IterPrefix(col, prefix)
	default:
		return newMergeIterator(s.hot.IterPrefix(col, prefix), s.cold.IterPrefix(col, prefix))
	}
}

// IterRange - ordered live entries in [lower, upper)
func (s *SplitStore) IterRange(col Column, lower []byte, upper []byte) Iterator {
	switch s.policy.Tier(col) {
	case TierHot:
		return s.hot.IterRange(col, lower, upper)
	case TierCold:
		return s.cold.IterRange(col, lower, upper)
	default:
		return newMergeIterator(s.hot.IterRange(col, lower, upper), s.cold.IterRange(col, lower, upper))
	}
}

// IterRawBytes - every physical entry, no refcount interpretation
func (s *SplitStore) IterRawBytes(col Column) Iterator {
	switch s.policy.Tier(col) {
	case TierHot:
		return s.hot.IterRawBytes(col)
	case TierCold:
		return s.cold.IterRawBytes(col)
	default:
		return newMergeIterator(s.hot.IterRawBytes(col), s.cold.IterRawBytes(col))
	}
}

// Flush - flush both tiers
func (s *SplitStore) Flush() error {
	if err := s.hot.Flush(); nil != err {
		return err
	}
	return s.cold.Flush()
}

// Compact - compact both tiers
func (s *SplitStore) Compact() error {
	if err := s.hot.Compact(); nil != err {
		return err
	}
	return s.cold.Compact()
}

// Statistics - both tiers' entries, names prefixed with the tier
func (s *SplitStore) Statistics() *StoreStatistics {
	hot := s.hot.Statistics()
	cold := s.cold.Statistics()
	if nil == hot && nil == cold {
		return nil
	}

	result := &StoreStatistics{}
	if nil != hot {
		for _, entry := range hot.Data {
			result.Data = append(result.Data, StatsEntry{Name: "hot." + entry.Name, Values: entry.Values})
		}
	}
	if nil != cold {
		for _, entry := range cold.Data {
			result.Data = append(result.Data, StatsEntry{Name: "cold." + entry.Name, Values: entry.Values})
		}
	}
	return result
}

// two way ordered merge of one column from both tiers
//
// hot wins when both sides hold the same key; each underlying iterator
// is advanced only after its head has been consumed, so the slices it
// exposes stay valid exactly as long as the Iterator contract allows
type mergeIterator struct {
	hot       Iterator
	cold      Iterator
	hotValid  bool
	coldValid bool
	started   bool
	stepHot   bool
	stepCold  bool
	useHot    bool
	done      bool
}

func newMergeIterator(hot Iterator, cold Iterator) Iterator {
	return &mergeIterator{
		hot:  hot,
		cold: cold,
	}
}

func (i *mergeIterator) Next() bool {
	if i.done {
		return false
	}

	if !i.started {
		i.started = true
		i.hotValid = i.hot.Next()
		i.coldValid = i.cold.Next()
	} else {
		if i.stepHot {
			i.hotValid = i.hot.Next()
		}
		if i.stepCold {
			i.coldValid = i.cold.Next()
		}
	}
	i.stepHot = false
	i.stepCold = false

	switch {
	case i.hotValid && i.coldValid:
		switch bytes.Compare(i.hot.Key(), i.cold.Key()) {
		case -1:
			i.useHot = true
			i.stepHot = true
		case 1:
			i.useHot = false
			i.stepCold = true
		default:
			// same key in both tiers: hot wins, drop the cold copy
			i.useHot = true
			i.stepHot = true
			i.stepCold = true
		}
		return true

	case i.hotValid:
		i.useHot = true
		i.stepHot = true
		return true

	case i.coldValid:
		i.useHot = false
		i.stepCold = true
		return true

	default:
		i.done = true
		return false
	}
}

func (i *mergeIterator) Key() []byte {
	if i.useHot {
		return i.hot.Key()
	}
	return i.cold.Key()
}

func (i *mergeIterator) Value() []byte {
	if i.useHot {
		return i.hot.Value()
	}
	return i.cold.Value()
}

func (i *mergeIterator) Release() {
	i.hot.Release()
	i.cold.Release()
}

func (i *mergeIterator) Error() error {
	if err := i.hot.Error(); nil != err {
		return err
	}
	return i.cold.Error()
}
