// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_iterator "github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
)

// database schema version, stored in ColDbVersion
const currentDBVersion = 0x100

var versionKey = []byte("VERSION")

// access modes for NewLevelDBStore
const (
	ReadOnly  = true
	ReadWrite = false
)

// LevelDBStore - leaf store translating transactions to LevelDB batches
type LevelDBStore struct {
	sync.Mutex // serialises Write: refcount merging reads before writing

	db            *leveldb.DB
	verifyInserts bool
	log           *logger.L
}

// NewLevelDBStore - open (or create) a LevelDB database
//
// ensures the stored schema version is not newer than this code and
// tags an empty database with the current version
func NewLevelDBStore(path string, readOnly bool) (*LevelDBStore, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		return nil, err
	}

	s := &LevelDBStore{
		db:  db,
		log: logger.New("storage-leveldb"),
	}

	version, err := s.version()
	if nil != err {
		db.Close()
		return nil, err
	}

	switch {
	case version > currentDBVersion:
		db.Close()
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)

	case 0 == version && !readOnly:
		// database was empty so tag as current version
		tag := make([]byte, 4)
		binary.BigEndian.PutUint32(tag, currentDBVersion)
		err = db.Put(encodeKey(ColDbVersion, versionKey), tag, nil)
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// EnableInsertVerification - read back before every Insert and treat a
// changed value as a fatal contract violation
//
// intended for debug builds and tests; skipped in normal operation to
// avoid one extra read per insert
func (s *LevelDBStore) EnableInsertVerification() {
	s.verifyInserts = true
}

// Close - release the underlying database
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) version() (int, error) {
	value, err := s.db.Get(encodeKey(ColDbVersion, versionKey), nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 4 != len(value) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(value))
	}
	return int(binary.BigEndian.Uint32(value)), nil
}

// prepend the column prefix onto the key
func encodeKey(col Column, key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = col.info().prefix
	return append(prefixedKey, key...)
}

// whole key range of one column
func columnRange(col Column) *ldb_util.Range {
	prefix := col.info().prefix
	limit := []byte(nil)
	if prefix < 255 {
		limit = []byte{prefix + 1}
	}
	return &ldb_util.Range{
		Start: []byte{prefix}, // included in the range
		Limit: limit,          // excluded from the range
	}
}

// GetRawBytes - physically stored value, nil when absent
func (s *LevelDBStore) GetRawBytes(col Column, key []byte) ([]byte, error) {
	value, err := s.db.Get(encodeKey(col, key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	} else if nil != err {
		return nil, err
	}
	return value, nil
}

// GetWithRCStripped - live payload of a refcounted column entry
func (s *LevelDBStore) GetWithRCStripped(col Column, key []byte) ([]byte, error) {
	return getWithRCStripped(s, col, key)
}

// Write - apply a transaction as one atomic LevelDB batch
//
// LevelDB has no merge hook, so refcount deltas are combined here by
// reading the current value first; pending tracks the effect of earlier
// operations of this same transaction so in-batch updates compose
func (s *LevelDBStore) Write(trx *Transaction) error {
	s.Lock()
	defer s.Unlock()

	batch := new(leveldb.Batch)
	pending := make(map[string][]byte) // encoded key -> value, nil = deleted

	for _, op := range trx.Operations() {
		key := encodeKey(op.Column, op.Key)

		switch op.kind {

		case opSet:
			batch.Put(key, op.Value)
			pending[string(key)] = op.Value

		case opInsert:
			if s.verifyInserts {
				current, err := s.currentValue(pending, key)
				if nil != err {
					return err
				}
				if nil != current && !bytes.Equal(current, op.Value) {
					logger.Panicf("write once column: %s overwritten: key: %x", op.Column, op.Key)
				}
			}
			batch.Put(key, op.Value)
			pending[string(key)] = op.Value

		case opUpdateRefcount:
			current, err := s.currentValue(pending, key)
			if nil != err {
				return err
			}
			merged := MergeRefcounts(current, op.Value)
			if nil == merged {
				batch.Delete(key)
				pending[string(key)] = nil
			} else {
				batch.Put(key, merged)
				pending[string(key)] = merged
			}

		case opDelete:
			batch.Delete(key)
			pending[string(key)] = nil

		case opDeleteAll:
			err := s.deleteStored(batch, pending, columnRange(op.Column))
			if nil != err {
				return err
			}

		case opDeleteRange:
			err := s.deleteStored(batch, pending, &ldb_util.Range{
				Start: encodeKey(op.Column, op.Key),
				Limit: encodeKey(op.Column, op.To),
			})
			if nil != err {
				return err
			}

		default:
			logger.Panicf("invalid operation kind: %d", op.kind)
		}
	}

	return s.db.Write(batch, nil)
}

// value a read of key would observe after the batch built so far
func (s *LevelDBStore) currentValue(pending map[string][]byte, key []byte) ([]byte, error) {
	if value, ok := pending[string(key)]; ok {
		return value, nil
	}
	value, err := s.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	} else if nil != err {
		return nil, err
	}
	return value, nil
}

// queue deletion of every key in the range, both keys already stored
// and keys written earlier in this same batch
func (s *LevelDBStore) deleteStored(batch *leveldb.Batch, pending map[string][]byte, r *ldb_util.Range) error {
	it := s.db.NewIterator(r, nil)
	for it.Next() {
		key := it.Key()
		deadKey := make([]byte, len(key))
		copy(deadKey, key)
		batch.Delete(deadKey)
		pending[string(deadKey)] = nil
	}
	it.Release()
	if err := it.Error(); nil != err {
		return err
	}

	for pk, pv := range pending {
		if nil == pv {
			continue
		}
		key := []byte(pk)
		if bytes.Compare(key, r.Start) >= 0 && (nil == r.Limit || bytes.Compare(key, r.Limit) < 0) {
			batch.Delete(key)
			pending[pk] = nil
		}
	}
	return nil
}

// Iter - ordered live entries, refcounts stripped
func (s *LevelDBStore) Iter(col Column) Iterator {
	return &ldbIterator{
		it:    s.db.NewIterator(columnRange(col), nil),
		strip: col.IsRC(),
	}
}

// IterPrefix - ordered live entries whose keys start with prefix
func (s *LevelDBStore) IterPrefix(col Column, prefix []byte) Iterator {
	return &ldbIterator{
		it:    s.db.NewIterator(ldb_util.BytesPrefix(encodeKey(col, prefix)), nil),
		strip: col.IsRC(),
	}
}

// IterRange - ordered live entries in [lower, upper)
func (s *LevelDBStore) IterRange(col Column, lower []byte, upper []byte) Iterator {
	r := columnRange(col)
	if nil != lower {
		r.Start = encodeKey(col, lower)
	}
	if nil != upper {
		r.Limit = encodeKey(col, upper)
	}
	return &ldbIterator{
		it:    s.db.NewIterator(r, nil),
		strip: col.IsRC(),
	}
}

// IterRawBytes - every physical entry, no refcount interpretation
func (s *LevelDBStore) IterRawBytes(col Column) Iterator {
	return &ldbIterator{
		it: s.db.NewIterator(columnRange(col), nil),
	}
}

// Flush - no-op: LevelDB journals every batch before Write returns
func (s *LevelDBStore) Flush() error {
	return nil
}

// Compact - compact the whole key range, blocking until finished
func (s *LevelDBStore) Compact() error {
	return s.db.CompactRange(ldb_util.Range{})
}

// Statistics - translated LevelDB internals plus approximate per
// column sizes
func (s *LevelDBStore) Statistics() *StoreStatistics {
	var stats leveldb.DBStats
	if err := s.db.Stats(&stats); nil != err {
		s.log.Warnf("statistics unavailable: %s", err)
		return nil
	}

	levelSizes := make([]StatsValue, 0, len(stats.LevelSizes))
	for _, size := range stats.LevelSizes {
		levelSizes = append(levelSizes, Sum(size))
	}
	levelTables := make([]StatsValue, 0, len(stats.LevelTablesCounts))
	for _, n := range stats.LevelTablesCounts {
		levelTables = append(levelTables, Count(n))
	}

	result := &StoreStatistics{
		Data: []StatsEntry{
			{Name: "leveldb.write.delays", Values: []StatsValue{Count(stats.WriteDelayCount)}},
			{Name: "leveldb.io.read", Values: []StatsValue{Sum(stats.IORead)}},
			{Name: "leveldb.io.write", Values: []StatsValue{Sum(stats.IOWrite)}},
			{Name: "leveldb.blockcache.size", Values: []StatsValue{Count(stats.BlockCacheSize)}},
			{Name: "leveldb.tables.open", Values: []StatsValue{Count(stats.OpenedTablesCount)}},
			{Name: "leveldb.alive.snapshots", Values: []StatsValue{Count(stats.AliveSnapshots)}},
			{Name: "leveldb.alive.iterators", Values: []StatsValue{Count(stats.AliveIterators)}},
			{Name: "leveldb.level.sizes", Values: levelSizes},
			{Name: "leveldb.level.tables", Values: levelTables},
		},
	}

	// approximate on-disk size of each column
	ranges := make([]ldb_util.Range, 0, ColumnCount)
	for _, col := range AllColumns() {
		ranges = append(ranges, *columnRange(col))
	}
	sizes, err := s.db.SizeOf(ranges)
	if nil == err {
		values := make([]StatsValue, 0, len(sizes))
		for i, size := range sizes {
			values = append(values, ColumnValue{Column: Column(i), Value: size})
		}
		result.Data = append(result.Data, StatsEntry{Name: "column.sizes", Values: values})
	}

	return result
}

// iterator over one column of a LevelDB database
//
// strips the column prefix from keys; when strip is set it also strips
// refcount suffixes and skips entries with a non-positive count
type ldbIterator struct {
	it    ldb_iterator.Iterator
	strip bool
	value []byte
}

func (i *ldbIterator) Next() bool {
	for i.it.Next() {
		if !i.strip {
			return true
		}
		value := StripRefcount(i.it.Value())
		if nil == value {
			continue // logically absent
		}
		i.value = value
		return true
	}
	return false
}

func (i *ldbIterator) Key() []byte {
	// contents are only valid until the next call to Next
	return i.it.Key()[1:]
}

func (i *ldbIterator) Value() []byte {
	if i.strip {
		return i.value
	}
	return i.it.Value()
}

func (i *ldbIterator) Release() {
	i.it.Release()
}

func (i *ldbIterator) Error() error {
	return i.it.Error()
}
