// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaoxianBoy/nearcore/storage"
)

func TestMemorySetGetDelete(t *testing.T) {
	s := storage.NewMemoryStore()

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Set(storage.ColBlock, []byte("one"), []byte("data-one"))
	})

	value, err := s.GetRawBytes(storage.ColBlock, []byte("one"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("data-one"), value, "wrong value")

	// absence is nil, never an error
	value, err = s.GetRawBytes(storage.ColBlock, []byte("missing"))
	assert.NoError(t, err)
	assert.Nil(t, value, "missing key returned a value")

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Delete(storage.ColBlock, []byte("one"))
	})
	value, err = s.GetRawBytes(storage.ColBlock, []byte("one"))
	assert.NoError(t, err)
	assert.Nil(t, value, "deleted key returned a value")
}

func TestMemoryRefcountMonotonicity(t *testing.T) {
	s := storage.NewMemoryStore()
	key := []byte("trie-node")

	deltas := []int64{2, -1, 3, -4}
	total := int64(0)
	for _, d := range deltas {
		payload := []byte("payload")
		if d < 0 {
			payload = nil
		}
		writeOne(t, s, func(trx *storage.Transaction) {
			trx.UpdateRefcount(storage.ColState, key, storage.EncodeRefcount(payload, d))
		})
		total += d

		value, err := s.GetWithRCStripped(storage.ColState, key)
		assert.NoError(t, err)
		if total > 0 {
			assert.Equal(t, []byte("payload"), value, "wrong payload at running count %d", total)
		} else {
			assert.Nil(t, value, "entry visible at running count %d", total)
		}
	}
}

func TestMemoryStrippingConsistency(t *testing.T) {
	s := storage.NewMemoryStore()

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.UpdateRefcount(storage.ColState, []byte("live"), storage.EncodeRefcount([]byte("a"), 1))
		trx.UpdateRefcount(storage.ColState, []byte("dead"), storage.EncodeRefcount(nil, -1))
	})

	// normal iteration never yields a non-positive entry
	live := collect(t, s.Iter(storage.ColState))
	assert.Equal(t, []keyValue{{key: "live", value: "a"}}, live, "wrong live entries")

	// raw iteration yields it, count suffix attached
	raw := collect(t, s.IterRawBytes(storage.ColState))
	assert.Equal(t, 2, len(raw), "wrong raw entry count")
	assert.Equal(t, "dead", raw[0].key, "wrong raw order")
	assert.Equal(t, 8, len(raw[0].value), "dead entry should be bare count")
}

func TestMemoryInsertOnceInvariant(t *testing.T) {
	s := storage.NewMemoryStore()
	key := []byte("tx-id")
	value := []byte("tx-body")

	// same value twice is idempotent
	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Insert(storage.ColTransactions, key, value)
	})
	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Insert(storage.ColTransactions, key, value)
	})

	// a different value is a contract violation
	trx := storage.NewTransaction()
	trx.Insert(storage.ColTransactions, key, []byte("tampered"))
	assert.Panics(t, func() {
		_ = s.Write(trx)
	})
}

func TestMemoryIterationOrder(t *testing.T) {
	s := storage.NewMemoryStore()

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Set(storage.ColBlock, []byte("key-two"), []byte("data-two"))
		trx.Set(storage.ColBlock, []byte("key-one"), []byte("data-one"))
		trx.Set(storage.ColBlock, []byte("key-three"), []byte("data-three"))
	})

	expected := []keyValue{
		{key: "key-one", value: "data-one"},
		{key: "key-three", value: "data-three"},
		{key: "key-two", value: "data-two"},
	}
	assert.Equal(t, expected, collect(t, s.Iter(storage.ColBlock)), "wrong iteration order")
}

func TestMemoryIterPrefix(t *testing.T) {
	s := storage.NewMemoryStore()

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Set(storage.ColBlock, []byte("a1"), []byte("v1"))
		trx.Set(storage.ColBlock, []byte("a2"), []byte("v2"))
		trx.Set(storage.ColBlock, []byte("b1"), []byte("v3"))
	})

	expected := []keyValue{
		{key: "a1", value: "v1"},
		{key: "a2", value: "v2"},
	}
	assert.Equal(t, expected, collect(t, s.IterPrefix(storage.ColBlock, []byte("a"))), "wrong prefix result")
}

func TestMemoryIterRangeExclusivity(t *testing.T) {
	s := storage.NewMemoryStore()

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Set(storage.ColBlock, []byte("k1"), []byte("v1"))
		trx.Set(storage.ColBlock, []byte("k2"), []byte("v2"))
		trx.Set(storage.ColBlock, []byte("k3"), []byte("v3"))
	})

	// lower inclusive, upper exclusive
	got := collect(t, s.IterRange(storage.ColBlock, []byte("k1"), []byte("k2")))
	assert.Equal(t, []keyValue{{key: "k1", value: "v1"}}, got, "wrong range result")

	// open bounds cover the whole column
	assert.Equal(t,
		collect(t, s.Iter(storage.ColBlock)),
		collect(t, s.IterRange(storage.ColBlock, nil, nil)),
		"open range differs from full iteration")
}

func TestMemoryDeleteAllAndDeleteRange(t *testing.T) {
	s := storage.NewMemoryStore()

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.Set(storage.ColBlock, []byte("a"), []byte("1"))
		trx.Set(storage.ColBlock, []byte("b"), []byte("2"))
		trx.Set(storage.ColBlock, []byte("c"), []byte("3"))
		trx.Set(storage.ColBlockHeader, []byte("x"), []byte("4"))
	})

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.DeleteRange(storage.ColBlock, []byte("a"), []byte("c"))
	})
	assert.Equal(t, []keyValue{{key: "c", value: "3"}}, collect(t, s.Iter(storage.ColBlock)), "wrong range deletion")

	writeOne(t, s, func(trx *storage.Transaction) {
		trx.DeleteAll(storage.ColBlock)
	})
	assert.Nil(t, collect(t, s.Iter(storage.ColBlock)), "column not emptied")

	// other columns untouched
	assert.Equal(t, []keyValue{{key: "x", value: "4"}}, collect(t, s.Iter(storage.ColBlockHeader)), "unrelated column changed")
}

func TestMemoryGetWithRCStrippedRequiresRCColumn(t *testing.T) {
	s := storage.NewMemoryStore()
	assert.Panics(t, func() {
		_, _ = s.GetWithRCStripped(storage.ColBlock, []byte("k"))
	})
}
