// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaoxianBoy/nearcore/storage"
)

func TestTransactionOperationsKeepOrder(t *testing.T) {
	trx := storage.NewTransaction()
	trx.Set(storage.ColBlock, []byte("k"), []byte("first"))
	trx.Set(storage.ColBlock, []byte("k"), []byte("second"))
	trx.Delete(storage.ColBlockHeight, []byte("h"))
	assert.Equal(t, 3, len(trx.Operations()), "wrong operation count")

	// duplicate keys are applied in list order: last write wins
	s := storage.NewMemoryStore()
	assert.NoError(t, s.Write(trx))

	value, err := s.GetRawBytes(storage.ColBlock, []byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("second"), value, "last write did not win")
}

func TestTransactionMergePreservesRelativeOrder(t *testing.T) {
	first := storage.NewTransaction()
	first.Set(storage.ColBlock, []byte("a"), []byte("one"))
	first.Set(storage.ColBlock, []byte("b"), []byte("one"))

	second := storage.NewTransaction()
	second.Set(storage.ColBlock, []byte("a"), []byte("two"))
	second.Delete(storage.ColBlock, []byte("b"))

	first.Merge(second)
	assert.Equal(t, 4, len(first.Operations()), "wrong merged operation count")

	s := storage.NewMemoryStore()
	assert.NoError(t, s.Write(first))

	value, err := s.GetRawBytes(storage.ColBlock, []byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("two"), value, "merged transaction out of order")

	value, err = s.GetRawBytes(storage.ColBlock, []byte("b"))
	assert.NoError(t, err)
	assert.Nil(t, value, "merged delete not applied")
}

func TestTransactionInsertRequiresInsertOnlyColumn(t *testing.T) {
	trx := storage.NewTransaction()

	// ColTransactions is insert-only
	assert.NotPanics(t, func() {
		trx.Insert(storage.ColTransactions, []byte("t"), []byte("tx"))
	})

	// ColBlock is not
	assert.Panics(t, func() {
		trx.Insert(storage.ColBlock, []byte("b"), []byte("block"))
	})
}

func TestTransactionUpdateRefcountRequiresRCColumn(t *testing.T) {
	trx := storage.NewTransaction()
	delta := storage.EncodeRefcount([]byte("node"), 1)

	// ColState is refcounted
	assert.NotPanics(t, func() {
		trx.UpdateRefcount(storage.ColState, []byte("n"), delta)
	})

	// ColBlock is not
	assert.Panics(t, func() {
		trx.UpdateRefcount(storage.ColBlock, []byte("n"), delta)
	})
}

func TestColumnKindsAreMutuallyExclusive(t *testing.T) {
	for _, col := range storage.AllColumns() {
		assert.False(t, col.IsRC() && col.IsInsertOnly(),
			"column %s is both refcounted and insert-only", col)
	}
}
