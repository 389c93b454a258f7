// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaoxianBoy/nearcore/storage"
)

func TestRefcountEncodeDecode(t *testing.T) {
	payload := []byte("trie-node")

	encoded := storage.EncodeRefcount(payload, 3)
	assert.Equal(t, len(payload)+8, len(encoded), "wrong encoded length")

	decodedPayload, count := storage.DecodeRefcount(encoded)
	assert.Equal(t, payload, decodedPayload, "wrong payload")
	assert.Equal(t, int64(3), count, "wrong count")

	// decrement deltas carry no payload
	decodedPayload, count = storage.DecodeRefcount(storage.EncodeRefcount(nil, -2))
	assert.Nil(t, decodedPayload, "decrement delta has a payload")
	assert.Equal(t, int64(-2), count, "wrong count")

	// absent entry
	decodedPayload, count = storage.DecodeRefcount(nil)
	assert.Nil(t, decodedPayload, "absent entry has a payload")
	assert.Equal(t, int64(0), count, "absent entry has a count")
}

func TestRefcountMergeSumsCounts(t *testing.T) {
	a := storage.EncodeRefcount([]byte("node"), 2)
	b := storage.EncodeRefcount([]byte("node"), 5)

	_, count := storage.DecodeRefcount(storage.MergeRefcounts(a, b))
	assert.Equal(t, int64(7), count, "wrong merged count")

	// commutative in the count component
	_, count = storage.DecodeRefcount(storage.MergeRefcounts(b, a))
	assert.Equal(t, int64(7), count, "merge not commutative")
}

func TestRefcountMergeKeepsNewestPayload(t *testing.T) {
	a := storage.EncodeRefcount([]byte("node"), 1)
	decrement := storage.EncodeRefcount(nil, -1)
	b := storage.EncodeRefcount([]byte("node"), 1)

	// decrement without payload keeps the existing payload
	merged := storage.MergeRefcounts(storage.MergeRefcounts(a, b), decrement)
	payload, count := storage.DecodeRefcount(merged)
	assert.Equal(t, []byte("node"), payload, "payload lost by decrement")
	assert.Equal(t, int64(1), count, "wrong count")
}

func TestRefcountMergeAssociative(t *testing.T) {
	a := storage.EncodeRefcount([]byte("node"), 2)
	b := storage.EncodeRefcount(nil, -1)
	c := storage.EncodeRefcount([]byte("node"), 3)

	left := storage.MergeRefcounts(storage.MergeRefcounts(a, b), c)
	right := storage.MergeRefcounts(a, storage.MergeRefcounts(b, c))

	leftPayload, leftCount := storage.DecodeRefcount(left)
	rightPayload, rightCount := storage.DecodeRefcount(right)
	assert.Equal(t, leftCount, rightCount, "counts differ")
	assert.Equal(t, leftPayload, rightPayload, "payloads differ")
}

func TestRefcountMergeToZeroRemovesEntry(t *testing.T) {
	a := storage.EncodeRefcount([]byte("node"), 2)
	b := storage.EncodeRefcount(nil, -2)

	assert.Nil(t, storage.MergeRefcounts(a, b), "zero count entry not removed")
}

func TestRefcountMergeNegativeKeepsCountOnly(t *testing.T) {
	a := storage.EncodeRefcount([]byte("node"), 1)
	b := storage.EncodeRefcount(nil, -3)

	merged := storage.MergeRefcounts(a, b)
	payload, count := storage.DecodeRefcount(merged)
	assert.Nil(t, payload, "negative entry still has a payload")
	assert.Equal(t, int64(-2), count, "wrong count")

	// a later increment restores the balance
	merged = storage.MergeRefcounts(merged, storage.EncodeRefcount([]byte("node"), 3))
	payload, count = storage.DecodeRefcount(merged)
	assert.Equal(t, []byte("node"), payload, "payload not restored")
	assert.Equal(t, int64(1), count, "wrong count")
}

func TestStripRefcount(t *testing.T) {
	assert.Equal(t, []byte("node"), storage.StripRefcount(storage.EncodeRefcount([]byte("node"), 1)), "live entry stripped wrongly")
	assert.Nil(t, storage.StripRefcount(storage.EncodeRefcount([]byte("node"), 0)), "dead entry not absent")
	assert.Nil(t, storage.StripRefcount(storage.EncodeRefcount(nil, -4)), "negative entry not absent")
	assert.Nil(t, storage.StripRefcount(nil), "missing entry not absent")
}
