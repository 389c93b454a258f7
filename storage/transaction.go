// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
)

// Transaction - an ordered list of operations applied as one atomic unit
//
// a transaction only accumulates local state; nothing touches storage
// until the transaction is handed to a Store.Write call
//
// duplicate operations on one key are kept in order and resolved by the
// receiving store: last effective write wins, refcount deltas compose
type Transaction struct {
	ops []Operation
}

// NewTransaction - create an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Set - unconditionally store value under key, any column kind
func (trx *Transaction) Set(col Column, key []byte, value []byte) {
	trx.ops = append(trx.ops, Operation{
		kind:   opSet,
		Column: col,
		Key:    key,
		Value:  value,
	})
}

// Insert - store a value that must never change afterwards
//
// fatal if the column is not insert-only: that is a caller bug, not an
// environmental condition
func (trx *Transaction) Insert(col Column, key []byte, value []byte) {
	if !col.IsInsertOnly() {
		logger.Panicf("storage: insert on non insert-only column: %s", col)
	}
	trx.ops = append(trx.ops, Operation{
		kind:   opInsert,
		Column: col,
		Key:    key,
		Value:  value,
	})
}

// UpdateRefcount - merge an encoded (payload, count) delta into a key
//
// fatal if the column is not refcounted
func (trx *Transaction) UpdateRefcount(col Column, key []byte, delta []byte) {
	if !col.IsRC() {
		logger.Panicf("storage: refcount update on non refcounted column: %s", col)
	}
	trx.ops = append(trx.ops, Operation{
		kind:   opUpdateRefcount,
		Column: col,
		Key:    key,
		Value:  delta,
	})
}

// Delete - remove a key regardless of column kind
func (trx *Transaction) Delete(col Column, key []byte) {
	trx.ops = append(trx.ops, Operation{
		kind:   opDelete,
		Column: col,
		Key:    key,
	})
}

// DeleteAll - remove every key of a column
func (trx *Transaction) DeleteAll(col Column) {
	trx.ops = append(trx.ops, Operation{
		kind:   opDeleteAll,
		Column: col,
	})
}

// DeleteRange - remove all keys in [from, to)
func (trx *Transaction) DeleteRange(col Column, from []byte, to []byte) {
	trx.ops = append(trx.ops, Operation{
		kind:   opDeleteRange,
		Column: col,
		Key:    from,
		To:     to,
	})
}

// Merge - append all operations of another transaction
//
// relative order of each side is preserved
func (trx *Transaction) Merge(other *Transaction) {
	trx.ops = append(trx.ops, other.ops...)
}

// Operations - the accumulated operations in append order
func (trx *Transaction) Operations() []Operation {
	return trx.ops
}
