// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// kind of a single transaction operation
type opKind int

const (
	opSet            opKind = iota // unconditional overwrite
	opInsert                       // write once, value must never change
	opUpdateRefcount               // merge an encoded refcount delta
	opDelete                       // remove one key
	opDeleteAll                    // remove every key of the column
	opDeleteRange                  // remove keys in [from, to)
)

func (k opKind) String() string {
	switch k {
	case opSet:
		return "Set"
	case opInsert:
		return "Insert"
	case opUpdateRefcount:
		return "UpdateRefcount"
	case opDelete:
		return "Delete"
	case opDeleteAll:
		return "DeleteAll"
	case opDeleteRange:
		return "DeleteRange"
	default:
		return "unknown"
	}
}

// Operation - one entry of a transaction
//
// the active fields depend on the kind:
//
//	Set, Insert, UpdateRefcount: Column, Key, Value
//	Delete:                      Column, Key
//	DeleteAll:                   Column
//	DeleteRange:                 Column, Key (from), To (to)
type Operation struct {
	kind   opKind
	Column Column
	Key    []byte
	Value  []byte
	To     []byte
}
