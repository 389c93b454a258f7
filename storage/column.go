// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
)

// Column - tag for one logical key->value table inside the store
type Column uint8

// all defined columns
//
// note: the prefix byte of a column is part of the on-disk format and
// must never be reused for a different column
const (
	ColDbVersion    Column = iota // database schema version
	ColBlockMisc                  // bookkeeping markers (HEAD, TAIL, ...)
	ColBlock                      // block number -> block data
	ColBlockHeader                // block hash -> header
	ColBlockHeight                // height -> block hash
	ColState                      // state trie nodes (refcounted)
	ColTransactions               // txId -> transaction (insert only)
	ColReceipts                   // receipt id -> receipt (refcounted)
	ColChunks                     // chunk hash -> chunk (insert only)
	ColStateChanges               // change key -> change record

	ColumnCount // number of columns, keep last
)

// per column attributes
//
// rc and insertOnly are mutually exclusive; cold marks the column as
// eligible for the archival tier
type columnInfo struct {
	name       string
	prefix     byte
	rc         bool
	insertOnly bool
	cold       bool
}

var columnTable = [ColumnCount]columnInfo{
	ColDbVersion:    {name: "DbVersion", prefix: 'V'},
	ColBlockMisc:    {name: "BlockMisc", prefix: 'M', cold: true},
	ColBlock:        {name: "Block", prefix: 'B', cold: true},
	ColBlockHeader:  {name: "BlockHeader", prefix: 'H', cold: true},
	ColBlockHeight:  {name: "BlockHeight", prefix: 'N'},
	ColState:        {name: "State", prefix: 'S', rc: true, cold: true},
	ColTransactions: {name: "Transactions", prefix: 'T', insertOnly: true, cold: true},
	ColReceipts:     {name: "Receipts", prefix: 'R', rc: true, cold: true},
	ColChunks:       {name: "Chunks", prefix: 'C', insertOnly: true, cold: true},
	ColStateChanges: {name: "StateChanges", prefix: 'G', cold: true},
}

func (col Column) info() *columnInfo {
	if col >= ColumnCount {
		logger.Panicf("storage: invalid column: %d", col)
	}
	return &columnTable[col]
}

// Name - the display name of the column
func (col Column) Name() string {
	return col.info().name
}

func (col Column) String() string {
	return col.Name()
}

// IsRC - true when values of this column carry a refcount suffix
func (col Column) IsRC() bool {
	return col.info().rc
}

// IsInsertOnly - true when a key of this column must never change value
func (col Column) IsInsertOnly() bool {
	return col.info().insertOnly
}

// IsCold - true when this column is eligible for the archival tier
func (col Column) IsCold() bool {
	return col.info().cold
}

// ColumnNamed - find a column by its display name
//
// second result is false when no such column exists
func ColumnNamed(name string) (Column, bool) {
	for col := Column(0); col < ColumnCount; col += 1 {
		if columnTable[col].name == name {
			return col, true
		}
	}
	return 0, false
}

// AllColumns - every defined column in tag order
func AllColumns() []Column {
	all := make([]Column, 0, ColumnCount)
	for col := Column(0); col < ColumnCount; col += 1 {
		all = append(all, col)
	}
	return all
}

// Tier - routing decision of the split store for one column
type Tier int

// possible routings
const (
	TierHot   Tier = iota // hot store only
	TierCold              // cold store only
	TierSplit             // written hot, migrated cold, read from both
)

func (t Tier) String() string {
	switch t {
	case TierHot:
		return "hot"
	case TierCold:
		return "cold"
	case TierSplit:
		return "split"
	default:
		return "unknown"
	}
}

// TierPolicy - answers which tier(s) hold a column
//
// must be pure, total over all columns and stable for the process lifetime
type TierPolicy interface {
	Tier(Column) Tier
}

type tableTierPolicy struct{}

func (tableTierPolicy) Tier(col Column) Tier {
	if col.IsCold() {
		return TierSplit
	}
	return TierHot
}

// DefaultTierPolicy - routing derived from the column table
//
// cold eligible columns are split: new data lands in the hot store and
// an external migration copies it to the cold store; everything else
// lives in the hot store only
func DefaultTierPolicy() TierPolicy {
	return tableTierPolicy{}
}
