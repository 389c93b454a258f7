// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/xiaoxianBoy/nearcore/fault"
)

// number of operations per migration transaction
const migrateBatchSize = 500

// MigrateColumnToCold - copy all live entries of one column from the
// hot store to the cold store
//
// this is the external process the split store relies on to populate
// the cold tier; it is idempotent: rewriting an already migrated entry
// stores the identical value again
//
// refcounted entries are copied with a count of one (the cold tier
// records a single ownership reference); dead entries are not copied
//
// returns the number of entries copied
func MigrateColumnToCold(hot Store, cold Store, col Column) (int, error) {
	if !col.IsCold() {
		return 0, fault.ErrNotColdColumn
	}

	trx := NewTransaction()
	copied := 0

	it := hot.Iter(col)
	defer it.Release()

	for it.Next() {
		// iterator slices go stale on Next, the transaction needs copies
		key := copyBytes(it.Key())
		value := copyBytes(it.Value())

		switch {
		case col.IsRC():
			trx.UpdateRefcount(col, key, EncodeRefcount(value, 1))
		case col.IsInsertOnly():
			trx.Insert(col, key, value)
		default:
			trx.Set(col, key, value)
		}
		copied += 1

		if len(trx.ops) >= migrateBatchSize {
			if err := cold.Write(trx); nil != err {
				return copied, err
			}
			trx = NewTransaction()
		}
	}
	if err := it.Error(); nil != err {
		return copied, err
	}

	if len(trx.ops) > 0 {
		if err := cold.Write(trx); nil != err {
			return copied, err
		}
	}
	return copied, nil
}
