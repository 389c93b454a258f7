// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk data store
//
// maintain separate columns of key->value data over a single ordered
// key-value engine
//
// Each column is defined by a prefix byte from the column table so the
// keys of different columns never collide inside one LevelDB database.
//
// Notes:
// 1. each column has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. refcounted columns store: payload ++ count (little endian int64,
//    8 bytes); an entry whose count is zero or negative is treated as
//    absent by all normal read paths
// 4. insert-only columns must never observe two different values for
//    one key; this is checked on write when verification is enabled
//
// Backends:
//
//   LevelDBStore  - leaf store over a LevelDB database
//   MemoryStore   - deterministic in-memory reference store
//   ColdStore     - archival wrapper restricting writes
//   SplitStore    - hot/cold router presenting one unified store
//
// All four implement the Store interface and are observably equivalent
// for the same sequence of transactions.
package storage
