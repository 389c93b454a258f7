// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// reserved bookkeeping keys, stored in ColBlockMisc
//
// reservation is by convention at the caller layer; to this layer they
// are ordinary keys in an ordinary column
var (
	HeadKey                = []byte("HEAD")
	TailKey                = []byte("TAIL")
	ChunkTailKey           = []byte("CHUNK_TAIL")
	ForkTailKey            = []byte("FORK_TAIL")
	HeaderHeadKey          = []byte("HEADER_HEAD")
	FinalHeadKey           = []byte("FINAL_HEAD")
	LatestKnownKey         = []byte("LATEST_KNOWN")
	LargestTargetHeightKey = []byte("LARGEST_TARGET_HEIGHT")
	GenesisJSONHashKey     = []byte("GENESIS_JSON_HASH")
	GenesisStateRootsKey   = []byte("GENESIS_STATE_ROOTS")
	ColdHeadKey            = []byte("COLD_HEAD")
)
