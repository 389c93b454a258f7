// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"
)

// refcounted columns store: payload ++ count
// count is a little endian int64 so decrement deltas are representable
const refcountSize = 8

// EncodeRefcount - append the count suffix to a payload
//
// a decrement delta may carry an empty payload
func EncodeRefcount(payload []byte, count int64) []byte {
	buffer := make([]byte, len(payload)+refcountSize)
	copy(buffer, payload)
	binary.LittleEndian.PutUint64(buffer[len(payload):], uint64(count))
	return buffer
}

// DecodeRefcount - split a stored value into payload and count
//
// nil or empty input decodes as an absent entry with a zero count;
// a short non-empty value is corrupt and fatal
func DecodeRefcount(value []byte) ([]byte, int64) {
	if 0 == len(value) {
		return nil, 0
	}
	if len(value) < refcountSize {
		logger.Panicf("storage: truncated refcounted value: %x", value)
	}
	count := int64(binary.LittleEndian.Uint64(value[len(value)-refcountSize:]))
	payload := value[:len(value)-refcountSize]
	if 0 == len(payload) {
		payload = nil
	}
	return payload, count
}

// MergeRefcounts - combine two encoded refcount entries for one key
//
// counts are summed; the payload carried forward is the most recently
// supplied non-empty payload; a zero sum yields nil meaning the entry
// is gone, a negative sum keeps only the count so that a later
// increment restores the balance
func MergeRefcounts(existing []byte, delta []byte) []byte {
	payload, count := DecodeRefcount(existing)
	deltaPayload, deltaCount := DecodeRefcount(delta)

	if nil != deltaPayload {
		payload = deltaPayload
	}

	total := count + deltaCount
	if 0 == total {
		return nil
	}
	if total < 0 {
		return EncodeRefcount(nil, total)
	}
	return EncodeRefcount(payload, total)
}

// StripRefcount - read side decoding of a stored refcounted value
//
// returns nil when the entry is logically absent (count <= 0);
// otherwise returns a copy of the payload without the count suffix
func StripRefcount(value []byte) []byte {
	payload, count := DecodeRefcount(value)
	if count <= 0 {
		return nil
	}
	stripped := make([]byte, len(payload))
	copy(stripped, payload)
	return stripped
}
