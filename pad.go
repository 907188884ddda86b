// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import "unsafe"

// pad is a full cache line of padding, used to isolate hot fields that
// would otherwise share a cache line with unrelated fields.
type pad [64]byte

// padShort pads out the remainder of a cache line after an 8-byte field.
type padShort [64 - 8]byte

// padPtr pads out the remainder of a cache line after a pointer-sized field.
type padPtr [64 - ptrSize]byte

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
