// Copyright 2026 go-zimg Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zimg

import "math"

// BufferMax is the row mask meaning "the buffer holds the whole frame":
// logical row indices map to physical rows unchanged.
const BufferMax = uint32(math.MaxUint32)

// Buffer addresses up to three image planes. The memory is owned by the
// caller; a filter may use it only for the duration of one Process call.
//
// Mask implements circular row windows: the physical row backing logical
// row i of plane p starts at Data[p][(i & Mask[p]) * Stride[p]]. A driver
// that knows a consumer never needs more than N rows at once allocates a
// power-of-two window of lines and sets Mask to lines-1; producers and
// consumers then address rows by logical index without either side knowing
// the window size.
type Buffer struct {
	Data   [3][]byte
	Stride [3]int
	Mask   [3]uint32
}

// Row returns the physical row of plane p backing logical row i.
// The slice spans one full stride.
func (b *Buffer) Row(p, i int) []byte {
	off := int(uint32(i)&b.Mask[p]) * b.Stride[p]
	return b.Data[p][off : off+b.Stride[p]]
}

// SinglePlane returns a buffer view exposing plane p as plane 0.
// Drivers use it to run non-color filters over each plane in turn.
func (b *Buffer) SinglePlane(p int) Buffer {
	var v Buffer
	v.Data[0] = b.Data[p]
	v.Stride[0] = b.Stride[p]
	v.Mask[0] = b.Mask[p]
	return v
}

// MaskFor returns the row mask for a circular window of the given number
// of lines, rounded up to a power of two. Non-positive lines request a
// whole-frame buffer.
func MaskFor(lines int) uint32 {
	if lines <= 0 {
		return BufferMax
	}
	n := 1
	for n < lines {
		n <<= 1
	}
	return uint32(n - 1)
}

// WindowLines returns the number of physical lines a mask addresses, or
// 0 for a whole-frame mask.
func WindowLines(mask uint32) int {
	if mask == BufferMax {
		return 0
	}
	return int(mask) + 1
}
