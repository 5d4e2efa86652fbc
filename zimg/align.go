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

import "unsafe"

// Alignment is the byte alignment required of plane pointers and strides
// crossing the boundary layer. It matches the widest vector width the
// accelerated kernels may use.
const Alignment = 64

// AlignStride rounds a row width in bytes up to Alignment.
func AlignStride(bytes int) int {
	return (bytes + Alignment - 1) &^ (Alignment - 1)
}

// AllocBytes returns a zeroed slice of n bytes whose first element is
// Alignment-aligned. The Go allocator gives no alignment guarantee above
// the element size, so the slice is carved out of a larger block.
func AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	raw := make([]byte, n+Alignment)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) & (Alignment - 1)); rem != 0 {
		off = Alignment - rem
	}
	return raw[off : off+n : off+n]
}

// IsAligned reports whether p is a multiple of Alignment. Zero counts as
// aligned, matching the boundary rule that null pointers and zero strides
// are exempt.
func IsAligned(p uintptr) bool {
	return p&(Alignment-1) == 0
}

// ValidateAlignment performs the defensive boundary check: every non-nil
// plane pointer and non-zero stride must be Alignment-aligned. Filter
// logic itself never re-checks this.
func ValidateAlignment(b *Buffer) error {
	if b == nil {
		return Errorf(ErrIllegalArgument, "nil image buffer")
	}
	for p := 0; p < 3; p++ {
		if len(b.Data[p]) != 0 && !IsAligned(uintptr(unsafe.Pointer(&b.Data[p][0]))) {
			return Errorf(ErrIllegalArgument, "plane %d pointer not %d-byte aligned", p, Alignment)
		}
		if s := b.Stride[p]; s != 0 && s%Alignment != 0 {
			return Errorf(ErrIllegalArgument, "plane %d stride %d not %d-byte aligned", p, s, Alignment)
		}
	}
	return nil
}
