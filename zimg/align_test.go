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

import (
	"testing"
	"unsafe"
)

func TestAlignStride(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0},
		{1, Alignment},
		{Alignment, Alignment},
		{Alignment + 1, 2 * Alignment},
		{591, 640},
	}
	for _, tc := range cases {
		if got := AlignStride(tc.in); got != tc.want {
			t.Errorf("AlignStride(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAllocBytesAlignment(t *testing.T) {
	for _, n := range []int{1, 63, 64, 65, 4096} {
		b := AllocBytes(n)
		if len(b) != n {
			t.Fatalf("AllocBytes(%d) returned %d bytes", n, len(b))
		}
		if !IsAligned(uintptr(unsafe.Pointer(&b[0]))) {
			t.Errorf("AllocBytes(%d) not %d-byte aligned", n, Alignment)
		}
		for _, v := range b {
			if v != 0 {
				t.Fatalf("AllocBytes(%d) not zeroed", n)
			}
		}
	}
	if b := AllocBytes(0); b != nil {
		t.Error("AllocBytes(0) should return nil")
	}
}

func TestValidateAlignment(t *testing.T) {
	good := &Buffer{}
	good.Data[0] = AllocBytes(Alignment * 2)
	good.Stride[0] = Alignment
	if err := ValidateAlignment(good); err != nil {
		t.Errorf("aligned buffer rejected: %v", err)
	}

	if err := ValidateAlignment(nil); CodeOf(err) != CodeIllegalArgument {
		t.Errorf("nil buffer: CodeOf(err) = %v, want illegal argument", CodeOf(err))
	}

	misPtr := &Buffer{}
	misPtr.Data[0] = AllocBytes(Alignment * 2)[1:]
	misPtr.Stride[0] = Alignment
	if err := ValidateAlignment(misPtr); CodeOf(err) != CodeIllegalArgument {
		t.Errorf("misaligned pointer: CodeOf(err) = %v, want illegal argument", CodeOf(err))
	}

	misStride := &Buffer{}
	misStride.Data[0] = AllocBytes(Alignment * 2)
	misStride.Stride[0] = Alignment - 1
	if err := ValidateAlignment(misStride); CodeOf(err) != CodeIllegalArgument {
		t.Errorf("misaligned stride: CodeOf(err) = %v, want illegal argument", CodeOf(err))
	}

	// Empty planes and zero strides are exempt.
	empty := &Buffer{}
	if err := ValidateAlignment(empty); err != nil {
		t.Errorf("empty buffer rejected: %v", err)
	}
}
