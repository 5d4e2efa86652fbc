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
	"math"
	"testing"
)

func TestFloat16KnownValues(t *testing.T) {
	cases := []struct {
		bits Float16
		want float32
	}{
		{0x0000, 0},
		{0x3C00, 1},
		{0x3800, 0.5},
		{0x4000, 2},
		{0xC000, -2},
		{0x7BFF, 65504},           // largest finite
		{0x0001, 5.9604645e-08},   // smallest denormal
		{0x03FF, 6.0975552e-05},   // largest denormal
		{0x0400, 6.1035156e-05},   // smallest normal
	}
	for _, tc := range cases {
		if got := tc.bits.Float32(); got != tc.want {
			t.Errorf("Float16(%#04x).Float32() = %g, want %g", uint16(tc.bits), got, tc.want)
		}
		if got := Float16FromFloat32(tc.want); got != tc.bits {
			t.Errorf("Float16FromFloat32(%g) = %#04x, want %#04x", tc.want, uint16(got), uint16(tc.bits))
		}
	}

	negZero := Float16(0x8000)
	if f := negZero.Float32(); math.Float32bits(f) != 0x80000000 {
		t.Errorf("negative zero converts to %#08x", math.Float32bits(f))
	}
}

func TestFloat16Specials(t *testing.T) {
	inf := Float16(0x7C00)
	if !inf.IsInf() || inf.IsNaN() {
		t.Error("0x7C00 must be +Inf")
	}
	if f := inf.Float32(); !math.IsInf(float64(f), 1) {
		t.Errorf("+Inf converts to %g", f)
	}
	negInf := Float16(0xFC00)
	if f := negInf.Float32(); !math.IsInf(float64(f), -1) {
		t.Errorf("-Inf converts to %g", f)
	}

	nan := Float16(0x7E01)
	if !nan.IsNaN() || nan.IsInf() {
		t.Error("0x7E01 must be NaN")
	}
	if f := nan.Float32(); f == f {
		t.Error("half NaN converts to a non-NaN float32")
	}
	if got := Float16FromFloat32(float32(math.NaN())); !got.IsNaN() {
		t.Errorf("NaN converts to %#04x", uint16(got))
	}
}

func TestFloat16RoundToNearestEven(t *testing.T) {
	cases := []struct {
		in   float32
		want Float16
	}{
		// Halfway between 1.0 and the next half: ties to even.
		{1 + 0x1p-11, 0x3C00},
		// Just above halfway rounds up.
		{1 + 0x1p-11 + 0x1p-23, 0x3C01},
		// Halfway between two odd/even neighbors rounds to the even one.
		{1 + 3*0x1p-11, 0x3C02},
		// Above the largest finite half: overflow to infinity.
		{65520, 0x7C00},
		{65519, 0x7BFF},
		// Half the smallest denormal: ties to even zero.
		{0x1p-25, 0x0000},
		// 1.5 denormal steps rounds to 2 steps.
		{3 * 0x1p-25, 0x0002},
		// Below half the smallest denormal: flush to zero.
		{0x1p-26, 0x0000},
		{-0x1p-26, 0x8000},
	}
	for _, tc := range cases {
		if got := Float16FromFloat32(tc.in); got != tc.want {
			t.Errorf("Float16FromFloat32(%g) = %#04x, want %#04x", tc.in, uint16(got), uint16(tc.want))
		}
	}
}

// Every finite half value must survive a round trip through float32
// bit-exactly. NaNs are excluded: signaling payloads may be quieted.
func TestFloat16RoundTripExhaustive(t *testing.T) {
	for bits := 0; bits < 1<<16; bits++ {
		h := Float16(bits)
		if h.IsNaN() {
			if !Float16FromFloat32(h.Float32()).IsNaN() {
				t.Fatalf("%#04x: NaN not preserved", bits)
			}
			continue
		}
		if got := Float16FromFloat32(h.Float32()); got != h {
			t.Fatalf("%#04x -> %g -> %#04x", bits, h.Float32(), uint16(got))
		}
	}
}
