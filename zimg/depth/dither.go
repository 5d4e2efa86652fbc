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

package depth

import (
	"encoding/binary"
	"unsafe"

	"github.com/ajroetker/go-zimg/zimg"
)

// offsetFunc returns the dither offset, in output quantization steps, for
// the sample at row i, column x. Offsets lie in [-0.5, 0.5).
type offsetFunc func(i, x int) float32

func zeroOffset(i, x int) float32 { return 0 }

// bayerIndex is the standard 8x8 ordered dither index matrix.
var bayerIndex = [8][8]uint8{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

var bayerOffsets = func() [8][8]float32 {
	var m [8][8]float32
	for y := range m {
		for x := range m[y] {
			m[y][x] = (float32(bayerIndex[y][x])+0.5)/64 - 0.5
		}
	}
	return m
}()

func bayerOffset(i, x int) float32 {
	return bayerOffsets[i&7][x&7]
}

// randomOffset derives uniform noise from the sample position, so a given
// frame geometry always dithers identically.
func randomOffset(i, x int) float32 {
	h := uint32(i)*0x9E3779B9 ^ uint32(x)*0x85EBCA6B
	h ^= h >> 16
	h *= 0x7FEB352D
	h ^= h >> 15
	h *= 0x846CA68B
	h ^= h >> 16
	return float32(h>>8)*(1.0/(1<<24)) - 0.5
}

// diffuseRow quantizes one entire row with Floyd-Steinberg error
// diffusion. The context holds two (width+2)-element float32 rows: the
// errors diffused into this row by its predecessor, and the errors being
// accumulated for the successor. Rows swap roles by row parity, so no
// cursor lives in the context.
func (d *Depth) diffuseRow(ctx []byte, stage []float32, dst []byte, i int) {
	w := d.width
	errs := unsafe.Slice((*float32)(unsafe.Pointer(&ctx[0])), 2*(w+2))
	cur := errs[:w+2]
	next := errs[w+2:]
	if i&1 == 1 {
		cur, next = next, cur
	}
	clear(next)

	scale, bias, maxv := d.storeScale, d.storeBias, d.maxValue
	word := d.out.Type == zimg.PixelWord

	carry := float32(0)
	for x := 0; x < w; x++ {
		val := stage[x]*scale + bias + cur[x+1] + carry
		q := quantize(val, maxv)
		e := val - float32(q)

		// Floyd-Steinberg weights: 7/16 right, 3/16 below-left,
		// 5/16 below, 1/16 below-right.
		carry = e * (7.0 / 16.0)
		next[x] += e * (3.0 / 16.0)
		next[x+1] += e * (5.0 / 16.0)
		next[x+2] += e * (1.0 / 16.0)

		if word {
			binary.LittleEndian.PutUint16(dst[x*2:], uint16(q))
		} else {
			dst[x] = byte(q)
		}
	}
}
