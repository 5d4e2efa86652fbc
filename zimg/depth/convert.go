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
	"math"

	"github.com/ajroetker/go-zimg/zimg"
)

// normalizeCoeffs returns the quantization range and offset of a format:
// sample = normalized*scale + offset. Float formats are already
// normalized (scale 1, offset 0).
//
// Limited range follows studio swing: luma spans 219 steps above 16 at
// 8 bits, chroma 224 steps around 128, both scaling by 2^(d-8) at other
// depths. Full range spans the whole container with chroma centered on
// the half-scale level.
func normalizeCoeffs(f zimg.PixelFormat) (scale, offset float32) {
	if f.Type.IsFloat() {
		return 1, 0
	}
	d := f.Depth
	if f.FullRange {
		scale = float32(math.Ldexp(1, d)) - 1
		if f.Chroma {
			offset = float32(math.Ldexp(1, d-1))
		}
		return scale, offset
	}
	if f.Chroma {
		return float32(math.Ldexp(224, d-8)), float32(math.Ldexp(128, d-8))
	}
	return float32(math.Ldexp(219, d-8)), float32(math.Ldexp(16, d-8))
}

// loadFunc fills dst with normalized samples taken from columns
// [left, left+len(dst)) of a source row: dst[k] = sample*scale + bias.
type loadFunc func(src []byte, dst []float32, left int, scale, bias float32)

// storeFunc writes normalized samples to columns [left, left+len(src))
// of a float-typed destination row.
type storeFunc func(src []float32, dst []byte, left int)

// quantizeFunc quantizes normalized samples into an integer-typed
// destination row, applying the dither offset for output row i.
type quantizeFunc func(stage []float32, dst []byte, i, left int, scale, offset, maxValue float32)

func selectLoad(t zimg.PixelType, cpu zimg.CPU) loadFunc {
	vec := cpu != zimg.CPUNone
	switch t {
	case zimg.PixelByte:
		if vec {
			return loadByte4
		}
		return loadByte
	case zimg.PixelWord:
		if vec {
			return loadWord4
		}
		return loadWord
	case zimg.PixelHalf:
		return loadHalf
	default:
		return loadFloat
	}
}

func selectStore(t zimg.PixelType) storeFunc {
	if t == zimg.PixelHalf {
		return storeHalf
	}
	return storeFloat
}

func selectQuantize(t zimg.PixelType, d DitherType) quantizeFunc {
	var offset offsetFunc
	switch d {
	case DitherOrdered:
		offset = bayerOffset
	case DitherRandom:
		offset = randomOffset
	default:
		offset = zeroOffset
	}
	if t == zimg.PixelByte {
		return func(stage []float32, dst []byte, i, left int, scale, bias, maxv float32) {
			quantByte(stage, dst, i, left, scale, bias, maxv, offset)
		}
	}
	return func(stage []float32, dst []byte, i, left int, scale, bias, maxv float32) {
		quantWord(stage, dst, i, left, scale, bias, maxv, offset)
	}
}

func loadByte(src []byte, dst []float32, left int, scale, bias float32) {
	for k := range dst {
		dst[k] = float32(src[left+k])*scale + bias
	}
}

// loadByte4 is the vectorized-shape variant: four accumulations per
// iteration so the compiler can keep the conversions in flight.
func loadByte4(src []byte, dst []float32, left int, scale, bias float32) {
	s := src[left : left+len(dst)]
	k := 0
	for ; k+4 <= len(dst); k += 4 {
		dst[k+0] = float32(s[k+0])*scale + bias
		dst[k+1] = float32(s[k+1])*scale + bias
		dst[k+2] = float32(s[k+2])*scale + bias
		dst[k+3] = float32(s[k+3])*scale + bias
	}
	for ; k < len(dst); k++ {
		dst[k] = float32(s[k])*scale + bias
	}
}

func loadWord(src []byte, dst []float32, left int, scale, bias float32) {
	for k := range dst {
		x := binary.LittleEndian.Uint16(src[(left+k)*2:])
		dst[k] = float32(x)*scale + bias
	}
}

func loadWord4(src []byte, dst []float32, left int, scale, bias float32) {
	s := src[left*2:]
	k := 0
	for ; k+4 <= len(dst); k += 4 {
		dst[k+0] = float32(binary.LittleEndian.Uint16(s[k*2:]))*scale + bias
		dst[k+1] = float32(binary.LittleEndian.Uint16(s[k*2+2:]))*scale + bias
		dst[k+2] = float32(binary.LittleEndian.Uint16(s[k*2+4:]))*scale + bias
		dst[k+3] = float32(binary.LittleEndian.Uint16(s[k*2+6:]))*scale + bias
	}
	for ; k < len(dst); k++ {
		dst[k] = float32(binary.LittleEndian.Uint16(s[k*2:]))*scale + bias
	}
}

func loadHalf(src []byte, dst []float32, left int, scale, bias float32) {
	for k := range dst {
		h := zimg.Float16(binary.LittleEndian.Uint16(src[(left+k)*2:]))
		dst[k] = h.Float32()*scale + bias
	}
}

func loadFloat(src []byte, dst []float32, left int, scale, bias float32) {
	for k := range dst {
		bits := binary.LittleEndian.Uint32(src[(left+k)*4:])
		dst[k] = math.Float32frombits(bits)*scale + bias
	}
}

func storeHalf(src []float32, dst []byte, left int) {
	for k, v := range src {
		binary.LittleEndian.PutUint16(dst[(left+k)*2:], uint16(zimg.Float16FromFloat32(v)))
	}
}

func storeFloat(src []float32, dst []byte, left int) {
	for k, v := range src {
		binary.LittleEndian.PutUint32(dst[(left+k)*4:], math.Float32bits(v))
	}
}

func quantByte(stage []float32, dst []byte, i, left int, scale, bias, maxv float32, offset offsetFunc) {
	for k, v := range stage {
		x := left + k
		q := quantize(v*scale+bias+offset(i, x), maxv)
		dst[x] = byte(q)
	}
}

func quantWord(stage []float32, dst []byte, i, left int, scale, bias, maxv float32, offset offsetFunc) {
	for k, v := range stage {
		x := left + k
		q := quantize(v*scale+bias+offset(i, x), maxv)
		binary.LittleEndian.PutUint16(dst[x*2:], uint16(q))
	}
}

// quantize rounds to the nearest step, ties to even, and clamps to the
// output depth.
func quantize(val, maxv float32) uint32 {
	q := float32(math.RoundToEven(float64(val)))
	if q < 0 {
		q = 0
	}
	if q > maxv {
		q = maxv
	}
	return uint32(q)
}
