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

// Package filtertest holds shared fixtures for filter tests:
// deterministic frame generation, plane digests and a reference driver
// that exercises a filter through minimal circular row windows.
package filtertest

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/ajroetker/go-zimg/zimg"
)

// AllocFrame returns a whole-frame buffer with aligned planes.
func AllocFrame(width, height, planes int, t zimg.PixelType) *zimg.Buffer {
	stride := zimg.AlignStride(width * t.Size())
	b := &zimg.Buffer{}
	for p := 0; p < planes; p++ {
		b.Data[p] = zimg.AllocBytes(stride * height)
		b.Stride[p] = stride
		b.Mask[p] = zimg.BufferMax
	}
	return b
}

// AllocWindow returns a buffer holding a circular window of the given
// number of lines per plane.
func AllocWindow(width, lines, planes int, t zimg.PixelType) *zimg.Buffer {
	mask := zimg.MaskFor(lines)
	stride := zimg.AlignStride(width * t.Size())
	b := &zimg.Buffer{}
	for p := 0; p < planes; p++ {
		b.Data[p] = zimg.AllocBytes(stride * zimg.WindowLines(mask))
		b.Stride[p] = stride
		b.Mask[p] = mask
	}
	return b
}

// lcg is the 32-bit linear congruential generator behind Fill. The
// recurrence and the per-type sample encodings are fixed: golden digests
// depend on them.
type lcg uint32

func (s *lcg) next() uint32 {
	*s = *s*1664525 + 1013904223
	return uint32(*s)
}

// Fill writes a deterministic pattern into the payload region of every
// plane. Samples are generated plane-major, then row-major, one LCG step
// per sample. Half samples are forced to finite normals and float
// samples to exact 24-bit fractions in [0, 1), so every value survives
// any load/store round trip bit-exactly.
func Fill(b *zimg.Buffer, width, height, planes int, t zimg.PixelType, seed uint32) {
	s := lcg(seed)
	for p := 0; p < planes; p++ {
		for i := 0; i < height; i++ {
			row := b.Row(p, i)
			for x := 0; x < width; x++ {
				v := s.next()
				switch t {
				case zimg.PixelByte:
					row[x] = byte(v >> 24)
				case zimg.PixelWord:
					binary.LittleEndian.PutUint16(row[x*2:], uint16(v>>16))
				case zimg.PixelHalf:
					bits := uint16(v>>16)&0x83FF | 0x3C00
					binary.LittleEndian.PutUint16(row[x*2:], bits)
				case zimg.PixelFloat:
					f := float32(v>>8) / (1 << 24)
					binary.LittleEndian.PutUint32(row[x*4:], math.Float32bits(f))
				}
			}
		}
	}
}

// Digest returns the hex SHA1 of plane p's payload: width*size bytes per
// row, height rows, stride padding excluded.
func Digest(b *zimg.Buffer, p, width, height int, t zimg.PixelType) string {
	h := sha1.New()
	n := width * t.Size()
	for i := 0; i < height; i++ {
		h.Write(b.Row(p, i)[:n])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SamePlane reports whether the payload regions of plane p agree.
func SamePlane(a, b *zimg.Buffer, p, width, height int, t zimg.PixelType) bool {
	n := width * t.Size()
	for i := 0; i < height; i++ {
		ra, rb := a.Row(p, i)[:n], b.Row(p, i)[:n]
		for k := range ra {
			if ra[k] != rb[k] {
				return false
			}
		}
	}
	return true
}

// sentinelByte marks destination bytes a Process call must not touch.
const sentinelByte = 0xA5

// CheckContainment runs one Process call over the given window against a
// sentinel-filled destination and verifies the write stayed inside rows
// [i, i+SimultaneousLines) and columns [left, right). Every other byte of
// every destination plane, stride padding included, must keep its
// sentinel.
func CheckContainment(f zimg.Filter, g Geometry, src *zimg.Buffer, i, left, right int) error {
	dst := AllocFrame(g.DstWidth, g.DstHeight, g.Planes, g.DstType)
	for p := 0; p < g.Planes; p++ {
		for k := range dst.Data[p] {
			dst.Data[p][k] = sentinelByte
		}
	}

	ctx := zimg.AllocBytes(f.ContextSize())
	tmp := zimg.AllocBytes(f.TmpSize(left, right))
	if err := f.InitContext(ctx); err != nil {
		return err
	}
	if err := f.Process(ctx, src, dst, tmp, i, left, right); err != nil {
		return err
	}

	size := g.DstType.Size()
	rowLo, rowHi := i, i+f.SimultaneousLines()
	if rowHi > g.DstHeight {
		rowHi = g.DstHeight
	}
	for p := 0; p < g.Planes; p++ {
		for row := 0; row < g.DstHeight; row++ {
			r := dst.Row(p, row)
			for k := range r {
				inWindow := row >= rowLo && row < rowHi &&
					k >= left*size && k < right*size
				if !inWindow && r[k] != sentinelByte {
					return zimg.Errorf(zimg.ErrLogic,
						"plane %d row %d byte %d written outside window (%d, [%d, %d))",
						p, row, k, i, left, right)
				}
			}
		}
	}
	return nil
}

// Geometry describes the frames around a single filter.
type Geometry struct {
	SrcWidth  int
	SrcHeight int
	DstWidth  int
	DstHeight int
	SrcType   zimg.PixelType
	DstType   zimg.PixelType
	Planes    int
}

func clampRange(r zimg.Range, limit int) zimg.Range {
	if r.First < 0 {
		r.First = 0
	}
	if r.Second > limit {
		r.Second = limit
	}
	return r
}

// RunWholeFrame drives f over src with whole-frame buffers on both
// sides and returns the output frame.
func RunWholeFrame(f zimg.Filter, g Geometry, src *zimg.Buffer) (*zimg.Buffer, error) {
	dst := AllocFrame(g.DstWidth, g.DstHeight, g.Planes, g.DstType)
	ctx := zimg.AllocBytes(f.ContextSize())
	tmp := zimg.AllocBytes(f.TmpSize(0, g.DstWidth))
	if err := f.InitContext(ctx); err != nil {
		return nil, err
	}
	sim := f.SimultaneousLines()
	for i := 0; i < g.DstHeight; i += sim {
		if err := f.Process(ctx, src, dst, tmp, i, 0, g.DstWidth); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// RunWindowed drives f reading through the smallest circular source
// window its reported row ranges permit, feeding rows forward exactly
// once. Divergence from RunWholeFrame means the filter misreports its
// dependencies.
func RunWindowed(f zimg.Filter, g Geometry, src *zimg.Buffer) (*zimg.Buffer, error) {
	sim := f.SimultaneousLines()

	lines := 1
	for i := 0; i < g.DstHeight; i += sim {
		r := clampRange(f.RequiredRowRange(i), g.SrcHeight)
		if n := r.Len(); n > lines {
			lines = n
		}
	}

	ring := AllocWindow(g.SrcWidth, lines, g.Planes, g.SrcType)
	dst := AllocFrame(g.DstWidth, g.DstHeight, g.Planes, g.DstType)
	ctx := zimg.AllocBytes(f.ContextSize())
	tmp := zimg.AllocBytes(f.TmpSize(0, g.DstWidth))
	if err := f.InitContext(ctx); err != nil {
		return nil, err
	}

	n := g.SrcWidth * g.SrcType.Size()
	filled := 0
	for i := 0; i < g.DstHeight; i += sim {
		r := clampRange(f.RequiredRowRange(i), g.SrcHeight)
		for ; filled < r.Second; filled++ {
			for p := 0; p < g.Planes; p++ {
				copy(ring.Row(p, filled)[:n], src.Row(p, filled)[:n])
			}
		}
		if err := f.Process(ctx, ring, dst, tmp, i, 0, g.DstWidth); err != nil {
			return nil, err
		}
	}
	return dst, nil
}
