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

// Package depth converts planes between pixel formats: sample type,
// significant bit depth, limited/full range and chroma centering. Integer
// outputs may be dithered.
//
// Conversion goes through a normalized float32 staging row held in the
// caller-supplied scratch buffer: luma maps to [0, 1], chroma to
// [-0.5, 0.5].
package depth

import (
	"unsafe"

	"github.com/ajroetker/go-zimg/zimg"
)

// DitherType selects the quantization strategy for integer outputs.
type DitherType int

const (
	// DitherNone rounds to the nearest representable value, resolving
	// exact half steps to the even neighbor.
	DitherNone DitherType = iota

	// DitherOrdered applies an 8x8 Bayer threshold matrix.
	DitherOrdered

	// DitherRandom adds uniform noise from a position-seeded hash, so
	// results stay deterministic.
	DitherRandom

	// DitherErrorDiffusion applies Floyd-Steinberg error diffusion.
	// It makes the filter stateful and forbids column tiling.
	DitherErrorDiffusion
)

// Valid reports whether d is a defined dither type.
func (d DitherType) Valid() bool {
	return d >= DitherNone && d <= DitherErrorDiffusion
}

// String returns a short name for the dither type.
func (d DitherType) String() string {
	switch d {
	case DitherNone:
		return "none"
	case DitherOrdered:
		return "ordered"
	case DitherRandom:
		return "random"
	case DitherErrorDiffusion:
		return "error_diffusion"
	default:
		return "invalid"
	}
}

// Params configures a depth conversion filter.
type Params struct {
	Dither   DitherType
	Width    int
	Height   int
	PixelIn  zimg.PixelFormat
	PixelOut zimg.PixelFormat
	CPU      zimg.CPU
}

// DefaultParams returns a Params with no dithering, automatic CPU
// selection and deliberately invalid pixel formats, forcing the caller to
// choose them explicitly.
func DefaultParams() Params {
	return Params{
		Dither:   DitherNone,
		PixelIn:  zimg.PixelFormat{Type: zimg.PixelType(-1)},
		PixelOut: zimg.PixelFormat{Type: zimg.PixelType(-1)},
		CPU:      zimg.CPUAuto,
	}
}

// Depth converts one plane between pixel formats. SameRow always holds;
// error-diffusion dithering additionally carries state and requires
// entire rows.
type Depth struct {
	width  int
	height int
	in     zimg.PixelFormat
	out    zimg.PixelFormat
	dither DitherType

	load       loadFunc
	store      storeFunc
	quant      quantizeFunc
	storeScale float32
	storeBias  float32
	loadScale  float32
	loadBias   float32
	maxValue   float32
}

// New builds a depth conversion filter. Formats are validated before any
// allocation; the chroma flag must agree between input and output.
func New(p Params) (*Depth, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid dimensions %dx%d", p.Width, p.Height)
	}
	if !p.Dither.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid dither type %d", int(p.Dither))
	}
	if err := p.PixelIn.Validate(); err != nil {
		return nil, err
	}
	if err := p.PixelOut.Validate(); err != nil {
		return nil, err
	}
	if p.PixelIn.Chroma != p.PixelOut.Chroma {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "chroma flag mismatch between input and output")
	}
	if !p.CPU.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid cpu tag %d", int(p.CPU))
	}

	cpu := p.CPU.Resolve()

	d := &Depth{
		width:  p.Width,
		height: p.Height,
		in:     p.PixelIn,
		out:    p.PixelOut,
		dither: p.Dither,
	}
	inScale, inOffset := normalizeCoeffs(p.PixelIn)
	d.loadScale = 1 / inScale
	d.loadBias = -inOffset / inScale
	d.load = selectLoad(p.PixelIn.Type, cpu)

	if p.PixelOut.Type.IsFloat() {
		// Dithering is meaningless for float outputs.
		d.dither = DitherNone
		d.store = selectStore(p.PixelOut.Type)
	} else {
		d.storeScale, d.storeBias = normalizeCoeffs(p.PixelOut)
		d.maxValue = float32(uint32(1)<<uint(p.PixelOut.Depth)) - 1
		d.quant = selectQuantize(p.PixelOut.Type, d.dither)
	}
	return d, nil
}

// Flags reports SameRow always; error diffusion adds HasState and
// EntireRow.
func (d *Depth) Flags() zimg.Flags {
	return zimg.Flags{
		SameRow:   true,
		HasState:  d.dither == DitherErrorDiffusion,
		EntireRow: d.dither == DitherErrorDiffusion,
	}
}

// RequiredRowRange returns [i, i+1).
func (d *Depth) RequiredRowRange(i int) zimg.Range {
	return zimg.Range{First: i, Second: i + 1}
}

// RequiredColRange returns [left, right), or the whole row width under
// error diffusion.
func (d *Depth) RequiredColRange(left, right int) zimg.Range {
	if d.dither == DitherErrorDiffusion {
		return zimg.Range{First: 0, Second: d.width}
	}
	return zimg.Range{First: left, Second: right}
}

// SimultaneousLines returns 1.
func (d *Depth) SimultaneousLines() int { return 1 }

// ContextSize returns the bytes needed for the carried error rows under
// error diffusion, otherwise 0.
func (d *Depth) ContextSize() int {
	if d.dither != DitherErrorDiffusion {
		return 0
	}
	// Two (width+2)-element float32 rows: errors flowing into the
	// current row and errors accumulating for the next one.
	return 2 * (d.width + 2) * 4
}

// TmpSize returns the bytes of the float32 staging row for the column
// span.
func (d *Depth) TmpSize(left, right int) int {
	if right <= left {
		return 0
	}
	return zimg.AlignStride((right - left) * 4)
}

// InitContext zeroes the carried error rows.
func (d *Depth) InitContext(ctx []byte) error {
	if d.dither != DitherErrorDiffusion {
		return nil
	}
	if len(ctx) < d.ContextSize() {
		return zimg.Errorf(zimg.ErrIllegalArgument, "context block too small: %d < %d", len(ctx), d.ContextSize())
	}
	clear(ctx[:d.ContextSize()])
	return nil
}

// Process converts row i over columns [left, right) from src plane 0 into
// dst plane 0, staging through tmp.
func (d *Depth) Process(ctx []byte, src, dst *zimg.Buffer, tmp []byte, i, left, right int) error {
	if d.dither == DitherErrorDiffusion && (left != 0 || right != d.width) {
		return zimg.Errorf(zimg.ErrLogic, "error diffusion requires entire rows, got [%d, %d)", left, right)
	}
	if i < 0 || i >= d.height || left < 0 || right > d.width || left >= right {
		return zimg.Errorf(zimg.ErrIllegalArgument, "window (%d, [%d, %d)) outside %dx%d frame",
			i, left, right, d.width, d.height)
	}
	if len(tmp) < d.TmpSize(left, right) {
		return zimg.Errorf(zimg.ErrIllegalArgument, "scratch buffer too small")
	}

	n := right - left
	stage := unsafe.Slice((*float32)(unsafe.Pointer(&tmp[0])), n)

	d.load(src.Row(0, i), stage, left, d.loadScale, d.loadBias)

	if d.out.Type.IsFloat() {
		d.store(stage, dst.Row(0, i), left)
		return nil
	}

	if d.dither == DitherErrorDiffusion {
		d.diffuseRow(ctx, stage, dst.Row(0, i), i)
		return nil
	}
	d.quant(stage, dst.Row(0, i), i, left, d.storeScale, d.storeBias, d.maxValue)
	return nil
}
