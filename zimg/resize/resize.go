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

// Package resize implements separable resampling as a pair of windowed
// filters: a horizontal pass that stays on its input row and a vertical
// pass whose required row range is the tap window of the output row.
// Both operate on float32 planes only.
package resize

import (
	"encoding/binary"
	"math"

	"github.com/ajroetker/go-zimg/zimg"
)

// Params configures a separable resize, mirroring the construction
// record of the boundary layer. NaN means "default": the full source
// extent for Subwidth/Subheight, the kernel's conventional parameters
// for FilterParamA/B.
type Params struct {
	SrcWidth  int
	SrcHeight int
	DstWidth  int
	DstHeight int

	PixelType zimg.PixelType

	// ShiftW and ShiftH offset the sampled window, in source samples.
	ShiftW float64
	ShiftH float64

	// Subwidth and Subheight bound the sampled window.
	Subwidth  float64
	Subheight float64

	Kernel       KernelType
	FilterParamA float64
	FilterParamB float64

	CPU zimg.CPU
}

// DefaultParams returns a Params with NaN window and kernel parameters,
// automatic CPU selection and a deliberately invalid pixel type.
func DefaultParams() Params {
	return Params{
		PixelType:    zimg.PixelType(-1),
		Subwidth:     math.NaN(),
		Subheight:    math.NaN(),
		Kernel:       KernelPoint,
		FilterParamA: math.NaN(),
		FilterParamB: math.NaN(),
		CPU:          zimg.CPUAuto,
	}
}

// Stage pairs a filter with its output geometry, ready for chain
// assembly.
type Stage struct {
	Filter zimg.Filter
	Width  int
	Height int
}

// New plans a separable resize and returns its stages in application
// order. Passes that would be the identity are omitted; a no-op plan
// returns no stages. The cheaper axis runs first: shrinking early and
// stretching late minimizes the samples the other pass touches.
func New(p Params) ([]Stage, error) {
	if p.PixelType != zimg.PixelFloat {
		if !p.PixelType.Valid() {
			return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid pixel type %d", int(p.PixelType))
		}
		return nil, zimg.Errorf(zimg.ErrUnsupported, "resize supports float samples only, got %s", p.PixelType)
	}
	if !p.CPU.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid cpu tag %d", int(p.CPU))
	}
	kernel, err := NewKernel(p.Kernel, p.FilterParamA, p.FilterParamB)
	if err != nil {
		return nil, err
	}
	cpu := p.CPU.Resolve()

	subw := p.Subwidth
	if math.IsNaN(subw) {
		subw = float64(p.SrcWidth)
	}
	subh := p.Subheight
	if math.IsNaN(subh) {
		subh = float64(p.SrcHeight)
	}

	needH := p.SrcWidth != p.DstWidth || p.ShiftW != 0 || subw != float64(p.SrcWidth)
	needV := p.SrcHeight != p.DstHeight || p.ShiftH != 0 || subh != float64(p.SrcHeight)

	// Decide pass order by the area of the intermediate frame.
	hFirst := p.DstWidth*p.SrcHeight <= p.SrcWidth*p.DstHeight

	var stages []Stage
	appendH := func(height int) error {
		f, err := NewHorizontal(kernel, p.SrcWidth, p.DstWidth, height, p.ShiftW, subw, cpu)
		if err != nil {
			return err
		}
		stages = append(stages, Stage{Filter: f, Width: p.DstWidth, Height: height})
		return nil
	}
	appendV := func(width int) error {
		f, err := NewVertical(kernel, p.SrcHeight, p.DstHeight, width, p.ShiftH, subh, cpu)
		if err != nil {
			return err
		}
		stages = append(stages, Stage{Filter: f, Width: width, Height: p.DstHeight})
		return nil
	}

	switch {
	case needH && needV && hFirst:
		if err := appendH(p.SrcHeight); err != nil {
			return nil, err
		}
		err = appendV(p.DstWidth)
	case needH && needV:
		if err := appendV(p.SrcWidth); err != nil {
			return nil, err
		}
		err = appendH(p.DstHeight)
	case needH:
		err = appendH(p.SrcHeight)
	case needV:
		err = appendV(p.SrcWidth)
	}
	if err != nil {
		return nil, err
	}
	return stages, nil
}

// Horizontal resamples along rows. It never leaves its input row, so
// chains can keep single-line caches around it.
type Horizontal struct {
	weights  *weightTable
	srcWidth int
	dstWidth int
	height   int
	unroll   bool
}

// NewHorizontal builds a horizontal resampler for float32 planes of the
// given height.
func NewHorizontal(k Kernel, srcWidth, dstWidth, height int, shift, subwidth float64, cpu zimg.CPU) (*Horizontal, error) {
	if height <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid height %d", height)
	}
	w, err := computeWeightTable(k, srcWidth, dstWidth, shift, subwidth)
	if err != nil {
		return nil, err
	}
	return &Horizontal{
		weights:  w,
		srcWidth: srcWidth,
		dstWidth: dstWidth,
		height:   height,
		unroll:   cpu.Resolve() != zimg.CPUNone,
	}, nil
}

// Flags reports SameRow: output row i reads only input row i.
func (h *Horizontal) Flags() zimg.Flags {
	return zimg.Flags{SameRow: true}
}

// RequiredRowRange returns [i, i+1).
func (h *Horizontal) RequiredRowRange(i int) zimg.Range {
	return zimg.Range{First: i, Second: i + 1}
}

// RequiredColRange returns the union of the tap windows of output
// columns [left, right). Tap windows are non-decreasing, so the union is
// the span from the first window's start to the last window's end.
func (h *Horizontal) RequiredColRange(left, right int) zimg.Range {
	if right <= left {
		return zimg.Range{}
	}
	left = min(max(left, 0), h.dstWidth-1)
	right = min(max(right, left+1), h.dstWidth)
	return zimg.Range{
		First:  h.weights.left[left],
		Second: h.weights.left[right-1] + h.weights.taps,
	}
}

// SimultaneousLines returns 1.
func (h *Horizontal) SimultaneousLines() int { return 1 }

// ContextSize returns 0: the filter is stateless.
func (h *Horizontal) ContextSize() int { return 0 }

// TmpSize returns 0: taps read straight from the source row.
func (h *Horizontal) TmpSize(left, right int) int { return 0 }

// InitContext is a no-op.
func (h *Horizontal) InitContext(ctx []byte) error { return nil }

// Process resamples columns [left, right) of row i.
func (h *Horizontal) Process(ctx []byte, src, dst *zimg.Buffer, tmp []byte, i, left, right int) error {
	if i < 0 || i >= h.height || left < 0 || right > h.dstWidth || left >= right {
		return zimg.Errorf(zimg.ErrIllegalArgument, "window (%d, [%d, %d)) outside %dx%d frame",
			i, left, right, h.dstWidth, h.height)
	}

	taps := h.weights.taps
	s := src.Row(0, i)
	d := dst.Row(0, i)
	for x := left; x < right; x++ {
		w := h.weights.data[x*taps : (x+1)*taps]
		base := h.weights.left[x]

		var acc float32
		n := 0
		if h.unroll {
			for ; n+4 <= taps; n += 4 {
				acc += w[n+0]*loadF32(s, base+n+0) +
					w[n+1]*loadF32(s, base+n+1) +
					w[n+2]*loadF32(s, base+n+2) +
					w[n+3]*loadF32(s, base+n+3)
			}
		}
		for ; n < taps; n++ {
			acc += w[n] * loadF32(s, base+n)
		}
		storeF32(d, x, acc)
	}
	return nil
}

// Vertical resamples along columns. RequiredRowRange exposes the tap
// window, letting drivers keep only a few source lines buffered.
type Vertical struct {
	weights   *weightTable
	srcHeight int
	dstHeight int
	width     int
}

// NewVertical builds a vertical resampler for float32 planes of the
// given width.
func NewVertical(k Kernel, srcHeight, dstHeight, width int, shift, subheight float64, cpu zimg.CPU) (*Vertical, error) {
	if width <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid width %d", width)
	}
	w, err := computeWeightTable(k, srcHeight, dstHeight, shift, subheight)
	if err != nil {
		return nil, err
	}
	return &Vertical{
		weights:   w,
		srcHeight: srcHeight,
		dstHeight: dstHeight,
		width:     width,
	}, nil
}

// Flags reports no capabilities: vertical resampling crosses rows.
func (v *Vertical) Flags() zimg.Flags {
	return zimg.Flags{}
}

// RequiredRowRange returns the tap window of output row i. The window
// start and end are non-decreasing in i.
func (v *Vertical) RequiredRowRange(i int) zimg.Range {
	i = min(max(i, 0), v.dstHeight-1)
	first := v.weights.left[i]
	return zimg.Range{First: first, Second: first + v.weights.taps}
}

// RequiredColRange returns [left, right).
func (v *Vertical) RequiredColRange(left, right int) zimg.Range {
	return zimg.Range{First: left, Second: right}
}

// SimultaneousLines returns 1.
func (v *Vertical) SimultaneousLines() int { return 1 }

// ContextSize returns 0: the filter is stateless.
func (v *Vertical) ContextSize() int { return 0 }

// TmpSize returns 0.
func (v *Vertical) TmpSize(left, right int) int { return 0 }

// InitContext is a no-op.
func (v *Vertical) InitContext(ctx []byte) error { return nil }

// Process resamples output row i over columns [left, right), sweeping
// one source row per tap to stay sequential in memory.
func (v *Vertical) Process(ctx []byte, src, dst *zimg.Buffer, tmp []byte, i, left, right int) error {
	if i < 0 || i >= v.dstHeight || left < 0 || right > v.width || left >= right {
		return zimg.Errorf(zimg.ErrIllegalArgument, "window (%d, [%d, %d)) outside %dx%d frame",
			i, left, right, v.width, v.dstHeight)
	}

	taps := v.weights.taps
	w := v.weights.data[i*taps : (i+1)*taps]
	base := v.weights.left[i]
	d := dst.Row(0, i)

	for x := left; x < right; x++ {
		storeF32(d, x, 0)
	}
	for n := 0; n < taps; n++ {
		s := src.Row(0, base+n)
		wn := w[n]
		for x := left; x < right; x++ {
			storeF32(d, x, loadF32(d, x)+wn*loadF32(s, x))
		}
	}
	return nil
}

func loadF32(row []byte, x int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(row[x*4:]))
}

func storeF32(row []byte, x int, v float32) {
	binary.LittleEndian.PutUint32(row[x*4:], math.Float32bits(v))
}
