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

// Package colorspace converts between color encodings as a joint
// three-plane windowed filter over float32 samples. A conversion is
// planned once into a short pipeline of 3x3 matrices and transfer-curve
// steps; adjacent matrices are folded together, so the common
// YCbCr <-> RGB case executes as a single matrix.
package colorspace

import (
	"unsafe"

	"github.com/ajroetker/go-zimg/zimg"
)

// MatrixCoefficients selects the YCbCr encoding matrix. Distinct wire
// tags that specify identical coefficients share one constant here:
// BT.470bg and SMPTE 170M carry the 601 coefficients.
type MatrixCoefficients int

const (
	MatrixRGB MatrixCoefficients = iota
	Matrix601
	Matrix709
	Matrix2020NCL
	Matrix2020CL

	Matrix470BG = Matrix601
	Matrix170M  = Matrix601
)

// Valid reports whether m names a known matrix.
func (m MatrixCoefficients) Valid() bool {
	return m >= MatrixRGB && m <= Matrix2020CL
}

// TransferCharacteristics selects the transfer curve. The 1886, 601 and
// 10-/12-bit 2020 curves define the same OETF as 709 and collapse onto
// Transfer709.
type TransferCharacteristics int

const (
	TransferLinear TransferCharacteristics = iota
	Transfer709

	Transfer601     = Transfer709
	Transfer2020_10 = Transfer709
	Transfer2020_12 = Transfer709
)

// Valid reports whether t names a known transfer curve.
func (t TransferCharacteristics) Valid() bool {
	return t >= TransferLinear && t <= Transfer709
}

// ColorPrimaries selects the RGB chromaticities. SMPTE 170M and 240M
// specify the SMPTE-C primaries and collapse onto PrimariesSMPTEC.
type ColorPrimaries int

const (
	Primaries709 ColorPrimaries = iota
	PrimariesSMPTEC
	Primaries2020

	Primaries170M = PrimariesSMPTEC
	Primaries240M = PrimariesSMPTEC
)

// Valid reports whether p names known primaries.
func (p ColorPrimaries) Valid() bool {
	return p >= Primaries709 && p <= Primaries2020
}

// Definition is a complete colorspace tag triple.
type Definition struct {
	Matrix    MatrixCoefficients
	Transfer  TransferCharacteristics
	Primaries ColorPrimaries
}

// Valid reports whether every field names a known value.
func (d Definition) Valid() bool {
	return d.Matrix.Valid() && d.Transfer.Valid() && d.Primaries.Valid()
}

// Params configures a colorspace conversion.
type Params struct {
	Width  int
	Height int

	In  Definition
	Out Definition

	CPU zimg.CPU
}

// DefaultParams returns a Params with automatic CPU selection.
func DefaultParams() Params {
	return Params{CPU: zimg.CPUAuto}
}

// operation is one step of a baked conversion pipeline, applied in place
// to three equal-length float32 spans.
type operation interface {
	apply(r, g, b []float32)
}

type matrixOp struct {
	m      [3][3]float32
	unroll bool
}

func (op *matrixOp) apply(r, g, b []float32) {
	m := &op.m
	k := 0
	if op.unroll {
		for ; k+2 <= len(r); k += 2 {
			r0, g0, b0 := r[k], g[k], b[k]
			r1, g1, b1 := r[k+1], g[k+1], b[k+1]
			r[k] = m[0][0]*r0 + m[0][1]*g0 + m[0][2]*b0
			g[k] = m[1][0]*r0 + m[1][1]*g0 + m[1][2]*b0
			b[k] = m[2][0]*r0 + m[2][1]*g0 + m[2][2]*b0
			r[k+1] = m[0][0]*r1 + m[0][1]*g1 + m[0][2]*b1
			g[k+1] = m[1][0]*r1 + m[1][1]*g1 + m[1][2]*b1
			b[k+1] = m[2][0]*r1 + m[2][1]*g1 + m[2][2]*b1
		}
	}
	for ; k < len(r); k++ {
		r0, g0, b0 := r[k], g[k], b[k]
		r[k] = m[0][0]*r0 + m[0][1]*g0 + m[0][2]*b0
		g[k] = m[1][0]*r0 + m[1][1]*g0 + m[1][2]*b0
		b[k] = m[2][0]*r0 + m[2][1]*g0 + m[2][2]*b0
	}
}

// curveOp applies a scalar transfer curve to every channel.
type curveOp struct {
	f func(float64) float64
}

func (op *curveOp) apply(r, g, b []float32) {
	for _, ch := range [3][]float32{r, g, b} {
		for k, v := range ch {
			ch[k] = float32(op.f(float64(v)))
		}
	}
}

// Colorspace is a stateless, in-place-capable color filter operating on
// all three planes of a row jointly.
type Colorspace struct {
	width  int
	height int
	ops    []operation
}

// New plans a conversion from p.In to p.Out. Constant-luminance 2020 is
// not supported.
func New(p Params) (*Colorspace, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid dimensions %dx%d", p.Width, p.Height)
	}
	if !p.In.Valid() || !p.Out.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid colorspace definition")
	}
	if p.In.Matrix == Matrix2020CL || p.Out.Matrix == Matrix2020CL {
		return nil, zimg.Errorf(zimg.ErrUnsupported, "constant luminance 2020 not supported")
	}
	if !p.CPU.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid cpu tag %d", int(p.CPU))
	}
	unroll := p.CPU.Resolve() != zimg.CPUNone

	cs := &Colorspace{width: p.Width, height: p.Height}
	if p.In == p.Out {
		return cs, nil
	}

	var plan []operation
	pushMatrix := func(m Matrix3) {
		// Fold adjacent matrices so a plan never multiplies twice where
		// once suffices.
		if n := len(plan); n > 0 {
			if prev, ok := plan[n-1].(*pendingMatrix); ok {
				prev.m = m.mul(prev.m)
				return
			}
		}
		plan = append(plan, &pendingMatrix{m: m})
	}

	if p.In.Matrix != MatrixRGB {
		m, err := ycbcrInverse(p.In.Matrix)
		if err != nil {
			return nil, err
		}
		pushMatrix(m)
	}

	needLinear := p.In.Transfer != p.Out.Transfer || p.In.Primaries != p.Out.Primaries
	if needLinear && p.In.Transfer == Transfer709 {
		plan = append(plan, &curveOp{f: rec709InverseOETF})
	}
	if p.In.Primaries != p.Out.Primaries {
		m, err := gamutMatrix(p.In.Primaries, p.Out.Primaries)
		if err != nil {
			return nil, err
		}
		pushMatrix(m)
	}
	if needLinear && p.Out.Transfer == Transfer709 {
		plan = append(plan, &curveOp{f: rec709OETF})
	}
	if p.Out.Matrix != MatrixRGB {
		m, err := ycbcrForward(p.Out.Matrix)
		if err != nil {
			return nil, err
		}
		pushMatrix(m)
	}

	cs.ops = make([]operation, 0, len(plan))
	for _, op := range plan {
		if pm, ok := op.(*pendingMatrix); ok {
			cs.ops = append(cs.ops, pm.bake(unroll))
			continue
		}
		cs.ops = append(cs.ops, op)
	}
	return cs, nil
}

// pendingMatrix accumulates folded matrices in double precision until
// the plan is baked.
type pendingMatrix struct {
	m Matrix3
}

func (pm *pendingMatrix) apply(r, g, b []float32) {
	pm.bake(false).apply(r, g, b)
}

func (pm *pendingMatrix) bake(unroll bool) *matrixOp {
	op := &matrixOp{unroll: unroll}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			op.m[i][j] = float32(pm.m[i][j])
		}
	}
	return op
}

// Flags reports a stateless, in-place, joint-plane row filter.
func (cs *Colorspace) Flags() zimg.Flags {
	return zimg.Flags{SameRow: true, InPlace: true, Color: true}
}

// RequiredRowRange returns [i, i+1).
func (cs *Colorspace) RequiredRowRange(i int) zimg.Range {
	return zimg.Range{First: i, Second: i + 1}
}

// RequiredColRange returns [left, right).
func (cs *Colorspace) RequiredColRange(left, right int) zimg.Range {
	return zimg.Range{First: left, Second: right}
}

// SimultaneousLines returns 1.
func (cs *Colorspace) SimultaneousLines() int { return 1 }

// ContextSize returns 0.
func (cs *Colorspace) ContextSize() int { return 0 }

// TmpSize returns 0: conversion happens in place on the output row.
func (cs *Colorspace) TmpSize(left, right int) int { return 0 }

// InitContext is a no-op.
func (cs *Colorspace) InitContext(ctx []byte) error { return nil }

// Process converts columns [left, right) of row i across all three
// planes. Source spans are copied to the destination first, so src and
// dst may alias.
func (cs *Colorspace) Process(ctx []byte, src, dst *zimg.Buffer, tmp []byte, i, left, right int) error {
	if i < 0 || i >= cs.height || left < 0 || right > cs.width || left >= right {
		return zimg.Errorf(zimg.ErrIllegalArgument, "window (%d, [%d, %d)) outside %dx%d frame",
			i, left, right, cs.width, cs.height)
	}

	var spans [3][]float32
	for p := 0; p < 3; p++ {
		s := src.Row(p, i)
		d := dst.Row(p, i)
		if &s[0] != &d[0] {
			copy(d[left*4:right*4], s[left*4:right*4])
		}
		spans[p] = rowF32(d, left, right)
	}
	for _, op := range cs.ops {
		op.apply(spans[0], spans[1], spans[2])
	}
	return nil
}

// rowF32 views columns [left, right) of a float32 row in place. Rows
// come from aligned plane allocations, so the 4-byte sample alignment
// the view needs always holds.
func rowF32(row []byte, left, right int) []float32 {
	span := row[left*4 : right*4]
	return unsafe.Slice((*float32)(unsafe.Pointer(&span[0])), right-left)
}
