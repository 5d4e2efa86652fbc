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

package resize

import (
	"math"

	"github.com/ajroetker/go-zimg/zimg"
)

// Kernel is a resampling kernel: a symmetric weighting function with
// finite support, evaluated in source-sample units.
type Kernel interface {
	// Support returns the kernel radius. Samples farther than Support
	// from the center have zero weight. A radius of 0 selects
	// nearest-neighbor sampling.
	Support() float64

	// Weight evaluates the kernel at offset x from the center.
	Weight(x float64) float64
}

// KernelType selects one of the built-in kernels.
type KernelType int

const (
	KernelPoint KernelType = iota
	KernelBilinear
	KernelBicubic
	KernelSpline16
	KernelSpline36
	KernelLanczos
)

// NewKernel builds a kernel from its type tag and parameters. NaN
// parameters select the conventional defaults: Mitchell 1/3 for bicubic,
// 3 taps for Lanczos.
func NewKernel(t KernelType, a, b float64) (Kernel, error) {
	switch t {
	case KernelPoint:
		return Point{}, nil
	case KernelBilinear:
		return Bilinear{}, nil
	case KernelBicubic:
		if math.IsNaN(a) {
			a = 1.0 / 3.0
		}
		if math.IsNaN(b) {
			b = 1.0 / 3.0
		}
		return Bicubic{B: a, C: b}, nil
	case KernelSpline16:
		return Spline16{}, nil
	case KernelSpline36:
		return Spline36{}, nil
	case KernelLanczos:
		if math.IsNaN(a) {
			a = 3
		}
		taps := int(math.Floor(a))
		if taps < 1 {
			return nil, zimg.Errorf(zimg.ErrIllegalArgument, "lanczos taps %d out of range", taps)
		}
		return Lanczos{Taps: taps}, nil
	default:
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid resize kernel %d", int(t))
	}
}

// Point is nearest-neighbor sampling.
type Point struct{}

func (Point) Support() float64       { return 0 }
func (Point) Weight(float64) float64 { return 1 }

// Bilinear is the triangle kernel.
type Bilinear struct{}

func (Bilinear) Support() float64 { return 1 }

func (Bilinear) Weight(x float64) float64 {
	return math.Max(0, 1-math.Abs(x))
}

// Bicubic is the two-parameter cubic family of Mitchell and Netravali.
type Bicubic struct {
	B, C float64
}

func (Bicubic) Support() float64 { return 2 }

func (k Bicubic) Weight(x float64) float64 {
	x = math.Abs(x)
	b, c := k.B, k.C
	switch {
	case x < 1:
		return ((12-9*b-6*c)*x*x*x + (-18+12*b+6*c)*x*x + (6 - 2*b)) / 6
	case x < 2:
		return ((-b-6*c)*x*x*x + (6*b+30*c)*x*x + (-12*b-48*c)*x + (8*b + 24*c)) / 6
	default:
		return 0
	}
}

// Spline16 is the 4-tap interpolating cubic spline.
type Spline16 struct{}

func (Spline16) Support() float64 { return 2 }

func (Spline16) Weight(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1:
		return ((x-9.0/5.0)*x-1.0/5.0)*x + 1
	case x < 2:
		x -= 1
		return ((-1.0/3.0*x+4.0/5.0)*x - 7.0/15.0) * x
	default:
		return 0
	}
}

// Spline36 is the 6-tap interpolating cubic spline.
type Spline36 struct{}

func (Spline36) Support() float64 { return 3 }

func (Spline36) Weight(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1:
		return ((13.0/11.0*x-453.0/209.0)*x-3.0/209.0)*x + 1
	case x < 2:
		x -= 1
		return ((-6.0/11.0*x+270.0/209.0)*x - 156.0/209.0) * x
	case x < 3:
		x -= 2
		return ((1.0/11.0*x-45.0/209.0)*x + 26.0/209.0) * x
	default:
		return 0
	}
}

// Lanczos is the windowed-sinc kernel with the given number of lobes.
type Lanczos struct {
	Taps int
}

func (k Lanczos) Support() float64 { return float64(k.Taps) }

func (k Lanczos) Weight(x float64) float64 {
	x = math.Abs(x)
	if x >= float64(k.Taps) {
		return 0
	}
	return sinc(x) * sinc(x/float64(k.Taps))
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// weightTable is the evaluated form of a kernel over one axis: for each
// output index, a fixed-width window of normalized float32 weights and
// the leftmost source index it applies to. Windows are clamped to the
// source dimension, so left is always in [0, srcDim-taps] and
// non-decreasing in the output index.
type weightTable struct {
	taps int
	left []int
	data []float32 // len(left) rows of taps weights
}

// computeWeightTable evaluates k for a dstDim-sample view of a
// subrange-sample window of a srcDim-sample axis, offset by shift.
// Downscaling stretches the kernel so it keeps covering one output step.
func computeWeightTable(k Kernel, srcDim, dstDim int, shift, subrange float64) (*weightTable, error) {
	if srcDim <= 0 || dstDim <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid resize extent %d -> %d", srcDim, dstDim)
	}
	if math.IsNaN(subrange) {
		subrange = float64(srcDim)
	}
	if subrange <= 0 || subrange > float64(srcDim) || math.IsNaN(shift) || math.IsInf(shift, 0) {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid resize window shift=%v subrange=%v", shift, subrange)
	}

	step := subrange / float64(dstDim)
	filterScale := math.Max(1, step)
	support := k.Support() * filterScale

	taps := max(1, int(math.Ceil(support))*2)
	taps = min(taps, srcDim)

	t := &weightTable{
		taps: taps,
		left: make([]int, dstDim),
		data: make([]float32, dstDim*taps),
	}

	for j := 0; j < dstDim; j++ {
		center := (float64(j)+0.5)*step + shift

		var left int
		if support == 0 {
			// Nearest neighbor: one tap at the sample containing the
			// center.
			left = int(math.Floor(center))
		} else {
			left = int(math.Ceil(center - 0.5 - support))
		}
		left = min(max(left, 0), srcDim-taps)
		t.left[j] = left

		row := t.data[j*taps : (j+1)*taps]
		sum := 0.0
		tmp := make([]float64, taps)
		for n := 0; n < taps; n++ {
			var w float64
			if support == 0 {
				if n == 0 {
					w = 1
				}
			} else {
				w = k.Weight((float64(left+n) + 0.5 - center) / filterScale)
			}
			tmp[n] = w
			sum += w
		}
		if sum == 0 {
			return nil, zimg.Errorf(zimg.ErrLogic, "kernel weights sum to zero at index %d", j)
		}
		for n := 0; n < taps; n++ {
			row[n] = float32(tmp[n] / sum)
		}
	}
	return t, nil
}
