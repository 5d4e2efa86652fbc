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

package colorspace

import "github.com/ajroetker/go-zimg/zimg"

// Matrix3 is a row-major 3x3 matrix over float64; conversions are built
// in double precision and narrowed once when the pipeline is baked.
type Matrix3 [3][3]float64

// mul returns a*b.
func (a Matrix3) mul(b Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

// inverse returns a^-1 by cofactor expansion.
func (a Matrix3) inverse() (Matrix3, error) {
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if det == 0 {
		return Matrix3{}, zimg.Errorf(zimg.ErrLogic, "singular color matrix")
	}
	inv := 1 / det
	var out Matrix3
	out[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) * inv
	out[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) * inv
	out[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * inv
	out[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) * inv
	out[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * inv
	out[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) * inv
	out[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) * inv
	out[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) * inv
	out[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * inv
	return out, nil
}

// luminanceCoeffs returns the Kr/Kb pair of a matrix-coefficients tag.
func luminanceCoeffs(m MatrixCoefficients) (kr, kb float64, err error) {
	switch m {
	case Matrix601:
		return 0.299, 0.114, nil
	case Matrix709:
		return 0.2126, 0.0722, nil
	case Matrix2020NCL:
		return 0.2627, 0.0593, nil
	default:
		return 0, 0, zimg.Errorf(zimg.ErrIllegalArgument, "no luminance coefficients for matrix %d", int(m))
	}
}

// ycbcrForward builds the RGB -> YCbCr matrix for normalized samples
// (Y in [0,1], Cb/Cr in [-0.5, 0.5]).
func ycbcrForward(m MatrixCoefficients) (Matrix3, error) {
	kr, kb, err := luminanceCoeffs(m)
	if err != nil {
		return Matrix3{}, err
	}
	kg := 1 - kr - kb
	return Matrix3{
		{kr, kg, kb},
		{-kr / (2 * (1 - kb)), -kg / (2 * (1 - kb)), 0.5},
		{0.5, -kg / (2 * (1 - kr)), -kb / (2 * (1 - kr))},
	}, nil
}

// ycbcrInverse builds the YCbCr -> RGB matrix.
func ycbcrInverse(m MatrixCoefficients) (Matrix3, error) {
	fwd, err := ycbcrForward(m)
	if err != nil {
		return Matrix3{}, err
	}
	return fwd.inverse()
}

// chromaticity is a CIE xy coordinate.
type chromaticity struct {
	x, y float64
}

// whiteD65 is the D65 white point shared by all supported primaries.
var whiteD65 = chromaticity{0.3127, 0.3290}

func primariesChromaticities(p ColorPrimaries) (r, g, b chromaticity, err error) {
	switch p {
	case Primaries709:
		return chromaticity{0.640, 0.330}, chromaticity{0.300, 0.600}, chromaticity{0.150, 0.060}, nil
	case PrimariesSMPTEC:
		return chromaticity{0.630, 0.340}, chromaticity{0.310, 0.595}, chromaticity{0.155, 0.070}, nil
	case Primaries2020:
		return chromaticity{0.708, 0.292}, chromaticity{0.170, 0.797}, chromaticity{0.131, 0.046}, nil
	default:
		return r, g, b, zimg.Errorf(zimg.ErrIllegalArgument, "invalid color primaries %d", int(p))
	}
}

func xyzOf(c chromaticity) [3]float64 {
	return [3]float64{c.x / c.y, 1, (1 - c.x - c.y) / c.y}
}

// rgbToXYZ builds the RGB -> CIE XYZ matrix for the given primaries,
// normalized so the white point maps to luminance 1.
func rgbToXYZ(p ColorPrimaries) (Matrix3, error) {
	r, g, b, err := primariesChromaticities(p)
	if err != nil {
		return Matrix3{}, err
	}

	xr, xg, xb := xyzOf(r), xyzOf(g), xyzOf(b)
	m := Matrix3{
		{xr[0], xg[0], xb[0]},
		{xr[1], xg[1], xb[1]},
		{xr[2], xg[2], xb[2]},
	}
	inv, err := m.inverse()
	if err != nil {
		return Matrix3{}, err
	}

	w := xyzOf(whiteD65)
	var s [3]float64
	for i := 0; i < 3; i++ {
		s[i] = inv[i][0]*w[0] + inv[i][1]*w[1] + inv[i][2]*w[2]
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] *= s[j]
		}
	}
	return m, nil
}

// gamutMatrix builds the linear RGB -> linear RGB matrix converting
// between two primaries through XYZ. All supported primaries share D65,
// so no chromatic adaptation is involved.
func gamutMatrix(in, out ColorPrimaries) (Matrix3, error) {
	fwd, err := rgbToXYZ(in)
	if err != nil {
		return Matrix3{}, err
	}
	outFwd, err := rgbToXYZ(out)
	if err != nil {
		return Matrix3{}, err
	}
	back, err := outFwd.inverse()
	if err != nil {
		return Matrix3{}, err
	}
	return back.mul(fwd), nil
}
