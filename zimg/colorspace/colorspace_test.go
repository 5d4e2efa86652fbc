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

import (
	"testing"

	"github.com/ajroetker/go-zimg/internal/filtertest"
	"github.com/ajroetker/go-zimg/zimg"
)

func newCS(t *testing.T, w, h int, in, out Definition) *Colorspace {
	t.Helper()
	cs, err := New(Params{Width: w, Height: h, In: in, Out: out, CPU: zimg.CPUNone})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cs
}

func runCS(t *testing.T, cs *Colorspace, w, h int, src *zimg.Buffer) *zimg.Buffer {
	t.Helper()
	dst := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	ctx := []byte(nil)
	for i := 0; i < h; i++ {
		if err := cs.Process(ctx, src, dst, nil, i, 0, w); err != nil {
			t.Fatalf("Process(%d): %v", i, err)
		}
	}
	return dst
}

func setPixel(b *zimg.Buffer, i, x int, v [3]float32) {
	for p := 0; p < 3; p++ {
		rowF32(b.Row(p, i), x, x+1)[0] = v[p]
	}
}

func getPixel(b *zimg.Buffer, i, x int) [3]float32 {
	var v [3]float32
	for p := 0; p < 3; p++ {
		v[p] = rowF32(b.Row(p, i), x, x+1)[0]
	}
	return v
}

func near(a, b [3]float32, tol float32) bool {
	for p := 0; p < 3; p++ {
		if d := a[p] - b[p]; d > tol || d < -tol {
			return false
		}
	}
	return true
}

var bt709 = Definition{Matrix: Matrix709, Transfer: Transfer709, Primaries: Primaries709}
var bt601 = Definition{Matrix: Matrix601, Transfer: Transfer709, Primaries: PrimariesSMPTEC}
var bt2020 = Definition{Matrix: Matrix2020NCL, Transfer: Transfer709, Primaries: Primaries2020}

func TestIdentityConversion(t *testing.T) {
	const w, h = 48, 12
	cs := newCS(t, w, h, bt709, bt709)
	if len(cs.ops) != 0 {
		t.Errorf("identity plan has %d operations, want 0", len(cs.ops))
	}

	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	filtertest.Fill(src, w, h, 3, zimg.PixelFloat, 7)
	dst := runCS(t, cs, w, h, src)
	for p := 0; p < 3; p++ {
		if !filtertest.SamePlane(src, dst, p, w, h, zimg.PixelFloat) {
			t.Errorf("plane %d not copied bit-exactly", p)
		}
	}
}

func TestMatrixOnlyPlanFolds(t *testing.T) {
	in := Definition{Matrix: Matrix709, Transfer: Transfer709, Primaries: Primaries709}
	out := Definition{Matrix: Matrix601, Transfer: Transfer709, Primaries: Primaries709}
	cs := newCS(t, 16, 16, in, out)
	if len(cs.ops) != 1 {
		t.Fatalf("matrix-only plan has %d operations, want 1 folded matrix", len(cs.ops))
	}
	if _, ok := cs.ops[0].(*matrixOp); !ok {
		t.Fatalf("folded operation is %T, want *matrixOp", cs.ops[0])
	}
}

func TestYCbCrRoundTrip(t *testing.T) {
	const w, h = 32, 8
	rgb := Definition{Matrix: MatrixRGB, Transfer: Transfer709, Primaries: Primaries709}

	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	filtertest.Fill(src, w, h, 3, zimg.PixelFloat, 13) // RGB in [0, 1)

	for _, m := range []MatrixCoefficients{Matrix601, Matrix709, Matrix2020NCL} {
		ycc := Definition{Matrix: m, Transfer: Transfer709, Primaries: Primaries709}
		mid := runCS(t, newCS(t, w, h, rgb, ycc), w, h, src)
		back := runCS(t, newCS(t, w, h, ycc, rgb), w, h, mid)

		for i := 0; i < h; i++ {
			for x := 0; x < w; x++ {
				if !near(getPixel(src, i, x), getPixel(back, i, x), 1e-5) {
					t.Fatalf("matrix %d: pixel (%d, %d) round trip %v -> %v",
						int(m), i, x, getPixel(src, i, x), getPixel(back, i, x))
				}
			}
		}
	}
}

func TestWhiteMapsToAchromatic(t *testing.T) {
	const w, h = 4, 1
	rgb := Definition{Matrix: MatrixRGB, Transfer: Transfer709, Primaries: Primaries709}

	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	setPixel(src, 0, 0, [3]float32{1, 1, 1}) // white
	setPixel(src, 0, 1, [3]float32{0, 0, 0}) // black
	setPixel(src, 0, 2, [3]float32{0.5, 0.5, 0.5})

	dst := runCS(t, newCS(t, w, h, rgb, bt709), w, h, src)

	if got := getPixel(dst, 0, 0); !near(got, [3]float32{1, 0, 0}, 1e-6) {
		t.Errorf("white -> %v, want (1, 0, 0)", got)
	}
	if got := getPixel(dst, 0, 1); !near(got, [3]float32{0, 0, 0}, 1e-6) {
		t.Errorf("black -> %v, want (0, 0, 0)", got)
	}
	if got := getPixel(dst, 0, 2); !near(got, [3]float32{0.5, 0, 0}, 1e-6) {
		t.Errorf("gray -> %v, want (0.5, 0, 0)", got)
	}
}

func TestPrimariesPreserveWhite(t *testing.T) {
	const w, h = 1, 1
	in := Definition{Matrix: MatrixRGB, Transfer: TransferLinear, Primaries: Primaries709}
	out := Definition{Matrix: MatrixRGB, Transfer: TransferLinear, Primaries: Primaries2020}

	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	setPixel(src, 0, 0, [3]float32{1, 1, 1})
	dst := runCS(t, newCS(t, w, h, in, out), w, h, src)

	// Both primaries share D65, so white is a fixed point of the gamut
	// conversion.
	if got := getPixel(dst, 0, 0); !near(got, [3]float32{1, 1, 1}, 1e-5) {
		t.Errorf("white -> %v, want (1, 1, 1)", got)
	}
}

func TestTransferRoundTrip(t *testing.T) {
	const w, h = 64, 2
	lin := Definition{Matrix: MatrixRGB, Transfer: TransferLinear, Primaries: Primaries709}
	gam := Definition{Matrix: MatrixRGB, Transfer: Transfer709, Primaries: Primaries709}

	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	filtertest.Fill(src, w, h, 3, zimg.PixelFloat, 21)

	mid := runCS(t, newCS(t, w, h, lin, gam), w, h, src)
	back := runCS(t, newCS(t, w, h, gam, lin), w, h, mid)

	for i := 0; i < h; i++ {
		for x := 0; x < w; x++ {
			if !near(getPixel(src, i, x), getPixel(back, i, x), 1e-5) {
				t.Fatalf("pixel (%d, %d): %v -> %v", i, x, getPixel(src, i, x), getPixel(back, i, x))
			}
		}
	}
}

func TestFullConversionEndToEnd(t *testing.T) {
	const w, h = 32, 4
	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	// Valid 601 YCbCr: Y in [0, 1), chroma near neutral.
	for i := 0; i < h; i++ {
		y := rowF32(src.Row(0, i), 0, w)
		cb := rowF32(src.Row(1, i), 0, w)
		cr := rowF32(src.Row(2, i), 0, w)
		for x := 0; x < w; x++ {
			y[x] = float32(x) / w
			cb[x] = 0.1
			cr[x] = -0.05
		}
	}

	there := runCS(t, newCS(t, w, h, bt601, bt2020), w, h, src)
	back := runCS(t, newCS(t, w, h, bt2020, bt601), w, h, there)

	for i := 0; i < h; i++ {
		for x := 0; x < w; x++ {
			if !near(getPixel(src, i, x), getPixel(back, i, x), 2e-4) {
				t.Fatalf("pixel (%d, %d): %v -> %v", i, x, getPixel(src, i, x), getPixel(back, i, x))
			}
		}
	}
}

func TestAliasesCollapse(t *testing.T) {
	if Matrix470BG != Matrix601 || Matrix170M != Matrix601 {
		t.Error("470bg/170m must share the 601 coefficients")
	}
	if Transfer601 != Transfer709 || Transfer2020_10 != Transfer709 || Transfer2020_12 != Transfer709 {
		t.Error("601/2020 transfer tags must share the 709 curve")
	}
	if Primaries170M != PrimariesSMPTEC || Primaries240M != PrimariesSMPTEC {
		t.Error("170m/240m primaries must share SMPTE-C")
	}
}

func TestNewRejections(t *testing.T) {
	valid := bt709

	t.Run("constant luminance", func(t *testing.T) {
		in := Definition{Matrix: Matrix2020CL, Transfer: Transfer709, Primaries: Primaries2020}
		_, err := New(Params{Width: 16, Height: 16, In: in, Out: valid, CPU: zimg.CPUNone})
		if zimg.CodeOf(err) != zimg.CodeUnsupported {
			t.Errorf("CodeOf(err) = %v, want unsupported", zimg.CodeOf(err))
		}
	})

	t.Run("invalid matrix", func(t *testing.T) {
		in := Definition{Matrix: MatrixCoefficients(99), Transfer: Transfer709, Primaries: Primaries709}
		_, err := New(Params{Width: 16, Height: 16, In: in, Out: valid, CPU: zimg.CPUNone})
		if zimg.CodeOf(err) != zimg.CodeIllegalArgument {
			t.Errorf("CodeOf(err) = %v, want illegal argument", zimg.CodeOf(err))
		}
	})

	t.Run("bad dimensions", func(t *testing.T) {
		_, err := New(Params{Width: 0, Height: 16, In: valid, Out: valid, CPU: zimg.CPUNone})
		if zimg.CodeOf(err) != zimg.CodeIllegalArgument {
			t.Errorf("CodeOf(err) = %v, want illegal argument", zimg.CodeOf(err))
		}
	})
}

func TestColorspaceFlags(t *testing.T) {
	cs := newCS(t, 16, 16, bt709, bt601)
	f := cs.Flags()
	if !f.Color || !f.SameRow || !f.InPlace {
		t.Errorf("flags = %+v, want Color, SameRow and InPlace", f)
	}
	if f.HasState || f.EntireRow {
		t.Errorf("flags = %+v, must be stateless and tileable", f)
	}
}

func TestColorspaceWindowContainment(t *testing.T) {
	const w, h = 48, 12
	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	filtertest.Fill(src, w, h, 3, zimg.PixelFloat, 47)

	cs := newCS(t, w, h, bt709, bt601)
	g := filtertest.Geometry{
		SrcWidth: w, SrcHeight: h, DstWidth: w, DstHeight: h,
		SrcType: zimg.PixelFloat, DstType: zimg.PixelFloat, Planes: 3,
	}
	for _, win := range []struct{ i, left, right int }{{0, 0, w}, {4, 8, 24}, {h - 1, w - 1, w}} {
		if err := filtertest.CheckContainment(cs, g, src, win.i, win.left, win.right); err != nil {
			t.Errorf("window (%d, [%d, %d)): %v", win.i, win.left, win.right, err)
		}
	}
}

func TestInPlaceConversion(t *testing.T) {
	const w, h = 24, 6
	src := filtertest.AllocFrame(w, h, 3, zimg.PixelFloat)
	filtertest.Fill(src, w, h, 3, zimg.PixelFloat, 33)

	cs := newCS(t, w, h, bt709, bt601)
	want := runCS(t, cs, w, h, src)

	for i := 0; i < h; i++ {
		if err := cs.Process(nil, src, src, nil, i, 0, w); err != nil {
			t.Fatalf("in-place Process(%d): %v", i, err)
		}
	}
	for p := 0; p < 3; p++ {
		if !filtertest.SamePlane(want, src, p, w, h, zimg.PixelFloat) {
			t.Errorf("in-place result differs on plane %d", p)
		}
	}
}
