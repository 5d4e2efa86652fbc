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

// PixelType identifies the in-memory representation of one image sample.
// The set is closed: every filter and buffer declares exactly one of these
// per plane.
type PixelType int

const (
	// PixelByte is an 8-bit unsigned integer sample.
	PixelByte PixelType = iota

	// PixelWord is a 16-bit unsigned integer sample, little-endian.
	PixelWord

	// PixelHalf is an IEEE 754 binary16 sample, little-endian.
	PixelHalf

	// PixelFloat is an IEEE 754 binary32 sample, little-endian.
	PixelFloat
)

// Valid reports whether t is one of the four defined pixel types.
func (t PixelType) Valid() bool {
	return t >= PixelByte && t <= PixelFloat
}

// Size returns the sample width in bytes.
func (t PixelType) Size() int {
	switch t {
	case PixelByte:
		return 1
	case PixelWord, PixelHalf:
		return 2
	case PixelFloat:
		return 4
	default:
		return 0
	}
}

// Depth returns the container bit width of the type.
func (t PixelType) Depth() int {
	return t.Size() * 8
}

// IsFloat reports whether samples of this type are floating point.
func (t PixelType) IsFloat() bool {
	return t == PixelHalf || t == PixelFloat
}

// String returns a short lower-case name for the type.
func (t PixelType) String() string {
	switch t {
	case PixelByte:
		return "byte"
	case PixelWord:
		return "word"
	case PixelHalf:
		return "half"
	case PixelFloat:
		return "float"
	default:
		return "invalid"
	}
}

// PixelFormat describes the sample representation of one plane.
//
// Depth and FullRange carry meaning only for integer types; for PixelHalf
// and PixelFloat they are ignored everywhere, including by Equal.
type PixelFormat struct {
	// Type is the sample representation.
	Type PixelType

	// Depth is the number of significant bits, 1..Type.Depth().
	// Integer types only.
	Depth int

	// FullRange selects full-range quantization instead of the
	// limited (studio swing) default. Integer types only.
	FullRange bool

	// Chroma marks planes with offset-binary semantics centered on the
	// half-scale level (e.g. 128 at 8 bits).
	Chroma bool
}

// FormatOf returns the default format for a pixel type: full container
// depth, limited range, luma semantics.
func FormatOf(t PixelType) PixelFormat {
	return PixelFormat{Type: t, Depth: t.Depth()}
}

// Validate reports whether the format is internally consistent.
// Float formats ignore Depth and FullRange, so only the type is checked.
func (f PixelFormat) Validate() error {
	if !f.Type.Valid() {
		return Errorf(ErrIllegalArgument, "invalid pixel type %d", int(f.Type))
	}
	if f.Type.IsFloat() {
		return nil
	}
	if f.Depth < 1 || f.Depth > f.Type.Depth() {
		return Errorf(ErrIllegalArgument, "depth %d out of range for %s", f.Depth, f.Type)
	}
	return nil
}

// Equal compares two formats, ignoring Depth and FullRange on float types.
func (f PixelFormat) Equal(g PixelFormat) bool {
	if f.Type != g.Type || f.Chroma != g.Chroma {
		return false
	}
	if f.Type.IsFloat() {
		return true
	}
	return f.Depth == g.Depth && f.FullRange == g.FullRange
}
