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

package graph

import "github.com/ajroetker/go-zimg/zimg"

// Copy is the identity filter: every sample of the requested window is
// copied byte-for-byte from source to destination. It is the minimal
// conformance oracle for the windowed-filter contract — any driver must
// reproduce a bit-identical frame when chaining only Copy.
type Copy struct {
	width  int
	height int
	typ    zimg.PixelType
}

// NewCopy creates an identity filter for one plane of the given dimensions
// and pixel type.
func NewCopy(width, height int, t zimg.PixelType) (*Copy, error) {
	if !t.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid pixel type %d", int(t))
	}
	if width <= 0 || height <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid dimensions %dx%d", width, height)
	}
	return &Copy{width: width, height: height, typ: t}, nil
}

// Flags returns SameRow and InPlace: source and destination windows are
// identical in shape, so aliasing them is harmless.
func (c *Copy) Flags() zimg.Flags {
	return zimg.Flags{SameRow: true, InPlace: true}
}

// RequiredRowRange returns [i, i+1).
func (c *Copy) RequiredRowRange(i int) zimg.Range {
	return zimg.Range{First: i, Second: i + 1}
}

// RequiredColRange returns [left, right).
func (c *Copy) RequiredColRange(left, right int) zimg.Range {
	return zimg.Range{First: left, Second: right}
}

// SimultaneousLines returns 1.
func (c *Copy) SimultaneousLines() int { return 1 }

// ContextSize returns 0: Copy is stateless.
func (c *Copy) ContextSize() int { return 0 }

// TmpSize returns 0: Copy needs no scratch memory.
func (c *Copy) TmpSize(left, right int) int { return 0 }

// InitContext is a no-op for the stateless Copy filter.
func (c *Copy) InitContext(ctx []byte) error { return nil }

// Process copies row i, columns [left, right), from src plane 0 to dst
// plane 0.
func (c *Copy) Process(ctx []byte, src, dst *zimg.Buffer, tmp []byte, i, left, right int) error {
	if i < 0 || i >= c.height || left < 0 || right > c.width || left >= right {
		return zimg.Errorf(zimg.ErrIllegalArgument, "window (%d, [%d, %d)) outside %dx%d frame",
			i, left, right, c.width, c.height)
	}

	size := c.typ.Size()
	s := src.Row(0, i)
	d := dst.Row(0, i)
	copy(d[left*size:right*size], s[left*size:right*size])
	return nil
}
