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

// Package graph drives chains of windowed filters. The Chain driver owns
// everything the filter contract leaves to the caller: it queries flags
// and ranges at composition time, sizes circular line caches between
// stages from the required-range negotiation, allocates per-traversal
// contexts and scratch memory, and invokes Process over increasing row
// indices.
package graph

import (
	"github.com/ajroetker/go-zimg/internal/workerpool"
	"github.com/ajroetker/go-zimg/zimg"
)

// stage is one filter in a chain together with the frame geometry the
// driver tracked when the filter was appended.
type stage struct {
	filter    zimg.Filter
	flags     zimg.Flags
	simLines  int
	inWidth   int
	inHeight  int
	outWidth  int
	outHeight int
	outType   zimg.PixelType
}

// Chain is an ordered list of filters applied source to destination.
// A Chain is immutable once built and may be traversed concurrently:
// every Process/ProcessStrips call allocates its own contexts, scratch
// memory and line caches.
//
// All planes of a frame share one geometry; subsampled chroma is handled
// by running a separate chain per plane group.
type Chain struct {
	planes    int
	srcWidth  int
	srcHeight int
	srcType   zimg.PixelType
	stages    []stage
}

// NewChain starts a chain over frames of the given geometry. planes must
// be 1 or 3.
func NewChain(planes, width, height int, t zimg.PixelType) (*Chain, error) {
	if planes != 1 && planes != 3 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "plane count must be 1 or 3, got %d", planes)
	}
	if width <= 0 || height <= 0 {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid dimensions %dx%d", width, height)
	}
	if !t.Valid() {
		return nil, zimg.Errorf(zimg.ErrIllegalArgument, "invalid pixel type %d", int(t))
	}
	return &Chain{planes: planes, srcWidth: width, srcHeight: height, srcType: t}, nil
}

// Append adds a filter producing frames of the given output geometry.
// The filter's flags are queried once, here.
func (c *Chain) Append(f zimg.Filter, outWidth, outHeight int, outType zimg.PixelType) error {
	if f == nil {
		return zimg.Errorf(zimg.ErrIllegalArgument, "nil filter")
	}
	if outWidth <= 0 || outHeight <= 0 {
		return zimg.Errorf(zimg.ErrIllegalArgument, "invalid output dimensions %dx%d", outWidth, outHeight)
	}
	if !outType.Valid() {
		return zimg.Errorf(zimg.ErrIllegalArgument, "invalid output pixel type %d", int(outType))
	}

	flags := f.Flags()
	if flags.Color && c.planes != 3 {
		return zimg.Errorf(zimg.ErrIllegalArgument, "color filter in %d-plane chain", c.planes)
	}
	sim := f.SimultaneousLines()
	if sim < 1 {
		return zimg.Errorf(zimg.ErrLogic, "filter reports %d simultaneous lines", sim)
	}

	inWidth, inHeight, _ := c.outputGeometry()
	c.stages = append(c.stages, stage{
		filter:    f,
		flags:     flags,
		simLines:  sim,
		inWidth:   inWidth,
		inHeight:  inHeight,
		outWidth:  outWidth,
		outHeight: outHeight,
		outType:   outType,
	})
	return nil
}

// outputGeometry returns the geometry of the chain's current tail.
func (c *Chain) outputGeometry() (width, height int, t zimg.PixelType) {
	if len(c.stages) == 0 {
		return c.srcWidth, c.srcHeight, c.srcType
	}
	last := c.stages[len(c.stages)-1]
	return last.outWidth, last.outHeight, last.outType
}

// OutWidth returns the width of the chain's output frame.
func (c *Chain) OutWidth() int { w, _, _ := c.outputGeometry(); return w }

// OutHeight returns the height of the chain's output frame.
func (c *Chain) OutHeight() int { _, h, _ := c.outputGeometry(); return h }

// OutType returns the pixel type of the chain's output frame.
func (c *Chain) OutType() zimg.PixelType { _, _, t := c.outputGeometry(); return t }

// Process runs the chain over one frame. src must hold the full source
// frame and dst the full destination frame (whole-frame masks). Both are
// checked against the alignment contract at this boundary; filters assume
// it afterwards.
func (c *Chain) Process(src, dst *zimg.Buffer) error {
	if err := c.validateFrames(src, dst); err != nil {
		return err
	}
	if len(c.stages) == 0 {
		return zimg.Errorf(zimg.ErrLogic, "empty chain")
	}

	e, err := c.newExec(fullWindow(c.stages))
	if err != nil {
		return err
	}
	return e.run(src, dst)
}

// ProcessStrips runs the chain over one frame as column strips executed
// in parallel on pool. Each strip carries its own contexts, scratch
// memory and line caches; that tuple is the only intra-frame parallelism
// boundary the contract allows, so chains containing stateful or
// entire-row filters are refused.
func (c *Chain) ProcessStrips(src, dst *zimg.Buffer, pool *workerpool.Pool, strips int) error {
	if err := c.validateFrames(src, dst); err != nil {
		return err
	}
	if len(c.stages) == 0 {
		return zimg.Errorf(zimg.ErrLogic, "empty chain")
	}
	if pool == nil || strips < 1 {
		return zimg.Errorf(zimg.ErrIllegalArgument, "need a pool and at least one strip")
	}
	for _, st := range c.stages {
		if st.flags.EntireRow || st.flags.HasState {
			return zimg.Errorf(zimg.ErrUnsupported, "chain contains a filter that forbids column tiling")
		}
	}

	outWidth := c.OutWidth()
	if strips > outWidth {
		strips = outWidth
	}
	logger().Debug("strip traversal", "strips", strips, "width", outWidth)

	execs := make([]*exec, strips)
	per := (outWidth + strips - 1) / strips
	for s := 0; s < strips; s++ {
		left := s * per
		right := min(left+per, outWidth)
		e, err := c.newExec(c.columnWindows(left, right))
		if err != nil {
			return err
		}
		execs[s] = e
	}

	errs := make([]error, strips)
	jobs := make([]func(), strips)
	for s := 0; s < strips; s++ {
		e := execs[s]
		i := s
		jobs[s] = func() { errs[i] = e.run(src, dst) }
	}
	pool.Run(jobs)

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) validateFrames(src, dst *zimg.Buffer) error {
	if err := zimg.ValidateAlignment(src); err != nil {
		return err
	}
	if err := zimg.ValidateAlignment(dst); err != nil {
		return err
	}
	for p := 0; p < c.planes; p++ {
		if len(src.Data[p]) == 0 || len(dst.Data[p]) == 0 {
			return zimg.Errorf(zimg.ErrIllegalArgument, "missing plane %d", p)
		}
	}
	return nil
}

// fullWindow returns whole-row column windows for every stage.
func fullWindow(stages []stage) []zimg.Range {
	wins := make([]zimg.Range, len(stages))
	for j, st := range stages {
		wins[j] = zimg.Range{First: 0, Second: st.outWidth}
	}
	return wins
}

// columnWindows propagates an output column strip backward through the
// chain: each stage is invoked over the columns its successor requires.
func (c *Chain) columnWindows(left, right int) []zimg.Range {
	wins := make([]zimg.Range, len(c.stages))
	wins[len(c.stages)-1] = zimg.Range{First: left, Second: right}
	for j := len(c.stages) - 1; j > 0; j-- {
		st := &c.stages[j]
		in := st.filter.RequiredColRange(wins[j].First, wins[j].Second)
		in.First = max(in.First, 0)
		in.Second = min(in.Second, st.inWidth)
		wins[j-1] = in
	}
	return wins
}

// exec holds the per-traversal state of one chain run: the column window,
// contexts, scratch memory, line caches and row cursors.
type exec struct {
	c    *Chain
	wins []zimg.Range

	ins  []*zimg.Buffer // ins[j]: input frame of stage j
	outs []*zimg.Buffer // outs[j]: output frame of stage j

	ctxs    [][][]byte // ctxs[j][slot]: per-plane context (slot 0 for color stages)
	tmps    [][]byte   // tmps[j]: scratch for one Process call
	cursors [][]int    // cursors[j][slot]: next output row to produce
}

// newExec sizes and allocates everything one traversal needs. The caller
// frame buffers are attached later by run.
func (c *Chain) newExec(wins []zimg.Range) (*exec, error) {
	e := &exec{
		c:       c,
		wins:    wins,
		ins:     make([]*zimg.Buffer, len(c.stages)),
		outs:    make([]*zimg.Buffer, len(c.stages)),
		ctxs:    make([][][]byte, len(c.stages)),
		tmps:    make([][]byte, len(c.stages)),
		cursors: make([][]int, len(c.stages)),
	}

	for j := range c.stages {
		st := &c.stages[j]

		slots := 1
		if !st.flags.Color && c.planes == 3 {
			slots = c.planes
		}
		e.cursors[j] = make([]int, slots)

		e.ctxs[j] = make([][]byte, slots)
		if n := st.filter.ContextSize(); n > 0 {
			for s := 0; s < slots; s++ {
				e.ctxs[j][s] = zimg.AllocBytes(n)
			}
		}
		if n := st.filter.TmpSize(wins[j].First, wins[j].Second); n > 0 {
			e.tmps[j] = zimg.AllocBytes(n)
		}

		// The line cache between stage j and j+1 must hold the widest
		// input window stage j+1 ever declares, plus the extra lines
		// stage j may write in one batched call.
		if j+1 < len(c.stages) {
			// Planes traverse in lockstep but may skew by one consumer
			// step, so the window covers the union of two consecutive
			// steps' input ranges.
			next := &c.stages[j+1]
			span := 0
			prevLo := 0
			for i := 0; i < next.outHeight; i += next.simLines {
				rr := next.filter.RequiredRowRange(i)
				lo := max(rr.First, 0)
				hi := min(rr.Second, next.inHeight)
				span = max(span, hi-lo)
				if i > 0 {
					span = max(span, hi-prevLo)
				}
				prevLo = lo
			}
			need := span + st.simLines - 1
			buf := allocCache(c.planes, st.outWidth, st.outHeight, st.outType, need)
			e.outs[j] = buf
			e.ins[j+1] = buf
			logger().Debug("line cache", "stage", j, "lines", zimg.WindowLines(buf.Mask[0]), "span", span)
		}
	}
	return e, nil
}

// allocCache allocates a circular line cache of at least need lines, or a
// whole-frame buffer when the window would cover the frame anyway.
func allocCache(planes, width, height int, t zimg.PixelType, need int) *zimg.Buffer {
	mask := zimg.BufferMax
	lines := height
	if need < height {
		mask = zimg.MaskFor(need)
		lines = zimg.WindowLines(mask)
	}

	buf := &zimg.Buffer{}
	stride := zimg.AlignStride(width * t.Size())
	for p := 0; p < planes; p++ {
		buf.Data[p] = zimg.AllocBytes(stride * lines)
		buf.Stride[p] = stride
		buf.Mask[p] = mask
	}
	return buf
}

// run attaches the caller frames, initializes contexts and pulls the full
// destination frame through the chain.
func (e *exec) run(src, dst *zimg.Buffer) error {
	last := len(e.c.stages) - 1
	e.ins[0] = src
	e.outs[last] = dst

	for j := range e.c.stages {
		for _, ctx := range e.ctxs[j] {
			if err := e.c.stages[j].filter.InitContext(ctx); err != nil {
				return err
			}
		}
	}

	// Planes advance row-major in lockstep. Pulling one plane to
	// completion first would let the circular caches overwrite rows the
	// remaining planes still need.
	for i := 0; i < e.c.stages[last].outHeight; i++ {
		for p := 0; p < e.c.planes; p++ {
			if err := e.ensure(last, p, i+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensure materializes output rows [0, rows) of stage j for plane p,
// recursively pulling the rows earlier stages must supply first. Row
// indices presented to any one context only ever increase.
func (e *exec) ensure(j, p, rows int) error {
	st := &e.c.stages[j]
	rows = min(rows, st.outHeight)

	slot := p
	if st.flags.Color || e.c.planes == 1 {
		slot = 0
	}

	for e.cursors[j][slot] < rows {
		i := e.cursors[j][slot]

		rr := st.filter.RequiredRowRange(i)
		need := min(rr.Second, st.inHeight)
		if j > 0 {
			if st.flags.Color {
				for q := 0; q < e.c.planes; q++ {
					if err := e.ensure(j-1, q, need); err != nil {
						return err
					}
				}
			} else if err := e.ensure(j-1, p, need); err != nil {
				return err
			}
		}

		win := e.wins[j]
		var err error
		if st.flags.Color {
			err = st.filter.Process(e.ctxs[j][0], e.ins[j], e.outs[j], e.tmps[j], i, win.First, win.Second)
		} else {
			sv := e.ins[j].SinglePlane(p)
			dv := e.outs[j].SinglePlane(p)
			err = st.filter.Process(e.ctxs[j][slot], &sv, &dv, e.tmps[j], i, win.First, win.Second)
		}
		if err != nil {
			return err
		}
		e.cursors[j][slot] += st.simLines
	}
	return nil
}
