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

// Flags declares a filter's scheduling capabilities. They are declarative:
// a driver must honor them and may not infer behavior from output alone.
type Flags struct {
	// HasState means the filter carries mutable per-frame state in its
	// context block and therefore requires forward-only row traversal.
	HasState bool

	// SameRow means output row i reads only input row i: no vertical
	// resampling.
	SameRow bool

	// InPlace means Process may be invoked with destination memory
	// aliasing the source.
	InPlace bool

	// EntireRow means the filter needs the full row width on every call;
	// column-tiled invocation is illegal.
	EntireRow bool

	// Color means the filter operates jointly across the three color
	// planes rather than on plane 0 alone.
	Color bool
}

// Range is a half-open [First, Second) span of row or column indices.
type Range struct {
	First  int
	Second int
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int { return r.Second - r.First }

// IsEmpty reports whether the range covers no indices.
func (r Range) IsEmpty() bool { return r.Second <= r.First }

// Contains reports whether r fully covers s.
func (r Range) Contains(s Range) bool {
	return s.First >= r.First && s.Second <= r.Second
}

// Filter is the windowed transformation contract. Implementations are
// immutable after construction; all per-frame mutable state lives in the
// caller-allocated context block.
//
// The query methods are pure. A driver queries Flags once at composition
// time and the range methods before any Process call; the answers bound
// the memory a Process call may touch.
type Filter interface {
	// Flags returns the filter's scheduling capabilities.
	Flags() Flags

	// RequiredRowRange returns the input rows that must be materialized
	// before producing output row i. The window is finite and, for
	// filters without SameRow, its Second is non-decreasing in i.
	RequiredRowRange(i int) Range

	// RequiredColRange returns the input columns needed to produce
	// output columns [left, right). Filters with EntireRow always
	// return the full row width.
	RequiredColRange(left, right int) Range

	// SimultaneousLines returns how many consecutive output rows one
	// Process call produces. Most filters return 1.
	SimultaneousLines() int

	// ContextSize returns the bytes of per-frame context the filter
	// needs, or 0 for stateless filters.
	ContextSize() int

	// TmpSize returns the bytes of scratch memory one Process call
	// over columns [left, right) needs. It may depend only on the
	// column span, never on frame content.
	TmpSize(left, right int) int

	// InitContext initializes a caller-allocated context block of
	// ContextSize bytes. It is called once before the first Process
	// call of a traversal and never concurrently with Process on the
	// same block.
	InitContext(ctx []byte) error

	// Process produces destination rows [i, i+SimultaneousLines) over
	// columns [left, right). It reads only the source window declared
	// by the range queries and writes only the declared destination
	// window; this containment is what lets a driver keep minimal
	// buffering between chained filters. Calls on one context must
	// observe non-decreasing i.
	Process(ctx []byte, src, dst *Buffer, tmp []byte, i, left, right int) error
}
