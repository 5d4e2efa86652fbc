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

// Package zimg defines the windowed image-filter contract: pixel formats,
// plane buffers with circular row masking, the Filter interface, the error
// taxonomy, and the CPU capability tag threaded through filter construction.
//
// A Filter transforms image rows on demand. Before calling Process, a
// driver negotiates with the filter: RequiredRowRange and RequiredColRange
// report the input window needed for a given output window, ContextSize and
// TmpSize report memory requirements, and Flags declares scheduling
// capabilities the driver must honor. The negotiation lets heterogeneous
// filters (copy, resize, depth conversion, colorspace conversion) be chained
// without materializing full intermediate frames: the driver keeps only a
// small circular window of rows between stages.
//
// Concrete filters live in subpackages:
//
//   - graph: the Copy reference filter and the Chain execution driver
//   - depth: bit-depth and sample-type conversion with optional dithering
//   - resize: separable resampling filters
//   - colorspace: matrix/transfer/primaries conversion on float planes
//
// Filters are immutable after construction. All mutable per-frame state
// lives in a caller-allocated context block, so a single filter instance
// may serve multiple frames concurrently as long as each traversal carries
// its own context and scratch memory.
package zimg
