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

import (
	"os"
	"strconv"
)

// CPU selects the acceleration variant a filter's kernels use. The value
// is threaded explicitly through every filter constructor; there is no
// process-wide toggle, so per-instance behavior is reproducible.
type CPU int

const (
	// CPUNone selects plain scalar kernels.
	CPUNone CPU = iota

	// CPUBaseline selects the baseline vectorized kernels
	// (SSE2/NEON class).
	CPUBaseline

	// CPUExtended selects the extended vectorized kernels
	// (AVX2/SVE class).
	CPUExtended

	// CPUAuto resolves to the best level the host supports at
	// construction time.
	CPUAuto
)

// Valid reports whether c is a defined capability tag.
func (c CPU) Valid() bool {
	return c >= CPUNone && c <= CPUAuto
}

// String returns a short name for the capability tag.
func (c CPU) String() string {
	switch c {
	case CPUNone:
		return "none"
	case CPUBaseline:
		return "baseline"
	case CPUExtended:
		return "extended"
	case CPUAuto:
		return "auto"
	default:
		return "invalid"
	}
}

// Resolve replaces CPUAuto with the detected host level. Concrete tags
// pass through unchanged, even above what the host supports: the kernels
// here are pure Go, so every tag runs everywhere.
func (c CPU) Resolve() CPU {
	if c != CPUAuto {
		return c
	}
	if noSimdEnv() {
		return CPUNone
	}
	return detectCPU()
}

// noSimdEnv checks the ZIMG_NO_SIMD environment variable. Any value that
// does not parse as false forces scalar kernels; useful for testing.
func noSimdEnv() bool {
	val := os.Getenv("ZIMG_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
