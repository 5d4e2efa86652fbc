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

//go:build arm64

package zimg

import "golang.org/x/sys/cpu"

func detectCPU() CPU {
	if cpu.ARM64.HasSVE {
		return CPUExtended
	}
	// ASIMD is architecturally mandatory on ARMv8, but emulators have
	// been seen reporting it absent.
	if cpu.ARM64.HasASIMD {
		return CPUBaseline
	}
	return CPUNone
}
