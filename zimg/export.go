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

// Library and API version constants. The API version gates the snapshot
// structs exchanged across a binary boundary: fields are only ever added
// under a new version number, never removed or renumbered.
const (
	VersionMajor = 1
	VersionMinor = 90
	VersionMicro = 0

	// APIVersion is the newest snapshot layout this build understands.
	APIVersion = 2

	// minAPIVersion is the oldest layout still served.
	minAPIVersion = 2
)

// Version returns the library version triple.
func Version() (major, minor, micro int) {
	return VersionMajor, VersionMinor, VersionMicro
}

// FlagsExport is the versioned snapshot of Flags exchanged across the
// boundary layer. Evolution is additive-only: a reader presenting an old
// version receives only the fields that version defines, and field order
// never changes.
type FlagsExport struct {
	Version uint

	// Version >= 2.
	HasState  bool
	SameRow   bool
	InPlace   bool
	EntireRow bool
	Color     bool
}

// ExportFlags fills a snapshot of f for the requested API version.
func ExportFlags(f Flags, version uint) (FlagsExport, error) {
	if version < minAPIVersion || version > APIVersion {
		return FlagsExport{}, Errorf(ErrIllegalArgument, "unsupported API version %d", version)
	}

	out := FlagsExport{Version: version}
	if version >= 2 {
		out.HasState = f.HasState
		out.SameRow = f.SameRow
		out.InPlace = f.InPlace
		out.EntireRow = f.EntireRow
		out.Color = f.Color
	}
	return out, nil
}
