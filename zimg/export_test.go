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

import "testing"

func TestVersion(t *testing.T) {
	major, minor, micro := Version()
	if major != VersionMajor || minor != VersionMinor || micro != VersionMicro {
		t.Errorf("Version() = (%d, %d, %d), want (%d, %d, %d)",
			major, minor, micro, VersionMajor, VersionMinor, VersionMicro)
	}
}

func TestExportFlags(t *testing.T) {
	f := Flags{SameRow: true, Color: true}

	out, err := ExportFlags(f, APIVersion)
	if err != nil {
		t.Fatalf("ExportFlags: %v", err)
	}
	if out.Version != APIVersion {
		t.Errorf("Version = %d, want %d", out.Version, APIVersion)
	}
	if !out.SameRow || !out.Color || out.HasState || out.InPlace || out.EntireRow {
		t.Errorf("snapshot = %+v does not reflect %+v", out, f)
	}
}

func TestExportFlagsRejectsUnknownVersions(t *testing.T) {
	for _, v := range []uint{0, 1, APIVersion + 1} {
		_, err := ExportFlags(Flags{}, v)
		if CodeOf(err) != CodeIllegalArgument {
			t.Errorf("version %d: CodeOf(err) = %v, want illegal argument", v, CodeOf(err))
		}
	}
}
