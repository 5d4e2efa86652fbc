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
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, CodeSuccess},
		{ErrUnknown, CodeUnknown},
		{ErrLogic, CodeLogic},
		{ErrOutOfMemory, CodeOutOfMemory},
		{ErrIllegalArgument, CodeIllegalArgument},
		{ErrUnsupported, CodeUnsupported},
		{errors.New("unrelated"), CodeUnknown},
		{Errorf(ErrUnsupported, "no such kernel"), CodeUnsupported},
		{fmt.Errorf("outer: %w", Errorf(ErrLogic, "inner")), CodeLogic},
	}
	for _, tc := range cases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Errorf("CodeOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestErrorfWraps(t *testing.T) {
	err := Errorf(ErrIllegalArgument, "width %d out of range", -3)
	if !errors.Is(err, ErrIllegalArgument) {
		t.Error("Errorf result does not wrap its sentinel")
	}
	if want := "illegal argument: width -3 out of range"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestMessageTruncation(t *testing.T) {
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}

	long := Errorf(ErrUnknown, "%s", strings.Repeat("x", 2*MaxMessage))
	msg := Message(long)
	if len(msg) != MaxMessage {
		t.Errorf("len(Message) = %d, want %d", len(msg), MaxMessage)
	}

	short := Errorf(ErrLogic, "small")
	if got := Message(short); got != short.Error() {
		t.Errorf("Message(short) = %q, want %q", got, short.Error())
	}
}
