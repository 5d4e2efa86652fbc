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
)

// The error taxonomy is closed. Every failure crossing a package boundary
// wraps exactly one of these sentinels, so callers can branch with
// errors.Is and boundary layers can map errors to Code values.
var (
	// ErrUnknown covers failures not attributable to a more specific kind.
	ErrUnknown = errors.New("unknown error")

	// ErrLogic marks an internal invariant breach or a contract violation
	// by the caller that was not caught by argument validation.
	ErrLogic = errors.New("logic error")

	// ErrOutOfMemory marks an allocation failure during construction or
	// buffer sizing. Constructors never return a partially built filter.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrIllegalArgument marks a value outside a documented domain,
	// detected before any mutation occurs.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrUnsupported marks a structurally valid request this
	// filter or configuration deliberately does not implement.
	ErrUnsupported = errors.New("unsupported configuration")
)

// Errorf wraps one of the taxonomy sentinels with a formatted detail
// message. kind must be one of the package sentinels.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Code is the discrete status value exposed across the boundary layer.
type Code int

const (
	CodeSuccess Code = iota
	CodeUnknown
	CodeLogic
	CodeOutOfMemory
	CodeIllegalArgument
	CodeUnsupported
)

// String returns a short name for the code.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeLogic:
		return "logic"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeIllegalArgument:
		return "illegal argument"
	case CodeUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// CodeOf maps an error onto the closed status-code set. A nil error maps
// to CodeSuccess; an error not wrapping any taxonomy sentinel maps to
// CodeUnknown.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrLogic):
		return CodeLogic
	case errors.Is(err, ErrOutOfMemory):
		return CodeOutOfMemory
	case errors.Is(err, ErrIllegalArgument):
		return CodeIllegalArgument
	case errors.Is(err, ErrUnsupported):
		return CodeUnsupported
	default:
		return CodeUnknown
	}
}

// MaxMessage bounds the diagnostic text returned by Message.
const MaxMessage = 1024

// Message returns the diagnostic text for an error, truncated to at most
// MaxMessage bytes. Diagnostic detail travels separately from the status
// code; callers that only need the category should use CodeOf.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > MaxMessage {
		msg = msg[:MaxMessage]
	}
	return msg
}
