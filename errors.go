// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package future

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout names the spec §7 "Timeout" condition: WaitFor /
	// WaitUntil returned without the core reaching Ready. Those methods
	// report it by returning false, not by returning this value; it is not
	// fatal — the core remains usable and a later Wait still succeeds.
	ErrTimeout = errors.New("futurecore: wait timed out")

	// ErrInvalidHandle is the spec §7 "InvalidHandle" condition: use of a
	// zero-value (never-constructed) Handle. Debug builds assert on it (see
	// debug_enabled.go); release builds have undefined behavior in line with
	// other zero-cost handle contracts. A Handle used after Release still
	// holds its core pointer, so this check does not detect it.
	ErrInvalidHandle = errors.New("futurecore: use of invalid handle")
)

// BodyFailure wraps whatever a future's body raised (a panic value) or
// returned (a non-nil error), resurfaced verbatim by Handle.Get once the
// core is Ready (spec §7 "BodyFailure").
type BodyFailure struct {
	cause any
}

func newBodyFailure(cause any) *BodyFailure {
	return &BodyFailure{cause: cause}
}

func (f *BodyFailure) Error() string {
	if err, ok := f.cause.(error); ok {
		return fmt.Sprintf("futurecore: body failed: %s", err.Error())
	}
	return fmt.Sprintf("futurecore: body panicked: %v", f.cause)
}

// Unwrap lets errors.Is/errors.As see through to an error cause. It returns
// nil when the body failed via a non-error panic value, since there is
// nothing meaningful to unwrap to.
func (f *BodyFailure) Unwrap() error {
	if err, ok := f.cause.(error); ok {
		return err
	}
	return nil
}

// Cause returns the raw value the body raised: an error if it returned one,
// or the recovered panic value otherwise.
func (f *BodyFailure) Cause() any { return f.cause }
