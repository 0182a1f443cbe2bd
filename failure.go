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

// failurePayload is the core's internal slot for a captured BodyFailure,
// kept distinct from *BodyFailure itself so the core can tell "no failure
// occurred" apart from "a failure occurred," and so capture/resurface/drop
// are separate, explicit steps matching spec §4.2/§9's abstract
// failure-payload contract ("a nullable owned payload with resurface() and
// drop() capabilities").
//
// Go can always represent a raised failure (an error return or a recovered
// panic value), so unlike the spec's "platforms without structured failure"
// carve-out, this slot is never optimized out — there is no such platform
// to target here.
type failurePayload struct {
	set   bool
	value *BodyFailure
}

// capture records cause as this core's failure. Called at most once, by the
// unique goroutine that ran the body (spec §3 "Result or failure is written
// exactly once").
func (f *failurePayload) capture(cause any) {
	f.set = true
	f.value = newBodyFailure(cause)
}

// resurface returns the wrapped failure, or nil if none was captured.
func (f *failurePayload) resurface() error {
	if !f.set {
		return nil
	}
	return f.value
}

// drop releases the payload, run on core destruction (spec §3 "drops the
// failure payload iff present").
func (f *failurePayload) drop() {
	f.set = false
	f.value = nil
}
