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

//go:build !futurecore_debug

package future

// assertValid is the release-build half of spec §7's InvalidHandle
// handling: a zero-cost no-op, leaving misuse of an invalid Handle as
// undefined behavior "in line with other zero-cost handle contracts", per
// the spec. See debug_enabled.go for the build tagged in with
// -tags futurecore_debug, which panics instead.
func assertValid(cond bool) {}
