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

//go:build futurecore_debug

package future

// assertValid panics with ErrInvalidHandle when cond is false. Only linked
// in when built with -tags futurecore_debug; see debug.go for the release
// no-op.
func assertValid(cond bool) {
	if !cond {
		panic(ErrInvalidHandle)
	}
}
