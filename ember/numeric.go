// Copyright 2025 Google LLC
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

package ember

import "math/bits"

// wasmInt is the set of Go integer types used to implement i32/i64
// arithmetic: both the signed view (for div/rem/compare) and the
// unsigned view (for the _u variants) of each width.
type wasmInt interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

func divS[T ~int32 | ~int64](a, b T) (T, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	var minVal T = 1 << uint(sizeOf[T]()*8-1)
	if a == minVal && b == -1 {
		return 0, errIntegerOverflow
	}
	return a / b, nil
}

func sizeOf[T wasmInt]() int {
	var z T
	switch any(z).(type) {
	case int32, uint32:
		return 4
	default:
		return 8
	}
}

func remS[T ~int32 | ~int64](a, b T) (T, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	if b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func divU[T ~uint32 | ~uint64](a, b T) (T, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return a / b, nil
}

func remU[T ~uint32 | ~uint64](a, b T) (T, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return a % b, nil
}

func rotl32(v, n uint32) uint32 { return bits.RotateLeft32(v, int(n)) }
func rotr32(v, n uint32) uint32 { return bits.RotateLeft32(v, -int(n)) }
func rotl64(v, n uint64) uint64 { return bits.RotateLeft64(v, int(n)) }
func rotr64(v, n uint64) uint64 { return bits.RotateLeft64(v, -int(n)) }

func clz32(v uint32) int32 { return int32(bits.LeadingZeros32(v)) }
func ctz32(v uint32) int32 { return int32(bits.TrailingZeros32(v)) }
func popcnt32(v uint32) int32 { return int32(bits.OnesCount32(v)) }

func clz64(v uint64) int32 { return int32(bits.LeadingZeros64(v)) }
func ctz64(v uint64) int32 { return int32(bits.TrailingZeros64(v)) }
func popcnt64(v uint64) int32 { return int32(bits.OnesCount64(v)) }

// copysign32 and copysign64 implement copysign by directly manipulating
// the IEEE-754 sign bit rather than via math.Copysign, so the behavior is
// pinned to the bit-level semantics WebAssembly specifies (including for
// NaN payloads) rather than incidentally matching whatever the platform
// libm does for signaling NaNs.
func copysign32(mag, sign uint32) uint32 {
	const signBit = uint32(1) << 31
	return (mag &^ signBit) | (sign & signBit)
}

func copysign64(mag, sign uint64) uint64 {
	const signBit = uint64(1) << 63
	return (mag &^ signBit) | (sign & signBit)
}
