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

import "math"

func signExtend8To32(v int32) int32   { return int32(int8(v)) }
func signExtend16To32(v int32) int32  { return int32(int16(v)) }
func signExtend8To64(v int64) int64   { return int64(int8(v)) }
func signExtend16To64(v int64) int64  { return int64(int16(v)) }
func signExtend32To64(v int64) int64  { return int64(int32(v)) }

// truncF32ToI32 implements i32.trunc_f32_s/u: truncate-toward-zero with a
// trap ("invalid conversion to integer") for NaN and a trap
// ("integer overflow") for any magnitude outside the destination range.
// This is a plain threshold check rather than any special-cased boundary
// constant: the IEEE-754 comparisons below are exact at the relevant
// magnitudes, so no extra epsilon handling is needed.
func truncF32ToI32(v float32, signed bool) (int32, error) {
	if math.IsNaN(float64(v)) {
		return 0, errInvalidConversionToInteger
	}
	if signed {
		if v < -2147483648.0 || v >= 2147483648.0 {
			return 0, errIntegerOverflow
		}
		return int32(v), nil
	}
	if v <= -1.0 || v >= 4294967296.0 {
		return 0, errIntegerOverflow
	}
	return int32(uint32(v)), nil
}

func truncF64ToI32(v float64, signed bool) (int32, error) {
	if math.IsNaN(v) {
		return 0, errInvalidConversionToInteger
	}
	if signed {
		// float64 can hold values in (-2^31-1, -2^31), which truncate to
		// -2^31 and are therefore in range.
		if v <= -2147483649.0 || v >= 2147483648.0 {
			return 0, errIntegerOverflow
		}
		return int32(v), nil
	}
	if v <= -1.0 || v >= 4294967296.0 {
		return 0, errIntegerOverflow
	}
	return int32(uint32(v)), nil
}

func truncF32ToI64(v float32, signed bool) (int64, error) {
	if math.IsNaN(float64(v)) {
		return 0, errInvalidConversionToInteger
	}
	if signed {
		if v < -9223372036854775808.0 || v >= 9223372036854775808.0 {
			return 0, errIntegerOverflow
		}
		return int64(v), nil
	}
	if v <= -1.0 || v >= 18446744073709551616.0 {
		return 0, errIntegerOverflow
	}
	return int64(uint64(v)), nil
}

// truncF64ToI64 needs no special-cased boundary: 2^63 and 2^64 are powers
// of two and therefore exact in float64, so the strict < / >= comparisons
// against them place every input on the correct side.
func truncF64ToI64(v float64, signed bool) (int64, error) {
	if math.IsNaN(v) {
		return 0, errInvalidConversionToInteger
	}
	if signed {
		if v < -9223372036854775808.0 || v >= 9223372036854775808.0 {
			return 0, errIntegerOverflow
		}
		return int64(v), nil
	}
	if v <= -1.0 || v >= 18446744073709551616.0 {
		return 0, errIntegerOverflow
	}
	return int64(uint64(v)), nil
}

// truncSat* implement the non-trapping float-to-int proposal: saturating
// to the destination range instead of trapping, with NaN saturating to 0.
func truncSatF32ToI32(v float32, signed bool) int32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	if signed {
		switch {
		case v < -2147483648.0:
			return math.MinInt32
		case v >= 2147483648.0:
			return math.MaxInt32
		}
		return int32(v)
	}
	switch {
	case v <= -1.0:
		return 0
	case v >= 4294967296.0:
		return -1 // uint32(math.MaxUint32) as int32 bit pattern
	}
	return int32(uint32(v))
}

func truncSatF64ToI32(v float64, signed bool) int32 {
	if math.IsNaN(v) {
		return 0
	}
	if signed {
		switch {
		case v < -2147483648.0:
			return math.MinInt32
		case v >= 2147483648.0:
			return math.MaxInt32
		}
		return int32(v)
	}
	switch {
	case v <= -1.0:
		return 0
	case v >= 4294967296.0:
		return -1
	}
	return int32(uint32(v))
}

func truncSatF32ToI64(v float32, signed bool) int64 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	if signed {
		switch {
		case v < -9223372036854775808.0:
			return math.MinInt64
		case v >= 9223372036854775808.0:
			return math.MaxInt64
		}
		return int64(v)
	}
	switch {
	case v <= -1.0:
		return 0
	case v >= 18446744073709551616.0:
		return -1
	}
	return int64(uint64(v))
}

func truncSatF64ToI64(v float64, signed bool) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if signed {
		switch {
		case v < -9223372036854775808.0:
			return math.MinInt64
		case v >= 9223372036854775808.0:
			return math.MaxInt64
		}
		return int64(v)
	}
	switch {
	case v <= -1.0:
		return 0
	case v >= 18446744073709551616.0:
		return -1
	}
	return int64(uint64(v))
}
