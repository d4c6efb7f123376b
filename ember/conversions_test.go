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

import (
	"math"
	"testing"
)

func TestTruncF64ToI32Overflow(t *testing.T) {
	if _, err := truncF64ToI32(2147483648.0, true); err != errIntegerOverflow {
		t.Fatalf("err = %v, want errIntegerOverflow", err)
	}
	if _, err := truncF64ToI32(-2147483649.0, true); err != errIntegerOverflow {
		t.Fatalf("err = %v, want errIntegerOverflow", err)
	}
}

func TestTruncF64ToI32NaN(t *testing.T) {
	if _, err := truncF64ToI32(math.NaN(), true); err != errInvalidConversionToInteger {
		t.Fatalf("err = %v, want errInvalidConversionToInteger", err)
	}
}

func TestTruncF64ToI32Valid(t *testing.T) {
	v, err := truncF64ToI32(3.9, true)
	if err != nil || v != 3 {
		t.Fatalf("trunc(3.9) = (%d, %v), want (3, nil)", v, err)
	}
	v, err = truncF64ToI32(-3.9, true)
	if err != nil || v != -3 {
		t.Fatalf("trunc(-3.9) = (%d, %v), want (-3, nil)", v, err)
	}
}

func TestTruncSatSaturatesOnOverflowAndNaN(t *testing.T) {
	if v := truncSatF64ToI32(math.NaN(), true); v != 0 {
		t.Fatalf("trunc_sat NaN = %d, want 0", v)
	}
	if v := truncSatF64ToI32(1e20, true); v != math.MaxInt32 {
		t.Fatalf("trunc_sat +inf-ish = %d, want MaxInt32", v)
	}
	if v := truncSatF64ToI32(-1e20, true); v != math.MinInt32 {
		t.Fatalf("trunc_sat -inf-ish = %d, want MinInt32", v)
	}
}

func TestSignExtend(t *testing.T) {
	if got := signExtend8To32(0xff); got != -1 {
		t.Fatalf("signExtend8To32(0xff) = %d, want -1", got)
	}
	if got := signExtend16To32(0x8000); got != -32768 {
		t.Fatalf("signExtend16To32(0x8000) = %d, want -32768", got)
	}
}

func TestCopysign(t *testing.T) {
	r := copysign32(math.Float32bits(5), math.Float32bits(-1))
	if math.Float32frombits(r) != -5 {
		t.Fatalf("copysign32(5, -1) = %v, want -5", math.Float32frombits(r))
	}
}
