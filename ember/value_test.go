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

func TestValueRoundTrip(t *testing.T) {
	if got := I32(-7).AsI32(); got != -7 {
		t.Fatalf("I32(-7).AsI32() = %d, want -7", got)
	}
	if got := I64(-123456789012).AsI64(); got != -123456789012 {
		t.Fatalf("I64 round trip = %d", got)
	}
	if got := F32(3.5).AsF32(); got != 3.5 {
		t.Fatalf("F32 round trip = %v", got)
	}
	if got := F64(3.14159).AsF64(); got != 3.14159 {
		t.Fatalf("F64 round trip = %v", got)
	}
}

func TestValuePreservesNaNPayload(t *testing.T) {
	const payload = uint32(0x7fc00001)
	v := valueFromBits(uint64(payload), F32Type)
	if got := math.Float32bits(v.AsF32()); got != payload {
		t.Fatalf("NaN payload = %#x, want %#x", got, payload)
	}
}

func TestReinterpretIsBitExact(t *testing.T) {
	f := F32(-1.5)
	asI32 := valueFromBits(uint64(f.AsU32()), I32Type)
	back := valueFromBits(uint64(asI32.AsU32()), F32Type)
	if back.AsF32() != -1.5 {
		t.Fatalf("reinterpret round trip = %v, want -1.5", back.AsF32())
	}
}

func TestDefaultValue(t *testing.T) {
	if defaultValue(I32Type).AsI32() != 0 {
		t.Fatalf("default i32 not zero")
	}
	if defaultValue(FuncRefType).AsI32() != NullReference {
		t.Fatalf("default funcref is not null")
	}
}
