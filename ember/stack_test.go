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

import "testing"

func TestOperandStackPushPop(t *testing.T) {
	s := newOperandStack()
	s.pushI32(1)
	s.pushI32(2)
	s.pushI32(3)
	if s.size() != 3 {
		t.Fatalf("size = %d, want 3", s.size())
	}
	if v := s.popI32(); v != 3 {
		t.Fatalf("pop = %d, want 3", v)
	}
	if v := s.popI32(); v != 2 {
		t.Fatalf("pop = %d, want 2", v)
	}
}

func TestOperandStackUnwindPreservesTopValues(t *testing.T) {
	s := newOperandStack()
	s.pushI32(10) // working value below the block, kept
	base := s.size()
	s.pushI32(20) // discarded
	s.pushI32(30) // discarded
	s.pushI32(40) // result, preserved
	s.pushI32(50) // result, preserved

	s.unwind(base, 2)

	if s.size() != base+2 {
		t.Fatalf("size after unwind = %d, want %d", s.size(), base+2)
	}
	if v := s.popI32(); v != 50 {
		t.Fatalf("top after unwind = %d, want 50", v)
	}
	if v := s.popI32(); v != 40 {
		t.Fatalf("second after unwind = %d, want 40", v)
	}
	if v := s.popI32(); v != 10 {
		t.Fatalf("base value corrupted: got %d, want 10", v)
	}
}

func TestOperandStackPop3I32PreservesOrder(t *testing.T) {
	s := newOperandStack()
	s.pushI32(1)
	s.pushI32(2)
	s.pushI32(3)
	a, b, c := s.pop3I32()
	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("pop3I32 = (%d, %d, %d), want (1, 2, 3)", a, b, c)
	}
	if s.size() != 0 {
		t.Fatalf("stack not empty after pop3I32")
	}
}
