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
	"testing"

	"github.com/stretchr/testify/require"
)

// addModule is a hand-assembled .wasm binary exporting a single function,
// "add", of type (i32, i32) -> i32, computing local0 + local1. Building it
// by hand (rather than through an external tool) keeps the decoder's test
// fixtures self-contained in source.
var addModuleBytes = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, // magic, version

	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // type section: (i32,i32)->(i32)

	0x03, 0x02, 0x01, 0x00, // function section: fn0 uses type 0

	0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00, // export section: func "add" = index 0

	0x0A, 0x09, 0x01, 0x07, 0x00, // code section: 1 body, size 7, 0 locals
	0x20, 0x00, // local.get 0
	0x20, 0x01, // local.get 1
	0x6A,       // i32.add
	0x0B,       // end
}

func TestDecodeModuleAndInstantiateAdd(t *testing.T) {
	module, err := DecodeModule(addModuleBytes)
	require.NoError(t, err)
	require.Len(t, module.Types, 1)
	require.Len(t, module.Functions, 1)
	require.Len(t, module.Exports, 1)
	require.Equal(t, "add", module.Exports[0].Name)

	rt := NewRuntime()
	inst, err := rt.Instantiate(addModuleBytes, nil)
	require.NoError(t, err)

	results, err := rt.Invoke(inst, "add", int32(3), int32(4))
	require.NoError(t, err)
	require.Equal(t, []any{int32(7)}, results)
}

func TestInstantiateUnresolvedImportFails(t *testing.T) {
	// Same as addModuleBytes but without its export section and with a
	// function import section requiring "env"."missing" of type
	// (i32,i32)->(i32); the function section references type 0 again for
	// a second, module-defined function.
	withImport := []byte{
		0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
		0x02, 0x0F, 0x01, 0x03, 'e', 'n', 'v', 0x07, 'm', 'i', 's', 's', 'i', 'n', 'g', 0x00, 0x00,
		0x03, 0x02, 0x01, 0x00,
		0x0A, 0x09, 0x01, 0x07, 0x00,
		0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,
	}

	rt := NewRuntime()
	_, err := rt.Instantiate(withImport, NewImportProvider())
	require.Error(t, err)
}

func TestRuntimeInvokeArgumentCountMismatch(t *testing.T) {
	rt := NewRuntime()
	inst, err := rt.Instantiate(addModuleBytes, nil)
	require.NoError(t, err)

	_, err = rt.Invoke(inst, "add", int32(1))
	require.Error(t, err)
}
