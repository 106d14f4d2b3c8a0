// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package record

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/program"
)

// FunctionCallEvent records that a given function was called.
type FunctionCallEvent struct {
	// Clock cycle at which the call was made.
	Clk uint32
	// Index of the function being called.
	Function uint32
}

func (e FunctionCallEvent) String() string {
	return fmt.Sprintf("call(%d)@%d", e.Function, e.Clk)
}

// BinOpEvent records the execution of a 32-bit binary operation.
type BinOpEvent struct {
	// Clock cycle at which the operation was executed.
	Clk uint32
	// Operation executed.
	Opcode program.Opcode
	// Left operand.
	X uint32
	// Right operand.
	Y uint32
	// Result.
	Res uint32
}

func (e BinOpEvent) String() string {
	return fmt.Sprintf("%s(%d,%d)=%d@%d", e.Opcode, e.X, e.Y, e.Res, e.Clk)
}

// ByteLookupEvent is a request that a given value be checked as a byte (i.e.
// within 0..255).  Such events are never recorded by the runtime directly;
// rather, they are derived from other events during dependency generation.
type ByteLookupEvent struct {
	Value uint8
}

func (e ByteLookupEvent) String() string {
	return fmt.Sprintf("u8(%d)", e.Value)
}
