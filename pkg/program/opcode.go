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
package program

import (
	"errors"
	"fmt"
	"math"
)

// ErrTrap signals an operation which has no defined result (e.g. division by
// zero).
var ErrTrap = errors.New("trap")

// Opcode identifies a 32-bit binary operation.
type Opcode uint8

const (
	// I32Add is wrapping addition.
	I32Add Opcode = iota
	// I32Sub is wrapping subtraction.
	I32Sub
	// I32Mul is wrapping multiplication.
	I32Mul
	// I32DivS is signed division, truncating towards zero.
	I32DivS
	// I32DivU is unsigned division.
	I32DivU
)

// NumOpcodes is the number of defined opcodes.
const NumOpcodes = uint(I32DivU) + 1

// OpcodeInfo describes a single opcode.  Opcodes are dispatched through a
// table, rather than a switch, such that adding an opcode requires only a new
// table entry.
type OpcodeInfo struct {
	// Mnemonic for the opcode
	Name string
	// Execute the operation on two operands.
	Execute func(x, y uint32) (uint32, error)
}

var opcodes = [NumOpcodes]OpcodeInfo{
	I32Add: {"i32.add", func(x, y uint32) (uint32, error) {
		return x + y, nil
	}},
	I32Sub: {"i32.sub", func(x, y uint32) (uint32, error) {
		return x - y, nil
	}},
	I32Mul: {"i32.mul", func(x, y uint32) (uint32, error) {
		return x * y, nil
	}},
	I32DivS: {"i32.div_s", func(x, y uint32) (uint32, error) {
		var sx, sy = int32(x), int32(y)
		//
		if sy == 0 {
			return 0, fmt.Errorf("%w: integer divide by zero", ErrTrap)
		} else if sx == math.MinInt32 && sy == -1 {
			return 0, fmt.Errorf("%w: integer overflow", ErrTrap)
		}
		//
		return uint32(sx / sy), nil
	}},
	I32DivU: {"i32.div_u", func(x, y uint32) (uint32, error) {
		if y == 0 {
			return 0, fmt.Errorf("%w: integer divide by zero", ErrTrap)
		}
		//
		return x / y, nil
	}},
}

// Opcodes returns every defined opcode in order.
func Opcodes() []Opcode {
	ops := make([]Opcode, NumOpcodes)
	//
	for i := range ops {
		ops[i] = Opcode(i)
	}
	//
	return ops
}

// ParseOpcode determines the opcode with the given mnemonic.
func ParseOpcode(name string) (Opcode, error) {
	for i, info := range opcodes {
		if info.Name == name {
			return Opcode(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown opcode \"%s\"", name)
}

// IsValid checks whether this is a defined opcode.
func (op Opcode) IsValid() bool {
	return uint(op) < NumOpcodes
}

// Info returns the table entry for this opcode.
func (op Opcode) Info() OpcodeInfo {
	if !op.IsValid() {
		panic(fmt.Sprintf("invalid opcode %d", op))
	}
	//
	return opcodes[op]
}

// Execute this opcode on a given pair of operands.
func (op Opcode) Execute(x, y uint32) (uint32, error) {
	if !op.IsValid() {
		return 0, fmt.Errorf("invalid opcode %d", op)
	}
	//
	return opcodes[op].Execute(x, y)
}

func (op Opcode) String() string {
	if !op.IsValid() {
		return fmt.Sprintf("opcode(%d)", op)
	}
	//
	return opcodes[op].Name
}
