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
	"slices"

	"github.com/consensys/go-chipset/pkg/shape"
	"github.com/consensys/go-chipset/pkg/util"
)

// InstructionSize is the number of bytes occupied by each instruction.
const InstructionSize = 4

// ErrInvalidProgram indicates a program whose layout is malformed.
var ErrInvalidProgram = errors.New("invalid program")

// Instruction is a single instruction of a program.
type Instruction struct {
	Opcode Opcode
}

// Program is the static description of the code under proof.  A program is
// immutable once constructed, and is shared (read-only) by every chip and shard
// of a proving session.
type Program struct {
	// Instructions making up the program.
	instructions []Instruction
	// Address of the first instruction to execute.
	pcStart uint32
	// Base address of the program.
	pcBase uint32
	// Maps each function index to its code offset.
	functionOffsets []uint32
	// Fixed dimensions for preprocessed traces (if any).
	preprocessedShape util.Option[shape.Shape]
}

// NewProgram constructs a new program.  The given slices are copied.
func NewProgram(instructions []Instruction, pcStart uint32, pcBase uint32, functionOffsets []uint32) *Program {
	return &Program{
		slices.Clone(instructions),
		pcStart,
		pcBase,
		slices.Clone(functionOffsets),
		util.None[shape.Shape](),
	}
}

// WithPreprocessedShape returns a copy of this program which fixes the height
// of preprocessed traces.
func (p *Program) WithPreprocessedShape(s shape.Shape) *Program {
	np := *p
	np.preprocessedShape = util.Some(s)
	//
	return &np
}

// Instructions returns the instructions of this program.  The returned slice
// must not be modified.
func (p *Program) Instructions() []Instruction {
	return p.instructions
}

// PcStart returns the address of the first instruction to execute.
func (p *Program) PcStart() uint32 {
	return p.pcStart
}

// PcBase returns the base address of this program.
func (p *Program) PcBase() uint32 {
	return p.pcBase
}

// NumFunctions returns the number of functions in the function table.
func (p *Program) NumFunctions() uint {
	return uint(len(p.functionOffsets))
}

// FunctionOffset returns the code offset of a given function, or false if no
// such function exists.
func (p *Program) FunctionOffset(index uint32) (uint32, bool) {
	if uint(index) >= uint(len(p.functionOffsets)) {
		return 0, false
	}
	//
	return p.functionOffsets[index], true
}

// FunctionOffsets returns the function table, indexed by function.  The
// returned slice must not be modified.
func (p *Program) FunctionOffsets() []uint32 {
	return p.functionOffsets
}

// FixedLog2Rows returns the fixed height (if any) for the preprocessed trace of
// a given chip.
func (p *Program) FixedLog2Rows(chip string) util.Option[uint] {
	return shape.Of(p.preprocessedShape, chip)
}

// Validate checks the layout of this program.  The start address must be an
// instruction boundary at or above the base address and, when the program has
// instructions, must address one of them.  Every instruction must have a valid
// opcode.
func (p *Program) Validate() error {
	if p.pcStart < p.pcBase {
		return fmt.Errorf("%w: start 0x%x below base 0x%x", ErrInvalidProgram, p.pcStart, p.pcBase)
	} else if (p.pcStart-p.pcBase)%InstructionSize != 0 {
		return fmt.Errorf("%w: start 0x%x misaligned", ErrInvalidProgram, p.pcStart)
	} else if n := uint64(len(p.instructions)); n > 0 && uint64(p.pcStart-p.pcBase)/InstructionSize >= n {
		return fmt.Errorf("%w: start 0x%x beyond last instruction", ErrInvalidProgram, p.pcStart)
	}
	//
	for i, insn := range p.instructions {
		if !insn.Opcode.IsValid() {
			return fmt.Errorf("%w: instruction %d has invalid opcode", ErrInvalidProgram, i)
		}
	}
	//
	return nil
}
