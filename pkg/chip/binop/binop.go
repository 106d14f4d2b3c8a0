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
package binop

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Name of the binary operation chip.
const Name = "BinOp32"

// NumLookups is the number of byte lookups derived from each operation.
const NumLookups = 3 * WordSize

var (
	addHandles = limbHandles("add")
	subHandles = limbHandles("sub")
)

// Chip arithmetizes 32-bit binary operations.  Operands and results are held
// as byte limbs, each of which is range checked by sending it to the byte
// table.  Addition and subtraction are constrained limb-wise through carries.
type Chip[F field.Element[F]] struct{}

// New constructs a new binary operation chip.
func New[F field.Element[F]]() *Chip[F] {
	return &Chip[F]{}
}

// Name implementation for the air.Chip interface.
func (p *Chip[F]) Name() string {
	return Name
}

// Width implementation for the air.Chip interface.
func (p *Chip[F]) Width() uint {
	return NumCols
}

// Included implementation for the air.Chip interface.
func (p *Chip[F]) Included(shard *record.ExecutionRecord) bool {
	return len(shard.BinOps) > 0
}

// MinRows implementation for the air.Chip interface.
func (p *Chip[F]) MinRows(shard *record.ExecutionRecord) uint {
	return uint(len(shard.BinOps))
}

// GenerateFixedTrace implementation for the air.Chip interface.  The byte
// lookups required by each operation are appended to the output, but only once
// the trace has been generated successfully.
func (p *Chip[F]) GenerateFixedTrace(input *record.ExecutionRecord, output *record.ExecutionRecord,
	fixedLog2Rows util.Option[uint]) (*matrix.RowMajor[F], error) {
	var (
		shard   = field.Uint64[F](uint64(input.PublicValues.Shard))
		rows    = make([][]F, len(input.BinOps))
		derived = make([]record.ByteLookupEvent, 0, NumLookups*len(input.BinOps))
	)
	//
	for i, event := range input.BinOps {
		if err := checkEvent(event); err != nil {
			return nil, err
		}
		//
		cols := Cols[F]{
			Shard:  shard,
			Clk:    field.Uint64[F](uint64(event.Clk)),
			X:      WordOf[F](event.X),
			Y:      WordOf[F](event.Y),
			Res:    WordOf[F](event.Res),
			Carry:  carries[F](event),
			IsReal: field.One[F](),
		}
		//
		for j := range cols.Selectors {
			cols.Selectors[j] = field.Bool[F](program.Opcode(j) == event.Opcode)
		}
		//
		row := cols.Row()
		rows[i] = row[:]
		derived = append(derived, lookups(event)...)
	}
	//
	trace, err := air.BuildTrace(rows, NumCols, 0, fixedLog2Rows)
	if err != nil {
		return nil, err
	}
	//
	output.ByteLookups = append(output.ByteLookups, derived...)
	//
	return trace, nil
}

// GenerateDependencies implementation for the air.DependencyGenerator
// interface.  This derives exactly the byte lookups of trace generation, in the
// same order, but without constructing the trace itself.
func (p *Chip[F]) GenerateDependencies(input *record.ExecutionRecord, output *record.ExecutionRecord) error {
	derived := make([]record.ByteLookupEvent, 0, NumLookups*len(input.BinOps))
	//
	for _, event := range input.BinOps {
		if err := checkEvent(event); err != nil {
			return err
		}
		//
		derived = append(derived, lookups(event)...)
	}
	//
	output.ByteLookups = append(output.ByteLookups, derived...)
	//
	return nil
}

// Eval implementation for the air.Chip interface.
func (p *Chip[F]) Eval(builder air.Builder[F]) {
	var (
		local   = ColsOf(builder.Local())
		one     = field.One[F]()
		base    = field.Uint64[F](256)
		isAdd   = local.Selectors[program.I32Add]
		isSub   = local.Selectors[program.I32Sub]
		carryIn = field.Zero[F]()
		noCarry = one.Sub(isAdd).Sub(isSub)
	)
	//
	air.AssertBool(builder, "is_real", local.IsReal)
	//
	for _, s := range local.Selectors {
		air.AssertBool(builder, "selector", s)
	}
	// Exactly one opcode on real rows, none on padding rows.
	air.AssertEqual(builder, "one_hot", field.Sum(local.Selectors[:]...), local.IsReal)
	//
	for i := 0; i < WordSize; i++ {
		var (
			x, y, res, carry = local.X[i], local.Y[i], local.Res[i], local.Carry[i]
			carryOut         = base.Mul(carry)
		)
		// x + y = res (mod 2^32)
		air.AssertWhen(builder, addHandles[i], isAdd, x.Add(y).Add(carryIn).Sub(res).Sub(carryOut))
		// res + y = x (mod 2^32)
		air.AssertWhen(builder, subHandles[i], isSub, res.Add(y).Add(carryIn).Sub(x).Sub(carryOut))
		air.AssertBool(builder, "carry", carry)
		air.AssertWhen(builder, "carry_unused", noCarry, carry)
		//
		carryIn = carry
	}
	// Range check every limb
	for _, word := range []Word[F]{local.X, local.Y, local.Res} {
		for _, limb := range word {
			air.SendByte(builder, limb, local.Shard, local.IsReal)
		}
	}
}

// checkEvent ensures an event is consistent with the operation it claims to
// have executed.
func checkEvent(event record.BinOpEvent) error {
	if !event.Opcode.IsValid() {
		return fmt.Errorf("%w: %s has invalid opcode", air.ErrInconsistentRecord, event)
	}
	//
	res, err := event.Opcode.Execute(event.X, event.Y)
	//
	if err != nil {
		return fmt.Errorf("%w: %s (%w)", air.ErrInconsistentRecord, event, err)
	} else if res != event.Res {
		return fmt.Errorf("%w: %s should have result %d", air.ErrInconsistentRecord, event, res)
	}
	//
	return nil
}

// lookups returns the byte lookups required for a given event, in the order
// x, y then res with limbs least significant first.
func lookups(event record.BinOpEvent) []record.ByteLookupEvent {
	var (
		values = [3]uint32{event.X, event.Y, event.Res}
		events = make([]record.ByteLookupEvent, 0, NumLookups)
	)
	//
	for _, val := range values {
		for i := 0; i < WordSize; i++ {
			events = append(events, record.ByteLookupEvent{Value: uint8(val >> (8 * i))})
		}
	}
	//
	return events
}

// carries computes the carry out of each limb for addition, or the borrow for
// subtraction.  Other operations have no carries.
func carries[F field.Element[F]](event record.BinOpEvent) Word[F] {
	var (
		word  Word[F]
		carry uint32
		lhs   uint32
		rhs   uint32
	)
	//
	switch event.Opcode {
	case program.I32Add:
		lhs, rhs = event.X, event.Y
	case program.I32Sub:
		lhs, rhs = event.Res, event.Y
	default:
		return Word[F]{field.Zero[F](), field.Zero[F](), field.Zero[F](), field.Zero[F]()}
	}
	//
	for i := range word {
		sum := (lhs>>(8*i))&0xff + (rhs>>(8*i))&0xff + carry
		carry = sum >> 8
		word[i] = field.Uint64[F](uint64(carry))
	}
	//
	return word
}

func limbHandles(prefix string) [WordSize]string {
	var handles [WordSize]string
	//
	for i := range handles {
		handles[i] = fmt.Sprintf("%s_%d", prefix, i)
	}
	//
	return handles
}
