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
package binop_test

import (
	"testing"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/bus"
	"github.com/consensys/go-chipset/pkg/chip/binop"
	"github.com/consensys/go-chipset/pkg/chip/bytes"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/field/babybear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = babybear.Element

func newShard(events ...record.BinOpEvent) *record.ExecutionRecord {
	shard := record.New(program.NewProgram(nil, 0, 0, nil))
	shard.PublicValues.Shard = 3
	shard.BinOps = events
	//
	return shard
}

func event(clk uint32, op program.Opcode, x, y uint32) record.BinOpEvent {
	res, err := op.Execute(x, y)
	if err != nil {
		panic(err)
	}
	//
	return record.BinOpEvent{Clk: clk, Opcode: op, X: x, Y: y, Res: res}
}

func limbs(word binop.Word[F]) []string {
	var res []string
	//
	for _, limb := range word {
		res = append(res, limb.String())
	}
	//
	return res
}

func TestBinOp_Columns(t *testing.T) {
	assert.Equal(t, uint(24), uint(binop.NumCols))
	assert.Len(t, binop.ColNames, int(binop.NumCols))
	assert.Equal(t, "is_i32.add", binop.ColNames[2])
	assert.Equal(t, "is_real", binop.ColNames[binop.NumCols-1])
	//
	cols := binop.Cols[int]{Shard: 1, Clk: 2, IsReal: 3}
	cols.Selectors[program.I32Mul] = 1
	cols.Carry[3] = 9
	row := cols.Row()
	//
	assert.Equal(t, cols, binop.ColsOf(row[:]))
}

func TestBinOp_AddCarries(t *testing.T) {
	shard := newShard(event(1, program.I32Add, 0x1ff, 1))
	trace, err := air.GenerateTrace[F](binop.New[F](), shard, shard.NewOutput())
	//
	require.NoError(t, err)
	assert.Equal(t, uint(1), trace.Height())
	//
	cols := binop.ColsOf(trace.Row(0))
	assert.Equal(t, []string{"255", "1", "0", "0"}, limbs(cols.X))
	assert.Equal(t, []string{"0", "2", "0", "0"}, limbs(cols.Res))
	assert.Equal(t, []string{"1", "0", "0", "0"}, limbs(cols.Carry))
	assert.True(t, cols.Selectors[program.I32Add].IsOne())
	assert.True(t, cols.Selectors[program.I32Sub].IsZero())
}

func TestBinOp_SubBorrows(t *testing.T) {
	shard := newShard(event(1, program.I32Sub, 5, 7))
	trace, err := air.GenerateTrace[F](binop.New[F](), shard, shard.NewOutput())
	//
	require.NoError(t, err)
	//
	cols := binop.ColsOf(trace.Row(0))
	assert.Equal(t, []string{"254", "255", "255", "255"}, limbs(cols.Res))
	assert.Equal(t, []string{"1", "1", "1", "1"}, limbs(cols.Carry))
}

func TestBinOp_Lookups(t *testing.T) {
	var (
		shard  = newShard(event(1, program.I32Mul, 0x01020304, 2), event(2, program.I32DivU, 9, 4))
		output = shard.NewOutput()
	)
	//
	_, err := air.GenerateTrace[F](binop.New[F](), shard, output)
	require.NoError(t, err)
	require.Len(t, output.ByteLookups, 2*binop.NumLookups)
	// x limbs of first event
	for i, v := range []uint8{4, 3, 2, 1} {
		assert.Equal(t, v, output.ByteLookups[i].Value)
	}
	// res of second event
	assert.Equal(t, uint8(2), output.ByteLookups[binop.NumLookups+8].Value)
}

func TestBinOp_DirectDependencies(t *testing.T) {
	var (
		chip  = binop.New[F]()
		shard = newShard(event(1, program.I32Add, 7, 8), event(2, program.I32DivS, 0xfffffff0, 3),
			event(3, program.I32Sub, 0, 1))
		output = shard.NewOutput()
	)
	//
	_, err := air.GenerateTrace[F](chip, shard, output)
	require.NoError(t, err)
	//
	deps, err := air.GenerateDependencies[F](chip, shard)
	require.NoError(t, err)
	assert.Equal(t, output.ByteLookups, deps.ByteLookups)
	assert.Empty(t, shard.ByteLookups)
}

func TestBinOp_Inconsistent(t *testing.T) {
	chip := binop.New[F]()
	//
	for _, e := range []record.BinOpEvent{
		{Opcode: program.I32Add, X: 1, Y: 2, Res: 4},
		{Opcode: program.I32DivU, X: 1, Y: 0, Res: 0},
		{Opcode: program.Opcode(42), X: 1, Y: 2, Res: 3},
	} {
		shard := newShard(e)
		_, err := air.GenerateTrace[F](chip, shard, shard.NewOutput())
		assert.ErrorIs(t, err, air.ErrInconsistentRecord, "%s", e)
		//
		_, err = air.GenerateDependencies[F](chip, shard)
		assert.ErrorIs(t, err, air.ErrInconsistentRecord, "%s", e)
	}
	//
	shard := newShard(record.BinOpEvent{Opcode: program.I32DivS, X: 1, Y: 0})
	_, err := air.GenerateTrace[F](chip, shard, shard.NewOutput())
	assert.ErrorIs(t, err, program.ErrTrap)
}

func TestBinOp_OutputUntouchedOnFailure(t *testing.T) {
	var (
		chip  = binop.New[F]()
		shard = newShard(event(1, program.I32Add, 1, 2), event(2, program.I32Sub, 7, 5),
			event(3, program.I32Mul, 3, 3))
	)
	// Three rows do not fit in two.
	output := shard.NewOutput()
	_, err := chip.GenerateFixedTrace(shard, output, util.Some[uint](1))
	assert.ErrorIs(t, err, air.ErrShape)
	assert.Empty(t, output.ByteLookups)
	// A bad event after good ones.
	shard.BinOps = append(shard.BinOps, record.BinOpEvent{Opcode: program.I32Add, X: 1, Y: 1, Res: 3})
	output = shard.NewOutput()
	_, err = chip.GenerateFixedTrace(shard, output, util.None[uint]())
	assert.ErrorIs(t, err, air.ErrInconsistentRecord)
	assert.Empty(t, output.ByteLookups)
	//
	output = shard.NewOutput()
	err = chip.GenerateDependencies(shard, output)
	assert.ErrorIs(t, err, air.ErrInconsistentRecord)
	assert.Empty(t, output.ByteLookups)
}

func TestBinOp_BalancesByteTable(t *testing.T) {
	var (
		shard = newShard(event(1, program.I32Add, 0xffffffff, 1), event(2, program.I32Sub, 3, 0x80000000),
			event(3, program.I32Mul, 0x10001, 0xffff), event(4, program.I32DivS, 0x80000000, 2),
			event(5, program.I32DivU, 1000, 7))
		tables = generate(t, shard)
	)
	//
	assert.Empty(t, bus.Check(tables, bus.ChallengeOfSeed[F](1)))
}

func TestBinOp_RejectsBadSum(t *testing.T) {
	var (
		shard  = newShard(event(1, program.I32Add, 0x1ff, 1))
		tables = generate(t, shard)
	)
	// Corrupt the first carry
	values := tables[0].Main.Values()
	values[2+program.NumOpcodes+3*binop.WordSize] = field.Zero[F]()
	tables[0].Main = matrix.New(values, binop.NumCols)
	//
	errs := bus.Check(tables, bus.ChallengeOfSeed[F](1))
	require.Len(t, errs, 2)
	assert.Equal(t, "add_0", errs[0].(bus.Failure).Handle)
	assert.Equal(t, "add_1", errs[1].(bus.Failure).Handle)
}

func TestBinOp_RejectsWideLimb(t *testing.T) {
	var (
		shard  = newShard(event(1, program.I32Mul, 3, 5))
		tables = generate(t, shard)
	)
	// Replace the x limbs 3,0 with 259,-1 which preserves x as a field element.
	values := tables[0].Main.Values()
	values[2+program.NumOpcodes] = field.Uint64[F](259)
	values[2+program.NumOpcodes+1] = field.Neg(field.One[F]())
	tables[0].Main = matrix.New(values, binop.NumCols)
	//
	assert.NotEmpty(t, bus.Check(tables, bus.ChallengeOfSeed[F](1)))
}

func generate(t *testing.T, shard *record.ExecutionRecord) []bus.Table[F] {
	t.Helper()
	//
	var (
		chip   = binop.New[F]()
		table  = bytes.New[F]()
		output = shard.NewOutput()
	)
	//
	main, err := air.GenerateTrace[F](chip, shard, output)
	require.NoError(t, err)
	shard.Append(output)
	//
	counts, err := air.GenerateTrace[F](table, shard, shard.NewOutput())
	require.NoError(t, err)
	prep, err := table.GeneratePreprocessedTrace(shard.Program)
	require.NoError(t, err)
	//
	return []bus.Table[F]{{Chip: chip, Main: main}, {Chip: table, Main: counts, Preprocessed: prep}}
}
