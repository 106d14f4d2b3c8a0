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
package machine

import (
	"testing"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/bus"
	"github.com/consensys/go-chipset/pkg/chip/binop"
	"github.com/consensys/go-chipset/pkg/chip/bytes"
	"github.com/consensys/go-chipset/pkg/chip/dispatch"
	"github.com/consensys/go-chipset/pkg/chip/funccall"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/shape"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/field/babybear"
	"github.com/consensys/go-chipset/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = babybear.Element

var testProgram = program.NewProgram(nil, 0x1000, 0x1000, []uint32{4, 9, 17})

func newShard(calls []uint32, ops ...record.BinOpEvent) *record.ExecutionRecord {
	shard := record.New(testProgram)
	shard.PublicValues.Shard = 1
	//
	for i, c := range calls {
		shard.FunctionCalls = append(shard.FunctionCalls, record.FunctionCallEvent{Clk: uint32(i), Function: c})
	}
	//
	shard.BinOps = ops
	//
	return shard
}

func binOp(clk uint32, op program.Opcode, x, y uint32) record.BinOpEvent {
	res, err := op.Execute(x, y)
	if err != nil {
		panic(err)
	}
	//
	return record.BinOpEvent{Clk: clk, Opcode: op, X: x, Y: y, Res: res}
}

func sampleShard() *record.ExecutionRecord {
	return newShard([]uint32{0, 0, 2},
		binOp(10, program.I32Add, 0xfffffff0, 0x20),
		binOp(11, program.I32Sub, 1, 2),
		binOp(12, program.I32Mul, 12345, 678),
		binOp(13, program.I32DivS, 0xffffff9c, 7),
		binOp(14, program.I32DivU, 0xffffff9c, 7))
}

func newMachine(t *testing.T, config Config) *Machine[F] {
	t.Helper()
	//
	m, err := New(config, DefaultChips[F]()...)
	require.NoError(t, err)
	//
	return m
}

func TestMachine_DuplicateChip(t *testing.T) {
	_, err := New[F](DefaultConfig(), funccall.New[F](), dispatch.New[F](), funccall.New[F]())
	assert.EqualError(t, err, "duplicate chip Funccall")
}

func TestMachine_Lookup(t *testing.T) {
	m := newMachine(t, DefaultConfig())
	//
	chip, ok := m.Chip(binop.Name)
	require.True(t, ok)
	assert.Equal(t, binop.Name, chip.Name())
	//
	_, ok = m.Chip("Missing")
	assert.False(t, ok)
	assert.Len(t, m.Chips(), 4)
}

func TestMachine_Scenario(t *testing.T) {
	var (
		m     = newMachine(t, DefaultConfig().Debug(true))
		shard = newShard([]uint32{0, 0, 2})
	)
	//
	prep, err := m.GeneratePreprocessed(testProgram)
	require.NoError(t, err)
	result, err := m.GenerateShard(shard, prep)
	require.NoError(t, err)
	// Only the function chips are included
	require.Len(t, result.Traces, 2)
	assert.Equal(t, dispatch.Name, result.Traces[0].Chip.Name())
	assert.Equal(t, funccall.Name, result.Traces[1].Chip.Name())
	//
	functions, ok := prep.Trace(funccall.Name)
	require.True(t, ok)
	assert.Equal(t, []F{field.Uint64[F](0), field.Uint64[F](1), field.Uint64[F](2), field.Zero[F]()},
		functions.Column(0))
	//
	counts, ok := result.Trace(funccall.Name)
	require.True(t, ok)
	assert.Equal(t, []F{field.Uint64[F](2), field.Zero[F](), field.One[F](), field.Zero[F]()}, counts.Column(1))
}

func TestMachine_Dependencies(t *testing.T) {
	var (
		m     = newMachine(t, DefaultConfig())
		shard = sampleShard()
	)
	//
	require.NoError(t, m.GenerateDependencies(shard))
	assert.Len(t, shard.ByteLookups, 5*binop.NumLookups)
	//
	traces, err := m.GenerateTraces(shard)
	require.NoError(t, err)
	require.Len(t, traces, 4)
	// Byte multiplicities account for every lookup
	table, ok := (&Shard[F]{shard, traces}).Trace(bytes.Name)
	require.True(t, ok)
	assert.Equal(t, field.Uint64[F](5*binop.NumLookups), field.Sum(table.Column(1)...))
}

func TestMachine_Balanced(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		m := newMachine(t, DefaultConfig().Parallel(parallel).Debug(true))
		//
		prep, err := m.GeneratePreprocessed(testProgram)
		require.NoError(t, err)
		result, err := m.GenerateShard(sampleShard(), prep)
		require.NoError(t, err)
		assert.Empty(t, Check(result, prep, m.Challenge(result, prep)))
	}
}

func TestMachine_ParallelMatchesSequential(t *testing.T) {
	var (
		par = newMachine(t, DefaultConfig().Parallel(true))
		seq = newMachine(t, DefaultConfig().Parallel(false))
	)
	//
	lhs, err := par.GenerateShard(sampleShard(), nil)
	require.NoError(t, err)
	rhs, err := seq.GenerateShard(sampleShard(), nil)
	require.NoError(t, err)
	//
	assert.Equal(t, lhs.Record, rhs.Record)
	require.Len(t, lhs.Traces, len(rhs.Traces))
	//
	for i := range lhs.Traces {
		assert.Equal(t, lhs.Traces[i].Chip.Name(), rhs.Traces[i].Chip.Name())
		assert.Equal(t, matrix.DigestOf(lhs.Traces[i].Main), matrix.DigestOf(rhs.Traces[i].Main))
	}
}

func TestMachine_PreprocessedDigests(t *testing.T) {
	var (
		m     = newMachine(t, DefaultConfig())
		other = program.NewProgram(nil, 0, 0, []uint32{4, 9, 18})
	)
	//
	p1, err := m.GeneratePreprocessed(testProgram)
	require.NoError(t, err)
	p2, err := m.GeneratePreprocessed(testProgram)
	require.NoError(t, err)
	p3, err := m.GeneratePreprocessed(other)
	require.NoError(t, err)
	//
	require.Len(t, p1.Traces(), 2)
	assert.Equal(t, p1.Digests(), p2.Digests())
	assert.NotEqual(t, p1.Digests()[funccall.Name], p3.Digests()[funccall.Name])
	assert.Equal(t, p1.Digests()[bytes.Name], p3.Digests()[bytes.Name])
}

func TestMachine_EmptyShard(t *testing.T) {
	m := newMachine(t, DefaultConfig().Debug(true))
	//
	result, err := m.GenerateShard(newShard(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Traces)
}

func TestMachine_Shapes(t *testing.T) {
	var (
		config = DefaultConfig().Shape(shape.Shape{dispatch.Name: 3, binop.Name: 4})
		m      = newMachine(t, config)
		shard  = sampleShard()
	)
	//
	result, err := m.GenerateShard(shard, nil)
	require.NoError(t, err)
	//
	trace, _ := result.Trace(dispatch.Name)
	assert.Equal(t, uint(8), trace.Height())
	trace, _ = result.Trace(binop.Name)
	assert.Equal(t, uint(16), trace.Height())
	trace, _ = result.Trace(funccall.Name)
	assert.Equal(t, uint(4), trace.Height())
	// A shard's own shape takes precedence
	shard = sampleShard()
	shard.Shape = util.Some(shape.Shape{dispatch.Name: 2})
	result, err = m.GenerateShard(shard, nil)
	require.NoError(t, err)
	//
	trace, _ = result.Trace(dispatch.Name)
	assert.Equal(t, uint(4), trace.Height())
	trace, _ = result.Trace(binop.Name)
	assert.Equal(t, uint(8), trace.Height())
	// Shapes can be carried over to other shards
	expected := shape.Shape{dispatch.Name: 2, funccall.Name: 2, binop.Name: 3, bytes.Name: 8}
	assert.Equal(t, expected, result.Shape())
	//
	shard = newShard([]uint32{1}, binOp(1, program.I32Add, 1, 1))
	shard.Shape = util.Some(result.Shape())
	other, err := m.GenerateShard(shard, nil)
	require.NoError(t, err)
	assert.Equal(t, expected, other.Shape())
}

func TestMachine_InvalidProgram(t *testing.T) {
	m := newMachine(t, DefaultConfig())
	//
	_, err := m.GeneratePreprocessed(program.NewProgram(nil, 0x1001, 0x1000, []uint32{0}))
	assert.ErrorIs(t, err, program.ErrInvalidProgram)
}

func TestMachine_ShapeTooSmall(t *testing.T) {
	m := newMachine(t, DefaultConfig().Shape(shape.Shape{binop.Name: 1}))
	//
	_, err := m.GenerateShard(sampleShard(), nil)
	assert.ErrorIs(t, err, air.ErrShape)
	assert.ErrorContains(t, err, "chip BinOp32")
}

func TestMachine_Inconsistent(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		m := newMachine(t, DefaultConfig().Parallel(parallel))
		//
		_, err := m.GenerateShard(newShard([]uint32{0, 5}), nil)
		assert.ErrorIs(t, err, air.ErrInconsistentRecord)
		assert.ErrorContains(t, err, "chip Dispatch")
		// Detected during the dependency pass
		shard := newShard(nil, record.BinOpEvent{Opcode: program.I32Add, X: 1, Y: 1, Res: 3})
		err = m.GenerateDependencies(shard)
		assert.ErrorIs(t, err, air.ErrInconsistentRecord)
		assert.ErrorContains(t, err, "chip BinOp32")
		assert.Empty(t, shard.ByteLookups)
	}
}

func TestMachine_DebugDetectsImbalance(t *testing.T) {
	// Calls are dispatched, but never received.
	m, err := New[F](DefaultConfig().Debug(true), dispatch.New[F]())
	require.NoError(t, err)
	//
	_, err = m.GenerateShard(newShard([]uint32{1}), nil)
	require.Error(t, err)
	//
	var (
		imbalance bus.Imbalance
		sum       bus.NonZeroSum
	)
	//
	assert.ErrorAs(t, err, &imbalance)
	assert.ErrorAs(t, err, &sum)
}

func TestMachine_PreprocessedHeightMismatch(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		m := newMachine(t, DefaultConfig().Parallel(parallel))
		//
		prep, err := m.GeneratePreprocessed(testProgram)
		require.NoError(t, err)
		// Three functions need 4 preprocessed rows, but the shard asks for 8.
		shard := sampleShard()
		shard.Shape = util.Some(shape.Shape{funccall.Name: 3})
		//
		_, err = m.GenerateShard(shard, prep)
		assert.ErrorIs(t, err, air.ErrShape)
		assert.ErrorContains(t, err, "chip Funccall")
		// Agreeing heights are fine.
		shard = sampleShard()
		shard.Shape = util.Some(shape.Shape{funccall.Name: 2})
		//
		_, err = m.GenerateShard(shard, prep)
		assert.NoError(t, err)
	}
}

func TestMachine_Challenge(t *testing.T) {
	m := newMachine(t, DefaultConfig())
	//
	prep, err := m.GeneratePreprocessed(testProgram)
	require.NoError(t, err)
	result, err := m.GenerateShard(sampleShard(), prep)
	require.NoError(t, err)
	other, err := m.GenerateShard(newShard([]uint32{1}), prep)
	require.NoError(t, err)
	// Derived challenges depend only on the traces.
	assert.Equal(t, DeriveChallenge(result, prep), m.Challenge(result, prep))
	assert.Equal(t, DeriveChallenge(result, prep), DeriveChallenge(result, prep))
	assert.NotEqual(t, DeriveChallenge(result, prep), DeriveChallenge(other, prep))
	// A configured seed takes precedence.
	seeded := newMachine(t, DefaultConfig().Seed(7))
	assert.Equal(t, bus.ChallengeOfSeed[F](7), seeded.Challenge(result, prep))
	assert.Empty(t, Check(result, prep, seeded.Challenge(result, prep)))
}

func TestMachine_CheckLogDerivative(t *testing.T) {
	m := newMachine(t, DefaultConfig())
	//
	prep, err := m.GeneratePreprocessed(testProgram)
	require.NoError(t, err)
	result, err := m.GenerateShard(sampleShard(), prep)
	require.NoError(t, err)
	// Drop the byte table, leaving every byte lookup unanswered.
	var traces []Trace[F]
	//
	for _, trace := range result.Traces {
		if trace.Chip.Name() != bytes.Name {
			traces = append(traces, trace)
		}
	}
	//
	broken := &Shard[F]{result.Record, traces}
	errs := Check(broken, prep, m.Challenge(broken, prep))
	require.NotEmpty(t, errs)
	assert.IsType(t, bus.NonZeroSum{}, errs[len(errs)-1])
}

func TestMachine_OtherField(t *testing.T) {
	m, err := New(DefaultConfig().Debug(true), DefaultChips[bls12_377.Element]()...)
	require.NoError(t, err)
	//
	prep, err := m.GeneratePreprocessed(testProgram)
	require.NoError(t, err)
	result, err := m.GenerateShard(sampleShard(), prep)
	require.NoError(t, err)
	assert.Len(t, result.Traces, 4)
}
