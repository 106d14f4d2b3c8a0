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
package funccall

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Name of the function call chip.
const Name = "Funccall"

// Chip is the function table.  Its preprocessed trace lists every function of
// the program alongside its code offset, and its main trace records how many
// times each function was called in a shard.  Every call dispatched elsewhere
// is received here, binding the calls made to the functions which exist.
type Chip[F field.Element[F]] struct{}

// New constructs a new function call chip.
func New[F field.Element[F]]() *Chip[F] {
	return &Chip[F]{}
}

// Name implementation for the air.Chip interface.
func (p *Chip[F]) Name() string {
	return Name
}

// Width implementation for the air.Chip interface.
func (p *Chip[F]) Width() uint {
	return NumMultiplicityCols
}

// PreprocessedWidth implementation for the air.PreprocessedChip interface.
func (p *Chip[F]) PreprocessedWidth() uint {
	return NumPreprocessedCols
}

// Included implementation for the air.Chip interface.  Shards without calls
// have all multiplicities zero, and can omit this chip altogether.
func (p *Chip[F]) Included(shard *record.ExecutionRecord) bool {
	return len(shard.FunctionCalls) > 0
}

// MinRows implementation for the air.Chip interface.
func (p *Chip[F]) MinRows(shard *record.ExecutionRecord) uint {
	return shard.Program.NumFunctions()
}

// GeneratePreprocessedTrace implementation for the air.PreprocessedChip
// interface.
func (p *Chip[F]) GeneratePreprocessedTrace(prog *program.Program) (*matrix.RowMajor[F], error) {
	rows := make([][]F, 0, prog.NumFunctions())
	//
	for i, offset := range prog.FunctionOffsets() {
		cols := PreprocessedCols[F]{
			Function: field.Uint64[F](uint64(i)),
			Offset:   field.Uint64[F](uint64(offset)),
		}
		row := cols.Row()
		rows = append(rows, row[:])
	}
	// Pad the trace to a power of two depending on the program's shape.
	trace, err := air.BuildTrace(rows, NumPreprocessedCols, 0, prog.FixedLog2Rows(Name))
	if err != nil {
		return nil, fmt.Errorf("preprocessed trace: %w", err)
	}
	//
	return trace, nil
}

// GenerateFixedTrace implementation for the air.Chip interface.
func (p *Chip[F]) GenerateFixedTrace(input *record.ExecutionRecord, _ *record.ExecutionRecord,
	fixedLog2Rows util.Option[uint]) (*matrix.RowMajor[F], error) {
	//
	counts, err := Multiplicities(input)
	if err != nil {
		return nil, err
	}
	//
	var (
		shard = field.Uint64[F](uint64(input.PublicValues.Shard))
		rows  = make([][]F, len(counts))
	)
	//
	for i, count := range counts {
		cols := MultiplicityCols[F]{Shard: shard, Multiplicity: field.Uint64[F](count)}
		row := cols.Row()
		rows[i] = row[:]
	}
	//
	return air.BuildTrace(rows, NumMultiplicityCols, p.MinRows(input), fixedLog2Rows)
}

// GenerateDependencies implementation for the air.DependencyGenerator
// interface.  This chip derives no events.
func (p *Chip[F]) GenerateDependencies(*record.ExecutionRecord, *record.ExecutionRecord) error {
	return nil
}

// Eval implementation for the air.Chip interface.
func (p *Chip[F]) Eval(builder air.Builder[F]) {
	var (
		prep  = PreprocessedColsOf(builder.Preprocessed())
		local = MultiplicityColsOf(builder.Local())
	)
	// Receive every call made to this function.
	air.ReceiveFunctionCall(builder, prep.Function, prep.Offset, local.Shard, local.Multiplicity)
}

// Multiplicities counts the number of calls made to each function of the
// program in a given shard, indexed by function.  Functions never called have
// count zero.  It is an error for a call to refer to a function which does not
// exist.
func Multiplicities(input *record.ExecutionRecord) ([]uint64, error) {
	var (
		n      = input.Program.NumFunctions()
		counts = make([]uint64, n)
	)
	//
	for i, event := range input.FunctionCalls {
		if uint(event.Function) >= n {
			return nil, fmt.Errorf("%w: call %d refers to function %d (of %d)", air.ErrInconsistentRecord, i,
				event.Function, n)
		}
		//
		counts[event.Function]++
	}
	//
	return counts, nil
}
