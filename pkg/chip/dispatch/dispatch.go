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
package dispatch

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Name of the dispatch chip.
const Name = "Dispatch"

// Chip records every function call made in a shard, in execution order, and
// sends each onto the function call bus.  The function table receives them,
// thereby ensuring every call targets a function (and offset) of the program.
type Chip[F field.Element[F]] struct{}

// New constructs a new dispatch chip.
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
	return len(shard.FunctionCalls) > 0
}

// MinRows implementation for the air.Chip interface.
func (p *Chip[F]) MinRows(shard *record.ExecutionRecord) uint {
	return uint(len(shard.FunctionCalls))
}

// GenerateFixedTrace implementation for the air.Chip interface.
func (p *Chip[F]) GenerateFixedTrace(input *record.ExecutionRecord, _ *record.ExecutionRecord,
	fixedLog2Rows util.Option[uint]) (*matrix.RowMajor[F], error) {
	var (
		shard = field.Uint64[F](uint64(input.PublicValues.Shard))
		rows  = make([][]F, len(input.FunctionCalls))
	)
	//
	for i, event := range input.FunctionCalls {
		offset, ok := input.Program.FunctionOffset(event.Function)
		//
		if !ok {
			return nil, fmt.Errorf("%w: %s refers to unknown function", air.ErrInconsistentRecord, event)
		}
		//
		cols := Cols[F]{
			Shard:    shard,
			Clk:      field.Uint64[F](uint64(event.Clk)),
			Function: field.Uint64[F](uint64(event.Function)),
			Offset:   field.Uint64[F](uint64(offset)),
			IsReal:   field.One[F](),
		}
		row := cols.Row()
		rows[i] = row[:]
	}
	//
	return air.BuildTrace(rows, NumCols, 0, fixedLog2Rows)
}

// GenerateDependencies implementation for the air.DependencyGenerator
// interface.  Calls derive no further events.
func (p *Chip[F]) GenerateDependencies(*record.ExecutionRecord, *record.ExecutionRecord) error {
	return nil
}

// Eval implementation for the air.Chip interface.
func (p *Chip[F]) Eval(builder air.Builder[F]) {
	var (
		local = ColsOf(builder.Local())
		next  = ColsOf(builder.Next())
	)
	//
	air.AssertBool(builder, "is_real", local.IsReal)
	// Real rows form a non-empty prefix of the trace.
	air.AssertFirst(builder, "is_real_first", local.IsReal.Sub(field.One[F]()))
	air.AssertTransition(builder, "is_real_prefix", field.One[F]().Sub(local.IsReal).Mul(next.IsReal))
	//
	air.SendFunctionCall(builder, local.Function, local.Offset, local.Shard, local.IsReal)
}
