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
package bytes

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Name of the byte chip.
const Name = "Byte"

// NumRows is the number of byte values, and hence of rows in the table.
const NumRows = 256

// NumPreprocessedCols is the number of preprocessed columns.
const NumPreprocessedCols = 1

// NumCols is the number of main columns.
const NumCols = 2

var (
	// PreprocessedColNames names the preprocessed columns in order.
	PreprocessedColNames = []string{"value"}
	// ColNames names the main columns in order.
	ColNames = []string{"shard", "multiplicity"}
)

// PreprocessedCols is the column layout of the preprocessed trace, which lists
// every byte value.
type PreprocessedCols[T any] struct {
	Value T
}

// Row flattens these columns into a row.
func (c *PreprocessedCols[T]) Row() [NumPreprocessedCols]T {
	return [...]T{c.Value}
}

// PreprocessedColsOf reads the preprocessed columns from a row.
func PreprocessedColsOf[T any](row []T) PreprocessedCols[T] {
	air.CheckWidth(row, NumPreprocessedCols)
	//
	return PreprocessedCols[T]{row[0]}
}

// Cols is the column layout of the main trace.
type Cols[T any] struct {
	Shard T
	// Number of lookups of this row's value.
	Multiplicity T
}

// Row flattens these columns into a row.
func (c *Cols[T]) Row() [NumCols]T {
	return [...]T{c.Shard, c.Multiplicity}
}

// ColsOf reads the main columns from a row.
func ColsOf[T any](row []T) Cols[T] {
	air.CheckWidth(row, NumCols)
	//
	return Cols[T]{row[0], row[1]}
}

// Chip is the byte table, which answers range check requests made by other
// chips.  Its preprocessed trace lists every byte value once, and its main
// trace counts the lookups of each value in a shard.
type Chip[F field.Element[F]] struct{}

// New constructs a new byte chip.
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

// PreprocessedWidth implementation for the air.PreprocessedChip interface.
func (p *Chip[F]) PreprocessedWidth() uint {
	return NumPreprocessedCols
}

// Included implementation for the air.Chip interface.
func (p *Chip[F]) Included(shard *record.ExecutionRecord) bool {
	return len(shard.ByteLookups) > 0
}

// MinRows implementation for the air.Chip interface.
func (p *Chip[F]) MinRows(*record.ExecutionRecord) uint {
	return NumRows
}

// GeneratePreprocessedTrace implementation for the air.PreprocessedChip
// interface.  The table does not depend on the program, except for its shape.
func (p *Chip[F]) GeneratePreprocessedTrace(prog *program.Program) (*matrix.RowMajor[F], error) {
	rows := make([][]F, NumRows)
	//
	for i := range rows {
		cols := PreprocessedCols[F]{field.Uint64[F](uint64(i))}
		row := cols.Row()
		rows[i] = row[:]
	}
	//
	trace, err := air.BuildTrace(rows, NumPreprocessedCols, NumRows, prog.FixedLog2Rows(Name))
	if err != nil {
		return nil, fmt.Errorf("preprocessed trace: %w", err)
	}
	//
	return trace, nil
}

// GenerateFixedTrace implementation for the air.Chip interface.
func (p *Chip[F]) GenerateFixedTrace(input *record.ExecutionRecord, _ *record.ExecutionRecord,
	fixedLog2Rows util.Option[uint]) (*matrix.RowMajor[F], error) {
	var (
		counts = Multiplicities(input)
		shard  = field.Uint64[F](uint64(input.PublicValues.Shard))
		rows   = make([][]F, NumRows)
	)
	//
	for i, count := range counts {
		cols := Cols[F]{Shard: shard, Multiplicity: field.Uint64[F](count)}
		row := cols.Row()
		rows[i] = row[:]
	}
	//
	return air.BuildTrace(rows, NumCols, NumRows, fixedLog2Rows)
}

// GenerateDependencies implementation for the air.DependencyGenerator
// interface.  Lookups derive no further events.
func (p *Chip[F]) GenerateDependencies(*record.ExecutionRecord, *record.ExecutionRecord) error {
	return nil
}

// Eval implementation for the air.Chip interface.
func (p *Chip[F]) Eval(builder air.Builder[F]) {
	var (
		prep  = PreprocessedColsOf(builder.Preprocessed())
		local = ColsOf(builder.Local())
	)
	//
	air.ReceiveByte(builder, prep.Value, local.Shard, local.Multiplicity)
}

// Multiplicities counts the lookups of each byte value in a given shard.
func Multiplicities(input *record.ExecutionRecord) [NumRows]uint64 {
	var counts [NumRows]uint64
	//
	for _, event := range input.ByteLookups {
		counts[event.Value]++
	}
	//
	return counts
}
