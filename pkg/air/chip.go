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
package air

import (
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Chip is one table of a multi-table arithmetization.  A chip turns the events
// of a shard which concern it into a trace matrix, and provides the constraints
// (and interactions) which that matrix must satisfy.
//
// Chips must hold no mutable state: all working state is local to a call, or
// carried explicitly through the input and output records.  This means a single
// chip instance can be used from multiple goroutines at once.
type Chip[F field.Element[F]] interface {
	// Name returns a stable identifier for this chip, which must be unique
	// amongst the chips of a machine.
	Name() string
	// Width returns the number of columns in the main trace.
	Width() uint
	// Included determines whether the given shard contains anything for this
	// chip.  When not included, no trace is generated (or committed) for this
	// chip in that shard.
	Included(shard *record.ExecutionRecord) bool
	// MinRows returns a lower bound on the number of rows this chip requires
	// for the given shard.
	MinRows(shard *record.ExecutionRecord) uint
	// GenerateFixedTrace generates the trace for a given shard.  The chip reads
	// its events from input, and appends any events it derives (e.g. lookup
	// requests which other chips must consume) to output.  If fixedLog2Rows is
	// given, the trace has exactly 2^fixedLog2Rows rows; otherwise, it is
	// padded to the next power of two.
	GenerateFixedTrace(input *record.ExecutionRecord, output *record.ExecutionRecord,
		fixedLog2Rows util.Option[uint]) (*matrix.RowMajor[F], error)
	// Eval evaluates the constraints of this chip on a given row, including any
	// interactions with other chips.
	Eval(builder Builder[F])
}

// PreprocessedChip is a chip with a preprocessed trace.  That is, a set of
// columns determined entirely by the program, and independent of any
// execution.
type PreprocessedChip[F field.Element[F]] interface {
	Chip[F]
	// PreprocessedWidth returns the number of columns in the preprocessed
	// trace.
	PreprocessedWidth() uint
	// GeneratePreprocessedTrace generates the preprocessed trace for a given
	// program.  This must be deterministic, since the resulting trace is
	// committed once per program and reused across shards.
	GeneratePreprocessedTrace(p *program.Program) (*matrix.RowMajor[F], error)
}

// DependencyGenerator is a chip which can derive its dependent events directly,
// without generating its trace.  The events derived must be identical to those
// which GenerateFixedTrace appends to its output.
type DependencyGenerator interface {
	GenerateDependencies(input *record.ExecutionRecord, output *record.ExecutionRecord) error
}

// GenerateTrace generates a chip's trace for a given shard, padding it to the
// next power of two.
func GenerateTrace[F field.Element[F]](chip Chip[F], input *record.ExecutionRecord,
	output *record.ExecutionRecord) (*matrix.RowMajor[F], error) {
	return chip.GenerateFixedTrace(input, output, util.None[uint]())
}

// GenerateDependencies returns the events which a chip derives from a given
// shard.  The events are accumulated into a fresh record owned by the caller,
// rather than into a shared record, such that dependencies of different chips
// can be generated concurrently.  For chips which cannot derive their
// dependencies directly, this generates (and discards) the chip's trace.
func GenerateDependencies[F field.Element[F]](chip Chip[F], input *record.ExecutionRecord) (
	*record.ExecutionRecord, error) {
	//
	output := input.NewOutput()
	//
	if gen, ok := chip.(DependencyGenerator); ok {
		if err := gen.GenerateDependencies(input, output); err != nil {
			return nil, err
		}
	} else if _, err := GenerateTrace(chip, input, output); err != nil {
		return nil, err
	}
	//
	return output, nil
}

// PreprocessedWidth returns the width of a chip's preprocessed trace, which is
// zero for chips without one.
func PreprocessedWidth[F field.Element[F]](chip Chip[F]) uint {
	if pc, ok := chip.(PreprocessedChip[F]); ok {
		return pc.PreprocessedWidth()
	}
	//
	return 0
}

// GeneratePreprocessedTrace generates the preprocessed trace of a chip for a
// given program, or nothing for chips without a preprocessed trace.
func GeneratePreprocessedTrace[F field.Element[F]](chip Chip[F], p *program.Program) (
	util.Option[*matrix.RowMajor[F]], error) {
	//
	if pc, ok := chip.(PreprocessedChip[F]); ok {
		trace, err := pc.GeneratePreprocessedTrace(p)
		if err != nil {
			return util.None[*matrix.RowMajor[F]](), err
		}
		//
		return util.Some(trace), nil
	}
	//
	return util.None[*matrix.RowMajor[F]](), nil
}
