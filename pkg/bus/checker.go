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
package bus

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Table pairs a chip with the traces generated for it.
type Table[F field.Element[F]] struct {
	// Chip which generated the traces.
	Chip air.Chip[F]
	// Main trace of the chip.
	Main *matrix.RowMajor[F]
	// Preprocessed trace of the chip, or nil if it has none.
	Preprocessed *matrix.RowMajor[F]
}

// Failure identifies a constraint which does not hold on a given row.
type Failure struct {
	Chip   string
	Row    uint
	Handle string
	Value  string
}

func (p Failure) Error() string {
	return fmt.Sprintf("constraint \"%s\" of chip %s fails on row %d (evaluates to %s)", p.Handle, p.Chip,
		p.Row, p.Value)
}

// Check evaluates every constraint of every table on every row, and checks that
// all interactions between tables balance.  Balance is checked both exactly, by
// comparing the multiplicities of every tuple, and as a log-derivative sum under
// the given challenge.  This is a debugging aid which reports precisely where a
// set of traces goes wrong, rather than merely that it does.  An empty result
// means all checks passed.
func Check[F field.Element[F]](tables []Table[F], challenge Challenge[F]) []error {
	var (
		errs   []error
		ledger = NewLedger[F]()
	)
	//
	for _, table := range tables {
		errs = append(errs, Evaluate(table, ledger)...)
	}
	//
	errs = append(errs, ledger.Imbalances()...)
	//
	if sum, err := ledger.LogDerivativeSum(challenge.Alpha, challenge.Beta); err != nil {
		errs = append(errs, fmt.Errorf("challenge %s: %w", challenge, err))
	} else if !sum.IsZero() {
		errs = append(errs, NonZeroSum{challenge.String(), sum.String()})
	}
	//
	return errs
}

// Evaluate the constraints of a given table on every row of its trace,
// recording its interactions in the given ledger.  Any constraint failures are
// returned.
func Evaluate[F field.Element[F]](table Table[F], ledger *Ledger[F]) []error {
	var (
		errs   []error
		chip   = table.Chip
		height = table.Main.Height()
	)
	// Sanity checks
	if table.Main.Width() != chip.Width() {
		return []error{fmt.Errorf("chip %s has width %d, but trace has width %d", chip.Name(), chip.Width(),
			table.Main.Width())}
	} else if table.Preprocessed != nil && table.Preprocessed.Height() != height {
		return []error{fmt.Errorf("chip %s has trace height %d, but preprocessed height %d", chip.Name(), height,
			table.Preprocessed.Height())}
	} else if width := air.PreprocessedWidth(chip); width != 0 &&
		(table.Preprocessed == nil || table.Preprocessed.Width() != width) {
		return []error{fmt.Errorf("chip %s is missing a preprocessed trace of width %d", chip.Name(), width)}
	}
	//
	for row := uint(0); row < height; row++ {
		builder := &rowBuilder[F]{table: &table, row: row, height: height, ledger: ledger}
		chip.Eval(builder)
		errs = append(errs, builder.failures...)
	}
	//
	return errs
}

// rowBuilder evaluates constraints on concrete values for a single row.
type rowBuilder[F field.Element[F]] struct {
	table    *Table[F]
	row      uint
	height   uint
	ledger   *Ledger[F]
	failures []error
}

// Local implementation for the air.Builder interface.
func (p *rowBuilder[F]) Local() []F {
	return p.table.Main.Row(p.row)
}

// Next implementation for the air.Builder interface.
func (p *rowBuilder[F]) Next() []F {
	return p.table.Main.Row((p.row + 1) % p.height)
}

// Preprocessed implementation for the air.Builder interface.
func (p *rowBuilder[F]) Preprocessed() []F {
	if p.table.Preprocessed == nil {
		return nil
	}
	//
	return p.table.Preprocessed.Row(p.row)
}

// IsFirstRow implementation for the air.Builder interface.
func (p *rowBuilder[F]) IsFirstRow() bool {
	return p.row == 0
}

// IsLastRow implementation for the air.Builder interface.
func (p *rowBuilder[F]) IsLastRow() bool {
	return p.row+1 == p.height
}

// AssertZero implementation for the air.Builder interface.
func (p *rowBuilder[F]) AssertZero(handle string, value F) {
	if !value.IsZero() {
		p.failures = append(p.failures, Failure{p.table.Chip.Name(), p.row, handle, value.String()})
	}
}

// Send implementation for the air.Builder interface.
func (p *rowBuilder[F]) Send(interaction air.Interaction[F]) {
	if !interaction.Multiplicity.IsZero() {
		p.ledger.Send(interaction)
	}
}

// Receive implementation for the air.Builder interface.
func (p *rowBuilder[F]) Receive(interaction air.Interaction[F]) {
	if !interaction.Multiplicity.IsZero() {
		p.ledger.Receive(interaction)
	}
}
