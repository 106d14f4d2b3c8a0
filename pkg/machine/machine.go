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
	"encoding/binary"
	"errors"
	"fmt"

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
	log "github.com/sirupsen/logrus"
)

// Machine owns an ordered set of chips, and generates their traces for the
// shards of an execution.  The order of chips is significant: derived events
// are merged in chip order, and traces are returned in chip order.  Chips hold
// no mutable state, hence a machine can be shared between shards.
type Machine[F field.Element[F]] struct {
	config Config
	chips  []air.Chip[F]
}

// DefaultChips returns the standard chip set.
func DefaultChips[F field.Element[F]]() []air.Chip[F] {
	return []air.Chip[F]{
		dispatch.New[F](),
		funccall.New[F](),
		binop.New[F](),
		bytes.New[F](),
	}
}

// New constructs a machine from a given set of chips.  It is an error for two
// chips to share the same name.
func New[F field.Element[F]](config Config, chips ...air.Chip[F]) (*Machine[F], error) {
	names := make(map[string]bool, len(chips))
	//
	for _, chip := range chips {
		if chip.Name() == "" {
			return nil, errors.New("chip has empty name")
		} else if names[chip.Name()] {
			return nil, fmt.Errorf("duplicate chip %s", chip.Name())
		}
		//
		names[chip.Name()] = true
	}
	//
	return &Machine[F]{config, chips}, nil
}

// Config returns the configuration of this machine.
func (p *Machine[F]) Config() Config {
	return p.config
}

// Chips returns the chips of this machine in order.
func (p *Machine[F]) Chips() []air.Chip[F] {
	return p.chips
}

// Chip returns the chip of this machine with the given name, if it exists.
func (p *Machine[F]) Chip(name string) (air.Chip[F], bool) {
	for _, chip := range p.chips {
		if chip.Name() == name {
			return chip, true
		}
	}
	//
	return nil, false
}

// GenerateDependencies derives the events of every chip from a given shard,
// and appends them to the shard.  Each chip derives its events into a record of
// its own, reading the shard as it was before this pass.  These records are
// then appended in chip order, such that the result does not depend on
// scheduling.
func (p *Machine[F]) GenerateDependencies(shard *record.ExecutionRecord) error {
	stats := util.NewPerfStats()
	//
	outputs, err := apply(p.config, p.chips, func(_ uint, chip air.Chip[F]) (*record.ExecutionRecord, error) {
		output, err := air.GenerateDependencies(chip, shard)
		if err != nil {
			return nil, fmt.Errorf("chip %s: %w", chip.Name(), err)
		}
		//
		return output, nil
	})
	//
	if err != nil {
		return err
	}
	// Merge in chip order
	for i, output := range outputs {
		log.Debugf("chip %s derived %v", p.chips[i].Name(), output.Stats())
		shard.Append(output)
	}
	//
	stats.Log("Dependency generation")
	//
	return nil
}

// GenerateTraces generates the main trace of every chip included in a given
// shard, which should already hold all derived events.  Traces are returned in
// chip order.  Any events derived during this pass are discarded, since they
// were already accounted for by the dependency pass.
func (p *Machine[F]) GenerateTraces(shard *record.ExecutionRecord) ([]Trace[F], error) {
	var (
		stats    = util.NewPerfStats()
		included []air.Chip[F]
	)
	//
	for _, chip := range p.chips {
		if chip.Included(shard) {
			included = append(included, chip)
		} else {
			log.Debugf("chip %s omitted from %s", chip.Name(), shard)
		}
	}
	//
	traces, err := apply(p.config, included, func(_ uint, chip air.Chip[F]) (Trace[F], error) {
		fixed := p.FixedLog2Rows(shard, chip.Name())
		main, err := chip.GenerateFixedTrace(shard, shard.NewOutput(), fixed)
		//
		if err != nil {
			return Trace[F]{}, fmt.Errorf("chip %s: %w", chip.Name(), err)
		}
		// Sanity check
		if main.Width() != chip.Width() {
			panic(fmt.Sprintf("chip %s generated trace of width %d (expected %d)", chip.Name(), main.Width(),
				chip.Width()))
		}
		//
		log.Debugf("chip %s has %d rows (min %d, fixed %s), width %d", chip.Name(), main.Height(),
			chip.MinRows(shard), fixed, main.Width())
		//
		return Trace[F]{chip, main}, nil
	})
	//
	stats.Log("Trace generation")
	//
	return traces, err
}

// GenerateShard runs the dependency pass followed by the trace pass for a given
// shard.  The main trace of every chip with a preprocessed trace must match
// that trace in height.  When debugging is enabled, the resulting traces are
// also checked against the constraints and interactions of their chips.
func (p *Machine[F]) GenerateShard(shard *record.ExecutionRecord, prep *Preprocessed[F]) (*Shard[F], error) {
	if err := p.GenerateDependencies(shard); err != nil {
		return nil, err
	}
	//
	traces, err := p.GenerateTraces(shard)
	if err != nil {
		return nil, err
	}
	//
	if err := checkHeights(traces, prep); err != nil {
		return nil, err
	}
	//
	result := &Shard[F]{shard, traces}
	log.Debugf("shard %d has shape %s", shard.PublicValues.Shard, result.Shape())
	//
	if p.config.debug {
		if errs := Check(result, prep, p.Challenge(result, prep)); len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
	}
	//
	return result, nil
}

// Challenge returns the challenge under which the interactions of a generated
// shard are checked.  This is derived from the configured seed when there is
// one, and otherwise from the digests of the shard's traces.
func (p *Machine[F]) Challenge(shard *Shard[F], prep *Preprocessed[F]) bus.Challenge[F] {
	if p.config.seed.HasValue() {
		return bus.ChallengeOfSeed[F](p.config.seed.Unwrap())
	}
	//
	return DeriveChallenge(shard, prep)
}

// DeriveChallenge computes a challenge by hashing the public values of a shard
// and the start address of its program, together with the digests of its main
// and preprocessed traces in chip order.
func DeriveChallenge[F field.Element[F]](shard *Shard[F], prep *Preprocessed[F]) bus.Challenge[F] {
	var (
		seed []byte
		buf  [8]byte
	)
	//
	binary.BigEndian.PutUint64(buf[:], uint64(shard.Record.PublicValues.Shard))
	seed = append(seed, buf[:]...)
	binary.BigEndian.PutUint64(buf[:], uint64(shard.Record.PublicValues.Channel))
	seed = append(seed, buf[:]...)
	binary.BigEndian.PutUint64(buf[:], uint64(shard.Record.Program.PcBase())<<32|uint64(shard.Record.Program.PcStart()))
	seed = append(seed, buf[:]...)
	//
	for _, t := range prep.Traces() {
		seed = append(seed, t.Digest[:]...)
	}
	//
	for _, t := range shard.Traces {
		digest := matrix.DigestOf(t.Main)
		seed = append(seed, digest[:]...)
	}
	//
	return bus.ChallengeOf[F](seed)
}

// checkHeights ensures every main trace has the same height as the
// preprocessed trace (if any) of its chip.
func checkHeights[F field.Element[F]](traces []Trace[F], prep *Preprocessed[F]) error {
	for _, trace := range traces {
		if t, ok := prep.Trace(trace.Chip.Name()); ok && t.Height() != trace.Main.Height() {
			return fmt.Errorf("chip %s: main trace has height %d, but preprocessed trace has height %d: %w",
				trace.Chip.Name(), trace.Main.Height(), t.Height(), air.ErrShape)
		}
	}
	//
	return nil
}

// GeneratePreprocessed generates the preprocessed trace of every chip which
// has one for a given program.  These depend only on the program and can be
// reused across all its shards.
func (p *Machine[F]) GeneratePreprocessed(prog *program.Program) (*Preprocessed[F], error) {
	stats := util.NewPerfStats()
	//
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	//
	traces, err := apply(p.config, p.chips, func(_ uint, chip air.Chip[F]) (
		util.Option[*matrix.RowMajor[F]], error) {
		//
		trace, err := air.GeneratePreprocessedTrace(chip, prog)
		if err != nil {
			return trace, fmt.Errorf("chip %s: %w", chip.Name(), err)
		}
		//
		return trace, nil
	})
	//
	if err != nil {
		return nil, err
	}
	//
	result := &Preprocessed[F]{}
	//
	for i, trace := range traces {
		if trace.HasValue() {
			var (
				chip   = p.chips[i]
				t      = trace.Unwrap()
				digest = matrix.DigestOf(t)
			)
			//
			if t.Width() != air.PreprocessedWidth(chip) {
				panic(fmt.Sprintf("chip %s generated preprocessed trace of width %d (expected %d)", chip.Name(),
					t.Width(), air.PreprocessedWidth(chip)))
			}
			//
			log.Debugf("chip %s has preprocessed trace %s (%s)", chip.Name(), t, digest)
			result.traces = append(result.traces, PreprocessedTrace[F]{chip.Name(), t, digest})
		}
	}
	//
	stats.Log("Preprocessed trace generation")
	//
	return result, nil
}

// FixedLog2Rows determines the fixed height (if any) of a chip's trace for a
// given shard.  A shard's own shape takes precedence over that of the machine.
func (p *Machine[F]) FixedLog2Rows(shard *record.ExecutionRecord, chip string) util.Option[uint] {
	if shard.Shape.HasValue() {
		return shard.FixedLog2Rows(chip)
	}
	//
	return shape.Of(p.config.shape, chip)
}

// Check evaluates the constraints of every chip in a generated shard on every
// row, and checks that all interactions balance under a given challenge.  An
// empty result indicates the shard is valid.
func Check[F field.Element[F]](shard *Shard[F], prep *Preprocessed[F], challenge bus.Challenge[F]) []error {
	var (
		stats  = util.NewPerfStats()
		tables = make([]bus.Table[F], len(shard.Traces))
	)
	//
	for i, trace := range shard.Traces {
		tables[i] = bus.Table[F]{Chip: trace.Chip, Main: trace.Main}
		//
		if t, ok := prep.Trace(trace.Chip.Name()); ok {
			tables[i].Preprocessed = t
		}
	}
	//
	errs := bus.Check(tables, challenge)
	stats.Log("Checking shard")
	//
	return errs
}

// apply a function to a set of chips, concurrently if so configured.
func apply[F field.Element[F], T any](config Config, chips []air.Chip[F], fn func(uint, air.Chip[F]) (T, error)) (
	[]T, error) {
	//
	if config.parallel {
		return util.ParMap(chips, fn)
	}
	//
	return util.SeqMap(chips, fn)
}
