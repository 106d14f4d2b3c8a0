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
	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/shape"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Trace is the main trace generated by a chip for a shard.
type Trace[F field.Element[F]] struct {
	Chip air.Chip[F]
	Main *matrix.RowMajor[F]
}

// Shard bundles a shard's finalised record (i.e. including all derived events)
// with the traces of its included chips, in chip order.
type Shard[F field.Element[F]] struct {
	Record *record.ExecutionRecord
	Traces []Trace[F]
}

// Trace returns the main trace of the named chip, if it was included in this
// shard.
func (p *Shard[F]) Trace(chip string) (*matrix.RowMajor[F], bool) {
	for _, t := range p.Traces {
		if t.Chip.Name() == chip {
			return t.Main, true
		}
	}
	//
	return nil, false
}

// Shape returns the base-2 logarithm of the height of each trace in this
// shard.  This can be used to fix the shape of subsequent shards.
func (p *Shard[F]) Shape() shape.Shape {
	s := make(shape.Shape, len(p.Traces))
	//
	for _, t := range p.Traces {
		s[t.Chip.Name()] = util.Log2(t.Main.Height())
	}
	//
	return s
}

// PreprocessedTrace is the preprocessed trace of a chip for a given program,
// along with its digest.
type PreprocessedTrace[F field.Element[F]] struct {
	Chip   string
	Trace  *matrix.RowMajor[F]
	Digest matrix.Digest
}

// Preprocessed holds the preprocessed traces of a machine's chips for a given
// program, in chip order.  Chips without a preprocessed trace are absent.
type Preprocessed[F field.Element[F]] struct {
	traces []PreprocessedTrace[F]
}

// Traces returns the preprocessed traces in chip order.
func (p *Preprocessed[F]) Traces() []PreprocessedTrace[F] {
	if p == nil {
		return nil
	}
	//
	return p.traces
}

// Trace returns the preprocessed trace of the named chip, if it has one.
func (p *Preprocessed[F]) Trace(chip string) (*matrix.RowMajor[F], bool) {
	for _, t := range p.Traces() {
		if t.Chip == chip {
			return t.Trace, true
		}
	}
	//
	return nil, false
}

// Digests maps each chip with a preprocessed trace to that trace's digest.
// Equal digests identify traces whose commitments can be reused.
func (p *Preprocessed[F]) Digests() map[string]matrix.Digest {
	digests := make(map[string]matrix.Digest)
	//
	for _, t := range p.Traces() {
		digests[t.Chip] = t.Digest
	}
	//
	return digests
}
