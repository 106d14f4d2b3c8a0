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
package record

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/shape"
	"github.com/consensys/go-chipset/pkg/util"
)

// PublicValues holds the values of a shard which are visible to the verifier.
type PublicValues struct {
	// Index of this shard within the execution.
	Shard uint32
	// Channel on which this shard's lookups are made.
	Channel uint32
}

// ExecutionRecord is the data bag of one execution shard.  It holds an ordered
// sequence of events for each kind of event, where order reflects execution
// order.  A record is only ever modified by appending events, and is treated as
// read-only once trace generation begins.
type ExecutionRecord struct {
	// Program being executed.
	Program *program.Program
	// Public values of this shard.
	PublicValues PublicValues
	// Function call events, in execution order.
	FunctionCalls []FunctionCallEvent
	// Binary operation events, in execution order.
	BinOps []BinOpEvent
	// Byte lookup requests derived from other events.
	ByteLookups []ByteLookupEvent
	// Fixed dimensions for this shard's traces (if any).
	Shape util.Option[shape.Shape]
}

// New constructs an empty record for a given program.
func New(p *program.Program) *ExecutionRecord {
	return &ExecutionRecord{Program: p, Shape: util.None[shape.Shape]()}
}

// NewOutput constructs an empty record suitable for accumulating the events
// derived from this record.  The output shares this record's program and public
// values, but holds no events.
func (r *ExecutionRecord) NewOutput() *ExecutionRecord {
	return &ExecutionRecord{
		Program:      r.Program,
		PublicValues: r.PublicValues,
		Shape:        r.Shape,
	}
}

// Append the events of another record to this record, preserving their order.
func (r *ExecutionRecord) Append(other *ExecutionRecord) {
	r.FunctionCalls = append(r.FunctionCalls, other.FunctionCalls...)
	r.BinOps = append(r.BinOps, other.BinOps...)
	r.ByteLookups = append(r.ByteLookups, other.ByteLookups...)
}

// IsEmpty checks whether this record holds no events of any kind.
func (r *ExecutionRecord) IsEmpty() bool {
	return len(r.FunctionCalls) == 0 && len(r.BinOps) == 0 && len(r.ByteLookups) == 0
}

// FixedLog2Rows returns the fixed height (if any) of a given chip's trace for
// this shard.
func (r *ExecutionRecord) FixedLog2Rows(chip string) util.Option[uint] {
	return shape.Of(r.Shape, chip)
}

// Stats summarises the number of events of each kind.
func (r *ExecutionRecord) Stats() map[string]uint {
	return map[string]uint{
		"function_calls": uint(len(r.FunctionCalls)),
		"binops":         uint(len(r.BinOps)),
		"byte_lookups":   uint(len(r.ByteLookups)),
	}
}

func (r *ExecutionRecord) String() string {
	return fmt.Sprintf("shard %d (calls %d, binops %d, bytes %d)", r.PublicValues.Shard,
		len(r.FunctionCalls), len(r.BinOps), len(r.ByteLookups))
}
