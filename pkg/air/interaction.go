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
	"fmt"
	"strings"

	"github.com/consensys/go-chipset/pkg/util/field"
)

// InteractionKind identifies the bus over which an interaction is made.  Sends
// and receives only balance against interactions of the same kind.
type InteractionKind uint8

const (
	// FunctionCallBus carries (function, offset, shard) tuples from the
	// dispatch chip to the function table.
	FunctionCallBus InteractionKind = iota
	// ByteBus carries (value, shard) tuples from chips requiring byte range
	// checks to the byte table.
	ByteBus
)

func (k InteractionKind) String() string {
	switch k {
	case FunctionCallBus:
		return "function_call"
	case ByteBus:
		return "byte"
	default:
		return fmt.Sprintf("bus(%d)", uint8(k))
	}
}

// Interaction is a tuple of values put onto (or taken off) a bus some number of
// times.  Lookup soundness requires that, for every kind and tuple of values,
// the total multiplicity sent equals the total multiplicity received.
type Interaction[F field.Element[F]] struct {
	// Bus on which this interaction is made.
	Kind InteractionKind
	// Values making up the tuple.
	Values []F
	// Number of times the tuple is sent (or received).
	Multiplicity F
}

// NewInteraction constructs a new interaction.
func NewInteraction[F field.Element[F]](kind InteractionKind, multiplicity F, values ...F) Interaction[F] {
	return Interaction[F]{kind, values, multiplicity}
}

// Key returns a string identifying the bus and values of this interaction (but
// not its multiplicity).
func (p Interaction[F]) Key() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Kind.String())
	builder.WriteString("(")
	//
	for i, v := range p.Values {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(v.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p Interaction[F]) String() string {
	return fmt.Sprintf("%s*%s", p.Key(), p.Multiplicity.String())
}

// SendFunctionCall sends a function call on the function call bus.
func SendFunctionCall[F field.Element[F]](b Builder[F], function F, offset F, shard F, multiplicity F) {
	b.Send(NewInteraction(FunctionCallBus, multiplicity, function, offset, shard))
}

// ReceiveFunctionCall receives a function call from the function call bus.
func ReceiveFunctionCall[F field.Element[F]](b Builder[F], function F, offset F, shard F, multiplicity F) {
	b.Receive(NewInteraction(FunctionCallBus, multiplicity, function, offset, shard))
}

// SendByte requests that a value be range checked as a byte.
func SendByte[F field.Element[F]](b Builder[F], value F, shard F, multiplicity F) {
	b.Send(NewInteraction(ByteBus, multiplicity, value, shard))
}

// ReceiveByte answers byte range check requests.
func ReceiveByte[F field.Element[F]](b Builder[F], value F, shard F, multiplicity F) {
	b.Receive(NewInteraction(ByteBus, multiplicity, value, shard))
}
