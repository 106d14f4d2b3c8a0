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

	"github.com/consensys/go-chipset/pkg/util/field"
)

// Builder provides the context in which a chip's constraints are evaluated for
// a single row of its trace.  Constraints are expressed over the local row, the
// next row (which wraps around on the last row) and the preprocessed row (if
// any).  The same chip code serves for debugging traces, or for constraint
// evaluation by a proof backend, depending on the builder used.
type Builder[F field.Element[F]] interface {
	// Local returns the current row of the main trace.
	Local() []F
	// Next returns the row following the current row of the main trace.
	Next() []F
	// Preprocessed returns the current row of the preprocessed trace, which is
	// empty for chips without one.
	Preprocessed() []F
	// IsFirstRow determines whether the current row is the first.
	IsFirstRow() bool
	// IsLastRow determines whether the current row is the last.
	IsLastRow() bool
	// AssertZero asserts a given value is zero.  The handle identifies the
	// constraint for reporting purposes.
	AssertZero(handle string, value F)
	// Send an interaction to the bus.
	Send(interaction Interaction[F])
	// Receive an interaction from the bus.
	Receive(interaction Interaction[F])
}

// AssertEqual asserts two values are equal.
func AssertEqual[F field.Element[F]](b Builder[F], handle string, x F, y F) {
	b.AssertZero(handle, x.Sub(y))
}

// AssertBool asserts a given value is either zero or one.
func AssertBool[F field.Element[F]](b Builder[F], handle string, x F) {
	b.AssertZero(handle, x.Mul(x.Sub(field.One[F]())))
}

// AssertWhen asserts a value is zero whenever a given condition holds (i.e. is
// non-zero).  The condition must itself be boolean.
func AssertWhen[F field.Element[F]](b Builder[F], handle string, condition F, x F) {
	b.AssertZero(handle, condition.Mul(x))
}

// AssertFirst asserts a value is zero on the first row only.
func AssertFirst[F field.Element[F]](b Builder[F], handle string, x F) {
	if b.IsFirstRow() {
		b.AssertZero(handle, x)
	}
}

// AssertTransition asserts a value is zero on every row but the last.  This is
// used for constraints relating a row to the next.
func AssertTransition[F field.Element[F]](b Builder[F], handle string, x F) {
	if !b.IsLastRow() {
		b.AssertZero(handle, x)
	}
}

// CheckWidth panics if a row does not have the expected width.  This indicates
// a chip bound to the wrong trace, which is a programming error.
func CheckWidth[T any](row []T, width uint) {
	if uint(len(row)) != width {
		panic(fmt.Sprintf("row has width %d (expected %d)", len(row), width))
	}
}
