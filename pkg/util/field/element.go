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
package field

import (
	"fmt"
	"math/big"
)

// An Element of a prime-order field.  Elements are values: every operation
// returns a fresh element and leaves its operands untouched.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Compute x - y
	Sub(y Operand) Operand
	// Compute x * y
	Mul(y Operand) Operand
	// Compute x⁻¹, or 0 if x = 0.
	Inverse() Operand
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
	Cmp(y Operand) int
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Return the modulus for the field in question.
	Modulus() *big.Int
	// SetUint64 returns the element val mod p.  The receiver is not modified.
	SetUint64(val uint64) Operand
	// Bytes returns the canonical big-endian encoding of this element.  All
	// elements of a given field encode to the same number of bytes.
	Bytes() []byte
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// Uint64 construct a field element from a given uint64
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// Bool constructs 1 for true and 0 for false.
func Bool[F Element[F]](val bool) F {
	if val {
		return One[F]()
	}
	//
	return Zero[F]()
}

// Neg returns -x.
func Neg[F Element[F]](x F) F {
	return Zero[F]().Sub(x)
}

// Equal checks whether two elements are the same.
func Equal[F Element[F]](x, y F) bool {
	return x.Cmp(y) == 0
}

// Sum adds up all elements in the given slice.
func Sum[F Element[F]](elems ...F) F {
	acc := Zero[F]()
	//
	for _, e := range elems {
		acc = acc.Add(e)
	}
	//
	return acc
}

// Pow takes a given value to the power n.
func Pow[F Element[F]](val F, n uint64) F {
	if n == 0 {
		return One[F]()
	} else if n == 1 {
		return val
	}
	//
	m := n / 2
	// Check for odd case
	if n%2 == 1 {
		tmp := Pow(val, m)
		return val.Mul(tmp).Mul(tmp)
	}
	// Even case
	tmp := Pow(val, m)
	//
	return tmp.Mul(tmp)
}
