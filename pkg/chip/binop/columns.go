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
package binop

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// WordSize is the number of byte limbs making up a word.
const WordSize = 4

// NumCols is the number of main columns.
const NumCols = 3 + program.NumOpcodes + 4*WordSize

// Word is a 32-bit value split into little-endian byte limbs.
type Word[T any] [WordSize]T

// WordOf splits a value into its byte limbs.
func WordOf[F field.Element[F]](val uint32) Word[F] {
	var word Word[F]
	//
	for i := range word {
		word[i] = field.Uint64[F](uint64(val>>(8*i)) & 0xff)
	}
	//
	return word
}

// Cols is the column layout of the main trace.  There is one row for every
// binary operation executed in a shard.
type Cols[T any] struct {
	Shard T
	// Clock cycle of the operation.
	Clk T
	// One-hot encoding of the opcode (all zero on padding rows).
	Selectors [program.NumOpcodes]T
	// Left operand.
	X Word[T]
	// Right operand.
	Y Word[T]
	// Result.
	Res Word[T]
	// Carry (or borrow) out of each limb, used by addition and subtraction.
	Carry Word[T]
	// Set on rows corresponding to an operation, and zero on padding rows.
	IsReal T
}

// Row flattens these columns into a row.
func (c *Cols[T]) Row() [NumCols]T {
	var (
		row [NumCols]T
		i   = 2
	)
	//
	row[0], row[1] = c.Shard, c.Clk
	i += copy(row[i:], c.Selectors[:])
	i += copy(row[i:], c.X[:])
	i += copy(row[i:], c.Y[:])
	i += copy(row[i:], c.Res[:])
	i += copy(row[i:], c.Carry[:])
	row[i] = c.IsReal
	//
	return row
}

// ColsOf reads the main columns from a row.
func ColsOf[T any](row []T) Cols[T] {
	var (
		cols Cols[T]
		i    = 2
	)
	//
	air.CheckWidth(row, NumCols)
	cols.Shard, cols.Clk = row[0], row[1]
	i += copy(cols.Selectors[:], row[i:])
	i += copy(cols.X[:], row[i:])
	i += copy(cols.Y[:], row[i:])
	i += copy(cols.Res[:], row[i:])
	i += copy(cols.Carry[:], row[i:])
	cols.IsReal = row[i]
	//
	return cols
}

// ColNames names the main columns in order.
var ColNames = columnNames()

func columnNames() []string {
	names := []string{"shard", "clk"}
	//
	for _, op := range program.Opcodes() {
		names = append(names, fmt.Sprintf("is_%s", op))
	}
	//
	for _, word := range []string{"x", "y", "res", "carry"} {
		for i := 0; i < WordSize; i++ {
			names = append(names, fmt.Sprintf("%s_%d", word, i))
		}
	}
	//
	return append(names, "is_real")
}
