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
package funccall

import "github.com/consensys/go-chipset/pkg/air"

// NumPreprocessedCols is the number of preprocessed columns.
const NumPreprocessedCols = 2

// NumMultiplicityCols is the number of main columns.
const NumMultiplicityCols = 2

// PreprocessedColNames names the preprocessed columns in order.
var PreprocessedColNames = []string{"function", "offset"}

// MultiplicityColNames names the main columns in order.
var MultiplicityColNames = []string{"shard", "multiplicity"}

// PreprocessedCols is the column layout of the preprocessed trace.  There is
// one row per function of the program.
type PreprocessedCols[T any] struct {
	// Index of the function.
	Function T
	// Code offset of the function.
	Offset T
}

// Row flattens these columns into a row.
func (c *PreprocessedCols[T]) Row() [NumPreprocessedCols]T {
	return [...]T{c.Function, c.Offset}
}

// PreprocessedColsOf reads the preprocessed columns from a row.
func PreprocessedColsOf[T any](row []T) PreprocessedCols[T] {
	air.CheckWidth(row, NumPreprocessedCols)
	//
	return PreprocessedCols[T]{row[0], row[1]}
}

// MultiplicityCols is the column layout of the main trace.
type MultiplicityCols[T any] struct {
	// Shard in which the calls were made.
	Shard T
	// Number of times the function was called.
	Multiplicity T
}

// Row flattens these columns into a row.
func (c *MultiplicityCols[T]) Row() [NumMultiplicityCols]T {
	return [...]T{c.Shard, c.Multiplicity}
}

// MultiplicityColsOf reads the main columns from a row.
func MultiplicityColsOf[T any](row []T) MultiplicityCols[T] {
	air.CheckWidth(row, NumMultiplicityCols)
	//
	return MultiplicityCols[T]{row[0], row[1]}
}
