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
package dispatch

import "github.com/consensys/go-chipset/pkg/air"

// NumCols is the number of main columns.
const NumCols = 5

// ColNames names the main columns in order.
var ColNames = []string{"shard", "clk", "function", "offset", "is_real"}

// Cols is the column layout of the main trace.  There is one row for every
// function call made in a shard.
type Cols[T any] struct {
	Shard T
	// Clock cycle of the call.
	Clk T
	// Index of the function called.
	Function T
	// Code offset of the function called, as given by the program.
	Offset T
	// Set on rows corresponding to a call, and zero on padding rows.
	IsReal T
}

// Row flattens these columns into a row.
func (c *Cols[T]) Row() [NumCols]T {
	return [...]T{c.Shard, c.Clk, c.Function, c.Offset, c.IsReal}
}

// ColsOf reads the main columns from a row.
func ColsOf[T any](row []T) Cols[T] {
	air.CheckWidth(row, NumCols)
	//
	return Cols[T]{row[0], row[1], row[2], row[3], row[4]}
}
