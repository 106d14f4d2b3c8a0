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
	"math/bits"

	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// PaddedHeight determines the height of a trace holding a given number of
// rows.  When fixedLog2Rows is given the height is exactly 2^fixedLog2Rows,
// and it is an error if this cannot hold the rows (or minimum number of rows)
// required.  Otherwise, the height is the smallest power of two holding at
// least max(rows, minRows, 1) rows.
func PaddedHeight(rows uint, minRows uint, fixedLog2Rows util.Option[uint]) (uint, error) {
	required := max(rows, minRows)
	//
	if fixedLog2Rows.IsEmpty() {
		return util.NextPowerOfTwo(required), nil
	}
	//
	log2 := fixedLog2Rows.Unwrap()
	//
	if log2 >= bits.UintSize-1 {
		return 0, fmt.Errorf("%w: 2^%d rows", ErrShape, log2)
	} else if height := uint(1) << log2; height >= required {
		return height, nil
	}
	//
	return 0, fmt.Errorf("%w: 2^%d rows cannot hold %d rows", ErrShape, log2, required)
}

// PadRows pads a sequence of rows to a given height by appending default rows.
// The default row is constructed afresh for each padding row.
func PadRows[R any](rows []R, height uint, dflt func() R) []R {
	for uint(len(rows)) < height {
		rows = append(rows, dflt())
	}
	//
	return rows
}

// PadRowsFixed pads a sequence of rows according to PaddedHeight.
func PadRowsFixed[R any](rows []R, minRows uint, fixedLog2Rows util.Option[uint], dflt func() R) ([]R, error) {
	height, err := PaddedHeight(uint(len(rows)), minRows, fixedLog2Rows)
	if err != nil {
		return nil, err
	}
	//
	return PadRows(rows, height, dflt), nil
}

// ZeroRow returns a constructor for rows of zeros of a given width.
func ZeroRow[F field.Element[F]](width uint) func() []F {
	return func() []F {
		return make([]F, width)
	}
}

// BuildTrace pads a sequence of rows (see PadRowsFixed) using all-zero padding
// rows, and converts them into a matrix of the given width.
func BuildTrace[F field.Element[F]](rows [][]F, width uint, minRows uint,
	fixedLog2Rows util.Option[uint]) (*matrix.RowMajor[F], error) {
	//
	rows, err := PadRowsFixed(rows, minRows, fixedLog2Rows, ZeroRow[F](width))
	if err != nil {
		return nil, err
	}
	//
	return matrix.FromRows(rows, width), nil
}
