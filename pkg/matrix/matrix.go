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
package matrix

import (
	"fmt"

	"github.com/consensys/go-chipset/pkg/util/field"
)

// RowMajor is a dense matrix of field elements stored row after row.  This is
// the shape in which chip traces are handed to the proof backend: every row has
// exactly Width() elements and rows are laid out consecutively.
type RowMajor[F field.Element[F]] struct {
	values []F
	width  uint
}

// New constructs a matrix of a given width from a flat slice of values.  The
// number of values must be a multiple of the width.
func New[F field.Element[F]](values []F, width uint) *RowMajor[F] {
	if width == 0 {
		panic("matrix width cannot be zero")
	} else if uint(len(values))%width != 0 {
		panic(fmt.Sprintf("matrix data (%d) not a multiple of width (%d)", len(values), width))
	}
	//
	return &RowMajor[F]{values, width}
}

// FromRows constructs a matrix by concatenating the given rows, each of which
// must have exactly the given width.
func FromRows[F field.Element[F]](rows [][]F, width uint) *RowMajor[F] {
	values := make([]F, 0, uint(len(rows))*width)
	//
	for i, row := range rows {
		if uint(len(row)) != width {
			panic(fmt.Sprintf("row %d has width %d (expected %d)", i, len(row), width))
		}
		//
		values = append(values, row...)
	}
	//
	return New(values, width)
}

// Zero constructs a matrix of the given dimensions where every element is zero.
func Zero[F field.Element[F]](height uint, width uint) *RowMajor[F] {
	return New(make([]F, height*width), width)
}

// Width returns the number of columns in this matrix.
func (p *RowMajor[F]) Width() uint {
	return p.width
}

// Height returns the number of rows in this matrix.
func (p *RowMajor[F]) Height() uint {
	return uint(len(p.values)) / p.width
}

// Row returns the given row of this matrix.  The returned slice aliases the
// matrix and must not be modified.
func (p *RowMajor[F]) Row(row uint) []F {
	start := row * p.width
	//
	return p.values[start : start+p.width : start+p.width]
}

// Get returns the element at a given row and column.
func (p *RowMajor[F]) Get(row uint, col uint) F {
	if col >= p.width {
		panic(fmt.Sprintf("column %d out of bounds (width %d)", col, p.width))
	}
	//
	return p.values[row*p.width+col]
}

// Column extracts a copy of the given column.
func (p *RowMajor[F]) Column(col uint) []F {
	var (
		height = p.Height()
		data   = make([]F, height)
	)
	//
	for i := range height {
		data[i] = p.Get(i, col)
	}
	//
	return data
}

// Values returns the flattened contents of this matrix.  The returned slice
// aliases the matrix and must not be modified.
func (p *RowMajor[F]) Values() []F {
	return p.values
}

// Equal checks whether two matrices have the same dimensions and contents.
func (p *RowMajor[F]) Equal(other *RowMajor[F]) bool {
	if p.width != other.width || len(p.values) != len(other.values) {
		return false
	}
	//
	for i := range p.values {
		if p.values[i].Cmp(other.values[i]) != 0 {
			return false
		}
	}
	//
	return true
}

func (p *RowMajor[F]) String() string {
	return fmt.Sprintf("%dx%d", p.Height(), p.width)
}
