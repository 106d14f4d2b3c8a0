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
	"io"
	"math"
	"unicode/utf8"

	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/termio"
)

var (
	headerEscape = termio.BoldAnsiEscape().Underline().Build()
	resetEscape  = termio.ResetAnsiEscape().Build()
)

// Printer encapsulates various configuration options useful for printing out
// matrices in human-readable forms.
type Printer struct {
	// Column names (optional)
	names []string
	// First row to print
	startRow uint
	// Last row to print (inclusive)
	endRow uint
	// Determine maximum width to print
	maxCellWidth uint
	// Numeric base used for cells
	base int
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer
func NewPrinter() *Printer {
	return &Printer{nil, 0, math.MaxUint, math.MaxUint, 10, false}
}

// Names configures the column names to use in the header.  Columns without a
// name are given their index.
func (p *Printer) Names(names ...string) *Printer {
	p.names = names
	return p
}

// Start configures the starting row for this printer.
func (p *Printer) Start(start uint) *Printer {
	p.startRow = start
	return p
}

// End configures the ending row (inclusive) for this printer.
func (p *Printer) End(end uint) *Printer {
	p.endRow = end
	return p
}

// MaxCellWidth sets the maximum width to use for the cell data.
func (p *Printer) MaxCellWidth(width uint) *Printer {
	p.maxCellWidth = width
	return p
}

// Hex configures cells to be printed in hexadecimal.
func (p *Printer) Hex(flag bool) *Printer {
	if flag {
		p.base = 16
	} else {
		p.base = 10
	}
	//
	return p
}

// AnsiEscapes can be used to enable or disable the use of ANSI escape sequences
// (e.g. for showing bold headers in a terminal, etc)
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// Print a given matrix to the given writer using the configured printer.
func Print[F field.Element[F]](p *Printer, w io.Writer, m *RowMajor[F]) error {
	var end = m.Height()
	//
	if p.endRow < end {
		end = p.endRow + 1
	}
	//
	var (
		start = min(p.startRow, end)
		rows  = make([][]string, 0, 1+end-start)
	)
	// Header
	header := []string{"row"}
	for i := range m.Width() {
		header = append(header, p.columnName(i))
	}
	//
	rows = append(rows, header)
	// Body
	for r := start; r < end; r++ {
		row := []string{fmt.Sprintf("%d", r)}
		//
		for _, v := range m.Row(r) {
			row = append(row, p.cell(v.Text(p.base)))
		}
		//
		rows = append(rows, row)
	}
	//
	widths := columnWidths(rows)
	//
	if err := p.printRow(w, rows[0], widths, p.ansiEscapes); err != nil {
		return err
	} else if err := printHorizontalRule(w, widths); err != nil {
		return err
	}
	//
	for _, r := range rows[1:] {
		if err := p.printRow(w, r, widths, false); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *Printer) columnName(col uint) string {
	if col < uint(len(p.names)) {
		return p.names[col]
	}
	//
	return fmt.Sprintf("#%d", col)
}

func (p *Printer) cell(text string) string {
	if p.base == 16 {
		text = "0x" + text
	}
	//
	if n := uint(utf8.RuneCountInString(text)); n > p.maxCellWidth && p.maxCellWidth > 1 {
		runes := []rune(text)
		return string(runes[:p.maxCellWidth-1]) + "…"
	}
	//
	return text
}

func (p *Printer) printRow(w io.Writer, row []string, widths []int, bold bool) error {
	for i, col := range row {
		var err error
		//
		if bold {
			_, err = fmt.Fprintf(w, " %s%*s%s |", headerEscape, widths[i], col, resetEscape)
		} else {
			_, err = fmt.Fprintf(w, " %*s |", widths[i], col)
		}
		//
		if err != nil {
			return err
		}
	}
	//
	_, err := fmt.Fprintln(w)
	//
	return err
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	//
	for _, row := range rows {
		for i, col := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(col))
		}
	}
	//
	return widths
}

func printHorizontalRule(w io.Writer, widths []int) error {
	for _, width := range widths {
		buf := make([]byte, width+3)
		//
		for i := range buf {
			buf[i] = '-'
		}
		//
		buf[width+2] = '+'
		//
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	//
	_, err := fmt.Fprintln(w)
	//
	return err
}
