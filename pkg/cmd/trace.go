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
package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/consensys/go-chipset/pkg/chip/binop"
	"github.com/consensys/go-chipset/pkg/chip/bytes"
	"github.com/consensys/go-chipset/pkg/chip/dispatch"
	"github.com/consensys/go-chipset/pkg/chip/funccall"
	"github.com/consensys/go-chipset/pkg/fixture"
	"github.com/consensys/go-chipset/pkg/machine"
	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/field/babybear"
	"github.com/consensys/go-chipset/pkg/util/field/bls12_377"
	"github.com/consensys/go-chipset/pkg/util/field/koalabear"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [flags] fixture_file",
	Short: "Generate and print the traces of a fixture.",
	Long: `Generate the preprocessed and main traces of every chip for each shard of a
	given fixture, and print them out.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg traceConfig
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg.chips = GetStringArray(cmd, "chip")
		cfg.start = GetUint(cmd, "start")
		cfg.limit = GetUint(cmd, "limit")
		cfg.hex = GetFlag(cmd, "hex")
		cfg.maxCellWidth = GetUint(cmd, "max-width")
		cfg.terminal = util.None[uint]()
		//
		if width, ok := terminalWidth(); ok {
			cfg.terminal = util.Some(width)
		}
		// Parse fixture
		f := ReadFixtureFile(args[0])
		// Go!
		if err := WriteTraces(os.Stdout, GetString(cmd, "field"), f, machineConfig(cmd), cfg); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// traceConfig determines which traces are printed, and how.
type traceConfig struct {
	// Chips to print (all when empty)
	chips []string
	// First row to print
	start uint
	// Number of rows to print (all when zero)
	limit uint
	// Print cells in hexadecimal
	hex bool
	// Maximum width of a cell (unlimited when zero)
	maxCellWidth uint
	// Width of the attached terminal (if any)
	terminal util.Option[uint]
}

func (p *traceConfig) selected(chip string) bool {
	return len(p.chips) == 0 || slices.Contains(p.chips, chip)
}

func (p *traceConfig) printer(names []string) *matrix.Printer {
	printer := matrix.NewPrinter().Names(names...).Start(p.start).Hex(p.hex)
	//
	if p.limit > 0 {
		printer = printer.End(p.start + p.limit - 1)
	}
	//
	if p.maxCellWidth > 0 {
		printer = printer.MaxCellWidth(p.maxCellWidth)
	} else if p.terminal.HasValue() {
		// Share the terminal between the columns (and row index).
		width := p.terminal.Unwrap() / uint(len(names)+1)
		printer = printer.MaxCellWidth(max(width, 6) - 3)
	}
	//
	return printer.AnsiEscapes(p.terminal.HasValue())
}

// WriteTraces generates the traces of a fixture over the named field, and
// writes them to the given writer.
func WriteTraces(w io.Writer, fieldName string, f *fixture.Fixture, mcfg machine.Config, cfg traceConfig) error {
	switch fieldName {
	case "babybear":
		return writeTraces[babybear.Element](w, f, mcfg, cfg)
	case "koalabear":
		return writeTraces[koalabear.Element](w, f, mcfg, cfg)
	case "bls12-377":
		return writeTraces[bls12_377.Element](w, f, mcfg, cfg)
	default:
		return fmt.Errorf("unknown field \"%s\"", fieldName)
	}
}

func writeTraces[F field.Element[F]](w io.Writer, f *fixture.Fixture, mcfg machine.Config, cfg traceConfig) error {
	m, err := machine.New(mcfg, machine.DefaultChips[F]()...)
	if err != nil {
		return err
	}
	//
	prep, err := m.GeneratePreprocessed(f.Program)
	if err != nil {
		return err
	}
	//
	for i, shard := range f.Shards {
		result, err := m.GenerateShard(shard, prep)
		if err != nil {
			return fmt.Errorf("shard %d: %w", shard.PublicValues.Shard, err)
		}
		//
		if i != 0 {
			fmt.Fprintln(w)
		}
		//
		fmt.Fprintf(w, "shard %d (channel %d)\n", shard.PublicValues.Shard, shard.PublicValues.Channel)
		//
		for _, trace := range result.Traces {
			name := trace.Chip.Name()
			//
			if !cfg.selected(name) {
				continue
			}
			//
			names, prepNames := columnNames(name)
			//
			if t, ok := prep.Trace(name); ok {
				fmt.Fprintf(w, "\n%s (preprocessed)\n", name)
				//
				if err := matrix.Print(cfg.printer(prepNames), w, t); err != nil {
					return err
				}
			}
			//
			fmt.Fprintf(w, "\n%s\n", name)
			//
			if err := matrix.Print(cfg.printer(names), w, trace.Main); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

// columnNames returns the names of the main and preprocessed columns of a
// standard chip.
func columnNames(chip string) ([]string, []string) {
	switch chip {
	case dispatch.Name:
		return dispatch.ColNames, nil
	case funccall.Name:
		return funccall.MultiplicityColNames, funccall.PreprocessedColNames
	case binop.Name:
		return binop.ColNames, nil
	case bytes.Name:
		return bytes.ColNames, bytes.PreprocessedColNames
	default:
		return nil, nil
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().StringArrayP("chip", "c", []string{}, "print only the given chip(s).")
	traceCmd.Flags().Uint("start", 0, "first row to print.")
	traceCmd.Flags().Uint("limit", 0, "number of rows to print (0 for all).")
	traceCmd.Flags().Bool("hex", false, "print cells in hexadecimal.")
	traceCmd.Flags().Uint("max-width", 0, "maximum width of a cell (0 to fit the terminal).")
}
