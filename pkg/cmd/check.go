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

	"github.com/consensys/go-chipset/pkg/fixture"
	"github.com/consensys/go-chipset/pkg/machine"
	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/field/babybear"
	"github.com/consensys/go-chipset/pkg/util/field/bls12_377"
	"github.com/consensys/go-chipset/pkg/util/field/koalabear"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] fixture_file",
	Short: "Check the traces of a fixture.",
	Long: `Generate the traces of every chip for each shard of a given fixture, then
	evaluate every constraint on every row and check that all lookups balance.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Parse fixture
		f := ReadFixtureFile(args[0])
		// Go!
		ok, err := CheckFixture(os.Stdout, GetString(cmd, "field"), f, machineConfig(cmd))
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		} else if !ok {
			os.Exit(1)
		}
	},
}

// CheckFixture generates and checks the traces of a fixture over the named
// field, reporting the outcome for each shard to the given writer.  This
// returns false if any shard failed its checks, and an error if traces could
// not be generated at all.
func CheckFixture(w io.Writer, fieldName string, f *fixture.Fixture, mcfg machine.Config) (bool, error) {
	switch fieldName {
	case "babybear":
		return checkFixture[babybear.Element](w, f, mcfg)
	case "koalabear":
		return checkFixture[koalabear.Element](w, f, mcfg)
	case "bls12-377":
		return checkFixture[bls12_377.Element](w, f, mcfg)
	default:
		return false, fmt.Errorf("unknown field \"%s\"", fieldName)
	}
}

func checkFixture[F field.Element[F]](w io.Writer, f *fixture.Fixture, mcfg machine.Config) (bool, error) {
	var valid = true
	// Errors are reported per shard, rather than failing on the first.
	m, err := machine.New(mcfg.Debug(false), machine.DefaultChips[F]()...)
	if err != nil {
		return false, err
	}
	//
	prep, err := m.GeneratePreprocessed(f.Program)
	if err != nil {
		return false, err
	}
	//
	for _, shard := range f.Shards {
		result, err := m.GenerateShard(shard, prep)
		if err != nil {
			return false, fmt.Errorf("shard %d: %w", shard.PublicValues.Shard, err)
		}
		//
		errs := machine.Check(result, prep, m.Challenge(result, prep))
		//
		if len(errs) == 0 {
			fmt.Fprintf(w, "shard %d: ok (%d chips)\n", shard.PublicValues.Shard, len(result.Traces))
			continue
		}
		//
		valid = false
		//
		fmt.Fprintf(w, "shard %d: %d failures\n", shard.PublicValues.Shard, len(errs))
		//
		for _, e := range errs {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	//
	return valid, nil
}

func init() {
	checkCmd.Flags().Uint64("seed", 0, "seed for the lookup challenge (default derived from the traces)")
	rootCmd.AddCommand(checkCmd)
}
