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
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path"

	util "github.com/consensys/go-chipset/pkg/cmd"
	"github.com/consensys/go-chipset/pkg/fixture"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint64("seed", 0, "Seed for random generation")
	rootCmd.Flags().Uint("functions", 8, "Number of functions")
	rootCmd.Flags().Uint("shards", 2, "Number of shards")
	rootCmd.Flags().Uint("calls", 16, "Number of calls per shard")
	rootCmd.Flags().Uint("binops", 16, "Number of binary operations per shard")
	rootCmd.Flags().String("dir", "testdata", "Directory to write fixtures into")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen [flags] name",
	Short: "Fixture generation utility for chipset.",
	Long: `Generate a random fixture which should be accepted, along with a corrupted
	copy of it which should be rejected.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg fixture.GenConfig
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg.Functions = util.GetUint(cmd, "functions")
		cfg.Shards = util.GetUint(cmd, "shards")
		cfg.Calls = util.GetUint(cmd, "calls")
		cfg.BinOps = util.GetUint(cmd, "binops")
		//
		if cfg.Shards == 0 {
			fmt.Println("at least one shard is required")
			os.Exit(1)
		}
		//
		seed, err := cmd.Flags().GetUint64("seed")
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		var (
			rng     = rand.New(rand.NewPCG(seed, seed))
			dir     = util.GetString(cmd, "dir")
			valid   = fixture.Generate(cfg, rng)
			invalid = fixture.Corrupt(valid, rng)
		)
		// Write out
		writeFixture(path.Join(dir, fmt.Sprintf("%s.auto.accepts.yaml", args[0])), valid)
		writeFixture(path.Join(dir, fmt.Sprintf("%s.auto.rejects.yaml", args[0])), invalid)
	},
}

func writeFixture(filename string, file fixture.File) {
	bytes, err := yaml.Marshal(&file)
	if err != nil {
		panic(err)
	}
	// Write the file
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	// Log what happened
	log.Infof("Wrote %s (%d shards)\n", filename, len(file.Shards))
}
