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
package fixture

import (
	"math"
	"math/rand/v2"

	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/util"
)

// GenConfig determines the dimensions of randomly generated fixtures.
type GenConfig struct {
	// Number of functions in the program.
	Functions uint
	// Number of shards.
	Shards uint
	// Number of calls per shard.
	Calls uint
	// Number of binary operations per shard.
	BinOps uint
}

// Generate a random fixture of the given dimensions.  Every event is
// consistent with the program, and no operation traps.
func Generate(cfg GenConfig, rng *rand.Rand) File {
	var (
		file File
		clk  uint32
		ops  = program.Opcodes()
	)
	//
	file.Program.PcStart = 0x1000
	file.Program.PcBase = 0x1000
	file.Program.Functions = make([]uint32, cfg.Functions)
	//
	for i, offset := range util.GenerateRandomInputs(rng, cfg.Functions, 16) {
		if i == 0 {
			file.Program.Functions[i] = uint32(offset)
		} else {
			file.Program.Functions[i] = file.Program.Functions[i-1] + 1 + uint32(offset)
		}
	}
	//
	for _, op := range ops {
		file.Program.Instructions = append(file.Program.Instructions, op.String())
	}
	//
	for s := uint(0); s < cfg.Shards; s++ {
		shard := ShardFile{Shard: uint32(s)}
		//
		if cfg.Functions > 0 {
			for _, fn := range util.GenerateRandomInputs(rng, cfg.Calls, cfg.Functions) {
				shard.Calls = append(shard.Calls, CallFile{Clk: clk, Function: uint32(fn)})
				clk++
			}
		}
		//
		for i := uint(0); i < cfg.BinOps; i++ {
			var (
				op = ops[rng.IntN(len(ops))]
				x  = rng.Uint32()
				y  = rng.Uint32()
			)
			// Avoid traps
			if y == 0 || (op == program.I32DivS && x == math.MaxInt32+1 && y == math.MaxUint32) {
				y = 1
			}
			//
			shard.BinOps = append(shard.BinOps, BinOpFile{Clk: clk, Op: op.String(), X: x, Y: y})
			clk++
		}
		//
		file.Shards = append(file.Shards, shard)
	}
	//
	return file
}

// Corrupt makes a fixture inconsistent with its program, either by calling a
// function which does not exist or by giving an operation the wrong result.
// The fixture must have at least one shard.
func Corrupt(file File, rng *rand.Rand) File {
	var (
		shards = make([]ShardFile, len(file.Shards))
		s      = rng.IntN(len(file.Shards))
	)
	//
	copy(shards, file.Shards)
	file.Shards = shards
	shard := &file.Shards[s]
	//
	if len(shard.BinOps) == 0 || (len(shard.Calls) > 0 && rng.IntN(2) == 0) {
		shard.Calls = append(shard.Calls, CallFile{Clk: math.MaxUint32, Function: uint32(len(file.Program.Functions))})
		return file
	}
	//
	var (
		ops = append([]BinOpFile(nil), shard.BinOps...)
		i   = rng.IntN(len(ops))
	)
	//
	if b, err := ops[i].Build(); err == nil {
		res := b.Res + 1
		ops[i].Res = &res
	}
	//
	shard.BinOps = ops
	//
	return file
}
