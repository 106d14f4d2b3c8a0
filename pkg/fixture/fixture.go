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
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/shape"
	"github.com/consensys/go-chipset/pkg/util"
	"gopkg.in/yaml.v3"
)

// Fixture is a program together with the execution records of its shards, as
// would be produced by a runtime.  Fixtures allow traces to be generated
// without executing anything.
type Fixture struct {
	Program *program.Program
	Shards  []*record.ExecutionRecord
}

// File is the YAML layout of a fixture.
type File struct {
	Program ProgramFile `yaml:"program"`
	Shards  []ShardFile `yaml:"shards"`
}

// ProgramFile is the YAML layout of a program.
type ProgramFile struct {
	PcStart      uint32      `yaml:"pc_start"`
	PcBase       uint32      `yaml:"pc_base"`
	Functions    []uint32    `yaml:"functions"`
	Instructions []string    `yaml:"instructions,omitempty"`
	Shape        shape.Shape `yaml:"shape,omitempty"`
}

// ShardFile is the YAML layout of a shard.
type ShardFile struct {
	Shard   uint32      `yaml:"shard"`
	Channel uint32      `yaml:"channel,omitempty"`
	Shape   shape.Shape `yaml:"shape,omitempty"`
	Calls   []CallFile  `yaml:"calls,omitempty"`
	BinOps  []BinOpFile `yaml:"binops,omitempty"`
}

// CallFile is the YAML layout of a function call event.
type CallFile struct {
	Clk      uint32 `yaml:"clk"`
	Function uint32 `yaml:"function"`
}

// BinOpFile is the YAML layout of a binary operation event.  The result may be
// omitted, in which case it is computed.
type BinOpFile struct {
	Clk uint32  `yaml:"clk"`
	Op  string  `yaml:"op"`
	X   uint32  `yaml:"x"`
	Y   uint32  `yaml:"y"`
	Res *uint32 `yaml:"res,omitempty"`
}

// ReadFile reads a fixture from a given YAML file.
func ReadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//
	defer f.Close()
	//
	fixture, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	//
	return fixture, nil
}

// Read a fixture in YAML from a given reader.  Unknown fields are rejected.
func Read(r io.Reader) (*Fixture, error) {
	var file File
	//
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	//
	return file.Build()
}

// Build the fixture described by this file.
func (p *File) Build() (*Fixture, error) {
	prog, err := p.Program.Build()
	if err != nil {
		return nil, err
	}
	//
	shards := make([]*record.ExecutionRecord, len(p.Shards))
	//
	for i, s := range p.Shards {
		if shards[i], err = s.Build(prog); err != nil {
			return nil, fmt.Errorf("shard %d: %w", s.Shard, err)
		}
	}
	//
	return &Fixture{prog, shards}, nil
}

// Build the program described by this file.
func (p *ProgramFile) Build() (*program.Program, error) {
	insns := make([]program.Instruction, len(p.Instructions))
	//
	for i, name := range p.Instructions {
		op, err := program.ParseOpcode(name)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		//
		insns[i] = program.Instruction{Opcode: op}
	}
	//
	prog := program.NewProgram(insns, p.PcStart, p.PcBase, p.Functions)
	//
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	//
	if p.Shape != nil {
		prog = prog.WithPreprocessedShape(p.Shape)
	}
	//
	return prog, nil
}

// Build the record of the shard described by this file.
func (p *ShardFile) Build(prog *program.Program) (*record.ExecutionRecord, error) {
	shard := record.New(prog)
	shard.PublicValues = record.PublicValues{Shard: p.Shard, Channel: p.Channel}
	//
	if p.Shape != nil {
		shard.Shape = util.Some(p.Shape)
	}
	//
	for _, c := range p.Calls {
		shard.FunctionCalls = append(shard.FunctionCalls, record.FunctionCallEvent{Clk: c.Clk, Function: c.Function})
	}
	//
	for _, b := range p.BinOps {
		event, err := b.Build()
		if err != nil {
			return nil, err
		}
		//
		shard.BinOps = append(shard.BinOps, event)
	}
	//
	return shard, nil
}

// Build the event described by this file.
func (p *BinOpFile) Build() (record.BinOpEvent, error) {
	op, err := program.ParseOpcode(p.Op)
	if err != nil {
		return record.BinOpEvent{}, fmt.Errorf("clk %d: %w", p.Clk, err)
	}
	//
	event := record.BinOpEvent{Clk: p.Clk, Opcode: op, X: p.X, Y: p.Y}
	//
	if p.Res != nil {
		event.Res = *p.Res
	} else if event.Res, err = op.Execute(p.X, p.Y); err != nil {
		return event, fmt.Errorf("clk %d: %w", p.Clk, err)
	}
	//
	return event, nil
}
