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
	"errors"
	"testing"

	"github.com/consensys/go-chipset/pkg/matrix"
	"github.com/consensys/go-chipset/pkg/program"
	"github.com/consensys/go-chipset/pkg/record"
	"github.com/consensys/go-chipset/pkg/util"
	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/field/babybear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = babybear.Element

func TestPaddedHeight(t *testing.T) {
	checkPaddedHeight(t, 0, 0, util.None[uint](), 1)
	checkPaddedHeight(t, 1, 0, util.None[uint](), 1)
	checkPaddedHeight(t, 3, 0, util.None[uint](), 4)
	checkPaddedHeight(t, 3, 5, util.None[uint](), 8)
	checkPaddedHeight(t, 4, 0, util.None[uint](), 4)
	checkPaddedHeight(t, 0, 0, util.Some[uint](0), 1)
	checkPaddedHeight(t, 3, 0, util.Some[uint](4), 16)
	checkPaddedHeight(t, 16, 0, util.Some[uint](4), 16)
}

func TestPaddedHeight_ShapeError(t *testing.T) {
	_, err := PaddedHeight(17, 0, util.Some[uint](4))
	assert.ErrorIs(t, err, ErrShape)
	//
	_, err = PaddedHeight(2, 9, util.Some[uint](3))
	assert.ErrorIs(t, err, ErrShape)
	//
	_, err = PaddedHeight(1, 0, util.Some[uint](100))
	assert.ErrorIs(t, err, ErrShape)
}

func TestPadRows_DefaultRow(t *testing.T) {
	rows := []int{1, 2, 3}
	padded, err := PadRowsFixed(rows, 0, util.None[uint](), func() int { return 7 })
	//
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 7}, padded)
}

func TestBuildTrace(t *testing.T) {
	rows := [][]F{{field.One[F](), field.Uint64[F](2)}}
	trace, err := BuildTrace(rows, 2, 0, util.Some[uint](2))
	//
	require.NoError(t, err)
	assert.Equal(t, uint(4), trace.Height())
	assert.Equal(t, uint(2), trace.Width())
	//
	for r := uint(1); r < trace.Height(); r++ {
		for _, v := range trace.Row(r) {
			assert.True(t, v.IsZero())
		}
	}
}

func TestInteraction_Key(t *testing.T) {
	i := NewInteraction(ByteBus, field.One[F](), field.Uint64[F](7), field.Uint64[F](2))
	//
	assert.Equal(t, "byte(7,2)", i.Key())
	assert.Equal(t, "byte(7,2)*1", i.String())
	assert.Equal(t, "bus(9)", InteractionKind(9).String())
}

func TestGenerateTrace_NoFixedShape(t *testing.T) {
	chip := &echoChip{}
	input := record.New(program.NewProgram(nil, 0, 0, nil))
	input.BinOps = make([]record.BinOpEvent, 3)
	//
	trace, err := GenerateTrace[F](chip, input, input.NewOutput())
	require.NoError(t, err)
	assert.Equal(t, uint(4), trace.Height())
	assert.True(t, chip.fixed.IsEmpty())
}

func TestGenerateDependencies_Default(t *testing.T) {
	input := record.New(program.NewProgram(nil, 0, 0, nil))
	input.BinOps = make([]record.BinOpEvent, 3)
	//
	deps, err := GenerateDependencies[F](&echoChip{}, input)
	require.NoError(t, err)
	// echo chip derives one byte lookup per binop
	assert.Len(t, deps.ByteLookups, 3)
	// input untouched
	assert.Empty(t, input.ByteLookups)
}

func TestGenerateDependencies_Direct(t *testing.T) {
	input := record.New(program.NewProgram(nil, 0, 0, nil))
	input.BinOps = make([]record.BinOpEvent, 3)
	//
	deps, err := GenerateDependencies[F](&directChip{}, input)
	require.NoError(t, err)
	assert.Len(t, deps.ByteLookups, 1)
	//
	_, err = GenerateDependencies[F](&directChip{fail: true}, input)
	assert.Error(t, err)
}

func TestPreprocessed_Default(t *testing.T) {
	p := program.NewProgram(nil, 0, 0, nil)
	//
	assert.Equal(t, uint(0), PreprocessedWidth[F](&echoChip{}))
	trace, err := GeneratePreprocessedTrace[F](&echoChip{}, p)
	require.NoError(t, err)
	assert.True(t, trace.IsEmpty())
}

func checkPaddedHeight(t *testing.T, rows, minRows uint, fixed util.Option[uint], expected uint) {
	t.Helper()
	//
	height, err := PaddedHeight(rows, minRows, fixed)
	require.NoError(t, err)
	assert.Equal(t, expected, height, "rows=%d, min=%d, fixed=%s", rows, minRows, fixed)
}

// echoChip has one row per binop event, and derives one byte lookup for each.
type echoChip struct {
	fixed util.Option[uint]
}

func (p *echoChip) Name() string { return "Echo" }

func (p *echoChip) Width() uint { return 1 }

func (p *echoChip) Included(shard *record.ExecutionRecord) bool { return len(shard.BinOps) > 0 }

func (p *echoChip) MinRows(shard *record.ExecutionRecord) uint { return uint(len(shard.BinOps)) }

func (p *echoChip) GenerateFixedTrace(input *record.ExecutionRecord, output *record.ExecutionRecord,
	fixed util.Option[uint]) (*matrix.RowMajor[F], error) {
	p.fixed = fixed
	rows := make([][]F, 0)
	//
	for range input.BinOps {
		rows = append(rows, []F{field.One[F]()})
		output.ByteLookups = append(output.ByteLookups, record.ByteLookupEvent{Value: 1})
	}
	//
	return BuildTrace(rows, 1, 0, fixed)
}

func (p *echoChip) Eval(Builder[F]) {}

// directChip derives its dependencies directly.
type directChip struct {
	echoChip
	fail bool
}

func (p *directChip) GenerateDependencies(input *record.ExecutionRecord, output *record.ExecutionRecord) error {
	if p.fail {
		return errors.New("failed")
	}
	//
	output.ByteLookups = append(output.ByteLookups, record.ByteLookupEvent{Value: 2})
	//
	return nil
}
