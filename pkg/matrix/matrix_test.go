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
	"bytes"
	"testing"

	"github.com/consensys/go-chipset/pkg/util/field"
	"github.com/consensys/go-chipset/pkg/util/field/babybear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = babybear.Element

func elems(vals ...uint64) []F {
	res := make([]F, len(vals))
	for i, v := range vals {
		res[i] = field.Uint64[F](v)
	}
	//
	return res
}

func TestMatrix_Dimensions(t *testing.T) {
	m := New(elems(1, 2, 3, 4, 5, 6), 2)
	//
	assert.Equal(t, uint(2), m.Width())
	assert.Equal(t, uint(3), m.Height())
	assert.Equal(t, elems(3, 4), m.Row(1))
	assert.Equal(t, elems(2, 4, 6), m.Column(1))
	assert.Equal(t, "6", m.Get(2, 1).String())
	assert.Equal(t, "3x2", m.String())
}

func TestMatrix_InvalidShape(t *testing.T) {
	assert.Panics(t, func() { New(elems(1, 2, 3), 2) })
	assert.Panics(t, func() { New(elems(1, 2), 0) })
	assert.Panics(t, func() { FromRows([][]F{elems(1, 2), elems(3)}, 2) })
}

func TestMatrix_FromRows(t *testing.T) {
	m := FromRows([][]F{elems(1, 2), elems(3, 4)}, 2)
	//
	assert.True(t, m.Equal(New(elems(1, 2, 3, 4), 2)))
	assert.False(t, m.Equal(New(elems(1, 2, 3, 5), 2)))
	assert.False(t, m.Equal(New(elems(1, 2, 3, 4), 4)))
}

func TestMatrix_Zero(t *testing.T) {
	m := Zero[F](4, 3)
	//
	require.Equal(t, uint(4), m.Height())
	//
	for _, v := range m.Values() {
		assert.True(t, v.IsZero())
	}
}

func TestDigest_Deterministic(t *testing.T) {
	m1 := New(elems(1, 2, 3, 4), 2)
	m2 := New(elems(1, 2, 3, 4), 2)
	// Same contents but different shape
	m3 := New(elems(1, 2, 3, 4), 4)
	m4 := New(elems(1, 2, 3, 5), 2)
	//
	assert.Equal(t, DigestOf(m1), DigestOf(m2))
	assert.NotEqual(t, DigestOf(m1), DigestOf(m3))
	assert.NotEqual(t, DigestOf(m1), DigestOf(m4))
	assert.Len(t, DigestOf(m1).String(), 64)
}

func TestPrinter(t *testing.T) {
	var (
		buf bytes.Buffer
		m   = New(elems(1, 2, 3, 40), 2)
	)
	//
	require.NoError(t, Print(NewPrinter().Names("a", "bb"), &buf, m))
	//
	expected := " row | a | bb |\n" +
		"-----+---+----+\n" +
		"   0 | 1 |  2 |\n" +
		"   1 | 3 | 40 |\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrinter_Window(t *testing.T) {
	var (
		buf bytes.Buffer
		m   = New(elems(10, 11, 12, 13), 1)
	)
	//
	require.NoError(t, Print(NewPrinter().Start(1).End(2).Hex(true), &buf, m))
	//
	expected := " row |  #0 |\n" +
		"-----+-----+\n" +
		"   1 | 0xb |\n" +
		"   2 | 0xc |\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrinter_Ansi(t *testing.T) {
	var (
		buf bytes.Buffer
		m   = New(elems(7), 1)
	)
	//
	require.NoError(t, Print(NewPrinter().Names("a").AnsiEscapes(true), &buf, m))
	//
	expected := " \033[1;4mrow\033[0m | \033[1;4ma\033[0m |\n" +
		"-----+---+\n" +
		"   0 | 7 |\n"
	assert.Equal(t, expected, buf.String())
}
