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
package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParMap_Order(t *testing.T) {
	items := make([]uint, 100)
	//
	for i := range items {
		items[i] = uint(i) * 3
	}
	//
	square := func(_ uint, x uint) (uint, error) { return x * x, nil }
	par, err := ParMap(items, square)
	require.NoError(t, err)
	seq, err := SeqMap(items, square)
	require.NoError(t, err)
	//
	assert.Equal(t, seq, par)
	assert.Equal(t, uint(81), par[3])
}

func TestParMap_FirstError(t *testing.T) {
	fail := func(index uint, x int) (int, error) {
		if x < 0 {
			return 0, fmt.Errorf("item %d", index)
		}
		//
		return x, nil
	}
	//
	for range 10 {
		_, err := ParMap([]int{1, -1, 2, -2, 3}, fail)
		assert.EqualError(t, err, "item 1")
	}
	//
	_, err := SeqMap([]int{1, -1, 2, -2}, fail)
	assert.EqualError(t, err, "item 1")
}

func TestParMap_Empty(t *testing.T) {
	res, err := ParMap([]int{}, func(uint, int) (int, error) { return 0, errors.New("unreachable") })
	//
	require.NoError(t, err)
	assert.Empty(t, res)
}
