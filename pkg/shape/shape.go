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
package shape

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/consensys/go-chipset/pkg/util"
)

// Shape fixes the height of chip traces for a proof.  Each entry maps a chip
// name to the base-2 logarithm of its number of rows.  When all shards of a
// proof are generated against the same shape, every chip has identical
// dimensions in every shard, which is required for batched (or aggregated)
// proving.  Chips without an entry are padded to the next power of two.
type Shape map[string]uint

// Log2Rows returns the fixed base-2 logarithm of the number of rows for the
// given chip, if this shape fixes one.
func (s Shape) Log2Rows(chip string) util.Option[uint] {
	if log2, ok := s[chip]; ok {
		return util.Some(log2)
	}
	//
	return util.None[uint]()
}

// Of returns the fixed rows for a given chip from an optional shape.
func Of(shape util.Option[Shape], chip string) util.Option[uint] {
	if shape.HasValue() {
		return shape.Unwrap().Log2Rows(chip)
	}
	//
	return util.None[uint]()
}

func (s Shape) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, name := range slices.Sorted(maps.Keys(s)) {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%s:2^%d", name, s[name]))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
