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
package machine

import (
	"github.com/consensys/go-chipset/pkg/shape"
	"github.com/consensys/go-chipset/pkg/util"
)

// Config determines how a machine generates traces.
type Config struct {
	// Determines whether chips are processed concurrently.
	parallel bool
	// Determines whether generated traces are checked against the constraints
	// and interactions of their chips.
	debug bool
	// Shape applied to shards which do not specify their own.
	shape util.Option[shape.Shape]
	// Seed for the challenge under which interactions are checked.  When
	// absent, challenges are derived from the traces being checked.
	seed util.Option[uint64]
}

// DefaultConfig returns the default configuration, which processes chips in
// parallel without checking traces and without a fixed shape.
func DefaultConfig() Config {
	return Config{parallel: true, debug: false, shape: util.None[shape.Shape](), seed: util.None[uint64]()}
}

// Parallel updates the flag which determines whether chips are processed
// concurrently.
func (c Config) Parallel(flag bool) Config {
	c.parallel = flag
	return c
}

// Debug updates the flag which determines whether generated traces are
// checked.
func (c Config) Debug(flag bool) Config {
	c.debug = flag
	return c
}

// Shape sets the shape applied to shards which do not specify their own.
func (c Config) Shape(s shape.Shape) Config {
	c.shape = util.Some(s)
	return c
}

// Seed fixes the seed from which interaction challenges are drawn.
func (c Config) Seed(seed uint64) Config {
	c.seed = util.Some(seed)
	return c
}

// IsParallel checks whether chips are processed concurrently.
func (c Config) IsParallel() bool {
	return c.parallel
}

// IsDebug checks whether generated traces are checked.
func (c Config) IsDebug() bool {
	return c.debug
}

// FixedShape returns the shape (if any) applied to shards which do not specify
// their own.
func (c Config) FixedShape() util.Option[shape.Shape] {
	return c.shape
}

// ChallengeSeed returns the seed (if any) from which interaction challenges are
// drawn.
func (c Config) ChallengeSeed() util.Option[uint64] {
	return c.seed
}
