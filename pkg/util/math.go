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

import "math/bits"

// NextPowerOfTwo returns the smallest power of two which is greater than or
// equal to n.  Note that NextPowerOfTwo(0) = 1.
func NextPowerOfTwo(n uint) uint {
	if n <= 1 {
		return 1
	}
	//
	return 1 << bits.Len(n-1)
}

// IsPowerOfTwo checks whether n is a (non-zero) power of two.
func IsPowerOfTwo(n uint) bool {
	return n != 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of n, rounded up.  Thus, Log2(5) = 3 and
// Log2(4) = 2.
func Log2(n uint) uint {
	if n <= 1 {
		return 0
	}
	//
	return uint(bits.Len(n - 1))
}
