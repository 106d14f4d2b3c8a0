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
package bus

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/go-chipset/pkg/util/field"
	"golang.org/x/crypto/sha3"
)

// Challenge holds the random elements under which interactions are
// fingerprinted when computing a log-derivative sum.
type Challenge[F field.Element[F]] struct {
	Alpha F
	Beta  F
}

// ChallengeOf derives a challenge from the SHA3-256 hash of a given seed.
func ChallengeOf[F field.Element[F]](seed []byte) Challenge[F] {
	hash := sha3.Sum256(seed)
	//
	return Challenge[F]{
		Alpha: field.Uint64[F](binary.BigEndian.Uint64(hash[0:8])),
		Beta:  field.Uint64[F](binary.BigEndian.Uint64(hash[8:16])),
	}
}

// ChallengeOfSeed derives a challenge from a numeric seed.
func ChallengeOfSeed[F field.Element[F]](seed uint64) Challenge[F] {
	var buf [8]byte
	//
	binary.BigEndian.PutUint64(buf[:], seed)
	//
	return ChallengeOf[F](buf[:])
}

func (p Challenge[F]) String() string {
	return fmt.Sprintf("(α=%s, β=%s)", p.Alpha, p.Beta)
}

// NonZeroSum reports a log-derivative sum which does not vanish under a given
// challenge.
type NonZeroSum struct {
	Challenge string
	Sum       string
}

func (p NonZeroSum) Error() string {
	return fmt.Sprintf("log-derivative sum under %s is %s (expected 0)", p.Challenge, p.Sum)
}
