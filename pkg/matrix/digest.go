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
	"encoding/binary"
	"encoding/hex"

	"github.com/consensys/go-chipset/pkg/util/field"
	"golang.org/x/crypto/sha3"
)

// Digest identifies a matrix by its contents.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestOf computes the SHA3-256 digest of a matrix over its dimensions and the
// canonical encoding of every element in row-major order.  Two matrices have the
// same digest iff they are bit-identical, which is what allows a preprocessed
// trace to be committed once and reused across shards.
func DigestOf[F field.Element[F]](m *RowMajor[F]) Digest {
	var (
		digest Digest
		hasher = sha3.New256()
		buf    [8]byte
	)
	//
	binary.BigEndian.PutUint64(buf[:], uint64(m.Width()))
	hasher.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(m.Height()))
	hasher.Write(buf[:])
	//
	for _, v := range m.Values() {
		hasher.Write(v.Bytes())
	}
	//
	copy(digest[:], hasher.Sum(nil))
	//
	return digest
}
