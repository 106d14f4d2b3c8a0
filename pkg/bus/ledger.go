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
	"errors"
	"fmt"

	"github.com/consensys/go-chipset/pkg/air"
	"github.com/consensys/go-chipset/pkg/util/field"
)

// Ledger accumulates the interactions made over all buses, tallying the total
// multiplicity with which each distinct tuple is sent and received.  A set of
// traces is sound with respect to its lookups exactly when, for every tuple,
// these totals agree.
type Ledger[F field.Element[F]] struct {
	// Entries in order of first appearance
	entries []*Entry[F]
	// Maps interaction keys to entries
	index map[string]uint
}

// Entry is the tally for a single tuple on a single bus.
type Entry[F field.Element[F]] struct {
	// Bus on which tuple is transferred
	Kind air.InteractionKind
	// Values making up the tuple
	Values []F
	// Total multiplicity sent
	Sent F
	// Total multiplicity received
	Received F
}

// Key identifies the bus and tuple of this entry.
func (p *Entry[F]) Key() string {
	return air.NewInteraction(p.Kind, p.Sent, p.Values...).Key()
}

// IsBalanced checks whether as much was sent as received for this entry.
func (p *Entry[F]) IsBalanced() bool {
	return p.Sent.Cmp(p.Received) == 0
}

// Imbalance reports a tuple whose sent and received multiplicities disagree.
type Imbalance struct {
	Key      string
	Sent     string
	Received string
}

func (p Imbalance) Error() string {
	return fmt.Sprintf("bus imbalance on %s: sent %s, received %s", p.Key, p.Sent, p.Received)
}

// NewLedger constructs an empty ledger.
func NewLedger[F field.Element[F]]() *Ledger[F] {
	return &Ledger[F]{nil, make(map[string]uint)}
}

// Send records an interaction sent onto a bus.
func (p *Ledger[F]) Send(interaction air.Interaction[F]) {
	entry := p.entry(interaction)
	entry.Sent = entry.Sent.Add(interaction.Multiplicity)
}

// Receive records an interaction received from a bus.
func (p *Ledger[F]) Receive(interaction air.Interaction[F]) {
	entry := p.entry(interaction)
	entry.Received = entry.Received.Add(interaction.Multiplicity)
}

// Entries returns all entries in order of first appearance.
func (p *Ledger[F]) Entries() []*Entry[F] {
	return p.entries
}

// Imbalances returns an error for every tuple which is not balanced.
func (p *Ledger[F]) Imbalances() []error {
	var errs []error
	//
	for _, e := range p.entries {
		if !e.IsBalanced() {
			errs = append(errs, Imbalance{e.Key(), e.Sent.String(), e.Received.String()})
		}
	}
	//
	return errs
}

// LogDerivativeSum computes the log-derivative of all interactions recorded in
// this ledger under a given challenge.  Each tuple (k, v₀, .., vₙ) is
// fingerprinted as α + k + βv₀ + .. + βⁿ⁺¹vₙ, and the sum is
//
//	Σ (sent - received) / fingerprint
//
// which is zero whenever the ledger is balanced.  For an unbalanced ledger the
// sum is non-zero with overwhelming probability over random challenges.  An
// error is returned if some fingerprint vanishes, since the challenges are then
// unusable.
func (p *Ledger[F]) LogDerivativeSum(alpha F, beta F) (F, error) {
	sum := field.Zero[F]()
	//
	for _, e := range p.entries {
		fp := Fingerprint(alpha, beta, e.Kind, e.Values)
		//
		if fp.IsZero() {
			return sum, errors.New("vanishing fingerprint for " + e.Key())
		}
		//
		sum = sum.Add(e.Sent.Sub(e.Received).Mul(fp.Inverse()))
	}
	//
	return sum, nil
}

// Fingerprint compresses a tuple on a given bus into a single field element.
func Fingerprint[F field.Element[F]](alpha F, beta F, kind air.InteractionKind, values []F) F {
	var (
		acc   = alpha.Add(field.Uint64[F](uint64(kind)))
		power = beta
	)
	//
	for _, v := range values {
		acc = acc.Add(power.Mul(v))
		power = power.Mul(beta)
	}
	//
	return acc
}

func (p *Ledger[F]) entry(interaction air.Interaction[F]) *Entry[F] {
	key := interaction.Key()
	//
	if i, ok := p.index[key]; ok {
		return p.entries[i]
	}
	//
	entry := &Entry[F]{interaction.Kind, interaction.Values, field.Zero[F](), field.Zero[F]()}
	p.index[key] = uint(len(p.entries))
	p.entries = append(p.entries, entry)
	//
	return entry
}
