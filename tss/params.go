// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package tss

import (
	"crypto/rand"
	"io"
	"time"
)

const (
	// DefaultSafePrimeGenTimeout is the safe-prime generation timeout a new
	// Parameters starts with (spec.md §4.1, §6.1). DKG's safe-prime search
	// does not read it; that search runs until it finds its primes.
	DefaultSafePrimeGenTimeout = 5 * time.Minute

	// PaillierModulusBits is the bit length of the Paillier modulus N (and of
	// the ring-Pedersen modulus N~), split across two safe primes.
	PaillierModulusBits = 2048

	// SafePrimeBits is the bit length of each of the two safe primes whose
	// product backs the Paillier/ring-Pedersen moduli above.
	SafePrimeBits = PaillierModulusBits / 2
)

// Parameters configures one run of a DKG or signing state machine: the
// fixed party set, this party's own identity, the threshold, and where
// randomness comes from. It also stores a concurrency level and a safe-prime
// generation timeout, which Proceed does not read.
//
// Rand defaults to crypto/rand.Reader but is overridable so tests can drive
// deterministic party-to-party interactions (spec.md §6.6 "Randomness is
// threaded, never read globally, so state machines stay fully mockable").
type Parameters struct {
	partyID    *PartyID
	parties    *PeerContext
	partyCount int
	threshold  int

	concurrency        int
	safePrimeGenTimeout time.Duration
	rand               io.Reader
	safePrimeBits      int
}

func NewParameters(ctx *PeerContext, partyID *PartyID, partyCount, threshold int) *Parameters {
	return &Parameters{
		partyID:             partyID,
		parties:             ctx,
		partyCount:          partyCount,
		threshold:           threshold,
		concurrency:         partyCount,
		safePrimeGenTimeout: DefaultSafePrimeGenTimeout,
		rand:                rand.Reader,
		safePrimeBits:       SafePrimeBits,
	}
}

func (params *Parameters) Parties() *PeerContext { return params.parties }
func (params *Parameters) PartyID() *PartyID     { return params.partyID }
func (params *Parameters) PartyCount() int       { return params.partyCount }
func (params *Parameters) Threshold() int        { return params.threshold }
func (params *Parameters) Rand() io.Reader        { return params.rand }

func (params *Parameters) SafePrimeGenTimeout() time.Duration {
	return params.safePrimeGenTimeout
}

func (params *Parameters) SetSafePrimeGenTimeout(t time.Duration) { params.safePrimeGenTimeout = t }

func (params *Parameters) Concurrency() int { return params.concurrency }

// SafePrimeBits returns the bit length used for each of the two safe primes
// behind the Paillier modulus and the ring-Pedersen modulus N~ (default
// tss.SafePrimeBits). Tests override it downward; production leaves it.
func (params *Parameters) SafePrimeBits() int { return params.safePrimeBits }

func (params *Parameters) SetSafePrimeBits(bits int) { params.safePrimeBits = bits }

func (params *Parameters) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	params.concurrency = n
}

func (params *Parameters) SetRand(r io.Reader) { params.rand = r }

// ValidateBasic enforces the configuration invariants from spec.md §3/§7:
// 2 <= n, 1 <= t < n, and this party must appear in its own peer context.
func (params *Parameters) ValidateBasic() *Error {
	if params.partyCount < 2 {
		return NewError(ErrTooFewParties, -1, params.partyID)
	}
	if params.threshold < 1 || params.threshold >= params.partyCount {
		return NewError(ErrInvalidThreshold, -1, params.partyID)
	}
	if params.parties.IDs().FindByIndex(params.partyID.Index) == nil {
		return NewError(ErrInvalidPartyIndex, -1, params.partyID)
	}
	return nil
}

// SignParameters extends Parameters with the subset Sl of parties taking
// part in a particular signing session (spec.md §4.2); |Sl| must equal
// t+1 and every member index must be valid within Parties().
type SignParameters struct {
	*Parameters
	sl SortedPartyIDs
}

func NewSignParameters(params *Parameters, sl SortedPartyIDs) *SignParameters {
	return &SignParameters{Parameters: params, sl: sl}
}

func (sp *SignParameters) Sl() SortedPartyIDs { return sp.sl }

func (sp *SignParameters) ValidateBasic() *Error {
	if err := sp.Parameters.ValidateBasic(); err != nil {
		return err
	}
	if len(sp.sl) != sp.Threshold()+1 {
		return NewError(ErrInvalidSl, -1, sp.PartyID())
	}
	for _, p := range sp.sl {
		if sp.Parties().IDs().FindByIndex(p.Index) == nil {
			return NewError(ErrInvalidSl, -1, sp.PartyID())
		}
	}
	return nil
}
