// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package dlnproof implements the composite (ring) discrete-log proof used
// to certify the Pedersen parameters h1, h2, N~ a party publishes during DKG
// round 0: a proof that h2 = h1^x (mod N~) for a known x, repeated with the
// bases swapped so a verifier is convinced neither party of (h1,h2) secretly
// knows the other's discrete log (spec.md §4.1 "ring-Pedersen parameters").
package dlnproof

import (
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
)

// Iterations is the number of parallel challenge bits, giving 2^-Iterations
// soundness error.
const Iterations = 128

var one = big.NewInt(1)

// Proof is a batch of Iterations Schnorr-style responses mod phi(N).
type Proof struct {
	Alpha [Iterations]*big.Int
	T     [Iterations]*big.Int
}

// NewDLNProof proves knowledge of x such that h2 = h1^x (mod N), where the
// prover additionally knows the factorization of N via p, q so it can work
// modulo phi(N) = (p-1)(q-1) rather than N itself.
func NewDLNProof(rnd io.Reader, h1, h2, x, p, q, N *big.Int) *Proof {
	phiN := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
	modPhi := common.ModInt(phiN)
	modN := common.ModInt(N)

	var as [Iterations]*big.Int
	var alphas [Iterations]*big.Int
	for i := 0; i < Iterations; i++ {
		as[i] = common.GetRandomPositiveInt(rnd, phiN)
		alphas[i] = modN.Exp(h1, as[i])
	}

	msg := challengeInput(h1, h2, N, alphas[:])
	cs := hashToBits(msg, Iterations)

	var ts [Iterations]*big.Int
	for i := 0; i < Iterations; i++ {
		if cs[i] {
			ts[i] = modPhi.Add(as[i], x)
		} else {
			ts[i] = as[i]
		}
	}
	return &Proof{Alpha: alphas, T: ts}
}

// Verify checks the proof against the published parameters (h1, h2, N).
func (pf *Proof) Verify(h1, h2, N *big.Int) bool {
	if pf == nil {
		return false
	}
	if N.Sign() != 1 {
		return false
	}
	modN := common.ModInt(N)

	h1N := new(big.Int).Mod(h1, N)
	if h1N.Cmp(one) != 1 || h1N.Cmp(N) != -1 {
		return false
	}
	h2N := new(big.Int).Mod(h2, N)
	if h2N.Cmp(one) != 1 || h2N.Cmp(N) != -1 {
		return false
	}
	if h1N.Cmp(h2N) == 0 {
		return false
	}
	for i := 0; i < Iterations; i++ {
		if pf.T[i] == nil {
			return false
		}
		t := new(big.Int).Mod(pf.T[i], N)
		if t.Cmp(one) != 1 || t.Cmp(N) != -1 {
			return false
		}
	}
	for i := 0; i < Iterations; i++ {
		if pf.Alpha[i] == nil {
			return false
		}
		a := new(big.Int).Mod(pf.Alpha[i], N)
		if a.Cmp(one) != 1 || a.Cmp(N) != -1 {
			return false
		}
	}

	msg := challengeInput(h1, h2, N, pf.Alpha[:])
	cs := hashToBits(msg, Iterations)

	for i := 0; i < Iterations; i++ {
		lhs := modN.Exp(h1, pf.T[i])
		var rhs *big.Int
		if cs[i] {
			rhs = modN.Mul(pf.Alpha[i], h2)
		} else {
			rhs = pf.Alpha[i]
		}
		if lhs.Cmp(rhs) != 0 {
			return false
		}
	}
	return true
}

func challengeInput(h1, h2, N *big.Int, alphas []*big.Int) *big.Int {
	in := make([]*big.Int, 0, 3+len(alphas))
	in = append(in, h1, h2, N)
	in = append(in, alphas...)
	return common.SHA512_256i(in...)
}

func hashToBits(seed *big.Int, n int) []bool {
	bits := make([]bool, n)
	digest := common.SHA512_256(seed.Bytes())
	for i := 0; i < n; i++ {
		byteIdx := (i / 8) % len(digest)
		bitIdx := uint(i % 8)
		bits[i] = (digest[byteIdx]>>bitIdx)&1 == 1
		if i%8 == 7 {
			digest = common.SHA512_256(digest)
		}
	}
	return bits
}
