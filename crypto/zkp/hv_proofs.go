// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package zkp holds the two proofs that close out offline signing's MtA
// phase (spec.md §4.2): a Pedersen proof that a published point T commits
// to sigma_i under blind l_i, and a joint homomorphic-ElGamal proof that
// S=sigma_i*R and T=sigma_i*G+l_i*H share the same sigma_i, plus the
// PDL-with-slack proof binding a Paillier ciphertext to its EC point.
package zkp

import (
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/curve"
)

// TProof proves knowledge of (sigma, l) such that T = sigma*G + l*H.
type TProof struct {
	Alpha *curve.ECPoint
	T, U  *big.Int
}

// NewTProof builds the Pedersen proof for commitment point T.
func NewTProof(rnd io.Reader, T *curve.ECPoint, sigma, l *big.Int) (*TProof, error) {
	q := curve.EC().Params().N
	a := common.GetRandomPositiveInt(rnd, q)
	b := common.GetRandomPositiveInt(rnd, q)

	aG := curve.ScalarBaseMult(a)
	bH := curve.H().ScalarMult(b)
	alpha, err := aG.Add(bH)
	if err != nil {
		return nil, err
	}

	e, err := tChallenge(alpha, T)
	if err != nil {
		return nil, err
	}
	modQ := common.ModInt(q)
	t := modQ.Add(a, modQ.Mul(e, sigma))
	u := modQ.Add(b, modQ.Mul(e, l))
	return &TProof{Alpha: alpha, T: t, U: u}, nil
}

// Verify checks the proof against the published commitment T.
func (pf *TProof) Verify(T *curve.ECPoint) bool {
	if pf == nil || pf.Alpha == nil || T == nil {
		return false
	}
	e, err := tChallenge(pf.Alpha, T)
	if err != nil {
		return false
	}
	tG := curve.ScalarBaseMult(pf.T)
	uH := curve.H().ScalarMult(pf.U)
	lhs, err := tG.Add(uH)
	if err != nil {
		return false
	}
	rhs, err := pf.Alpha.Add(T.ScalarMult(e))
	if err != nil {
		return false
	}
	return lhs.Equals(rhs)
}

func tChallenge(points ...*curve.ECPoint) (*big.Int, error) {
	flat, err := curve.FlattenECPoints(points)
	if err != nil {
		return nil, err
	}
	q := curve.EC().Params().N
	return common.RejectionSample(q, common.SHA512_256i(flat...)), nil
}

// STProof jointly proves S=sigma*R and T=sigma*G+l*H for the same sigma,
// binding the two checks offline signing needs into a single exponent
// (spec.md §4.2's "homomorphic-ElGamal proof").
type STProof struct {
	A1, A2 *curve.ECPoint
	Z1, Z2 *big.Int
}

// NewSTProof builds the joint proof given base point R and commitment T.
func NewSTProof(rnd io.Reader, R, S, T *curve.ECPoint, sigma, l *big.Int) (*STProof, error) {
	q := curve.EC().Params().N
	a := common.GetRandomPositiveInt(rnd, q)
	b := common.GetRandomPositiveInt(rnd, q)

	a1 := R.ScalarMult(a)
	aG := curve.ScalarBaseMult(a)
	bH := curve.H().ScalarMult(b)
	a2, err := aG.Add(bH)
	if err != nil {
		return nil, err
	}

	e, err := stChallenge(S, T, a1, a2, R)
	if err != nil {
		return nil, err
	}
	modQ := common.ModInt(q)
	z1 := modQ.Add(a, modQ.Mul(e, sigma))
	z2 := modQ.Add(b, modQ.Mul(e, l))
	return &STProof{A1: a1, A2: a2, Z1: z1, Z2: z2}, nil
}

// Verify checks the joint proof against base R and statement points S, T.
func (pf *STProof) Verify(R, S, T *curve.ECPoint) bool {
	if pf == nil || pf.A1 == nil || pf.A2 == nil {
		return false
	}
	e, err := stChallenge(S, T, pf.A1, pf.A2, R)
	if err != nil {
		return false
	}

	z1R := R.ScalarMult(pf.Z1)
	rhs1, err := pf.A1.Add(S.ScalarMult(e))
	if err != nil || !z1R.Equals(rhs1) {
		return false
	}

	z1G := curve.ScalarBaseMult(pf.Z1)
	z2H := curve.H().ScalarMult(pf.Z2)
	lhs2, err := z1G.Add(z2H)
	if err != nil {
		return false
	}
	rhs2, err := pf.A2.Add(T.ScalarMult(e))
	if err != nil {
		return false
	}
	return lhs2.Equals(rhs2)
}

func stChallenge(points ...*curve.ECPoint) (*big.Int, error) {
	flat, err := curve.FlattenECPoints(points)
	if err != nil {
		return nil, err
	}
	q := curve.EC().Params().N
	return common.RejectionSample(q, common.SHA512_256i(flat...)), nil
}
