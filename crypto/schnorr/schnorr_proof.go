// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package schnorr implements two discrete-log proofs: a plain proof of
// knowledge of x in y=xG (DKG's final-round proof that every party knows
// its own secret share of the ECDSA key) and a two-base variant proving
// knowledge of (s,l) in V = X^s*G^l, which no state machine here uses.
package schnorr

import (
	"errors"
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/curve"
)

// ZKProof is a Schnorr proof of knowledge of x such that y = x*G.
type ZKProof struct {
	Alpha *curve.ECPoint
	T     *big.Int
}

// NewZKProof proves knowledge of x given y=x*G.
func NewZKProof(rnd io.Reader, x *big.Int, y *curve.ECPoint) (*ZKProof, error) {
	q := curve.EC().Params().N
	a := common.GetRandomPositiveInt(rnd, q)
	alpha := curve.ScalarBaseMult(a)

	c, err := challenge(alpha, y)
	if err != nil {
		return nil, err
	}
	modQ := common.ModInt(q)
	t := modQ.Add(a, modQ.Mul(c, x))
	return &ZKProof{Alpha: alpha, T: t}, nil
}

// Verify checks the proof against the public point y.
func (pf *ZKProof) Verify(y *curve.ECPoint) bool {
	if pf == nil || pf.Alpha == nil || pf.T == nil || y == nil {
		return false
	}
	c, err := challenge(pf.Alpha, y)
	if err != nil {
		return false
	}
	lhs := curve.ScalarBaseMult(pf.T)
	rhs, err := pf.Alpha.Add(y.ScalarMult(c))
	if err != nil {
		return false
	}
	return lhs.Equals(rhs)
}

func challenge(points ...*curve.ECPoint) (*big.Int, error) {
	flat, err := curve.FlattenECPoints(points)
	if err != nil {
		return nil, err
	}
	q := curve.EC().Params().N
	e := common.SHA512_256i(flat...)
	return common.RejectionSample(q, e), nil
}

// ZKVProof proves knowledge of (s, l) such that V = X^s * G^l, binding a
// secret s to a blinding factor l.
type ZKVProof struct {
	Alpha *curve.ECPoint
	T, U  *big.Int
}

// NewZKVProof proves knowledge of (s,l) given V=X^s*G^l and base X.
func NewZKVProof(rnd io.Reader, X, V *curve.ECPoint, s, l *big.Int) (*ZKVProof, error) {
	if X == nil || V == nil {
		return nil, errors.New("schnorr: nil base or statement point")
	}
	q := curve.EC().Params().N
	a := common.GetRandomPositiveInt(rnd, q)
	b := common.GetRandomPositiveInt(rnd, q)

	aX := X.ScalarMult(a)
	bG := curve.ScalarBaseMult(b)
	alpha, err := aX.Add(bG)
	if err != nil {
		return nil, err
	}

	c, err := challenge(alpha, X, V)
	if err != nil {
		return nil, err
	}
	modQ := common.ModInt(q)
	t := modQ.Add(a, modQ.Mul(c, s))
	u := modQ.Add(b, modQ.Mul(c, l))
	return &ZKVProof{Alpha: alpha, T: t, U: u}, nil
}

// Verify checks the proof against base X and statement V.
func (pf *ZKVProof) Verify(X, V *curve.ECPoint) bool {
	if pf == nil || X == nil || V == nil {
		return false
	}
	c, err := challenge(pf.Alpha, X, V)
	if err != nil {
		return false
	}
	tX := X.ScalarMult(pf.T)
	uG := curve.ScalarBaseMult(pf.U)
	lhs, err := tX.Add(uG)
	if err != nil {
		return false
	}
	rhs, err := pf.Alpha.Add(V.ScalarMult(c))
	if err != nil {
		return false
	}
	return lhs.Equals(rhs)
}
