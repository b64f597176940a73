// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package curve wraps secp256k1 group operations (via btcec/v2) behind an
// immutable ECPoint, and exposes the curve order and the nothing-up-my-sleeve
// second generator H used by the Pedersen/homomorphic-ElGamal proofs.
package curve

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcec/v2"
)

// EC returns the secp256k1 curve used throughout this module.
func EC() elliptic.Curve {
	return btcec.S256()
}

// ECPoint represents an affine point on secp256k1. It is designed to be
// immutable once constructed.
type ECPoint struct {
	coords       [2]*big.Int
	onCurveKnown uint32
}

// NewECPoint checks that (X,Y) lies on the curve before returning a point.
func NewECPoint(X, Y *big.Int) (*ECPoint, error) {
	if !EC().IsOnCurve(X, Y) {
		return nil, fmt.Errorf("NewECPoint: the given point is not on the curve")
	}
	return &ECPoint{coords: [2]*big.Int{X, Y}, onCurveKnown: 1}, nil
}

// NewECPointNoCurveCheck skips the on-curve check. Only use this when the
// point is already known to be valid (e.g. a fresh scalar multiplication).
func NewECPointNoCurveCheck(X, Y *big.Int) *ECPoint {
	return &ECPoint{coords: [2]*big.Int{X, Y}}
}

func (p *ECPoint) X() *big.Int { return new(big.Int).Set(p.coords[0]) }
func (p *ECPoint) Y() *big.Int { return new(big.Int).Set(p.coords[1]) }

func (p *ECPoint) Add(b *ECPoint) (*ECPoint, error) {
	x, y := EC().Add(p.X(), p.Y(), b.X(), b.Y())
	return NewECPoint(x, y)
}

func (p *ECPoint) Sub(b *ECPoint) (*ECPoint, error) {
	return p.Add(b.Neg())
}

func (p *ECPoint) Neg() *ECPoint {
	negY := new(big.Int).Neg(p.Y())
	negY.Mod(negY, EC().Params().P)
	return NewECPointNoCurveCheck(p.X(), negY)
}

func (p *ECPoint) ScalarMult(k *big.Int) *ECPoint {
	kb := new(big.Int).Mod(k, EC().Params().N).Bytes()
	x, y := EC().ScalarMult(p.X(), p.Y(), kb)
	pt, _ := NewECPoint(x, y)
	return pt
}

func (p *ECPoint) IsOnCurve() bool {
	return EC().IsOnCurve(p.coords[0], p.coords[1])
}

func (p *ECPoint) Equals(b *ECPoint) bool {
	if p == nil || b == nil {
		return false
	}
	return p.X().Cmp(b.X()) == 0 && p.Y().Cmp(b.Y()) == 0
}

func (p *ECPoint) ValidateBasic() bool {
	onCurveKnown := atomic.LoadUint32(&p.onCurveKnown) == 1
	ok := p != nil && p.coords[0] != nil && p.coords[1] != nil && (onCurveKnown || p.IsOnCurve())
	if ok && !onCurveKnown {
		atomic.StoreUint32(&p.onCurveKnown, 1)
	}
	return ok
}

// ScalarBaseMult returns k*G.
func ScalarBaseMult(k *big.Int) *ECPoint {
	kb := new(big.Int).Mod(k, EC().Params().N).Bytes()
	x, y := EC().ScalarBaseMult(kb)
	p, _ := NewECPoint(x, y)
	return p
}

// G returns the curve's base point.
func G() *ECPoint {
	params := EC().Params()
	return NewECPointNoCurveCheck(params.Gx, params.Gy)
}

// FlattenECPoints lays out a slice of points as alternating X,Y coordinates,
// suitable for hashing/commitment.
func FlattenECPoints(in []*ECPoint) ([]*big.Int, error) {
	if in == nil {
		return nil, errors.New("FlattenECPoints: nil input")
	}
	flat := make([]*big.Int, 0, len(in)*2)
	for _, pt := range in {
		if pt == nil || pt.coords[0] == nil || pt.coords[1] == nil {
			return nil, errors.New("FlattenECPoints: nil point/coordinate")
		}
		flat = append(flat, pt.coords[0], pt.coords[1])
	}
	return flat, nil
}
