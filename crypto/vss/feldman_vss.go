// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package vss implements (t,n) Feldman verifiable secret sharing over the
// secp256k1 scalar field, used in DKG round 3 to split each party's
// contribution u_i into shares for every other party (spec.md §4.1).
package vss

import (
	"errors"
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/curve"
)

// Share is one point (i, f(i)) on the sharing polynomial, destined for the
// party at index i.
type Share struct {
	Threshold int
	ID        *big.Int
	Share     *big.Int
}

// Vs is the vector of commitments [g^a_0, g^a_1, ..., g^a_t] to the
// coefficients of the sharing polynomial, published so shares can be
// verified against it.
type Vs []*curve.ECPoint

var ErrNumSharesBelowThreshold = errors.New("vss: not enough shares to meet the threshold")

// Create samples a degree-t polynomial with constant term secret, returns
// the commitment vector and one share per id in indexes.
func Create(rnd io.Reader, threshold int, secret *big.Int, indexes []*big.Int) (Vs, []*Share, error) {
	if secret == nil {
		return nil, nil, errors.New("vss: nil secret")
	}
	if len(indexes) <= threshold {
		return nil, nil, ErrNumSharesBelowThreshold
	}
	if err := checkIndexesDistinct(indexes); err != nil {
		return nil, nil, err
	}

	poly := samplePolynomial(rnd, threshold, secret)
	commitments := make(Vs, len(poly))
	for i, a := range poly {
		commitments[i] = curve.ScalarBaseMult(a)
	}

	shares := make([]*Share, len(indexes))
	for i, id := range indexes {
		y := evaluatePolynomial(poly, id)
		shares[i] = &Share{Threshold: threshold, ID: id, Share: y}
	}
	return commitments, shares, nil
}

func checkIndexesDistinct(indexes []*big.Int) error {
	seen := make(map[string]bool, len(indexes))
	for _, id := range indexes {
		k := id.String()
		if seen[k] {
			return errors.New("vss: duplicate index")
		}
		seen[k] = true
	}
	return nil
}

func samplePolynomial(rnd io.Reader, threshold int, secret *big.Int) []*big.Int {
	q := curve.EC().Params().N
	poly := make([]*big.Int, threshold+1)
	poly[0] = secret
	for i := 1; i <= threshold; i++ {
		poly[i] = common.GetRandomPositiveInt(rnd, q)
	}
	return poly
}

func evaluatePolynomial(poly []*big.Int, x *big.Int) *big.Int {
	q := curve.EC().Params().N
	modQ := common.ModInt(q)
	result := new(big.Int).Set(poly[len(poly)-1])
	for i := len(poly) - 2; i >= 0; i-- {
		result = modQ.Add(modQ.Mul(result, x), poly[i])
	}
	return result
}

// Evaluate computes the commitment vector's implied public point at x:
// prod_k (vs[k])^(x^k), i.e. g raised to the sharing polynomial evaluated
// at x, without knowing the polynomial's coefficients.
func (vs Vs) Evaluate(x *big.Int) (*curve.ECPoint, error) {
	q := curve.EC().Params().N
	modQ := common.ModInt(q)
	v := vs[0]
	t := new(big.Int).SetInt64(1)
	for k := 1; k < len(vs); k++ {
		t = modQ.Mul(t, x)
		term := vs[k].ScalarMult(t)
		next, err := v.Add(term)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// Verify checks that share.Share lies on the polynomial committed to by vs:
// g^share == prod_k (vs[k])^(id^k).
func (share *Share) Verify(vs Vs) bool {
	v, err := vs.Evaluate(share.ID)
	if err != nil {
		return false
	}
	gShare := curve.ScalarBaseMult(share.Share)
	return gShare.Equals(v)
}

// ReConstruct interpolates the secret at x=0 from a set of >= t+1 shares
// using Lagrange coefficients.
func ReConstruct(shares []*Share) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, errors.New("vss: no shares")
	}
	threshold := shares[0].Threshold
	if len(shares) <= threshold {
		return nil, ErrNumSharesBelowThreshold
	}

	q := curve.EC().Params().N
	modQ := common.ModInt(q)
	secret := big.NewInt(0)

	for i, share_i := range shares {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j, share_j := range shares {
			if i == j {
				continue
			}
			num = modQ.Mul(num, share_j.ID)
			diff := modQ.Sub(share_j.ID, share_i.ID)
			den = modQ.Mul(den, diff)
		}
		lambda := modQ.Mul(num, modQ.ModInverse(den))
		term := modQ.Mul(share_i.Share, lambda)
		secret = modQ.Add(secret, term)
	}
	return secret, nil
}

// CheckIndexes reports an error if any index in the slice repeats.
func CheckIndexes(indexes []*big.Int) ([]*big.Int, error) {
	if err := checkIndexesDistinct(indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}
