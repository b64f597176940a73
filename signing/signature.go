// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package signing

import (
	"errors"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/presign"
)

var (
	// ErrWrongSignerCount reports that Combine was not given exactly the
	// presignatures of the signer set that ran presign together.
	ErrWrongSignerCount = errors.New("signing: wrong number of partial signatures")
	// ErrInvalidSig is the final ECDSA verification failure (spec.md §4.3,
	// §7 "Final signature").
	ErrInvalidSig = errors.New("signing: assembled signature failed verification")
)

// SignatureRecid is the terminal artifact of online finalization: a
// standard ECDSA signature plus the recovery id needed to extract the
// shared public key from it.
type SignatureRecid struct {
	R, S  *big.Int
	Recid byte
}

// LocalSig computes this party's partial signature s_i = m*k_i + r*sigma_i
// against message hash m (spec.md §4.3). It does no network I/O; combining
// every signer's partial is the caller's job via Combine.
func LocalSig(presig *presign.CompletedPresig, m *big.Int) *PartialSignature {
	q := curve.EC().Params().N
	modQ := common.ModInt(q)

	r := new(big.Int).Mod(presig.R.X(), q)
	si := modQ.Add(modQ.Mul(m, presig.KI), modQ.Mul(r, presig.SigmaI))
	return &PartialSignature{Index: presig.Index, SI: si}
}

// Combine sums every signer's partial, normalizes to low-S, and verifies
// the assembled signature against the shared public key before returning
// it (spec.md §4.3, §9 "Low-S + recovery id").
func Combine(presig *presign.CompletedPresig, m *big.Int, partials []*PartialSignature) (*SignatureRecid, error) {
	if len(partials) == 0 || len(partials) != len(presig.TVec) {
		return nil, ErrWrongSignerCount
	}
	q := curve.EC().Params().N
	modQ := common.ModInt(q)

	r := new(big.Int).Mod(presig.R.X(), q)

	s := big.NewInt(0)
	for _, ps := range partials {
		s = modQ.Add(s, ps.SI)
	}

	ry := new(big.Int).Mod(presig.R.Y(), q)
	var recid byte
	if ry.Bit(0) == 1 {
		recid = 1
	}

	halfQ := new(big.Int).Rsh(q, 1)
	if s.Cmp(halfQ) > 0 {
		s = new(big.Int).Sub(q, s)
		recid ^= 1
	}

	y := presig.LocalKey.Y
	if err := verify(r, s, m, y); err != nil {
		return nil, err
	}

	return &SignatureRecid{R: r, S: s, Recid: recid}, nil
}

// verify checks (r,s) against message hash m and public key y using the
// standard ECDSA verification equation.
func verify(r, s, m *big.Int, y *curve.ECPoint) error {
	q := curve.EC().Params().N
	if r.Sign() <= 0 || r.Cmp(q) >= 0 || s.Sign() <= 0 || s.Cmp(q) >= 0 {
		return ErrInvalidSig
	}
	modQ := common.ModInt(q)
	sInv := modQ.ModInverse(s)
	u1 := modQ.Mul(m, sInv)
	u2 := modQ.Mul(r, sInv)

	p1 := curve.ScalarBaseMult(u1)
	p2 := y.ScalarMult(u2)
	p, err := p1.Add(p2)
	if err != nil {
		return ErrInvalidSig
	}

	x := new(big.Int).Mod(p.X(), q)
	if x.Cmp(r) != 0 {
		return ErrInvalidSig
	}
	return nil
}
