// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package zkp

import (
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/curve"
)

// PDLwSlackStatement is the public data behind a PDL-with-slack proof: a
// Paillier ciphertext cKey claimed to encrypt the discrete log of X under
// base G, checked against the verifier's own ring-Pedersen parameters.
type PDLwSlackStatement struct {
	PK         *paillier.PublicKey
	CipherText *big.Int
	X          *curve.ECPoint
	NTilde, H1, H2 *big.Int
}

// PDLwSlackWitness is the prover's secret: the plaintext x and the
// randomness r used when CipherText was produced.
type PDLwSlackWitness struct {
	X *big.Int
	R *big.Int
}

// PDLwSlackProof is a Paillier-affine/EC hybrid sigma proof. Verify bounds
// S1 by q^3, the same bound RangeProofAlice.Verify applies.
type PDLwSlackProof struct {
	Z, ZPrime, T, V, W *big.Int
	S, S1, S2          *big.Int
	U                  *curve.ECPoint
}

// NewPDLwSlackProof builds the proof for the given statement/witness pair.
func NewPDLwSlackProof(rnd io.Reader, witness *PDLwSlackWitness, statement *PDLwSlackStatement) (*PDLwSlackProof, error) {
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	qNTilde := new(big.Int).Mul(q, statement.NTilde)
	q3NTilde := new(big.Int).Mul(q3, statement.NTilde)

	alpha := common.GetRandomPositiveInt(rnd, q3)
	rho := common.GetRandomPositiveInt(rnd, qNTilde)
	rhoPrime := common.GetRandomPositiveInt(rnd, q3NTilde)
	beta := common.GetRandomPositiveRelativelyPrimeInt(rnd, statement.PK.N)
	gamma := common.GetRandomPositiveInt(rnd, q3NTilde)

	z := commitmentUnknownOrder(statement.NTilde, statement.H1, statement.H2, witness.X, rho)
	zPrime := commitmentUnknownOrder(statement.NTilde, statement.H1, statement.H2, alpha, rhoPrime)
	u := curve.ScalarBaseMult(alpha)

	modNSquare := common.ModInt(statement.PK.NSquare)
	gAlpha := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(alpha, statement.PK.N))
	gAlpha.Mod(gAlpha, statement.PK.NSquare)
	v := modNSquare.Mul(gAlpha, modNSquare.Exp(beta, statement.PK.N))

	w := commitmentUnknownOrder(statement.NTilde, statement.H1, statement.H2, gamma, rhoPrime)

	e, err := pdlChallenge(statement.X, u, statement.CipherText, z, zPrime, v, w)
	if err != nil {
		return nil, err
	}

	modN := common.ModInt(statement.PK.N)
	s := modN.Mul(beta, modN.Exp(witness.R, e))
	s1 := new(big.Int).Add(new(big.Int).Mul(e, witness.X), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho), rhoPrime)

	return &PDLwSlackProof{Z: z, ZPrime: zPrime, T: w, V: v, W: w, S: s, S1: s1, S2: s2, U: u}, nil
}

func commitmentUnknownOrder(ntilde, h1, h2, exp1, exp2 *big.Int) *big.Int {
	modNTilde := common.ModInt(ntilde)
	return modNTilde.Mul(modNTilde.Exp(h1, exp1), modNTilde.Exp(h2, exp2))
}

func pdlChallenge(X, U *curve.ECPoint, rest ...*big.Int) (*big.Int, error) {
	flat, err := curve.FlattenECPoints([]*curve.ECPoint{X, U})
	if err != nil {
		return nil, err
	}
	in := append(flat, rest...)
	q := curve.EC().Params().N
	return common.RejectionSample(q, common.SHA512_256i(in...)), nil
}

// Verify checks the proof against the statement it was produced for.
func (pf *PDLwSlackProof) Verify(statement *PDLwSlackStatement) bool {
	if pf == nil || pf.U == nil {
		return false
	}
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	if pf.S1.Cmp(q3) > 0 || pf.S1.Sign() < 0 {
		return false
	}

	e, err := pdlChallenge(statement.X, pf.U, statement.CipherText, pf.Z, pf.ZPrime, pf.V, pf.W)
	if err != nil {
		return false
	}

	modNSquare := common.ModInt(statement.PK.NSquare)
	gS1 := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(pf.S1, statement.PK.N))
	gS1.Mod(gS1, statement.PK.NSquare)
	lhs1 := modNSquare.Mul(gS1, modNSquare.Exp(pf.S, statement.PK.N))
	rhs1 := modNSquare.Mul(pf.V, modNSquare.Exp(statement.CipherText, e))
	if lhs1.Cmp(rhs1) != 0 {
		return false
	}

	s1G := curve.ScalarBaseMult(pf.S1)
	rhs2, err := pf.U.Add(statement.X.ScalarMult(e))
	if err != nil || !s1G.Equals(rhs2) {
		return false
	}

	modNTilde := common.ModInt(statement.NTilde)
	lhs3 := commitmentUnknownOrder(statement.NTilde, statement.H1, statement.H2, pf.S1, pf.S2)
	rhs3 := modNTilde.Mul(pf.ZPrime, modNTilde.Exp(pf.Z, e))
	return lhs3.Cmp(rhs3) == 0
}
