// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package mta

import (
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/curve"
)

// ProofBob proves that cB was built from cA, Bob's own share b and blind
// betaPrime exactly as BobMid claims: cB = cA^b * Enc(betaPrime), with both
// b and betaPrime range-bound against the verifier's ring-Pedersen params.
type ProofBob struct {
	Z, ZPrime, T, V, W, S, S1, S2, T1, T2 *big.Int
}

// ProveBob builds the proof; randomness is the Paillier nonce BobMid used
// when it encrypted betaPrime.
func ProveBob(rnd io.Reader, pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int, b, betaPrime, randomness *big.Int) *ProofBob {
	return proveBobCommon(rnd, pk, ntilde, h1, h2, cA, cB, b, betaPrime, randomness)
}

func proveBobCommon(rnd io.Reader, pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int, b, betaPrime, randomness *big.Int) *ProofBob {
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	qNTilde := new(big.Int).Mul(q, ntilde)
	q3NTilde := new(big.Int).Mul(q3, ntilde)

	alpha := common.GetRandomPositiveInt(rnd, q3)
	rho := common.GetRandomPositiveInt(rnd, qNTilde)
	rhoPrime := common.GetRandomPositiveInt(rnd, q3NTilde)
	sigma := common.GetRandomPositiveInt(rnd, qNTilde)
	tau := common.GetRandomPositiveInt(rnd, q3NTilde)
	beta := common.GetRandomPositiveRelativelyPrimeInt(rnd, pk.N)
	gamma := common.GetRandomPositiveInt(rnd, q3)

	z := ringPedersenCommit(ntilde, h1, h2, b, rho)
	zPrime := ringPedersenCommit(ntilde, h1, h2, alpha, rhoPrime)
	t := ringPedersenCommit(ntilde, h1, h2, betaPrime, sigma)
	v := verifierWitness(pk, cA, alpha, gamma, beta)
	w := ringPedersenCommit(ntilde, h1, h2, gamma, tau)

	e := common.RejectionSample(q, common.SHA512_256i(cA, cB, z, zPrime, t, v, w))

	modN := common.ModInt(pk.N)
	s := modN.Mul(beta, modN.Exp(randomness, e))
	s1 := new(big.Int).Add(new(big.Int).Mul(e, b), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho), rhoPrime)
	t1 := new(big.Int).Add(new(big.Int).Mul(e, betaPrime), gamma)
	t2 := new(big.Int).Add(new(big.Int).Mul(e, sigma), tau)

	return &ProofBob{Z: z, ZPrime: zPrime, T: t, V: v, W: w, S: s, S1: s1, S2: s2, T1: t1, T2: t2}
}

func verifierWitness(pk *paillier.PublicKey, cA, alpha, gamma, beta *big.Int) *big.Int {
	modNSquare := common.ModInt(pk.NSquare)
	cAAlpha := modNSquare.Exp(cA, alpha)
	gGamma := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(gamma, pk.N))
	gGamma.Mod(gGamma, pk.NSquare)
	betaN := modNSquare.Exp(beta, pk.N)
	return modNSquare.Mul(modNSquare.Mul(cAAlpha, gGamma), betaN)
}

// Verify checks the proof against Alice's Paillier key pk, the verifier's
// own ring-Pedersen parameters, and the ciphertexts cA, cB involved.
func (pf *ProofBob) Verify(pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int) bool {
	if pf == nil {
		return false
	}
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	if pf.S1.Cmp(q3) > 0 || pf.S1.Sign() < 0 {
		return false
	}
	e := common.RejectionSample(q, common.SHA512_256i(cA, cB, pf.Z, pf.ZPrime, pf.T, pf.V, pf.W))

	modNSquare := common.ModInt(pk.NSquare)
	cAS1 := modNSquare.Exp(cA, pf.S1)
	gT1 := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(pf.T1, pk.N))
	gT1.Mod(gT1, pk.NSquare)
	sN := modNSquare.Exp(pf.S, pk.N)
	lhs1 := modNSquare.Mul(modNSquare.Mul(cAS1, gT1), sN)
	rhs1 := modNSquare.Mul(pf.V, modNSquare.Exp(cB, e))
	if lhs1.Cmp(rhs1) != 0 {
		return false
	}

	modNTilde := common.ModInt(ntilde)
	lhs2 := ringPedersenCommit(ntilde, h1, h2, pf.S1, pf.S2)
	rhs2 := modNTilde.Mul(pf.ZPrime, modNTilde.Exp(pf.Z, e))
	if lhs2.Cmp(rhs2) != 0 {
		return false
	}

	lhs3 := ringPedersenCommit(ntilde, h1, h2, pf.T1, pf.T2)
	rhs3 := modNTilde.Mul(pf.W, modNTilde.Exp(pf.T, e))
	return lhs3.Cmp(rhs3) == 0
}

// ProofBobWC extends ProofBob with a Schnorr proof binding Bob's committed
// b to a public point B=b*G, used by the gamma/k_i MtA where Alice must
// also learn that Bob's share matches an already-published commitment.
type ProofBobWC struct {
	*ProofBob
	U *curve.ECPoint
}

// ProveBobWC builds ProveBob's proof and additionally commits to U=alpha*G
// so the verifier can check s1*G == U + e*B.
func ProveBobWC(rnd io.Reader, pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int, b, betaPrime, randomness *big.Int, B *curve.ECPoint) *ProofBobWC {
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	alpha := common.GetRandomPositiveInt(rnd, q3)
	u := curve.ScalarBaseMult(alpha)

	base := proveBobWithAlpha(rnd, pk, ntilde, h1, h2, cA, cB, b, betaPrime, randomness, alpha, u)
	return &ProofBobWC{ProofBob: base, U: u}
}

// proveBobWithAlpha mirrors proveBobCommon but folds u into the Fiat-Shamir
// challenge and reuses the caller-supplied alpha so U=alpha*G is consistent
// with s1 = e*b+alpha.
func proveBobWithAlpha(rnd io.Reader, pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int, b, betaPrime, randomness *big.Int, alpha *big.Int, u *curve.ECPoint) *ProofBob {
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	qNTilde := new(big.Int).Mul(q, ntilde)
	q3NTilde := new(big.Int).Mul(q3, ntilde)

	rho := common.GetRandomPositiveInt(rnd, qNTilde)
	rhoPrime := common.GetRandomPositiveInt(rnd, q3NTilde)
	sigma := common.GetRandomPositiveInt(rnd, qNTilde)
	tau := common.GetRandomPositiveInt(rnd, q3NTilde)
	beta := common.GetRandomPositiveRelativelyPrimeInt(rnd, pk.N)
	gamma := common.GetRandomPositiveInt(rnd, q3)

	z := ringPedersenCommit(ntilde, h1, h2, b, rho)
	zPrime := ringPedersenCommit(ntilde, h1, h2, alpha, rhoPrime)
	t := ringPedersenCommit(ntilde, h1, h2, betaPrime, sigma)
	v := verifierWitness(pk, cA, alpha, gamma, beta)
	w := ringPedersenCommit(ntilde, h1, h2, gamma, tau)

	e := common.RejectionSample(q, common.SHA512_256i(cA, cB, z, zPrime, t, v, w, u.X(), u.Y()))

	modN := common.ModInt(pk.N)
	s := modN.Mul(beta, modN.Exp(randomness, e))
	s1 := new(big.Int).Add(new(big.Int).Mul(e, b), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho), rhoPrime)
	t1 := new(big.Int).Add(new(big.Int).Mul(e, betaPrime), gamma)
	t2 := new(big.Int).Add(new(big.Int).Mul(e, sigma), tau)

	return &ProofBob{Z: z, ZPrime: zPrime, T: t, V: v, W: w, S: s, S1: s1, S2: s2, T1: t1, T2: t2}
}

// Verify checks the embedded ProofBob plus the binding of B to the
// committed share b.
func (pf *ProofBobWC) Verify(pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int, B *curve.ECPoint) bool {
	if !pf.VerifyCore(pk, ntilde, h1, h2, cA, cB) {
		return false
	}
	return pf.CheckBinding(cA, cB, B)
}

// VerifyCore checks only the consistency proof that cB was built from cA, b
// and betaPrime, without requiring the public point B the proof is bound
// to. This lets a verifier decrypt cB and recover alpha before B becomes
// known, deferring CheckBinding to whenever B is later revealed.
func (pf *ProofBobWC) VerifyCore(pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int) bool {
	if pf == nil || pf.ProofBob == nil || pf.U == nil {
		return false
	}
	e := pf.challenge(cA, cB)
	return pf.ProofBob.verifyWithChallenge(pk, ntilde, h1, h2, cA, cB, e)
}

// CheckBinding verifies that the share b committed to by this proof matches
// the public point B=b*G. It does not repeat the core consistency check,
// but still needs cA,cB since they feed the same Fiat-Shamir challenge.
func (pf *ProofBobWC) CheckBinding(cA, cB *big.Int, B *curve.ECPoint) bool {
	if pf == nil || pf.U == nil || B == nil {
		return false
	}
	e := pf.challenge(cA, cB)
	lhs := curve.ScalarBaseMult(pf.S1)
	rhs, err := pf.U.Add(B.ScalarMult(e))
	if err != nil {
		return false
	}
	return lhs.Equals(rhs)
}

func (pf *ProofBobWC) challenge(cA, cB *big.Int) *big.Int {
	q := curve.EC().Params().N
	return common.RejectionSample(q, common.SHA512_256i(cA, cB, pf.Z, pf.ZPrime, pf.T, pf.V, pf.W, pf.U.X(), pf.U.Y()))
}

// verifyWithChallenge is Verify with an externally supplied challenge e,
// shared by the plain and with-check variants (the latter folds U into e).
func (pf *ProofBob) verifyWithChallenge(pk *paillier.PublicKey, ntilde, h1, h2 *big.Int, cA, cB *big.Int, e *big.Int) bool {
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	if pf.S1.Cmp(q3) > 0 || pf.S1.Sign() < 0 {
		return false
	}
	modNSquare := common.ModInt(pk.NSquare)
	cAS1 := modNSquare.Exp(cA, pf.S1)
	gT1 := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(pf.T1, pk.N))
	gT1.Mod(gT1, pk.NSquare)
	sN := modNSquare.Exp(pf.S, pk.N)
	lhs1 := modNSquare.Mul(modNSquare.Mul(cAS1, gT1), sN)
	rhs1 := modNSquare.Mul(pf.V, modNSquare.Exp(cB, e))
	if lhs1.Cmp(rhs1) != 0 {
		return false
	}

	modNTilde := common.ModInt(ntilde)
	lhs2 := ringPedersenCommit(ntilde, h1, h2, pf.S1, pf.S2)
	rhs2 := modNTilde.Mul(pf.ZPrime, modNTilde.Exp(pf.Z, e))
	if lhs2.Cmp(rhs2) != 0 {
		return false
	}

	lhs3 := ringPedersenCommit(ntilde, h1, h2, pf.T1, pf.T2)
	rhs3 := modNTilde.Mul(pf.W, modNTilde.Exp(pf.T, e))
	return lhs3.Cmp(rhs3) == 0
}
