// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package mta implements the multiplicative-to-additive share conversion
// used twice per signer pair in offline signing (spec.md §4.2): Alice holds
// a under her Paillier key, Bob holds b, and the protocol leaves Alice with
// alpha and Bob with beta such that alpha+beta = a*b (mod q), without either
// learning the other's input.
package mta

import (
	"errors"
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/curve"
)

// AliceInit encrypts Alice's share a under her own Paillier key and attaches
// a range proof that a lies in [0, q), bound to Bob's ring-Pedersen
// parameters so Bob can check it without learning a.
func AliceInit(rnd io.Reader, pkA *paillier.PublicKey, a *big.Int, ntildeB, h1B, h2B *big.Int) (cA *big.Int, piA *RangeProofAlice, aRandomness *big.Int, err error) {
	cA, aRandomness, err = pkA.EncryptAndReturnRandomness(rnd, a)
	if err != nil {
		return nil, nil, nil, err
	}
	piA = ProveRangeAlice(rnd, pkA, cA, ntildeB, h1B, h2B, a, aRandomness)
	return cA, piA, aRandomness, nil
}

// BobMid verifies Alice's range proof against Bob's own ring-Pedersen
// parameters, then returns an encryption of a*b+beta' (for a random blind
// beta'), Bob's own additive share beta = -beta' mod q, and a proof that cB
// was built consistently from cA, b, and beta'. piB is bound to Alice's
// ring-Pedersen parameters, since Alice is the one who will verify it and
// must not know its trapdoor.
func BobMid(rnd io.Reader, pkA *paillier.PublicKey, piA *RangeProofAlice, cA *big.Int, b *big.Int, ntildeA, h1A, h2A, ntildeB, h1B, h2B *big.Int) (beta *big.Int, cB *big.Int, piB *ProofBob, err error) {
	betaPrime, cB, randomness, err := bobMidCommon(rnd, pkA, piA, cA, b, ntildeB, h1B, h2B)
	if err != nil {
		return nil, nil, nil, err
	}
	piB = ProveBob(rnd, pkA, ntildeA, h1A, h2A, cA, cB, b, betaPrime, randomness)

	q := curve.EC().Params().N
	beta = common.ModInt(q).Sub(big.NewInt(0), betaPrime)
	return beta, cB, piB, nil
}

// BobMidWC is BobMid for the "with check" variant used when Bob must also
// prove his input b corresponds to a known public point B=b*G (the MtAwc
// sub-protocol binding k_i to gamma_i's public share).
func BobMidWC(rnd io.Reader, pkA *paillier.PublicKey, piA *RangeProofAlice, cA *big.Int, b *big.Int, ntildeA, h1A, h2A, ntildeB, h1B, h2B *big.Int, B *curve.ECPoint) (beta *big.Int, cB *big.Int, piB *ProofBobWC, err error) {
	betaPrime, cB, randomness, err := bobMidCommon(rnd, pkA, piA, cA, b, ntildeB, h1B, h2B)
	if err != nil {
		return nil, nil, nil, err
	}
	piB = ProveBobWC(rnd, pkA, ntildeA, h1A, h2A, cA, cB, b, betaPrime, randomness, B)

	q := curve.EC().Params().N
	beta = common.ModInt(q).Sub(big.NewInt(0), betaPrime)
	return beta, cB, piB, nil
}

// bobMidCommon verifies Alice's incoming range proof against Bob's own
// ring-Pedersen parameters (Bob is the verifier of piA) and builds cB.
func bobMidCommon(rnd io.Reader, pkA *paillier.PublicKey, piA *RangeProofAlice, cA *big.Int, b *big.Int, ntildeB, h1B, h2B *big.Int) (betaPrime, cB, randomness *big.Int, err error) {
	if !piA.Verify(pkA, cA, ntildeB, h1B, h2B) {
		return nil, nil, nil, errors.New("mta: alice's range proof failed verification")
	}
	q := curve.EC().Params().N
	// betaPrime is drawn wide enough (q^3) that cB's homomorphic noise
	// statistically hides a*b from Alice.
	betaPrime = common.GetRandomPositiveInt(rnd, new(big.Int).Lsh(q, uint(q.BitLen()*2)))

	cBetaPrime, randomness, err := pkA.EncryptAndReturnRandomness(rnd, betaPrime)
	if err != nil {
		return nil, nil, nil, err
	}
	cAB, err := pkA.HomoMult(b, cA)
	if err != nil {
		return nil, nil, nil, err
	}
	cB, err = pkA.HomoAdd(cAB, cBetaPrime)
	if err != nil {
		return nil, nil, nil, err
	}
	return betaPrime, cB, randomness, nil
}

// AliceEnd decrypts cB, verifies Bob's consistency proof, and reduces the
// result mod q to recover alpha.
func AliceEnd(skA *paillier.PrivateKey, piB *ProofBob, h1A, h2A, ntildeA *big.Int, cA, cB *big.Int) (alpha *big.Int, err error) {
	if !piB.Verify(&skA.PublicKey, ntildeA, h1A, h2A, cA, cB) {
		return nil, errors.New("mta: bob's proof failed verification")
	}
	return decryptAndReduce(skA, cB)
}

// AliceEndWC is AliceEnd for the "with check" variant: it additionally
// confirms Bob's claimed public point B matches his committed b.
func AliceEndWC(skA *paillier.PrivateKey, piB *ProofBobWC, h1A, h2A, ntildeA *big.Int, cA, cB *big.Int, B *curve.ECPoint) (alpha *big.Int, err error) {
	if !piB.Verify(&skA.PublicKey, ntildeA, h1A, h2A, cA, cB, B) {
		return nil, errors.New("mta: bob's with-check proof failed verification")
	}
	return decryptAndReduce(skA, cB)
}

// AliceEndWCCore decrypts cB and checks only piB's core consistency proof,
// without requiring the public point B it is ultimately bound to. Use this
// when B is not yet known (e.g. it is still hidden behind a commitment a
// later round will open), and check CheckWCBinding once it is.
func AliceEndWCCore(skA *paillier.PrivateKey, piB *ProofBobWC, h1A, h2A, ntildeA *big.Int, cA, cB *big.Int) (alpha *big.Int, err error) {
	if !piB.VerifyCore(&skA.PublicKey, ntildeA, h1A, h2A, cA, cB) {
		return nil, errors.New("mta: bob's with-check proof failed core verification")
	}
	return decryptAndReduce(skA, cB)
}

// CheckWCBinding verifies, once B is known, that piB's committed share
// matches the public point B=b*G.
func CheckWCBinding(piB *ProofBobWC, cA, cB *big.Int, B *curve.ECPoint) bool {
	return piB.CheckBinding(cA, cB, B)
}

func decryptAndReduce(skA *paillier.PrivateKey, cB *big.Int) (*big.Int, error) {
	alphaN, err := skA.Decrypt(cB)
	if err != nil {
		return nil, err
	}
	q := curve.EC().Params().N
	return new(big.Int).Mod(alphaN, q), nil
}
