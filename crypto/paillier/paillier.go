// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package paillier implements the additively homomorphic Paillier
// cryptosystem used to carry each party's secret share across the MtA
// sub-protocol during offline signing, plus the zero-knowledge proof that a
// published public key N was generated correctly (spec.md §4.1, §4.2).
package paillier

import (
	"errors"
	"io"
	"math/big"

	"github.com/otiai10/primes"

	"github.com/threshold-sigs/gg20tss/common"
)

const (
	// ProofIters is the number of rounds in the correct-key proof below.
	ProofIters = 13

	// verifyPrimesUntil bounds the small-factor sieve Verify runs over N.
	verifyPrimesUntil = 1000
)

var (
	ErrMessageTooLong  = errors.New("paillier: message too long for this public key")
	ErrMismatchedKeys  = errors.New("paillier: public/private key mismatch")
	ErrInvalidCiphertext = errors.New("paillier: invalid ciphertext")
)

// PublicKey is N from an RSA-shaped modulus N=p*q with no small factors.
type PublicKey struct {
	N       *big.Int
	NSquare *big.Int
}

// PrivateKey additionally knows the factorization (via lambda/phi) needed to
// decrypt.
type PrivateKey struct {
	PublicKey
	LambdaN *big.Int // lcm(p-1, q-1)
	PhiN    *big.Int // (p-1)(q-1)
}

func publicKeyFromN(n *big.Int) *PublicKey {
	return &PublicKey{N: n, NSquare: new(big.Int).Mul(n, n)}
}

// GenerateKeyPair draws two safe primes of modulusBitLen/2 bits each and
// builds the resulting Paillier keypair, rejecting factors that would make
// the correct-key proof fail (p==q).
func GenerateKeyPair(rnd io.Reader, modulusBitLen int) (*PrivateKey, *PublicKey, error) {
	sgpCh := make(chan [2]*common.GermainSafePrime, 1)
	go func() {
		for {
			p := common.GetRandomSafePrime(rnd, modulusBitLen/2-1)
			q := common.GetRandomSafePrime(rnd, modulusBitLen/2-1)
			if p.SafePrime().Cmp(q.SafePrime()) == 0 {
				continue
			}
			sgpCh <- [2]*common.GermainSafePrime{p, q}
			return
		}
	}()
	pair := <-sgpCh
	P, Q := pair[0].SafePrime(), pair[1].SafePrime()

	n := new(big.Int).Mul(P, Q)
	pMinus1 := new(big.Int).Sub(P, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(Q, big.NewInt(1))
	phiN := new(big.Int).Mul(pMinus1, qMinus1)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambdaN := new(big.Int).Div(phiN, gcd)

	pk := publicKeyFromN(n)
	sk := &PrivateKey{PublicKey: *pk, LambdaN: lambdaN, PhiN: phiN}
	return sk, pk, nil
}

// Encrypt returns Enc(m) using a freshly drawn random nonce.
func (pk *PublicKey) Encrypt(rnd io.Reader, m *big.Int) (*big.Int, error) {
	c, _, err := pk.EncryptAndReturnRandomness(rnd, m)
	return c, err
}

// EncryptAndReturnRandomness is Encrypt but also returns the nonce x, which
// a caller occasionally needs for a subsequent range proof.
func (pk *PublicKey) EncryptAndReturnRandomness(rnd io.Reader, m *big.Int) (c *big.Int, x *big.Int, err error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, nil, ErrMessageTooLong
	}
	x = common.GetRandomPositiveRelativelyPrimeInt(rnd, pk.N)

	modNSquare := common.ModInt(pk.NSquare)
	// (1+N)^m == 1 + m*N (mod N^2), cheaper than a full modpow.
	gm := new(big.Int).Mul(m, pk.N)
	gm = new(big.Int).Add(gm, big.NewInt(1))
	gm.Mod(gm, pk.NSquare)

	xn := modNSquare.Exp(x, pk.N)
	c = modNSquare.Mul(gm, xn)
	return c, x, nil
}

// HomoAdd returns Enc(m1+m2) given Enc(m1) and Enc(m2).
func (pk *PublicKey) HomoAdd(c1, c2 *big.Int) (*big.Int, error) {
	if !common.IsInInterval(c1, pk.NSquare) || !common.IsInInterval(c2, pk.NSquare) {
		return nil, ErrInvalidCiphertext
	}
	return common.ModInt(pk.NSquare).Mul(c1, c2), nil
}

// HomoMult returns Enc(m*c) given plaintext scalar m and Enc(c).
func (pk *PublicKey) HomoMult(m, c *big.Int) (*big.Int, error) {
	if !common.IsInInterval(c, pk.NSquare) {
		return nil, ErrInvalidCiphertext
	}
	return common.ModInt(pk.NSquare).Exp(c, m), nil
}

// Decrypt recovers the plaintext underlying ciphertext c.
func (sk *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if !common.IsInInterval(c, sk.NSquare) {
		return nil, ErrInvalidCiphertext
	}
	modNSquare := common.ModInt(sk.NSquare)
	cl := modNSquare.Exp(c, sk.LambdaN)
	l := lFunc(cl, sk.N)

	modN := common.ModInt(sk.N)
	inv := modN.ModInverse(lFunc(modNSquare.Exp(gGen(sk.N), sk.LambdaN), sk.N))
	m := modN.Mul(l, inv)
	return m, nil
}

func gGen(n *big.Int) *big.Int {
	return new(big.Int).Add(n, big.NewInt(1))
}

func lFunc(x, n *big.Int) *big.Int {
	t := new(big.Int).Sub(x, big.NewInt(1))
	return t.Div(t, n)
}

// Proof is a non-interactive zero-knowledge proof that this public key's N
// is a product of two primes with no small factors and admits no "vulgar"
// factorization an adversary could exploit (spec.md §4.1's "Paillier
// correct-key proof").
type Proof [ProofIters]*big.Int

// GenerateXs derives the deterministic challenge values x_1..x_m used by
// both prover and verifier from a Fiat-Shamir transform over the public
// key, the party's ECDSA public share, and the common reference string.
func GenerateXs(m int, k *big.Int, n *big.Int, ecdsaPub []*big.Int) []*big.Int {
	xs := make([]*big.Int, m)
	for i := 0; i < m; i++ {
		input := append([]*big.Int{k, n, big.NewInt(int64(i))}, ecdsaPub...)
		xs[i] = new(big.Int).Mod(common.SHA512_256i(input...), n)
	}
	return xs
}

// CreateProof builds the correct-key proof from the private factorization.
func (sk *PrivateKey) CreateProof(ecdsaPub []*big.Int) (Proof, error) {
	var pf Proof
	xs := GenerateXs(ProofIters, big.NewInt(int64(ProofIters)), sk.N, ecdsaPub)
	for i, x := range xs {
		y, err := sk.decryptAsRoot(x)
		if err != nil {
			return pf, err
		}
		pf[i] = y
	}
	return pf, nil
}

// decryptAsRoot computes x^(N^-1 mod phi(N)) mod N, the N-th root of x used
// by the correct-key proof.
func (sk *PrivateKey) decryptAsRoot(x *big.Int) (*big.Int, error) {
	nInv := new(big.Int).ModInverse(sk.N, sk.PhiN)
	if nInv == nil {
		return nil, errors.New("paillier: N not invertible mod phi(N)")
	}
	return common.ModInt(sk.N).Exp(x, nInv), nil
}

// Verify checks the correct-key proof against the public key and each
// prover response y_i: y_i^N == x_i (mod N), and rejects N that has a
// small prime factor (which would make the statistical argument vacuous).
func (pf *Proof) Verify(pk *PublicKey, ecdsaPub []*big.Int) bool {
	if pk == nil || pk.N == nil {
		return false
	}
	if pk.N.Bit(0) == 0 {
		return false // even modulus
	}
	for _, prime := range primes.Until(verifyPrimesUntil).List() {
		if new(big.Int).Mod(pk.N, big.NewInt(prime)).Sign() == 0 {
			return false
		}
	}

	xs := GenerateXs(ProofIters, big.NewInt(int64(ProofIters)), pk.N, ecdsaPub)
	modN := common.ModInt(pk.N)
	for i, x := range xs {
		y := pf[i]
		if y == nil {
			return false
		}
		if modN.Exp(y, pk.N).Cmp(x) != 0 {
			return false
		}
	}
	return true
}
