// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package presign

import (
	"math/big"

	"github.com/threshold-sigs/gg20tss/crypto/mta"
	"github.com/threshold-sigs/gg20tss/crypto/zkp"
	"github.com/threshold-sigs/gg20tss/curve"
)

// SignRound1Message is M1 (wire round R1): a Paillier encryption of k_i plus
// one range proof per recipient, each bound to that recipient's own
// ring-Pedersen parameters, and a commitment to Gamma_i = gamma_i*G.
type SignRound1Message struct {
	CKi         *big.Int
	RangeProofs map[int]*mta.RangeProofAlice // recipient index -> proof bound to it
	Commitment  *big.Int
}

// SignRound2Message is M2 (wire round R2, P2P): the pair of MtA-with-check
// responses the sender owes the recipient, one binding gamma_i (its check
// is deferred until Gamma_i is decommitted in M4) and one binding w_i (its
// check can run immediately, since g^w_i is public keygen data).
type SignRound2Message struct {
	CGamma  *big.Int
	PiGamma *mta.ProofBobWC
	CW      *big.Int
	PiW     *mta.ProofBobWC
}

// SignRound3Message is M3 (wire round R3): this party's additive delta
// share plus a Pedersen commitment to sigma_i and a proof of its opening.
type SignRound3Message struct {
	DeltaI  *big.Int
	TI      *curve.ECPoint
	TIProof *zkp.TProof
}

// SignRound4Message is M4 (wire round R4): opens the round-1 commitment to
// Gamma_i.
type SignRound4Message struct {
	BlindFactor *big.Int
	GammaI      *curve.ECPoint
}

// SignRound5Message is M5 (wire round R5): this party's share of R (R_i' =
// R*k_i), plus one PDL-with-slack proof per recipient binding the sender's
// k_i ciphertext to R_i'.
type SignRound5Message struct {
	RI        *curve.ECPoint
	PDLProofs map[int]*zkp.PDLwSlackProof // recipient index -> proof bound to it
}

// SignRound6Message is M6 (wire round R6): this party's partial S_i plus the
// joint homomorphic-ElGamal proof tying it to its T_i commitment.
type SignRound6Message struct {
	SI       *curve.ECPoint
	HEGProof *zkp.STProof
}
