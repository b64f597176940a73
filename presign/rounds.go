// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package presign

import (
	"math/big"

	errorspkg "github.com/pkg/errors"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/crypto/commitments"
	"github.com/threshold-sigs/gg20tss/crypto/mta"
	"github.com/threshold-sigs/gg20tss/crypto/zkp"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/tss"
)

// lagrangeCoefficient is the standard Lagrange coefficient for node xs[i]
// within xs, evaluated at 0.
func lagrangeCoefficient(xs []*big.Int, i int) *big.Int {
	q := curve.EC().Params().N
	modQ := common.ModInt(q)
	num, den := big.NewInt(1), big.NewInt(1)
	for j, xj := range xs {
		if j == i {
			continue
		}
		num = modQ.Mul(num, xj)
		den = modQ.Mul(den, modQ.Sub(xj, xs[i]))
	}
	return modQ.Mul(num, modQ.ModInverse(den))
}

// round1 samples this party's additive shares of the ephemeral nonce (k_i)
// and of gamma_i, derives its w_i share of the private key and the public
// W_j vectors for every signer, and broadcasts k_i's Paillier ciphertext
// plus a range proof bound to each recipient's own ring-Pedersen parameters
// (spec.md §4.2 round 0).
func (p *LocalParty) round1() *tss.Error {
	common.Logger.Infof("party %s: presign round 1 starting", p.partyID())
	rnd := p.params.Rand()
	q := curve.EC().Params().N
	modQ := common.ModInt(q)

	sl := p.params.Sl()
	ownIdx := p.partyID().Index

	xs := make([]*big.Int, len(sl))
	ownPos := -1
	for i, id := range sl {
		xs[i] = big.NewInt(int64(id.Index))
		if id.Index == ownIdx {
			ownPos = i
		}
	}

	lambdaSelf := lagrangeCoefficient(xs, ownPos)
	p.wi = modQ.Mul(lambdaSelf, p.key.Xi)

	p.bigWVec = make(map[int]*curve.ECPoint, len(sl))
	for i, id := range sl {
		lambda := lagrangeCoefficient(xs, i)
		p.bigWVec[id.Index] = p.key.PKVec[id.Index-1].ScalarMult(lambda)
	}

	p.ki = common.GetRandomPositiveInt(rnd, q)
	p.gammai = common.GetRandomPositiveInt(rnd, q)
	p.gammaPoint = curve.ScalarBaseMult(p.gammai)

	p.blindFactor = common.MustGetRandomInt(rnd, 256)
	commitment := commitments.Commit(p.blindFactor, p.gammaPoint.X(), p.gammaPoint.Y())

	ownEK := &p.key.PaillierDK.PublicKey
	cki, ckiRandomness, err := ownEK.EncryptAndReturnRandomness(rnd, p.ki)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "EncryptAndReturnRandomness(k_i)"), 1, p.partyID())
	}
	p.cki, p.ckiRandomness = cki, ckiRandomness

	rangeProofs := make(map[int]*mta.RangeProofAlice, len(sl)-1)
	for _, id := range sl {
		if id.Index == ownIdx {
			continue
		}
		rangeProofs[id.Index] = mta.ProveRangeAlice(rnd, ownEK, cki,
			p.key.NTildeVec[id.Index-1], p.key.H1Vec[id.Index-1], p.key.H2Vec[id.Index-1],
			p.ki, ckiRandomness)
	}

	p.broadcast(1, &SignRound1Message{CKi: cki, RangeProofs: rangeProofs, Commitment: commitment})
	p.round = 2
	common.Logger.Debugf("party %s: presign round 1 finished", p.partyID())
	return nil
}

// round2 runs, for every other signer j, two MtA-with-check instances with
// this party as Bob: one binding gamma_i to the public Gamma_i, one binding
// w_i to the public W_i. The resulting per-peer beta contributions are kept
// locally; the cB/proof pairs are sent to j so it can recover its own alpha
// (spec.md §4.2 round 1).
func (p *LocalParty) round2() *tss.Error {
	common.Logger.Infof("party %s: presign round 2 starting", p.partyID())
	rnd := p.params.Rand()
	ownIdx := p.partyID().Index

	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r1Store.Finish() {
		j := m.From
		msg := m.Body.(*SignRound1Message)

		piA, ok := msg.RangeProofs[ownIdx]
		if !ok {
			failures[j] = ErrInvalidDelta
			continue
		}

		betaGamma, cGamma, piGamma, err := mta.BobMidWC(rnd, p.key.PaillierEKVec[j.Index-1], piA, msg.CKi, p.gammai,
			p.key.NTildeVec[j.Index-1], p.key.H1Vec[j.Index-1], p.key.H2Vec[j.Index-1],
			p.key.NTildeVec[ownIdx-1], p.key.H1Vec[ownIdx-1], p.key.H2Vec[ownIdx-1],
			p.gammaPoint)
		if err != nil {
			failures[j] = err
			continue
		}

		betaW, cW, piW, err := mta.BobMidWC(rnd, p.key.PaillierEKVec[j.Index-1], piA, msg.CKi, p.wi,
			p.key.NTildeVec[j.Index-1], p.key.H1Vec[j.Index-1], p.key.H2Vec[j.Index-1],
			p.key.NTildeVec[ownIdx-1], p.key.H1Vec[ownIdx-1], p.key.H2Vec[ownIdx-1],
			p.bigWVec[ownIdx])
		if err != nil {
			failures[j] = err
			continue
		}

		p.betaGammaGiven[j.Index] = betaGamma
		p.betaWGiven[j.Index] = betaW
		p.sendTo(j, 2, &SignRound2Message{CGamma: cGamma, PiGamma: piGamma, CW: cW, PiW: piW})
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: presign round 1 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(1, p.partyID(), failures)
	}

	p.round = 3
	common.Logger.Debugf("party %s: presign round 2 finished", p.partyID())
	return nil
}

// round3 decrypts the alpha half of every MtA this party ran as Alice,
// accumulating delta_i and sigma_i, then broadcasts a Pedersen commitment
// to sigma_i (spec.md §4.2 round 2). The gamma branch is only core-
// verified here, since its public binding point Gamma_j is still hidden
// behind round 1's commitment; that check is deferred to round 5.
func (p *LocalParty) round3() *tss.Error {
	common.Logger.Infof("party %s: presign round 3 starting", p.partyID())
	rnd := p.params.Rand()
	q := curve.EC().Params().N
	modQ := common.ModInt(q)
	ownIdx := p.partyID().Index

	deltaI := modQ.Mul(p.ki, p.gammai)
	sigmaI := modQ.Mul(p.ki, p.wi)

	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r2Store.Finish() {
		j := m.From
		msg := m.Body.(*SignRound2Message)

		alphaGamma, err := mta.AliceEndWCCore(p.key.PaillierDK, msg.PiGamma,
			p.key.H1Vec[ownIdx-1], p.key.H2Vec[ownIdx-1], p.key.NTildeVec[ownIdx-1], p.cki, msg.CGamma)
		if err != nil {
			failures[j] = err
			continue
		}
		p.gammaBindings[j.Index] = pendingGammaBinding{piGamma: msg.PiGamma, cGamma: msg.CGamma}

		alphaW, err := mta.AliceEndWC(p.key.PaillierDK, msg.PiW,
			p.key.H1Vec[ownIdx-1], p.key.H2Vec[ownIdx-1], p.key.NTildeVec[ownIdx-1], p.cki, msg.CW, p.bigWVec[j.Index])
		if err != nil {
			failures[j] = err
			continue
		}

		deltaI = modQ.Add(deltaI, modQ.Add(alphaGamma, p.betaGammaGiven[j.Index]))
		sigmaI = modQ.Add(sigmaI, modQ.Add(alphaW, p.betaWGiven[j.Index]))
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: presign round 2 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(2, p.partyID(), failures)
	}

	p.deltaI = deltaI
	p.sigmaI = sigmaI

	p.li = common.GetRandomPositiveInt(rnd, q)
	tG := curve.ScalarBaseMult(sigmaI)
	lH := curve.H().ScalarMult(p.li)
	ti, err := tG.Add(lH)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "T_i = sigma_i*G + l_i*H"), 2, p.partyID())
	}
	p.ti = ti
	p.tVec[ownIdx] = ti

	tiProof, err := zkp.NewTProof(rnd, ti, sigmaI, p.li)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "zkp.NewTProof"), 2, p.partyID())
	}

	p.broadcast(3, &SignRound3Message{DeltaI: deltaI, TI: ti, TIProof: tiProof})
	p.round = 4
	common.Logger.Debugf("party %s: presign round 3 finished", p.partyID())
	return nil
}

// round4 verifies every peer's T_i proof, sums the delta shares to recover
// delta^-1, and opens round 1's commitment to Gamma_i (spec.md §4.2 round 3).
func (p *LocalParty) round4() *tss.Error {
	common.Logger.Infof("party %s: presign round 4 starting", p.partyID())
	q := curve.EC().Params().N
	modQ := common.ModInt(q)

	deltaSum := p.deltaI

	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r3Store.Finish() {
		j := m.From
		msg := m.Body.(*SignRound3Message)
		if !msg.TIProof.Verify(msg.TI) {
			failures[j] = ErrInvalidTProof
			continue
		}
		p.tVec[j.Index] = msg.TI
		deltaSum = modQ.Add(deltaSum, msg.DeltaI)
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: presign round 3 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(3, p.partyID(), failures)
	}

	p.deltaInv = modQ.ModInverse(deltaSum)

	p.broadcast(4, &SignRound4Message{BlindFactor: p.blindFactor, GammaI: p.gammaPoint})
	p.round = 5
	common.Logger.Debugf("party %s: presign round 4 finished", p.partyID())
	return nil
}

// round5 opens every peer's Gamma_i commitment, runs the gamma-branch MtA
// binding checks deferred from round 3, reconstructs R, and broadcasts one
// PDL-with-slack proof per recipient binding k_i's ciphertext to this
// party's share of R (spec.md §4.2 round 4).
func (p *LocalParty) round5() *tss.Error {
	common.Logger.Infof("party %s: presign round 5 starting", p.partyID())
	rnd := p.params.Rand()
	sl := p.params.Sl()
	ownIdx := p.partyID().Index

	gammaSum := p.gammaPoint

	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r4Store.Finish() {
		j := m.From
		msg := m.Body.(*SignRound4Message)

		r1m, _ := p.r1Store.Get(j.Index)
		r1 := r1m.Body.(*SignRound1Message)
		if !commitments.VerifyCommit(r1.Commitment, msg.BlindFactor, msg.GammaI.X(), msg.GammaI.Y()) {
			failures[j] = ErrInvalidDelta
			continue
		}

		binding := p.gammaBindings[j.Index]
		if !mta.CheckWCBinding(binding.piGamma, p.cki, binding.cGamma, msg.GammaI) {
			failures[j] = ErrInvalidDelta
			continue
		}

		next, err := gammaSum.Add(msg.GammaI)
		if err != nil {
			failures[j] = err
			continue
		}
		gammaSum = next
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: presign round 4 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(4, p.partyID(), failures)
	}

	p.r = gammaSum.ScalarMult(p.deltaInv)
	rdashI := p.r.ScalarMult(p.ki)

	pdlProofs := make(map[int]*zkp.PDLwSlackProof, len(sl)-1)
	for _, id := range sl {
		if id.Index == ownIdx {
			continue
		}
		statement := &zkp.PDLwSlackStatement{
			PK:         &p.key.PaillierDK.PublicKey,
			CipherText: p.cki,
			X:          rdashI,
			NTilde:     p.key.NTildeVec[id.Index-1],
			H1:         p.key.H1Vec[id.Index-1],
			H2:         p.key.H2Vec[id.Index-1],
		}
		witness := &zkp.PDLwSlackWitness{X: p.ki, R: p.ckiRandomness}
		proof, err := zkp.NewPDLwSlackProof(rnd, witness, statement)
		if err != nil {
			return tss.NewError(errorspkg.Wrapf(err, "zkp.NewPDLwSlackProof"), 4, p.partyID())
		}
		pdlProofs[id.Index] = proof
	}

	p.broadcast(5, &SignRound5Message{RI: rdashI, PDLProofs: pdlProofs})
	p.round = 6
	common.Logger.Debugf("party %s: presign round 5 finished", p.partyID())
	return nil
}

// round6 verifies the PDL-with-slack proof each peer addressed to this
// party, checks that the R_i' shares reconstruct G, and broadcasts this
// party's partial S_i with a homomorphic-ElGamal proof tying it to T_i
// (spec.md §4.2 round 5).
//
// Two checks below preserve documented upstream behavior rather than the
// "obviously correct" alternative: a failing PDL proof blames this party's
// own index rather than the peer whose proof failed, and the R_i' sum is
// checked against G with no bad-actor attribution on mismatch.
func (p *LocalParty) round6() *tss.Error {
	common.Logger.Infof("party %s: presign round 6 starting", p.partyID())
	rnd := p.params.Rand()
	ownIdx := p.partyID().Index

	rdashSum := p.r.ScalarMult(p.ki)

	var badPDL bool
	for _, m := range p.r5Store.Finish() {
		j := m.From
		msg := m.Body.(*SignRound5Message)

		proof, ok := msg.PDLProofs[ownIdx]
		if !ok {
			badPDL = true
		} else {
			r1m, _ := p.r1Store.Get(j.Index)
			r1 := r1m.Body.(*SignRound1Message)
			statement := &zkp.PDLwSlackStatement{
				PK:         p.key.PaillierEKVec[j.Index-1],
				CipherText: r1.CKi,
				X:          msg.RI,
				NTilde:     p.key.NTildeVec[ownIdx-1],
				H1:         p.key.H1Vec[ownIdx-1],
				H2:         p.key.H2Vec[ownIdx-1],
			}
			if !proof.Verify(statement) {
				badPDL = true
			}
		}

		next, addErr := rdashSum.Add(msg.RI)
		if addErr != nil {
			return tss.NewError(errorspkg.Wrapf(addErr, "accumulating R_i'"), 5, p.partyID())
		}
		rdashSum = next
	}
	if badPDL {
		common.Logger.Warnf("party %s: round 5 PDL-with-slack verification failed, blaming self", p.partyID())
		return tss.NewError(ErrInvalidPDLProof, 5, p.partyID(), p.partyID())
	}
	if !rdashSum.Equals(curve.G()) {
		common.Logger.Warnf("party %s: round 5 sum(R_i') != G, no culprit attribution", p.partyID())
		return tss.NewError(ErrInvalidRSum, 5, p.partyID())
	}

	si := p.r.ScalarMult(p.sigmaI)
	hegProof, err := zkp.NewSTProof(rnd, p.r, si, p.ti, p.sigmaI, p.li)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "zkp.NewSTProof"), 5, p.partyID())
	}

	p.broadcast(6, &SignRound6Message{SI: si, HEGProof: hegProof})
	p.round = 7
	common.Logger.Debugf("party %s: presign round 6 finished", p.partyID())
	return nil
}

// round7 verifies every peer's S_i against that peer's own T_i (captured
// independently back in round 4), checks that the S_i shares reconstruct
// the shared public key, and emits the completed presignature (spec.md
// §4.2 round 6).
func (p *LocalParty) round7() *tss.Error {
	common.Logger.Infof("party %s: presign round 7 starting", p.partyID())
	ownIdx := p.partyID().Index
	si := p.r.ScalarMult(p.sigmaI)

	ssum := si
	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r6Store.Finish() {
		j := m.From
		msg := m.Body.(*SignRound6Message)

		peerT, ok := p.tVec[j.Index]
		if !ok || !msg.HEGProof.Verify(p.r, msg.SI, peerT) {
			failures[j] = ErrInvalidSProof
			continue
		}

		next, err := ssum.Add(msg.SI)
		if err != nil {
			failures[j] = err
			continue
		}
		ssum = next
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: presign round 6 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(6, p.partyID(), failures)
	}

	if !ssum.Equals(p.key.Y) {
		return tss.NewError(ErrInvalidSSum, 6, p.partyID())
	}

	p.output = &CompletedPresig{
		Index:    ownIdx,
		LocalKey: p.key,
		R:        p.r,
		SigmaI:   p.sigmaI,
		TVec:     p.tVec,
		WI:       p.wi,
		KI:       p.ki,
	}
	p.finished = true
	common.Logger.Infof("party %s: presign finished", p.partyID())
	return nil
}
