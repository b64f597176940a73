// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package keygen

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/tss"
)

// testSafePrimeBits is far below tss.SafePrimeBits: production safe-prime
// search is much too slow for a unit test.
const testSafePrimeBits = 128

func makeParties(t *testing.T, n, threshold int) []*LocalParty {
	t.Helper()
	ids := make(tss.UnSortedPartyIDs, n)
	for i := 0; i < n; i++ {
		key := big.NewInt(int64(i + 1)).Bytes()
		ids[i] = tss.NewPartyID(string(rune('A'+i)), string(rune('A'+i)), key)
	}
	sorted := tss.SortPartyIDs(ids)
	ctx := tss.NewPeerContext(sorted)

	parties := make([]*LocalParty, n)
	for i, id := range sorted {
		params := tss.NewParameters(ctx, id, n, threshold)
		params.SetSafePrimeBits(testSafePrimeBits)
		lp, err := NewLocalParty(params)
		require.Nil(t, err)
		parties[i] = lp
	}
	return parties
}

// runDKG drives every party to completion, round by round, routing each
// party's outbound queue to every other party's HandleIncoming. Transport is
// out of scope for the state machine itself, so the test plays host.
func runDKG(t *testing.T, parties []*LocalParty) []*LocalPartySaveData {
	t.Helper()

	for {
		allFinished := true
		for _, p := range parties {
			err := p.Proceed(true)
			require.Nil(t, err)
			if !p.IsFinished() {
				allFinished = false
			}
		}

		var outbound []tss.Msg
		for _, p := range parties {
			outbound = append(outbound, p.MessageQueue()...)
		}
		for _, msg := range outbound {
			for _, p := range parties {
				if p.partyID().Index == msg.From.Index {
					continue
				}
				if !msg.IsBroadcast() && msg.To.Index != p.partyID().Index {
					continue
				}
				require.NoError(t, p.HandleIncoming(msg))
			}
		}

		if allFinished && len(outbound) == 0 {
			break
		}
	}

	saves := make([]*LocalPartySaveData, len(parties))
	for i, p := range parties {
		save, err := p.PickOutput()
		require.Nil(t, err)
		require.NotNil(t, save)
		saves[i] = save
	}
	return saves
}

// lagrangeAt0 is the standard Lagrange coefficient for party ks[i] within
// the full set ks, evaluated at x=0.
func lagrangeAt0(ks []*big.Int, i int) *big.Int {
	q := curve.EC().Params().N
	modQ := common.ModInt(q)
	num, den := big.NewInt(1), big.NewInt(1)
	for j, kj := range ks {
		if j == i {
			continue
		}
		num = modQ.Mul(num, kj)
		den = modQ.Mul(den, modQ.Sub(kj, ks[i]))
	}
	return modQ.Mul(num, modQ.ModInverse(den))
}

func TestDKGTwoOfTwo(t *testing.T) {
	parties := makeParties(t, 2, 1)
	saves := runDKG(t, parties)
	assertKeyCorrect(t, saves)
}

func TestDKGTwoOfThree(t *testing.T) {
	parties := makeParties(t, 3, 1)
	saves := runDKG(t, parties)
	assertKeyCorrect(t, saves)
}

func TestDKGThreeOfThree(t *testing.T) {
	parties := makeParties(t, 3, 2)
	saves := runDKG(t, parties)
	assertKeyCorrect(t, saves)
}

// assertKeyCorrect checks that reconstructing the shared private key from
// every party's additive share via Lagrange interpolation at x=0 yields a
// scalar whose public point matches the DKG's published Y.
func assertKeyCorrect(t *testing.T, saves []*LocalPartySaveData) {
	t.Helper()
	q := curve.EC().Params().N
	modQ := common.ModInt(q)

	secret := big.NewInt(0)
	ks := saves[0].Ks
	for i, save := range saves {
		lambda := lagrangeAt0(ks, i)
		secret = modQ.Add(secret, modQ.Mul(lambda, save.Xi))
	}

	y := curve.ScalarBaseMult(secret)
	assert.True(t, y.Equals(saves[0].Y))
	for _, save := range saves {
		assert.True(t, save.Y.Equals(saves[0].Y))
	}
}

func TestPickOutputTwiceFails(t *testing.T) {
	parties := makeParties(t, 2, 1)
	runDKG(t, parties)

	_, err := parties[0].PickOutput()
	require.NotNil(t, err)
	assert.ErrorIs(t, err.Cause(), tss.ErrDoublePickOutput)
}

func TestNewLocalPartyRejectsInvalidThreshold(t *testing.T) {
	ids := tss.UnSortedPartyIDs{
		tss.NewPartyID("A", "A", []byte{1}),
		tss.NewPartyID("B", "B", []byte{2}),
	}
	sorted := tss.SortPartyIDs(ids)
	ctx := tss.NewPeerContext(sorted)

	params := tss.NewParameters(ctx, sorted[0], 2, 2) // threshold must be < n
	_, err := NewLocalParty(params)
	require.NotNil(t, err)
	assert.ErrorIs(t, err.Cause(), tss.ErrInvalidThreshold)
}

func TestNewLocalPartyRejectsTooFewParties(t *testing.T) {
	ids := tss.UnSortedPartyIDs{tss.NewPartyID("A", "A", []byte{1})}
	sorted := tss.SortPartyIDs(ids)
	ctx := tss.NewPeerContext(sorted)

	params := tss.NewParameters(ctx, sorted[0], 1, 0)
	_, err := NewLocalParty(params)
	require.NotNil(t, err)
	assert.ErrorIs(t, err.Cause(), tss.ErrTooFewParties)
}

func TestHandleIncomingRejectsDuplicateSender(t *testing.T) {
	parties := makeParties(t, 2, 1)
	for _, p := range parties {
		require.Nil(t, p.Proceed(true))
	}
	msg := parties[0].MessageQueue()[0]
	require.NoError(t, parties[1].HandleIncoming(msg))
	assert.Error(t, parties[1].HandleIncoming(msg))
}

func TestHandleIncomingOutOfOrderRound(t *testing.T) {
	parties := makeParties(t, 2, 1)
	bogus := tss.NewBroadcastMsg(parties[0].partyID(), 99, &KeyGenBroadcast{})
	err := parties[1].HandleIncoming(bogus)
	var ooe *tss.OutOfOrderError
	assert.ErrorAs(t, err, &ooe)
}

func TestProceedRejectsBadCommitment(t *testing.T) {
	parties := makeParties(t, 2, 1)
	for _, p := range parties {
		require.Nil(t, p.Proceed(true))
	}
	msgs := map[int][]tss.Msg{}
	for _, p := range parties {
		for _, m := range p.MessageQueue() {
			msgs[p.partyID().Index] = append(msgs[p.partyID().Index], m)
		}
	}
	for from, ms := range msgs {
		for _, p := range parties {
			if p.partyID().Index == from {
				continue
			}
			for _, m := range ms {
				require.NoError(t, p.HandleIncoming(m))
			}
		}
	}
	for _, p := range parties {
		require.Nil(t, p.Proceed(true)) // round 2: open commitments
	}

	var tampered tss.Msg
	for _, p := range parties {
		for _, m := range p.MessageQueue() {
			dc := m.Body.(*KeyGenDecommit)
			tampered = tss.NewBroadcastMsg(m.From, m.Round, &KeyGenDecommit{
				BlindFactor: dc.BlindFactor,
				Y:           curve.ScalarBaseMult(common.MustGetRandomInt(rand.Reader, 64)),
			})
		}
	}

	victim := parties[1]
	if tampered.From.Index == victim.partyID().Index {
		victim = parties[0]
	}
	require.NoError(t, victim.HandleIncoming(tampered))
	err := victim.Proceed(true)
	require.NotNil(t, err)
	assert.Contains(t, err.BadActors(), tampered.From.Index)
}
