// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package signing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/keygen"
	"github.com/threshold-sigs/gg20tss/presign"
	"github.com/threshold-sigs/gg20tss/tss"
)

const testSafePrimeBits = 128

func runKeygen(t *testing.T, n, threshold int) (tss.SortedPartyIDs, []*keygen.LocalPartySaveData) {
	t.Helper()
	ids := make(tss.UnSortedPartyIDs, n)
	for i := 0; i < n; i++ {
		key := big.NewInt(int64(i + 1)).Bytes()
		ids[i] = tss.NewPartyID(string(rune('A'+i)), string(rune('A'+i)), key)
	}
	sorted := tss.SortPartyIDs(ids)
	ctx := tss.NewPeerContext(sorted)

	parties := make([]*keygen.LocalParty, n)
	for i, id := range sorted {
		params := tss.NewParameters(ctx, id, n, threshold)
		params.SetSafePrimeBits(testSafePrimeBits)
		lp, err := keygen.NewLocalParty(params)
		require.Nil(t, err)
		parties[i] = lp
	}

	for {
		allFinished := true
		for _, p := range parties {
			require.Nil(t, p.Proceed(true))
			if !p.IsFinished() {
				allFinished = false
			}
		}
		var outbound []tss.Msg
		for _, p := range parties {
			outbound = append(outbound, p.MessageQueue()...)
		}
		for _, msg := range outbound {
			for i, p := range parties {
				if sorted[i].Index == msg.From.Index {
					continue
				}
				if !msg.IsBroadcast() && msg.To.Index != sorted[i].Index {
					continue
				}
				require.NoError(t, p.HandleIncoming(msg))
			}
		}
		if allFinished && len(outbound) == 0 {
			break
		}
	}

	saves := make([]*keygen.LocalPartySaveData, n)
	for i, p := range parties {
		save, err := p.PickOutput()
		require.Nil(t, err)
		saves[i] = save
	}
	return sorted, saves
}

func runPresign(t *testing.T, sorted tss.SortedPartyIDs, saves []*keygen.LocalPartySaveData, sl tss.SortedPartyIDs) []*presign.CompletedPresig {
	t.Helper()
	ctx := tss.NewPeerContext(sorted)

	parties := make([]*presign.LocalParty, len(sl))
	for i, id := range sl {
		var save *keygen.LocalPartySaveData
		for _, s := range saves {
			if s.Index == id.Index {
				save = s
			}
		}
		require.NotNil(t, save)

		baseParams := tss.NewParameters(ctx, id, len(sorted), save.Threshold)
		signParams := tss.NewSignParameters(baseParams, sl)
		lp, err := presign.NewLocalParty(signParams, save)
		require.Nil(t, err)
		parties[i] = lp
	}

	for {
		allFinished := true
		for _, p := range parties {
			require.Nil(t, p.Proceed(true))
			if !p.IsFinished() {
				allFinished = false
			}
		}
		var outbound []tss.Msg
		for _, p := range parties {
			outbound = append(outbound, p.MessageQueue()...)
		}
		for _, msg := range outbound {
			for i, p := range parties {
				if sl[i].Index == msg.From.Index {
					continue
				}
				if !msg.IsBroadcast() && msg.To.Index != sl[i].Index {
					continue
				}
				require.NoError(t, p.HandleIncoming(msg))
			}
		}
		if allFinished && len(outbound) == 0 {
			break
		}
	}

	out := make([]*presign.CompletedPresig, len(parties))
	for i, p := range parties {
		ps, err := p.PickOutput()
		require.Nil(t, err)
		require.NotNil(t, ps)
		out[i] = ps
	}
	return out
}

func messageHash(t *testing.T, msg string) *big.Int {
	t.Helper()
	q := curve.EC().Params().N
	h := common.SHA512_256([]byte(msg))
	return common.RejectionSample(q, new(big.Int).SetBytes(h))
}

func TestSignEndToEndTwoOfTwo(t *testing.T) {
	sorted, saves := runKeygen(t, 2, 1)
	presigs := runPresign(t, sorted, saves, sorted)

	m := messageHash(t, "ZenGo")
	partials := make([]*PartialSignature, len(presigs))
	for i, ps := range presigs {
		partials[i] = LocalSig(ps, m)
	}

	sig, err := Combine(presigs[0], m, partials)
	require.NoError(t, err)
	assert.NotNil(t, sig.R)
	assert.NotNil(t, sig.S)
}

func TestSignEndToEndThreeOfThree(t *testing.T) {
	sorted, saves := runKeygen(t, 3, 2)
	presigs := runPresign(t, sorted, saves, sorted)

	m := messageHash(t, "ZenGo")
	partials := make([]*PartialSignature, len(presigs))
	for i, ps := range presigs {
		partials[i] = LocalSig(ps, m)
	}

	sig, err := Combine(presigs[0], m, partials)
	require.NoError(t, err)
	assert.NotNil(t, sig.R)
	assert.NotNil(t, sig.S)
}

func TestSignEndToEndSubsetOfThree(t *testing.T) {
	sorted, saves := runKeygen(t, 3, 1)
	sl := tss.SortedPartyIDs{sorted[0], sorted[2]}
	presigs := runPresign(t, sorted, saves, sl)

	m := messageHash(t, "ZenGo")
	partials := make([]*PartialSignature, len(presigs))
	for i, ps := range presigs {
		partials[i] = LocalSig(ps, m)
	}

	sig, err := Combine(presigs[0], m, partials)
	require.NoError(t, err)
	assert.NotNil(t, sig.R)
	assert.NotNil(t, sig.S)
}

func TestCombineRejectsEmptyPartials(t *testing.T) {
	sorted, saves := runKeygen(t, 2, 1)
	presigs := runPresign(t, sorted, saves, sorted)

	m := messageHash(t, "ZenGo")
	_, err := Combine(presigs[0], m, nil)
	assert.ErrorIs(t, err, ErrWrongSignerCount)
}
