// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package curve

import (
	"math/big"
	"sync"

	"github.com/threshold-sigs/gg20tss/common"
)

// hSeed is the well-known constant hashed to derive H below. Its exact bytes
// are not meaningful; what matters is that nobody can exhibit log_G(H).
var hSeed = []byte("gg20tss second generator NUMS point v1")

var (
	hOnce  sync.Once
	hPoint *ECPoint
)

// H returns a fixed, nothing-up-my-sleeve second generator independent of G,
// used as the blinding base in Pedersen commitments and the homomorphic-
// ElGamal proof (spec.md §3, §9). It is derived once via hash-and-increment:
// hash the seed to a candidate x coordinate, take the even-Y square root of
// x^3+7 on secp256k1, and increment the counter until a valid point is found.
func H() *ECPoint {
	hOnce.Do(func() {
		p := EC().Params().P
		modP := common.ModInt(p)
		counter := uint64(0)
		for {
			ctr := make([]byte, 8)
			for i := 0; i < 8; i++ {
				ctr[i] = byte(counter >> (8 * (7 - i)))
			}
			digest := common.SHA512_256(hSeed, ctr)
			x := new(big.Int).Mod(new(big.Int).SetBytes(digest), p)
			x3 := new(big.Int).Exp(x, big.NewInt(3), p)
			y2 := modP.Add(x3, big.NewInt(7))
			y := modP.Sqrt(y2)
			counter++
			if y == nil {
				continue
			}
			if y.Bit(0) != 0 {
				y = modP.Neg(y)
			}
			pt, err := NewECPoint(x, y)
			if err != nil {
				continue
			}
			hPoint = pt
			return
		}
	})
	return hPoint
}
