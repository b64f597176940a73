// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package common

import "math/big"

// modInt is a *big.Int that performs all of its arithmetic with modular
// reduction against a fixed modulus.
type modInt big.Int

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

func ModInt(mod *big.Int) *modInt {
	return (*modInt)(mod)
}

func (mi *modInt) Add(x, y *big.Int) *big.Int {
	i := new(big.Int).Add(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Sub(x, y *big.Int) *big.Int {
	i := new(big.Int).Sub(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Mul(x, y *big.Int) *big.Int {
	i := new(big.Int).Mul(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Exp(x, y *big.Int) *big.Int {
	return new(big.Int).Exp(x, y, mi.i())
}

func (mi *modInt) ModInverse(g *big.Int) *big.Int {
	return new(big.Int).ModInverse(g, mi.i())
}

func (mi *modInt) Neg(x *big.Int) *big.Int {
	i := new(big.Int).Neg(x)
	return i.Mod(i, mi.i())
}

// Sqrt computes a modular square root when the modulus is a prime
// congruent to 3 mod 4 (true for secp256k1's field prime).
func (mi *modInt) Sqrt(x *big.Int) *big.Int {
	p := mi.i()
	if new(big.Int).Mod(p, big.NewInt(4)).Cmp(big.NewInt(3)) != 0 {
		return nil
	}
	e := new(big.Int).Add(p, one)
	e.Rsh(e, 2)
	y := new(big.Int).Exp(x, e, p)
	check := new(big.Int).Exp(y, two, p)
	if check.Cmp(new(big.Int).Mod(x, p)) != 0 {
		return nil
	}
	return y
}

func (mi *modInt) i() *big.Int {
	return (*big.Int)(mi)
}

// IsInInterval reports whether 0 <= b < bound.
func IsInInterval(b *big.Int, bound *big.Int) bool {
	return b.Cmp(bound) == -1 && b.Cmp(zero) >= 0
}

// NonEmptyMultiBytes reports whether bzs has exactly expectedLen non-nil
// elements.
func NonEmptyMultiBytes(bzs [][]byte, expectedLen int) bool {
	if len(bzs) != expectedLen {
		return false
	}
	for _, bz := range bzs {
		if bz == nil {
			return false
		}
	}
	return true
}
