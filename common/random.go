// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package common

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

const mustGetRandomIntMaxBits = 5000

// MustGetRandomInt panics if it cannot gather entropy from r or when bits
// is out of range.
func MustGetRandomInt(r io.Reader, bits int) *big.Int {
	if bits <= 0 || mustGetRandomIntMaxBits < bits {
		panic(fmt.Errorf("MustGetRandomInt: bits should be positive, non-zero and less than %d", mustGetRandomIntMaxBits))
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
	n, err := rand.Int(r, max)
	if err != nil {
		panic(errors.Wrap(err, "rand.Int failure in MustGetRandomInt"))
	}
	return n
}

// GetRandomPositiveInt returns a uniform random value in [0, lessThan).
func GetRandomPositiveInt(r io.Reader, lessThan *big.Int) *big.Int {
	if lessThan == nil || lessThan.Sign() <= 0 {
		return nil
	}
	for {
		try := MustGetRandomInt(r, lessThan.BitLen())
		if try.Cmp(lessThan) < 0 && try.Sign() >= 0 {
			return try
		}
	}
}

// GetRandomPrimeInt returns a random prime of the given bit length.
func GetRandomPrimeInt(r io.Reader, bits int) *big.Int {
	if bits <= 0 {
		return nil
	}
	p, err := rand.Prime(r, bits)
	if err != nil {
		for {
			try := MustGetRandomInt(r, bits)
			if try.ProbablyPrime(primeTestN) {
				return try
			}
		}
	}
	return p
}

// GetRandomPositiveRelativelyPrimeInt returns a random element of the
// multiplicative group of units mod n.
func GetRandomPositiveRelativelyPrimeInt(r io.Reader, n *big.Int) *big.Int {
	if n == nil || n.Sign() <= 0 {
		return nil
	}
	for {
		try := MustGetRandomInt(r, n.BitLen())
		if IsNumberInMultiplicativeGroup(n, try) {
			return try
		}
	}
}

// IsNumberInMultiplicativeGroup reports whether 1 <= v < n and gcd(v,n) == 1.
func IsNumberInMultiplicativeGroup(n, v *big.Int) bool {
	if n == nil || v == nil || n.Sign() <= 0 {
		return false
	}
	if v.Cmp(n) >= 0 || v.Cmp(one) < 0 {
		return false
	}
	gcd := new(big.Int)
	return gcd.GCD(nil, nil, v, n).Cmp(one) == 0
}
