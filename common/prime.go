// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package common

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
)

const primeTestN = 30

// GermainSafePrime holds a Sophie Germain prime q together with its safe
// prime p = 2q + 1.
type GermainSafePrime struct {
	q, p *big.Int
}

func (sgp *GermainSafePrime) Prime() *big.Int     { return sgp.q }
func (sgp *GermainSafePrime) SafePrime() *big.Int { return sgp.p }

func (sgp *GermainSafePrime) Validate() bool {
	return probablyPrime(sgp.q) &&
		safePrimeFrom(sgp.q).Cmp(sgp.p) == 0 &&
		probablyPrime(sgp.p)
}

func safePrimeFrom(q *big.Int) *big.Int {
	p := new(big.Int).Mul(q, two)
	return p.Add(p, one)
}

func probablyPrime(n *big.Int) bool {
	return n != nil && n.ProbablyPrime(primeTestN)
}

// GetRandomSafePrime blocks until it finds a safe prime p = 2q+1 with q of
// bitLen bits. This is the expensive step behind Paillier keygen and ring-
// Pedersen parameter generation (DKG round 0 in spec.md §4.1).
func GetRandomSafePrime(r io.Reader, bitLen int) *GermainSafePrime {
	for {
		q := GetRandomPrimeInt(r, bitLen)
		p := safePrimeFrom(q)
		if probablyPrime(p) {
			return &GermainSafePrime{q: q, p: p}
		}
	}
}

// GetRandomSafePrimesConcurrent searches for numPrimes safe primes using
// concurrency goroutines, returning as soon as enough are found or ctx is
// done.
func GetRandomSafePrimesConcurrent(ctx context.Context, r io.Reader, bitLen, numPrimes, concurrency int) ([]*GermainSafePrime, error) {
	if bitLen < 6 {
		return nil, errors.New("safe prime size must be at least 6 bits")
	}
	if numPrimes < 1 {
		return nil, errors.New("numPrimes should be > 0")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	resultCh := make(chan *GermainSafePrime, concurrency)
	var wg sync.WaitGroup
	var found int32
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-genCtx.Done():
					return
				default:
				}
				if atomic.LoadInt32(&found) >= int32(numPrimes) {
					return
				}
				sgp := GetRandomSafePrime(r, bitLen)
				select {
				case resultCh <- sgp:
					atomic.AddInt32(&found, 1)
				case <-genCtx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	primes := make([]*GermainSafePrime, 0, numPrimes)
	for sgp := range resultCh {
		primes = append(primes, sgp)
		if len(primes) == numPrimes {
			cancel()
			break
		}
	}
	if len(primes) < numPrimes {
		return nil, ctx.Err()
	}
	return primes, nil
}
