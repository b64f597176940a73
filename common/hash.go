// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package common

import (
	"crypto"
	_ "crypto/sha512"
	"encoding/binary"
	"math/big"
)

const hashInputDelimiter = byte('$')

// SHA512_256 is protected against length-extension attacks and is faster
// than SHA-256 on 64-bit architectures.
func SHA512_256(in ...[]byte) []byte {
	inLen := len(in)
	if inLen == 0 {
		return nil
	}
	state := crypto.SHA512_256.New()
	inLenBz := make([]byte, 8)
	binary.LittleEndian.PutUint64(inLenBz, uint64(inLen))
	bzSize := 0
	for _, bz := range in {
		bzSize += len(bz)
	}
	data := make([]byte, 0, len(inLenBz)+bzSize+inLen+(inLen*8))
	data = append(data, inLenBz...)
	for _, bz := range in {
		data = append(data, bz...)
		data = append(data, hashInputDelimiter)
		dataLen := make([]byte, 8)
		binary.LittleEndian.PutUint64(dataLen, uint64(len(bz)))
		data = append(data, dataLen...)
	}
	if _, err := state.Write(data); err != nil {
		Logger.Errorf("SHA512_256 Write() failed: %v", err)
		return nil
	}
	return state.Sum(nil)
}

// SHA512_256i hashes a sequence of big.Ints with domain separation between
// each part, returning the digest as a big.Int.
func SHA512_256i(in ...*big.Int) *big.Int {
	if len(in) == 0 {
		return nil
	}
	bz := make([][]byte, len(in))
	for i, n := range in {
		bz[i] = n.Bytes()
	}
	return new(big.Int).SetBytes(SHA512_256(bz...))
}
