// Package ccsh implements CCSH (Counter ChaCha Stream Hash), a streaming
// keyless hash function built on the ChaCha permutation. Input is absorbed
// in 32-byte blocks: each block is placed into a fresh permutation input
// together with a running byte counter and a per-block nonce, permuted, and
// XOR-folded into a 512-bit accumulator.
//
// CCSH is a fast mixing function for checksums, fingerprints and content
// addressing. It is not a cipher, produces no authentication tag, and makes
// no collision or length-extension resistance claims.
package ccsh

import (
	"encoding/binary"

	"github.com/DylanMcBean/CounterChaChaStreamHash/types"
	"github.com/DylanMcBean/CounterChaChaStreamHash/utils"
)

// BlockSize The number of input bytes absorbed by one permutation call.
const BlockSize = 32

// Size The size of a CCSH digest in bytes.
const Size = 64

// Hasher absorbs an arbitrary-length byte stream into a 512-bit digest.
// The zero value is ready to use.
//
// A single Hasher is not safe for concurrent use. Independent Hashers
// share no state and may run fully in parallel.
type Hasher struct {
	state       [16]uint32 // running accumulated digest
	counter     uint64     // cumulative bytes absorbed
	nonce       uint64     // increments once per block, not per round
	initialized bool       // whether state holds a value yet
}

// Reset returns the hasher to its initial all-zero state.
func (h *Hasher) Reset() {
	h.state = [16]uint32{}
	h.counter = 0
	h.nonce = 0
	h.initialized = false
}

// Start resets the hasher and begins a new session by absorbing data,
// which may be empty.
func (h *Hasher) Start(data []byte) {
	h.Reset()
	h.Update(data)
}

// Update absorbs data, logically appended to all bytes fed since the last
// Start. Each call partitions its own argument into consecutive chunks of
// at most BlockSize bytes; nothing is buffered across calls. Feeding a
// stream split at an offset that is not a multiple of BlockSize therefore
// yields a different digest than feeding it whole. Callers that need
// split-independence must align their writes to BlockSize.
func (h *Hasher) Update(data []byte) {
	in := [16]uint32{sigma0, sigma1, sigma2, sigma3}

	for len(data) > 0 {
		n := len(data)
		if n > BlockSize {
			n = BlockSize
		}

		// Payload words 4..11, little-endian, zero-padded on a short
		// final chunk. Words 13 and 15 stay zero.
		var chunk [BlockSize]byte
		copy(chunk[:], data[:n])
		for i := 0; i < 8; i++ {
			in[4+i] = binary.LittleEndian.Uint32(chunk[4*i:])
		}

		h.counter += uint64(n)
		in[12] = uint32(h.counter)
		in[14] = uint32(h.nonce)
		h.nonce++

		out := chachaBlock(&in)

		if !h.initialized {
			h.state = out
			h.initialized = true
		} else {
			for j := range h.state {
				h.state[j] ^= out[j]
			}
		}

		data = data[n:]
	}
}

// Write absorbs p, making a Hasher usable with io.Copy. Every Write is an
// Update, so the digest of a stream depends on where the writes fall; as
// long as each Write before the last carries a multiple of BlockSize, the
// result matches hashing the stream in one call.
func (h *Hasher) Write(p []byte) (n int, err error) {
	h.Update(p)
	return len(p), nil
}

// Sum returns the current digest as raw bytes. Each state word is
// serialized big-endian, so the hex encoding of the result matches
// Hexdump.
func (h *Hasher) Sum() (sum types.Hash) {
	for i, w := range h.state {
		binary.BigEndian.PutUint32(sum[4*i:], w)
	}
	return sum
}

// Hexdump renders the current digest as 128 lowercase hex characters,
// eight digits per state word in word order 0..15. It is a pure read: it
// may be called at any point, any number of times, and before any Start it
// yields all zeros.
func (h *Hasher) Hexdump() string {
	sum := h.Sum()
	return sum.String()
}

// Sum computes the CCSH digest of data in one call.
func Sum[T ~string | ~[]byte](data T) types.Hash {
	var h Hasher
	_, _ = utils.WriteNoEscape(&h, []byte(data))
	return h.Sum()
}

// SumVar computes the CCSH digest of the concatenation of all data
// arguments, absorbing each separately. Arguments whose lengths are not
// multiples of BlockSize shift the chunk boundaries of everything that
// follows; see Update.
func SumVar[T ~string | ~[]byte](data ...T) (result types.Hash) {
	var h Hasher
	for _, b := range data {
		_, _ = utils.WriteNoEscape(&h, []byte(b))
	}
	return h.Sum()
}
