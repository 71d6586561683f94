package ccsh

import "math/bits"

// Word literals occupying words 0..3 of every permutation input,
// the ASCII of "expand 32-byte k".
const (
	sigma0 = 0x65787061 // expa
	sigma1 = 0x6E642033 // nd 3
	sigma2 = 0x32206279 // 2 by
	sigma3 = 0x7465206B // te k
)

// chachaBlock mixes a 16-word input block into a 16-word output block with
// 10 ChaCha double-rounds. Each output word gets the matching input word
// added back in; without that feedforward the transform would be trivially
// invertible.
func chachaBlock(in *[16]uint32) (out [16]uint32) {
	x := *in

	for i := 0; i < 10; i++ {
		quarterRound(&x, 0, 4, 8, 12)  // column 0
		quarterRound(&x, 1, 5, 9, 13)  // column 1
		quarterRound(&x, 2, 6, 10, 14) // column 2
		quarterRound(&x, 3, 7, 11, 15) // column 3
		quarterRound(&x, 0, 5, 10, 15) // diagonal 1
		quarterRound(&x, 1, 6, 11, 12) // diagonal 2
		quarterRound(&x, 2, 7, 8, 13)  // diagonal 3
		quarterRound(&x, 3, 4, 9, 14)  // diagonal 4
	}

	for i := range out {
		out[i] = x[i] + in[i]
	}
	return out
}

// quarterRound applies one ARX mixing step to words a, b, c, d of x.
func quarterRound(x *[16]uint32, a, b, c, d int) {
	x[a] += x[b]
	x[d] ^= x[a]
	x[d] = bits.RotateLeft32(x[d], 16)

	x[c] += x[d]
	x[b] ^= x[c]
	x[b] = bits.RotateLeft32(x[b], 12)

	x[a] += x[b]
	x[d] ^= x[a]
	x[d] = bits.RotateLeft32(x[d], 8)

	x[c] += x[d]
	x[b] ^= x[c]
	x[b] = bits.RotateLeft32(x[b], 7)
}
