// Package codec turns atom sequences into compact (token-id, slot) streams
// and back, using a shared read-only lexicon.
//
// Token ids occupy two disjoint regions: ids below the lexicon's template
// count are template matches; higher ids are single-atom literal fallbacks,
// offset by the template count. Slot payloads travel in a side stream,
// consumed left to right.
//
// One Encoder or Decoder serves one job on one goroutine. Any number of
// jobs may share a single Lexicon concurrently; the only mutable state is
// per-job (the encoder's extension region and statistics).
package codec

import (
	"errors"
)

// Message is an encoded unit: the token-id sequence and the ordered slot
// payloads its slot atoms consume.
type Message struct {
	Tokens []uint32
	Slots  [][]byte
}

// Decode-time error kinds. All are fatal to the message; the wrapping error
// carries the token index or the counts involved.
var (
	// ErrUnknownToken reports a token id at or beyond the decoder's token
	// space (template count + atom count, including any attached extension).
	ErrUnknownToken = errors.New("codec: unknown token id")

	// ErrUnknownAtom reports a template referencing an atom id the interner
	// does not hold. A validated lexicon cannot produce it; it guards
	// against decoding with a corrupt or mismatched lexicon.
	ErrUnknownAtom = errors.New("codec: unknown atom id")

	// ErrSlotUnderflow reports a slot atom with no remaining slot payload.
	ErrSlotUnderflow = errors.New("codec: slot stream exhausted")

	// ErrSlotCount reports leftover slot payloads after the final token.
	ErrSlotCount = errors.New("codec: slot count mismatch")
)
