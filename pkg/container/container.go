// Package container reads and writes the canonical on-disk form of an
// encoded message. The layout is bit-exact and little-endian throughout:
//
//	offset  size      field
//	0       4         magic 0x57494C4C ("WILL")
//	4       4         version (1)
//	8       8         n, token count
//	16      4*n       token ids (u32)
//	16+4n   8         m, slot count
//	24+4n   variable  m records: u32 byte length, then that many UTF-8 bytes
//
// Declared counts are validated against the remaining input before any
// proportional allocation, every slot must be valid UTF-8, and bytes after
// the last slot are an error.
package container

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ha1tch/stencil/pkg/codec"
)

const (
	// Magic identifies a canonical container ("WILL").
	Magic uint32 = 0x57494C4C
	// Version is the only container version this package handles.
	Version uint32 = 1

	// EmptySize is the size of the container of an empty message.
	EmptySize = 24
)

var (
	ErrBadMagic     = errors.New("container: bad magic")
	ErrBadVersion   = errors.New("container: unsupported version")
	ErrTruncated    = errors.New("container: truncated")
	ErrInvalidSlot  = errors.New("container: slot is not valid UTF-8")
	ErrTrailingData = errors.New("container: trailing bytes after last slot")
)

// EncodedSize returns the exact byte size Write produces for msg.
func EncodedSize(msg *codec.Message) int64 {
	n := int64(24 + 4*len(msg.Tokens))
	for _, s := range msg.Slots {
		n += 4 + int64(len(s))
	}
	return n
}

// Write serializes msg to w in the canonical layout.
func Write(w io.Writer, msg *codec.Message) error {
	bw := bufio.NewWriter(w)

	var b8 [8]byte
	binary.LittleEndian.PutUint32(b8[0:4], Magic)
	binary.LittleEndian.PutUint32(b8[4:8], Version)
	if _, err := bw.Write(b8[:]); err != nil {
		return fmt.Errorf("container: %w", err)
	}

	binary.LittleEndian.PutUint64(b8[:], uint64(len(msg.Tokens)))
	if _, err := bw.Write(b8[:]); err != nil {
		return fmt.Errorf("container: %w", err)
	}
	var b4 [4]byte
	for _, t := range msg.Tokens {
		binary.LittleEndian.PutUint32(b4[:], t)
		if _, err := bw.Write(b4[:]); err != nil {
			return fmt.Errorf("container: %w", err)
		}
	}

	binary.LittleEndian.PutUint64(b8[:], uint64(len(msg.Slots)))
	if _, err := bw.Write(b8[:]); err != nil {
		return fmt.Errorf("container: %w", err)
	}
	for _, s := range msg.Slots {
		binary.LittleEndian.PutUint32(b4[:], uint32(len(s)))
		if _, err := bw.Write(b4[:]); err != nil {
			return fmt.Errorf("container: %w", err)
		}
		if _, err := bw.Write(s); err != nil {
			return fmt.Errorf("container: %w", err)
		}
	}
	return bw.Flush()
}

// Decode parses a complete container image. The returned message's slots
// alias data; callers that mutate or recycle the buffer should copy first.
func Decode(data []byte) (*codec.Message, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if m := binary.LittleEndian.Uint32(data); m != Magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, m)
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	if len(data) < 16 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	n := binary.LittleEndian.Uint64(data[8:])
	rest := uint64(len(data) - 16)
	if n > rest/4 {
		return nil, fmt.Errorf("%w: %d tokens declared, %d bytes remain", ErrTruncated, n, rest)
	}
	msg := &codec.Message{Tokens: make([]uint32, n)}
	off := 16
	for i := range msg.Tokens {
		msg.Tokens[i] = binary.LittleEndian.Uint32(data[off:])
		off += 4
	}

	if len(data)-off < 8 {
		return nil, fmt.Errorf("%w: missing slot count", ErrTruncated)
	}
	m := binary.LittleEndian.Uint64(data[off:])
	off += 8
	if m > uint64(len(data)-off)/4 {
		return nil, fmt.Errorf("%w: %d slots declared, %d bytes remain", ErrTruncated, m, len(data)-off)
	}
	msg.Slots = make([][]byte, 0, m)
	for i := uint64(0); i < m; i++ {
		if len(data)-off < 4 {
			return nil, fmt.Errorf("%w: slot %d header", ErrTruncated, i)
		}
		slotLen := binary.LittleEndian.Uint32(data[off:])
		off += 4
		if uint64(len(data)-off) < uint64(slotLen) {
			return nil, fmt.Errorf("%w: slot %d wants %d bytes, %d remain",
				ErrTruncated, i, slotLen, len(data)-off)
		}
		slot := data[off : off+int(slotLen)]
		off += int(slotLen)
		if !utf8.Valid(slot) {
			return nil, fmt.Errorf("%w: slot %d", ErrInvalidSlot, i)
		}
		msg.Slots = append(msg.Slots, slot)
	}

	if off != len(data) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(data)-off)
	}
	return msg, nil
}

// ReadFrom reads a complete container from r and parses it.
func ReadFrom(r io.Reader) (*codec.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}
	return Decode(data)
}
