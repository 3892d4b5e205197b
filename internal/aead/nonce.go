package aead

import (
	"encoding/binary"
	"errors"
)

// NonceSize is the ChaCha20-Poly1305 nonce length in bytes (96 bits).
const NonceSize = 12

// ErrNonceExhausted is returned when a NonceSequence has emitted every
// value it safely can. In practice this requires 2^64-1 chunks under a
// single session key, far beyond any real transfer.
var ErrNonceExhausted = errors.New("aead: nonce sequence exhausted")

// NonceSequence is a 96-bit monotonic counter, big-endian, that starts
// at zero and increments by one per emitted nonce. It never wraps: once
// it has handed out 2^64-1 values it refuses to produce another.
type NonceSequence struct {
	counter uint64
	done    bool
}

// Next returns the next nonce in the sequence and advances it.
func (s *NonceSequence) Next() ([NonceSize]byte, error) {
	// Refuse to emit the value that would force the next increment to
	// wrap back to zero, rather than silently reusing a nonce.
	if s.done || s.counter == ^uint64(0) {
		s.done = true
		return [NonceSize]byte{}, ErrNonceExhausted
	}
	var nonce [NonceSize]byte
	binary.BigEndian.PutUint64(nonce[NonceSize-8:], s.counter)
	s.counter++
	return nonce, nil
}

// Counter reports the next value Next will emit, for tests and diagnostics.
func (s *NonceSequence) Counter() uint64 { return s.counter }
