package aead

import (
	"errors"
	"fmt"

	"github.com/portalsys/portal/internal/util/memzero"
)

// ErrAuthFailed means a ciphertext failed AEAD authentication: it was
// tampered with, encrypted under a different key, or opened at the
// wrong nonce (out-of-order, duplicated, or missing chunk).
var ErrAuthFailed = errors.New("aead: authentication failed")

// Stream owns a session key and the single nonce sequence shared by the
// Sender's SealNext calls and the Receiver's matching OpenNext calls.
// Associated data is always empty: the tag plus the implicit ordering
// from the nonce sequence is what detects reordering or truncation, per
// spec.
type Stream struct {
	key     [KeySize]byte
	seq     NonceSequence
	backend Backend
}

// NewStream builds a Stream over key using backend. The caller retains
// ownership of key; Stream copies it internally and Wipe clears the copy.
func NewStream(key [KeySize]byte, backend Backend) *Stream {
	return &Stream{key: key, backend: backend}
}

// Wipe clears the session key held by the stream. Call once the session
// is over.
func (s *Stream) Wipe() { memzero.Zero(s.key[:]) }

// SealNext seals plaintext at the next free nonce and advances the
// sequence. Used for Metadata, FileHeader and Chunk bodies alike.
func (s *Stream) SealNext(plaintext []byte) ([]byte, error) {
	nonce, err := s.seq.Next()
	if err != nil {
		return nil, err
	}
	return s.backend.Seal(nil, s.key, nonce, nil, plaintext)
}

// OpenNext opens ciphertext at the next expected nonce and advances the
// sequence. A caller that receives records out of order, duplicated, or
// missing will fail here because the local counter no longer matches
// the nonce the peer actually used.
func (s *Stream) OpenNext(ciphertext []byte) ([]byte, error) {
	nonce, err := s.seq.Next()
	if err != nil {
		return nil, err
	}
	var out []byte
	if err := s.backend.Open(&out, s.key, nonce, nil, ciphertext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return out, nil
}
