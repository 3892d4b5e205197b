package aead

import (
	"errors"
	"fmt"
	"io"

	"github.com/portalsys/portal/internal/wire"
)

// ErrChunkTooLarge is returned when a received Chunk body exceeds the
// maximum legal ciphertext size for one plaintext chunk.
var ErrChunkTooLarge = errors.New("aead: chunk ciphertext exceeds maximum size")

// MaxCiphertextChunkSize bounds a single Chunk record's ciphertext: one
// full plaintext chunk plus its Poly1305 tag.
const MaxCiphertextChunkSize = wire.ChunkSize + TagSize

// ChunkWriter reads plaintext from src in exact wire.ChunkSize blocks
// (the final block may be shorter) and calls emit once per sealed
// chunk. progress, if non-nil, is invoked after each chunk with the
// cumulative plaintext bytes processed so far.
func (s *Stream) ChunkWriter(src io.Reader, emit func(ciphertext []byte) error, progress func(bytesSoFar int64)) error {
	buf := make([]byte, wire.ChunkSize)
	var total int64
	for {
		n, err := io.ReadFull(src, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return fmt.Errorf("aead: read plaintext: %w", err)
		}
		if n > 0 {
			sealed, sealErr := s.SealNext(buf[:n])
			if sealErr != nil {
				return sealErr
			}
			if emitErr := emit(sealed); emitErr != nil {
				return emitErr
			}
			total += int64(n)
			if progress != nil {
				progress(total)
			}
		}
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil
		}
	}
}

// OpenChunk validates and opens one received Chunk ciphertext.
func (s *Stream) OpenChunk(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) > MaxCiphertextChunkSize {
		return nil, ErrChunkTooLarge
	}
	return s.OpenNext(ciphertext)
}
