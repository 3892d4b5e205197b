package aead

import "golang.org/x/crypto/chacha20poly1305"

// KeySize is the ChaCha20-Poly1305 key length in bytes.
const KeySize = chacha20poly1305.KeySize

// TagSize is the Poly1305 authentication tag length in bytes.
const TagSize = 16

// Backend is the AEAD capability a Stream seals and opens through.
// Concrete backends are chosen at build-configuration time; callers of
// Stream never branch on which one is in use.
type Backend interface {
	// Seal appends the sealed ciphertext and tag for plaintext under
	// key/nonce/aad to dst and returns the extended slice.
	Seal(dst []byte, key [KeySize]byte, nonce [NonceSize]byte, aad, plaintext []byte) ([]byte, error)
	// Open authenticates and decrypts ciphertext (which includes the
	// trailing tag) under key/nonce/aad, appending the plaintext to dst.
	Open(dst *[]byte, key [KeySize]byte, nonce [NonceSize]byte, aad, ciphertext []byte) error
}

// ChaCha20Poly1305 is the standard Backend, built on
// golang.org/x/crypto/chacha20poly1305.
type ChaCha20Poly1305 struct{}

func (ChaCha20Poly1305) Seal(dst []byte, key [KeySize]byte, nonce [NonceSize]byte, aad, plaintext []byte) ([]byte, error) {
	c, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return c.Seal(dst, nonce[:], plaintext, aad), nil
}

func (ChaCha20Poly1305) Open(dst *[]byte, key [KeySize]byte, nonce [NonceSize]byte, aad, ciphertext []byte) error {
	c, err := chacha20poly1305.New(key[:])
	if err != nil {
		return err
	}
	out, err := c.Open((*dst)[:0], nonce[:], ciphertext, aad)
	if err != nil {
		return err
	}
	*dst = out
	return nil
}
