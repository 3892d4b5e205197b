package kdf

import (
	"crypto/sha256"
	"crypto/subtle"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/portalsys/portal/internal/util/memzero"
	"github.com/portalsys/portal/internal/wire"
)

const (
	infoSessionKey      = "portal-aead-key"
	infoConfirmSender   = "portal-confirm-sender"
	infoConfirmReceiver = "portal-confirm-receiver"
)

// Keys holds the three sub-keys derived from one PAKE secret. SessionKey
// feeds internal/aead; ConfirmSender/ConfirmReceiver feed ConfirmationToken.
type Keys struct {
	SessionKey      [32]byte
	ConfirmSender   [32]byte
	ConfirmReceiver [32]byte
}

// Wipe zeroes all key material. Callers should defer it once the session
// that owns these keys is done with them.
func (k *Keys) Wipe() {
	memzero.Zero(k.SessionKey[:])
	memzero.Zero(k.ConfirmSender[:])
	memzero.Zero(k.ConfirmReceiver[:])
}

// Derive expands the raw PAKE secret into Keys. The caller retains
// ownership of secret and should wipe it once derivation returns.
func Derive(secret []byte) (Keys, error) {
	var keys Keys
	for _, out := range []struct {
		dst  *[32]byte
		info string
	}{
		{&keys.SessionKey, infoSessionKey},
		{&keys.ConfirmSender, infoConfirmSender},
		{&keys.ConfirmReceiver, infoConfirmReceiver},
	} {
		r := hkdf.New(sha256.New, secret, nil, []byte(out.info))
		if _, err := io.ReadFull(r, out.dst[:]); err != nil {
			keys.Wipe()
			return Keys{}, err
		}
	}
	return keys, nil
}

// confirmValue returns the confirm_* value this local side sends for dir.
func (k Keys) confirmValue(dir wire.Direction) [32]byte {
	if dir == wire.Sender {
		return k.ConfirmSender
	}
	return k.ConfirmReceiver
}

// Token builds the ConfirmationToken this side sends for dir.
func (k Keys) Token(dir wire.Direction) [wire.ConfirmTokenSize]byte {
	var tok [wire.ConfirmTokenSize]byte
	tok[0] = byte(dir)
	v := k.confirmValue(dir)
	copy(tok[1:], v[:])
	return tok
}

// VerifyToken reports whether tok is the value expected for dir under k.
// Comparison is constant-time; dir is trusted (it names which direction
// the token claims to be, and the caller has already confirmed that's
// the direction it expected to receive from its peer).
func (k Keys) VerifyToken(dir wire.Direction, tok [wire.ConfirmTokenSize]byte) bool {
	want := k.Token(dir)
	return subtle.ConstantTimeCompare(want[:], tok[:]) == 1
}
