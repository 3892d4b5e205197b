package pake

import (
	"crypto/sha256"
	"errors"
	"fmt"

	schollz "github.com/schollz/pake/v3"

	"github.com/portalsys/portal/internal/wire"
)

// curve is the schollz/pake/v3 curve name used for every session. Both
// sides must agree on it; it is not negotiated on the wire because this
// implementation only ever speaks one curve.
const curve = "siec"

// ErrPakeMismatch is returned when the peer's PAKE message is rejected —
// either it is structurally invalid, or the two sides were not bound to
// the same (password, channel id) pair.
var ErrPakeMismatch = errors.New("pake: peer message invalid under password/channel binding")

// Session wraps one side of a SPAKE2-family exchange. It is single-use:
// Secret consumes it.
type Session struct {
	p    *schollz.Pake
	used bool
}

// New constructs a Session bound to password and channelID, playing
// role dir. Call Message to obtain the outbound PAKE message to send in
// an Init record.
func New(password []byte, channelID string, dir wire.Direction) (*Session, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("pake: invalid direction %d", dir)
	}
	weak := bind(password, channelID)
	role := 0
	if dir == wire.Receiver {
		role = 1
	}
	p, err := schollz.InitCurve(weak, role, curve)
	if err != nil {
		return nil, fmt.Errorf("pake: init: %w", err)
	}
	return &Session{p: p}, nil
}

// Message returns the PAKE message to send to the peer.
func (s *Session) Message() []byte { return s.p.Bytes() }

// ProcessPeerMessage consumes the peer's PAKE message. It must be
// called exactly once, before Secret.
func (s *Session) ProcessPeerMessage(msg []byte) error {
	if err := s.p.Update(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrPakeMismatch, err)
	}
	return nil
}

// Secret returns the raw shared value both sides derived. It consumes
// the Session: calling it twice is a programming error.
func (s *Session) Secret() ([]byte, error) {
	if s.used {
		return nil, errors.New("pake: session already consumed")
	}
	s.used = true
	secret, err := s.p.SessionKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPakeMismatch, err)
	}
	return secret, nil
}

// bind derives the weak key fed to the PAKE library from both the
// shared password and the channel id, so that two peers on different
// channels with the same password never derive the same session key.
func bind(password []byte, channelID string) []byte {
	h := sha256.New()
	h.Write(password)
	h.Write([]byte{0})
	h.Write([]byte(channelID))
	return h.Sum(nil)
}
