package peer

import (
	"fmt"
	"io"

	"github.com/portalsys/portal/internal/aead"
	"github.com/portalsys/portal/internal/kdf"
	"github.com/portalsys/portal/internal/pake"
	"github.com/portalsys/portal/internal/wire"
)

// ProgressFunc is invoked synchronously on the transfer goroutine after
// each successfully processed chunk, with the cumulative plaintext
// bytes transferred so far for the named file, starting at zero.
type ProgressFunc func(path string, bytesSoFar int64)

// Session is one side of a Portal transfer, from a completed handshake
// through to DONE or an aborted state.
type Session struct {
	conn  io.ReadWriteCloser
	dir   wire.Direction
	state State

	keys   kdf.Keys
	stream *aead.Stream
}

// State reports the session's current point in the state machine.
func (s *Session) State() State { return s.state }

// Close closes the underlying connection and wipes key material.
func (s *Session) Close() error {
	if s.stream != nil {
		s.stream.Wipe()
	}
	s.keys.Wipe()
	return s.conn.Close()
}

// Handshake runs PAKE key agreement and mutual key confirmation over
// conn, playing role dir, bound to channelID and password. It returns a
// Session ready for SendFiles (dir == wire.Sender) or ReceiveFiles
// (dir == wire.Receiver).
func Handshake(conn io.ReadWriteCloser, channelID string, password []byte, dir wire.Direction) (*Session, error) {
	s := &Session{conn: conn, dir: dir, state: StateConnected}

	pk, err := pake.New(password, channelID, dir)
	if err != nil {
		s.state = StateAbortedCrypto
		return nil, err
	}

	if err := wire.WriteRecord(conn, wire.Init{
		ChannelID: channelID,
		Direction: dir,
		PakeMsg:   pk.Message(),
	}); err != nil {
		s.state = StateAbortedIO
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	s.state = StateHandshakeSent

	msg, err := wire.ReadRecord(conn)
	if err != nil {
		s.state = StateAbortedIO
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	ack, ok := msg.(wire.InitAck)
	if !ok {
		s.state = StateAbortedProtocol
		return nil, fmt.Errorf("%w: expected InitAck, got %v", ErrProtocol, msg.Tag())
	}

	if err := pk.ProcessPeerMessage(ack.PeerPakeMsg); err != nil {
		s.state = StateAbortedCrypto
		return nil, err
	}
	secret, err := pk.Secret()
	if err != nil {
		s.state = StateAbortedCrypto
		return nil, err
	}

	keys, err := kdf.Derive(secret)
	if err != nil {
		s.state = StateAbortedCrypto
		return nil, err
	}
	s.keys = keys
	s.state = StateKeyDerived

	if err := wire.WriteRecord(conn, wire.Confirm{Token: keys.Token(dir)}); err != nil {
		s.state = StateAbortedIO
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	msg, err = wire.ReadRecord(conn)
	if err != nil {
		s.state = StateAbortedIO
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	confirm, ok := msg.(wire.Confirm)
	if !ok {
		s.state = StateAbortedProtocol
		return nil, fmt.Errorf("%w: expected Confirm, got %v", ErrProtocol, msg.Tag())
	}
	if !keys.VerifyToken(dir.Opposite(), confirm.Token) {
		s.state = StateAbortedCrypto
		return nil, ErrConfirmationMismatch
	}

	s.state = StateConfirmed
	s.stream = aead.NewStream(keys.SessionKey, aead.ChaCha20Poly1305{})
	return s, nil
}
