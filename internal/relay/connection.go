package relay

import (
	"errors"
	"net"
	"time"

	"github.com/portalsys/portal/internal/wire"
)

// handleConn runs the handshake-accumulate and pairing phases for one
// accepted connection, then, once paired, hands off to runSession for
// byte forwarding. It owns conn until the session ends.
func (b *Broker) handleConn(conn net.Conn) {
	msg, err := b.readInit(conn)
	if err != nil {
		b.logger.Printf("relay: %s: handshake failed: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	resp := make(chan pairResp, 1)
	b.register <- pairReq{
		channelID: msg.ChannelID,
		role:      msg.Direction,
		conn:      conn,
		pakeMsg:   msg.PakeMsg,
		resp:      resp,
	}

	r := <-resp
	if r.err != nil {
		code := wire.ErrorCodeProtocol
		switch {
		case errors.Is(r.err, errDuplicate):
			code = wire.ErrorCodeDuplicate
		case errors.Is(r.err, errPairingTimeout):
			code = wire.ErrorCodeTimeout
		}
		wire.WriteRecord(conn, wire.Error{Code: code, Message: r.err.Error()})
		b.logger.Printf("relay: %s: %v channel=%s role=%s", conn.RemoteAddr(), r.err, msg.ChannelID, msg.Direction)
		conn.Close()
		return
	}

	if err := wire.WriteRecord(conn, wire.InitAck{PeerPakeMsg: r.peerPakeMsg}); err != nil {
		conn.Close()
		return
	}

	// Only the starter side runs the forwarders for this pair — both
	// directions between conn and r.partner are handled by the single
	// runSession call below. If the other side started instead, this
	// goroutine has nothing left to do: runSession on that side owns
	// closing both sockets.
	if !r.starter {
		return
	}

	b.logger.Printf("relay: %s: forwarding started channel=%s role=%s", conn.RemoteAddr(), msg.ChannelID, msg.Direction)
	b.runSession(conn, r.partner)
}

// readInit reads exactly one record under the pairing deadline and
// requires it to be a valid Init; anything else is a handshake
// failure and the caller disconnects.
func (b *Broker) readInit(conn net.Conn) (wire.Init, error) {
	conn.SetReadDeadline(time.Now().Add(b.cfg.PairTimeout))
	msg, err := wire.ReadRecord(conn)
	if err != nil {
		return wire.Init{}, err
	}
	conn.SetReadDeadline(time.Time{})

	init, ok := msg.(wire.Init)
	if !ok {
		wire.WriteRecord(conn, wire.Error{Code: wire.ErrorCodeProtocol, Message: "expected Init"})
		return wire.Init{}, errUnexpectedRecord
	}
	if !init.Direction.Valid() {
		wire.WriteRecord(conn, wire.Error{Code: wire.ErrorCodeProtocol, Message: "invalid direction"})
		return wire.Init{}, errUnexpectedRecord
	}
	return init, nil
}
