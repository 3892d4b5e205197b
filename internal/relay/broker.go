package relay

import (
	"log"
	"net"
	"time"

	"github.com/portalsys/portal/internal/wire"
)

// pairReq is sent by a connection goroutine once it has parsed a
// complete Init record and wants to be paired.
type pairReq struct {
	channelID string
	role      wire.Direction
	conn      net.Conn
	pakeMsg   []byte
	resp      chan pairResp
}

// pairResp is the pump's answer to a pairReq: either a rejection
// reason or the counter-party's socket and PAKE message. Exactly one
// side of a pair gets starter == true; only that side may call
// runSession, so the two forwarder goroutines for this pair are
// spawned once, not once per connection.
type pairResp struct {
	err         error
	partner     net.Conn
	peerPakeMsg []byte
	starter     bool
}

// timeoutReq is sent by a PendingPeer's own timer when it expires.
type timeoutReq struct {
	channelID string
	role      wire.Direction
}

// slot holds the at-most-one pending peer per role for a channel id.
type slot struct {
	sender   *pendingPeer
	receiver *pendingPeer
}

type pendingPeer struct {
	conn    net.Conn
	pakeMsg []byte
	resp    chan pairResp
	timer   *time.Timer
}

// Broker pairs peers by channel id and role, then forwards bytes
// between paired sockets until either side disconnects.
type Broker struct {
	cfg      Config
	register chan pairReq
	timeout  chan timeoutReq
	logger   *log.Logger
}

// NewBroker constructs a Broker and starts its pump goroutine. logger
// receives connection-level operational messages (peer address and
// channel id, never protocol contents); a nil logger discards them.
func NewBroker(cfg Config, logger *log.Logger) *Broker {
	if logger == nil {
		logger = log.New(discard{}, "", 0)
	}
	b := &Broker{
		cfg:      cfg,
		register: make(chan pairReq),
		timeout:  make(chan timeoutReq),
		logger:   logger,
	}
	go b.pump()
	return b
}

// Serve accepts connections on ln until it returns an error (typically
// because ln was closed), handling each on its own goroutine.
func (b *Broker) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go b.handleConn(conn)
	}
}

// pump is the sole owner of the pairing table. It never performs
// blocking socket I/O itself; pairing and timeout results are handed
// back to the connection goroutines that do the actual writes.
func (b *Broker) pump() {
	pairs := make(map[string]*slot)

	slotFor := func(channelID string) *slot {
		s, ok := pairs[channelID]
		if !ok {
			s = &slot{}
			pairs[channelID] = s
		}
		return s
	}

	pendingFor := func(s *slot, role wire.Direction) **pendingPeer {
		if role == wire.Sender {
			return &s.sender
		}
		return &s.receiver
	}

	cleanup := func(channelID string) {
		s := pairs[channelID]
		if s == nil {
			return
		}
		if s.sender == nil && s.receiver == nil {
			delete(pairs, channelID)
		}
	}

	for {
		select {
		case req := <-b.register:
			s := slotFor(req.channelID)
			ownSlot := pendingFor(s, req.role)
			oppositeSlot := pendingFor(s, req.role.Opposite())

			if *ownSlot != nil {
				req.resp <- pairResp{err: errDuplicate}
				continue
			}

			if opp := *oppositeSlot; opp != nil {
				opp.timer.Stop()
				*oppositeSlot = nil
				cleanup(req.channelID)
				opp.resp <- pairResp{partner: req.conn, peerPakeMsg: req.pakeMsg, starter: false}
				req.resp <- pairResp{partner: opp.conn, peerPakeMsg: opp.pakeMsg, starter: true}
				b.logger.Printf("relay: paired channel=%s", req.channelID)
				continue
			}

			p := &pendingPeer{conn: req.conn, pakeMsg: req.pakeMsg, resp: req.resp}
			channelID, role := req.channelID, req.role
			p.timer = time.AfterFunc(b.cfg.PairTimeout, func() {
				b.timeout <- timeoutReq{channelID: channelID, role: role}
			})
			*ownSlot = p

		case t := <-b.timeout:
			s := pairs[t.channelID]
			if s == nil {
				continue
			}
			ps := pendingFor(s, t.role)
			p := *ps
			if p == nil {
				continue
			}
			*ps = nil
			cleanup(t.channelID)
			p.resp <- pairResp{err: errPairingTimeout}
			b.logger.Printf("relay: pairing timeout channel=%s role=%s", t.channelID, t.role)
		}
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
