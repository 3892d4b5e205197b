package relay

import (
	"errors"
	"net"
	"sync/atomic"
	"time"
)

// runSession forwards bytes between a and b in both directions until
// either side errors or closes, then tears both down. Every read is
// bounded by the idle timeout, so a session with no traffic in either
// direction for that long is disconnected even though nothing failed.
func (b *Broker) runSession(a, peer net.Conn) {
	defer a.Close()
	defer peer.Close()

	var lastActivity atomic.Int64
	lastActivity.Store(time.Now().UnixNano())

	done := make(chan struct{}, 2)
	go b.forward(a, peer, &lastActivity, done)
	go b.forward(peer, a, &lastActivity, done)

	<-done
}

// forward copies bytes read from src to dst until src errors, dst
// errors, or the idle timeout elapses with no data in either direction
// (lastActivity is shared with the opposite direction's forward). The
// buffer size bounds memory used per direction, giving the forwarding
// step the same natural backpressure a bounded ring buffer would:
// dst.Write blocks until the kernel has room, which in turn blocks this
// goroutine's next src.Read.
func (b *Broker) forward(src, dst net.Conn, lastActivity *atomic.Int64, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	buf := make([]byte, b.cfg.ForwardBufferSize)
	for {
		src.SetReadDeadline(time.Now().Add(b.cfg.IdleTimeout))
		n, rerr := src.Read(buf)
		if n > 0 {
			lastActivity.Store(time.Now().UnixNano())
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return
			}
		}
		if rerr != nil {
			var ne net.Error
			if errors.As(rerr, &ne) && ne.Timeout() &&
				time.Since(time.Unix(0, lastActivity.Load())) < b.cfg.IdleTimeout {
				continue
			}
			return
		}
	}
}
