package peer_test

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/portalsys/portal/internal/manifest"
	"github.com/portalsys/portal/internal/peer"
	"github.com/portalsys/portal/internal/wire"
)

const testChannel = "id"

func TestHappyPathSingleFile(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "hello.txt")
	if err := os.WriteFile(srcFile, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	senderConn, receiverConn := relayedPipe()
	defer senderConn.Close()
	defer receiverConn.Close()

	errCh := make(chan error, 2)
	go func() {
		errCh <- runSender(senderConn, "test", []string{srcFile}, nil)
	}()
	go func() {
		errCh <- runReceiver(receiverConn, "test", dstDir, nil, false, nil)
	}()

	mustSucceed(t, errCh, 2)

	got, err := os.ReadFile(filepath.Join(dstDir, "hello.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestMultiChunkFile(t *testing.T) {
	const size = 3*wire.ChunkSize + 7
	content := make([]byte, size)
	if _, err := rand.Read(content); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "big.bin")
	if err := os.WriteFile(srcFile, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	senderConn, receiverConn := relayedPipe()
	defer senderConn.Close()
	defer receiverConn.Close()

	errCh := make(chan error, 2)
	go func() { errCh <- runSender(senderConn, "test", []string{srcFile}, nil) }()
	go func() { errCh <- runReceiver(receiverConn, "test", dstDir, nil, false, nil) }()

	mustSucceed(t, errCh, 2)

	got, err := os.ReadFile(filepath.Join(dstDir, "big.bin"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("round trip mismatch for multi-chunk file")
	}
}

func TestWrongPasswordAbortsBothSides(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "hello.txt")
	if err := os.WriteFile(srcFile, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	senderConn, receiverConn := relayedPipe()
	defer senderConn.Close()
	defer receiverConn.Close()

	errCh := make(chan error, 2)
	go func() { errCh <- runSender(senderConn, "foo", []string{srcFile}, nil) }()
	go func() { errCh <- runReceiver(receiverConn, "bar", dstDir, nil, false, nil) }()

	err1 := <-errCh
	err2 := <-errCh
	if err1 == nil || err2 == nil {
		t.Fatalf("expected both sides to fail with mismatched passwords, got %v / %v", err1, err2)
	}

	entries, _ := os.ReadDir(dstDir)
	if len(entries) != 0 {
		t.Fatalf("expected no files written on receiver, found %v", entries)
	}
}

func TestReceiverDeclines(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "hello.txt")
	if err := os.WriteFile(srcFile, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	senderConn, receiverConn := relayedPipe()
	defer senderConn.Close()
	defer receiverConn.Close()

	senderCh := make(chan error, 1)
	receiverCh := make(chan error, 1)
	go func() { senderCh <- runSender(senderConn, "test", []string{srcFile}, nil) }()
	go func() {
		receiverCh <- runReceiver(receiverConn, "test", dstDir, func(manifest.TransferInfo) bool { return false }, false, nil)
	}()

	senderErr := <-senderCh
	receiverErr := <-receiverCh
	if senderErr != nil {
		t.Fatalf("sender unexpected error: %v", senderErr)
	}
	if !errors.Is(receiverErr, peer.ErrPeerDeclined) {
		t.Fatalf("receiver: want ErrPeerDeclined, got %v", receiverErr)
	}

	entries, _ := os.ReadDir(dstDir)
	if len(entries) != 0 {
		t.Fatalf("expected no files written, found %v", entries)
	}
}

func TestTruncationAttackDetected(t *testing.T) {
	const size = 2 * wire.ChunkSize
	content := make([]byte, size)
	if _, err := rand.Read(content); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "big.bin")
	if err := os.WriteFile(srcFile, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw1, raw2 := relayedPipe()
	defer raw1.Close()
	defer raw2.Close()
	senderConn := &chunkDroppingConn{Conn: raw1, dropOnce: true}

	senderCh := make(chan error, 1)
	receiverCh := make(chan error, 1)
	go func() { senderCh <- runSender(senderConn, "test", []string{srcFile}, nil) }()
	go func() { receiverCh <- runReceiver(raw2, "test", dstDir, nil, false, nil) }()

	senderErr := <-senderCh
	receiverErr := <-receiverCh
	if senderErr != nil {
		t.Logf("sender error (expected once receiver aborts): %v", senderErr)
	}
	if receiverErr == nil {
		t.Fatalf("expected receiver to detect truncation, got nil error")
	}
}

// --- helpers ---

// relayedPipe returns the Sender's and the Receiver's ends of an
// in-memory connection with a minimal stand-in for the relay between
// them: it reads each side's Init, answers each with an InitAck
// carrying the other side's PAKE message, then copies bytes both ways
// until either side closes.
func relayedPipe() (net.Conn, net.Conn) {
	senderConn, senderEnd := net.Pipe()
	receiverConn, receiverEnd := net.Pipe()
	go func() {
		defer senderEnd.Close()
		defer receiverEnd.Close()
		var inits [2]wire.Init
		for i, end := range []net.Conn{senderEnd, receiverEnd} {
			msg, err := wire.ReadRecord(end)
			if err != nil {
				return
			}
			init, ok := msg.(wire.Init)
			if !ok {
				return
			}
			inits[i] = init
		}
		if wire.WriteRecord(senderEnd, wire.InitAck{PeerPakeMsg: inits[1].PakeMsg}) != nil ||
			wire.WriteRecord(receiverEnd, wire.InitAck{PeerPakeMsg: inits[0].PakeMsg}) != nil {
			return
		}
		done := make(chan struct{}, 2)
		go func() { io.Copy(receiverEnd, senderEnd); done <- struct{}{} }()
		go func() { io.Copy(senderEnd, receiverEnd); done <- struct{}{} }()
		<-done
	}()
	return senderConn, receiverConn
}

func runSender(conn net.Conn, password string, paths []string, progress peer.ProgressFunc) error {
	sess, err := peer.Handshake(conn, testChannel, []byte(password), wire.Sender)
	if err != nil {
		return err
	}
	defer sess.Close()
	return sess.SendFiles(paths, progress)
}

func runReceiver(conn net.Conn, password, downloadRoot string, confirm peer.ConfirmFunc, overwrite bool, progress peer.ProgressFunc) error {
	sess, err := peer.Handshake(conn, testChannel, []byte(password), wire.Receiver)
	if err != nil {
		return err
	}
	defer sess.Close()
	return sess.ReceiveFiles(downloadRoot, confirm, overwrite, progress)
}

func mustSucceed(t *testing.T, errCh chan error, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

// chunkDroppingConn wraps a net.Conn and silently drops the first
// wire.Chunk record written through it, simulating an adversary that
// removes a chunk in transit before EndOfFile arrives.
type chunkDroppingConn struct {
	net.Conn
	buf      []byte
	dropOnce bool
}

func (c *chunkDroppingConn) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	for {
		if len(c.buf) < 8 {
			break
		}
		n := binary.LittleEndian.Uint64(c.buf[:8])
		if uint64(len(c.buf)) < 8+n {
			break
		}
		record := c.buf[:8+n]
		tag := c.buf[8]
		c.buf = c.buf[8+n:]
		if wire.Tag(tag) == wire.TagChunk && c.dropOnce {
			c.dropOnce = false
			continue
		}
		if _, err := c.Conn.Write(record); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
