package peer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/portalsys/portal/internal/manifest"
	"github.com/portalsys/portal/internal/wire"
)

// ConfirmFunc is invoked once the Sender's manifest has been opened and
// decides whether to accept the transfer. A nil ConfirmFunc accepts
// unconditionally.
type ConfirmFunc func(info manifest.TransferInfo) bool

// ReceiveFiles reads the Sender's manifest, optionally asks confirm
// whether to proceed, and — if accepted — writes every declared file
// under downloadRoot. It must be called on a Session established with
// dir == wire.Receiver.
func (s *Session) ReceiveFiles(downloadRoot string, confirm ConfirmFunc, overwrite bool, progress ProgressFunc) error {
	if s.dir != wire.Receiver {
		return fmt.Errorf("%w: ReceiveFiles called on a sender session", ErrProtocol)
	}
	if s.state != StateConfirmed {
		return fmt.Errorf("%w: ReceiveFiles called before confirmation", ErrProtocol)
	}

	msg, err := wire.ReadRecord(s.conn)
	if err != nil {
		return s.abortIO(err)
	}
	metaMsg, ok := msg.(wire.Metadata)
	if !ok {
		s.state = StateAbortedProtocol
		return fmt.Errorf("%w: expected Metadata, got %v", ErrProtocol, msg.Tag())
	}
	body, err := s.stream.OpenNext(metaMsg.Ciphertext)
	if err != nil {
		return s.abortCrypto(err)
	}
	info, err := manifest.UnmarshalTransferInfo(body)
	if err != nil {
		s.state = StateAbortedProtocol
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	accepted := true
	if confirm != nil {
		accepted = confirm(info)
	}
	if err := wire.WriteRecord(s.conn, wire.MetadataAck{Accepted: accepted}); err != nil {
		return s.abortIO(err)
	}
	if !accepted {
		s.state = StateDone
		return ErrPeerDeclined
	}
	s.state = StateMetadataExchanged

	for range info.Files {
		if err := s.receiveFile(downloadRoot, overwrite, progress); err != nil {
			return err
		}
	}

	s.state = StateDone
	return nil
}

func (s *Session) receiveFile(downloadRoot string, overwrite bool, progress ProgressFunc) error {
	s.state = StateTransferring

	msg, err := wire.ReadRecord(s.conn)
	if err != nil {
		return s.abortIO(err)
	}
	headerMsg, ok := msg.(wire.FileHeader)
	if !ok {
		s.state = StateAbortedProtocol
		return fmt.Errorf("%w: expected FileHeader, got %v", ErrProtocol, msg.Tag())
	}
	headerBody, err := s.stream.OpenNext(headerMsg.Ciphertext)
	if err != nil {
		return s.abortCrypto(err)
	}
	meta, err := manifest.UnmarshalFileMetadata(headerBody)
	if err != nil {
		s.state = StateAbortedProtocol
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	dest, err := manifest.ResolveUnderRoot(downloadRoot, meta.Path)
	if err != nil {
		s.state = StateAbortedProtocol
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return s.abortIO(err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(dest, flags, 0o644)
	if err != nil {
		return s.abortIO(err)
	}
	defer f.Close()

	var written int64
	for {
		msg, err := wire.ReadRecord(s.conn)
		if err != nil {
			return s.abortIO(err)
		}
		switch m := msg.(type) {
		case wire.Chunk:
			pt, err := s.stream.OpenChunk(m.Ciphertext)
			if err != nil {
				return s.abortCrypto(err)
			}
			if _, err := f.Write(pt); err != nil {
				return s.abortIO(err)
			}
			written += int64(len(pt))
			if progress != nil {
				progress(meta.Path, written)
			}
		case wire.EndOfFile:
			if written != meta.PlaintextSize {
				s.state = StateAbortedProtocol
				return fmt.Errorf("%w: %s: got %d bytes, expected %d", ErrTruncated, meta.Path, written, meta.PlaintextSize)
			}
			return nil
		default:
			s.state = StateAbortedProtocol
			return fmt.Errorf("%w: expected Chunk or EndOfFile, got %v", ErrProtocol, msg.Tag())
		}
	}
}
