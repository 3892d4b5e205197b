package peer

import (
	"fmt"
	"os"

	"github.com/portalsys/portal/internal/manifest"
	"github.com/portalsys/portal/internal/wire"
)

// SendFiles builds a manifest from paths, advertises it, and — if the
// Receiver accepts — streams every file in declared order. It must be
// called on a Session established with dir == wire.Sender.
func (s *Session) SendFiles(paths []string, progress ProgressFunc) error {
	if s.dir != wire.Sender {
		return fmt.Errorf("%w: SendFiles called on a receiver session", ErrProtocol)
	}
	if s.state != StateConfirmed {
		return fmt.Errorf("%w: SendFiles called before confirmation", ErrProtocol)
	}

	info, entries, err := manifest.BuildManifest(paths)
	if err != nil {
		return err
	}

	body, err := info.Marshal()
	if err != nil {
		return err
	}
	ct, err := s.stream.SealNext(body)
	if err != nil {
		return s.abortCrypto(err)
	}
	if err := wire.WriteRecord(s.conn, wire.Metadata{Ciphertext: ct}); err != nil {
		return s.abortIO(err)
	}
	s.state = StateMetadataExchanged

	msg, err := wire.ReadRecord(s.conn)
	if err != nil {
		return s.abortIO(err)
	}
	ack, ok := msg.(wire.MetadataAck)
	if !ok {
		s.state = StateAbortedProtocol
		return fmt.Errorf("%w: expected MetadataAck, got %v", ErrProtocol, msg.Tag())
	}
	if !ack.Accepted {
		// A decline ends the Sender's side cleanly; only the Receiver
		// reports ErrPeerDeclined.
		s.state = StateDone
		return nil
	}

	for i, entry := range entries {
		if err := s.sendFile(entry, info.Files[i], progress); err != nil {
			return err
		}
	}

	s.state = StateDone
	return nil
}

func (s *Session) sendFile(entry manifest.Entry, meta manifest.FileMetadata, progress ProgressFunc) error {
	s.state = StateTransferring

	f, err := os.Open(entry.AbsPath)
	if err != nil {
		return s.abortIO(err)
	}
	defer f.Close()

	headerBody, err := meta.Marshal()
	if err != nil {
		return err
	}
	headerCT, err := s.stream.SealNext(headerBody)
	if err != nil {
		return s.abortCrypto(err)
	}
	if err := wire.WriteRecord(s.conn, wire.FileHeader{Ciphertext: headerCT}); err != nil {
		return s.abortIO(err)
	}

	chunkErr := s.stream.ChunkWriter(f, func(ct []byte) error {
		return wire.WriteRecord(s.conn, wire.Chunk{Ciphertext: ct})
	}, func(n int64) {
		if progress != nil {
			progress(entry.RelPath, n)
		}
	})
	if chunkErr != nil {
		return s.abortIO(chunkErr)
	}

	if err := wire.WriteRecord(s.conn, wire.EndOfFile{}); err != nil {
		return s.abortIO(err)
	}
	return nil
}

func (s *Session) abortIO(err error) error {
	s.state = StateAbortedIO
	return fmt.Errorf("%w: %v", ErrIO, err)
}

func (s *Session) abortCrypto(err error) error {
	s.state = StateAbortedCrypto
	return err
}
