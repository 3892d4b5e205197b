package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ChunkSize is the fixed plaintext chunk size used by the AEAD stream.
// Both peers must agree on it; a mismatch surfaces as an AEAD failure,
// not a protocol error, because the codec has no way to tell a
// wrong-size chunk from a tampered one.
const ChunkSize = 65536

// MaxRecordSize bounds the body of any single record. A Chunk body is
// the largest legitimate payload: ciphertext up to ChunkSize plus a
// 16-byte Poly1305 tag, with 48 bytes of slack that also covers the
// body's own tag byte and 8-byte blob length prefix.
const MaxRecordSize = ChunkSize + 64

// MaxStringLen and MaxBlobLen bound the individual string/blob fields
// decoded out of a record body, independent of the record as a whole,
// so a crafted length prefix inside a small record can't claim an
// enormous allocation.
const (
	MaxStringLen = 4096
	MaxBlobLen   = MaxRecordSize
)

var (
	// ErrRecordTooLarge is returned when a record's declared length
	// exceeds MaxRecordSize.
	ErrRecordTooLarge = errors.New("wire: record exceeds maximum size")
	// ErrMalformed is returned for any structural decoding failure:
	// truncated input, a field length exceeding its bound, trailing
	// bytes, or an unrecognised tag.
	ErrMalformed = errors.New("wire: malformed record")
)

// WriteRecord encodes msg and writes it to w as one length-prefixed record.
func WriteRecord(w io.Writer, msg Message) error {
	body, err := encodeBody(msg)
	if err != nil {
		return err
	}
	if len(body) > MaxRecordSize {
		return ErrRecordTooLarge
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("wire: write length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wire: write body: %w", err)
	}
	return nil
}

// ReadRecord reads and decodes one record from r. The length prefix is
// checked against MaxRecordSize before the body buffer is allocated.
func ReadRecord(r io.Reader) (Message, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint64(lenBuf[:])
	if n > MaxRecordSize {
		return nil, ErrRecordTooLarge
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("wire: read body: %w", err)
	}
	return decodeBody(body)
}

func encodeBody(msg Message) ([]byte, error) {
	e := newEncoder()
	e.byte(byte(msg.Tag()))
	switch m := msg.(type) {
	case Init:
		e.str(m.ChannelID)
		e.byte(byte(m.Direction))
		e.blob(m.PakeMsg)
	case InitAck:
		e.blob(m.PeerPakeMsg)
	case Confirm:
		e.bytes(m.Token[:])
	case Metadata:
		e.blob(m.Ciphertext)
	case MetadataAck:
		e.bool(m.Accepted)
	case FileHeader:
		e.blob(m.Ciphertext)
	case Chunk:
		e.blob(m.Ciphertext)
	case EndOfFile:
		// no fields
	case Error:
		e.uint16(uint16(m.Code))
		e.str(m.Message)
	default:
		return nil, fmt.Errorf("wire: unknown message type %T", msg)
	}
	return e.finish()
}

func decodeBody(body []byte) (Message, error) {
	d := newDecoder(body)
	tagByte, err := d.byte()
	if err != nil {
		return nil, err
	}
	var msg Message
	switch Tag(tagByte) {
	case TagInit:
		id, err := d.str()
		if err != nil {
			return nil, err
		}
		dirByte, err := d.byte()
		if err != nil {
			return nil, err
		}
		pm, err := d.blob()
		if err != nil {
			return nil, err
		}
		msg = Init{ChannelID: id, Direction: Direction(dirByte), PakeMsg: pm}
	case TagInitAck:
		pm, err := d.blob()
		if err != nil {
			return nil, err
		}
		msg = InitAck{PeerPakeMsg: pm}
	case TagConfirm:
		tok, err := d.fixed(ConfirmTokenSize)
		if err != nil {
			return nil, err
		}
		var c Confirm
		copy(c.Token[:], tok)
		msg = c
	case TagMetadata:
		ct, err := d.blob()
		if err != nil {
			return nil, err
		}
		msg = Metadata{Ciphertext: ct}
	case TagMetadataAck:
		b, err := d.bool()
		if err != nil {
			return nil, err
		}
		msg = MetadataAck{Accepted: b}
	case TagFileHeader:
		ct, err := d.blob()
		if err != nil {
			return nil, err
		}
		msg = FileHeader{Ciphertext: ct}
	case TagChunk:
		ct, err := d.blob()
		if err != nil {
			return nil, err
		}
		msg = Chunk{Ciphertext: ct}
	case TagEndOfFile:
		msg = EndOfFile{}
	case TagError:
		code, err := d.uint16()
		if err != nil {
			return nil, err
		}
		text, err := d.str()
		if err != nil {
			return nil, err
		}
		msg = Error{Code: ErrorCode(code), Message: text}
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrMalformed, tagByte)
	}
	if !d.atEnd() {
		return nil, fmt.Errorf("%w: trailing bytes", ErrMalformed)
	}
	return msg, nil
}
