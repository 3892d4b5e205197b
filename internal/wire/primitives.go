package wire

import (
	"encoding/binary"
	"fmt"
)

// encoder accumulates a record body in memory before it is length-prefixed
// and written. Records are small enough (bounded by MaxRecordSize) that
// building them in one buffer is simpler than streaming field-by-field.
type encoder struct {
	buf []byte
}

func newEncoder() *encoder { return &encoder{buf: make([]byte, 0, 256)} }

func (e *encoder) byte(b byte) { e.buf = append(e.buf, b) }

func (e *encoder) bool(b bool) {
	if b {
		e.byte(1)
	} else {
		e.byte(0)
	}
}

func (e *encoder) uint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) bytes(b []byte) { e.buf = append(e.buf, b...) }

// blob writes a uint64-length-prefixed byte slice.
func (e *encoder) blob(b []byte) {
	e.uint64(uint64(len(b)))
	e.bytes(b)
}

// str writes a uint64-length-prefixed UTF-8 string.
func (e *encoder) str(s string) {
	e.uint64(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) finish() ([]byte, error) { return e.buf, nil }

// decoder walks a record body front-to-back, rejecting any field whose
// declared length would run past the remaining bytes or past the
// relevant bound (MaxStringLen / MaxBlobLen).
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(buf []byte) *decoder { return &decoder{buf: buf} }

func (d *decoder) remaining() int { return len(d.buf) - d.pos }

func (d *decoder) atEnd() bool { return d.pos == len(d.buf) }

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || n > d.remaining() {
		return nil, fmt.Errorf("%w: short record", ErrMalformed)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) byte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) bool() (bool, error) {
	b, err := d.byte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, fmt.Errorf("%w: invalid bool", ErrMalformed)
	}
	return b == 1, nil
}

func (d *decoder) uint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) uint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) fixed(n int) ([]byte, error) { return d.take(n) }

func (d *decoder) blob() ([]byte, error) {
	n, err := d.uint64()
	if err != nil {
		return nil, err
	}
	if n > MaxBlobLen {
		return nil, fmt.Errorf("%w: blob exceeds limit", ErrMalformed)
	}
	b, err := d.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.uint64()
	if err != nil {
		return "", err
	}
	if n > MaxStringLen {
		return "", fmt.Errorf("%w: string exceeds limit", ErrMalformed)
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
