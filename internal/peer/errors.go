package peer

import "errors"

// Error kinds surfaced by the core, per spec §7. Some kinds are defined
// only in the package that actually detects them (pake.ErrPakeMismatch,
// aead.ErrAuthFailed, aead.ErrNonceExhausted, manifest.ErrPathUnsafe);
// they are not redefined here, and callers match them with errors.Is
// against those packages' sentinels.
var (
	// ErrProtocol covers malformed records, unexpected variants and
	// oversized frames observed at the peer layer.
	ErrProtocol = errors.New("peer: protocol error")
	// ErrConfirmationMismatch means the peer's Confirm token did not
	// match what this side expected. Treat as an active attack, not a
	// transient failure.
	ErrConfirmationMismatch = errors.New("peer: confirmation mismatch")
	// ErrPeerDeclined means the Receiver's MetadataAck reported
	// accepted=false. This is a clean termination, not a fault.
	ErrPeerDeclined = errors.New("peer: peer declined transfer")
	// ErrTruncated means a file's chunk stream reached EndOfFile with a
	// byte count different from the declared plaintext size. A
	// connection that closes mid-file is reported as ErrIO instead.
	ErrTruncated = errors.New("peer: file truncated before declared size")
	// ErrIO wraps a socket or file I/O failure observed during a transfer.
	ErrIO = errors.New("peer: io failure")
)
