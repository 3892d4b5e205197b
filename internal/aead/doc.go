// Package aead implements Portal's chunked authenticated-encryption
// stream: ChaCha20-Poly1305 with a 12-byte nonce and 16-byte tag, keyed
// by the session key from internal/kdf, with a monotonic 96-bit nonce
// counter that is shared between the Sender's encrypt calls and the
// Receiver's matching decrypt calls.
//
// Only the Sender ever seals traffic under the session key in this
// protocol (Metadata, FileHeader and Chunk records); MetadataAck and
// InitAck are plain wire fields. Because of that there is exactly one
// nonce sequence per session rather than one per direction: the
// Sender's Stream.SealNext calls and the Receiver's Stream.OpenNext
// calls advance in lockstep, call for call, in protocol order. Any
// divergence — a dropped, reordered or duplicated sealed record —
// desynchronises the counters and the next Open fails closed.
//
// The AEAD primitive is reached through the Backend interface so an
// alternate implementation can be substituted at build-configuration
// time; only the standard ChaCha20Poly1305 backend ships here.
package aead
