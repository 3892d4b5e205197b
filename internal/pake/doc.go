// Package pake wraps github.com/schollz/pake/v3 as Portal's
// password-authenticated key exchange engine.
//
// Each side constructs a Session bound to both the shared password and
// the channel id, obtains its own outbound message (Session.Message),
// and feeds the peer's message in once it arrives (Session.ProcessPeerMessage).
// Secret then yields the raw shared value the two sides agree on; it
// consumes the Session, matching the PakeState entity's single-use
// lifecycle in the spec: the session is meaningless once the secret has
// been extracted from it.
//
// schollz/pake/v3 supports NIST P-256 and a purpose-built "siec" curve.
// This package selects "siec" for its Ed25519-comparable group size and
// performance, since the library has no literal Ed25519 option; see
// DESIGN.md for the reasoning.
package pake
