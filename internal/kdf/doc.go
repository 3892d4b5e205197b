// Package kdf derives Portal's session key and key-confirmation tokens
// from the raw secret a completed PAKE exchange produces.
//
// Three HKDF-SHA256 outputs come out of one raw secret S, each under its
// own info label and an empty salt:
//
//	session_key      = HKDF(S, info="portal-aead-key")
//	confirm_sender    = HKDF(S, info="portal-confirm-sender")
//	confirm_receiver  = HKDF(S, info="portal-confirm-receiver")
//
// A ConfirmationToken for a direction is that direction's byte followed
// by its confirm_* value. Both sides derive the same three outputs from
// the same S, so each side can compute the token it expects from its
// peer and compare it against what actually arrives on the wire.
package kdf
