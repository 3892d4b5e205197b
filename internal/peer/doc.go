// Package peer implements the state machine each side of a Portal
// transfer runs from TCP connect to the last ciphertext byte:
// PAKE key agreement (internal/pake), key derivation and mutual
// confirmation (internal/kdf), then either SendFiles or ReceiveFiles to
// exchange the manifest and stream files under internal/aead.
//
// Handshake establishes the shared Session; SendFiles and ReceiveFiles
// are the Sender/Receiver halves of everything after that. Both are
// synchronous and block the calling goroutine until the transfer
// completes or fails; all I/O happens on the caller-supplied connection
// and the caller-referenced files.
package peer
