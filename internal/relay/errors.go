package relay

import "errors"

var (
	// errDuplicate means a second endpoint registered the same role on
	// a channel id that already has one pending. The newcomer is
	// disconnected; the existing PendingPeer is left untouched.
	errDuplicate = errors.New("relay: duplicate role on channel")
	// errPairingTimeout means a PendingPeer was never matched with a
	// counter-party within the configured pairing window.
	errPairingTimeout = errors.New("relay: pairing timeout")
	// errUnexpectedRecord means the first record read on a connection
	// was not a valid Init.
	errUnexpectedRecord = errors.New("relay: expected Init record")
)
