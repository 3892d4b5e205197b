package peer

// State is a point in the per-side protocol state machine described in
// spec §4.5.
type State int

const (
	StateInit State = iota
	StateConnected
	StateHandshakeSent
	StateKeyDerived
	StateConfirmed
	StateMetadataExchanged
	StateTransferring
	StateDone
	StateAbortedProtocol
	StateAbortedCrypto
	StateAbortedIO
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateConnected:
		return "CONNECTED"
	case StateHandshakeSent:
		return "HANDSHAKE_SENT"
	case StateKeyDerived:
		return "KEY_DERIVED"
	case StateConfirmed:
		return "CONFIRMED"
	case StateMetadataExchanged:
		return "METADATA_EXCHANGED"
	case StateTransferring:
		return "TRANSFERRING"
	case StateDone:
		return "DONE"
	case StateAbortedProtocol:
		return "ABORTED_PROTOCOL"
	case StateAbortedCrypto:
		return "ABORTED_CRYPTO"
	case StateAbortedIO:
		return "ABORTED_IO"
	default:
		return "UNKNOWN"
	}
}
