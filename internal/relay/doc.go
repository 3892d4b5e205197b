// Package relay implements the Portal relay broker: a TCP rendezvous
// and byte-forwarding service that pairs a Sender and a Receiver on the
// same channel id and then gets out of the way.
//
// The broker owns exactly one piece of mutable state, the pairing
// table, and exactly one goroutine — the pump — ever touches it.
// Per-connection goroutines do all blocking I/O and talk to the pump
// over channels, which is the Go-native shape of the single-threaded,
// event-driven reactor described for this service: the runtime's
// netpoller already multiplexes blocked Reads and Writes across
// goroutines, so there is no need to hand-roll readiness polling.
package relay
