// Package main runs the Portal relay broker: a TCP rendezvous and
// byte-forwarding service that pairs a Sender and a Receiver on a
// shared channel id and then gets out of the way.
//
// The relay never sees plaintext, key material, or even the wire
// protocol after InitAck; it only parses the first record on each
// connection to learn a channel id and role, then forwards opaque
// bytes in both directions until one side disconnects.
//
// All state is held in memory and lost on process exit. The default
// listen address is :13265.
package main
