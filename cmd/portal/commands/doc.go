// Package commands defines the portal CLI and wires its collaborators:
// the persisted config file, the channel-id/password exchanged
// out-of-band between the two peers, and the relay connection.
//
// Commands
//
//   - send    Offer one or more files/directories under a channel id
//   - recv    Join a channel and download whatever the sender offers
//   - config  Print or edit the relay address and download root
package commands
