// Package config reads and writes the Portal CLI's persisted
// configuration: the relay's host:port and the download root used by
// portal recv. It lives outside internal/manifest and internal/peer
// because it is pure collaborator plumbing, not part of the protocol.
package config
