package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/portalsys/portal/cmd/portal/commands"
	"github.com/portalsys/portal/internal/aead"
	"github.com/portalsys/portal/internal/manifest"
	"github.com/portalsys/portal/internal/pake"
	"github.com/portalsys/portal/internal/peer"
)

func main() {
	err := commands.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "portal:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error returned from the command tree to the exit
// codes: 0 success, 1 user/protocol error, 2 cryptographic failure,
// 3 I/O failure, 4 user-declined transfer.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, peer.ErrPeerDeclined):
		return 4
	case errors.Is(err, peer.ErrIO):
		return 3
	case errors.Is(err, peer.ErrConfirmationMismatch),
		errors.Is(err, pake.ErrPakeMismatch),
		errors.Is(err, aead.ErrAuthFailed),
		errors.Is(err, aead.ErrChunkTooLarge),
		errors.Is(err, aead.ErrNonceExhausted):
		return 2
	case errors.Is(err, peer.ErrProtocol),
		errors.Is(err, peer.ErrTruncated),
		errors.Is(err, manifest.ErrPathUnsafe):
		return 1
	default:
		return 1
	}
}
