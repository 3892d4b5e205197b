package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/portalsys/portal/internal/peer"
	"github.com/portalsys/portal/internal/wire"
)

func sendCmd() *cobra.Command {
	var channelID, password string

	cmd := &cobra.Command{
		Use:   "send <paths...>",
		Short: "Offer one or more files or directories over a channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if channelID == "" {
				id, err := randomCode(4)
				if err != nil {
					return err
				}
				channelID = id
			}
			if password == "" {
				pw, err := randomCode(8)
				if err != nil {
					return err
				}
				password = pw
			}
			fmt.Printf("On the other side, run:\n  portal recv --channel %s --password %s\n", channelID, password)

			conn, err := net.Dial("tcp", cfg.RelayAddr)
			if err != nil {
				return err
			}
			defer conn.Close()

			sess, err := peer.Handshake(conn, channelID, []byte(password), wire.Sender)
			if err != nil {
				return err
			}
			defer sess.Close()

			return sess.SendFiles(args, func(path string, bytesSoFar int64) {
				fmt.Printf("\r%s: %d bytes", path, bytesSoFar)
			})
		},
	}

	cmd.Flags().StringVar(&channelID, "channel", "", "channel id (generated if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "shared password (generated if omitted)")
	return cmd
}

// randomCode returns n random bytes as a lowercase hex string (2n
// characters), suitable for a channel id or password exchanged out-of-band.
func randomCode(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
