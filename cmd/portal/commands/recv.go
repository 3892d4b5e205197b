package commands

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/portalsys/portal/internal/manifest"
	"github.com/portalsys/portal/internal/peer"
	"github.com/portalsys/portal/internal/wire"
)

func recvCmd() *cobra.Command {
	var channelID, password, downloadRoot string
	var overwrite, yes bool

	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Join a channel and download whatever the sender offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(os.Stdin)
			if channelID == "" {
				fmt.Print("Channel id: ")
				line, err := in.ReadString('\n')
				if err != nil {
					return err
				}
				channelID = trimLine(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := in.ReadString('\n')
				if err != nil {
					return err
				}
				password = trimLine(line)
			}
			if downloadRoot == "" {
				downloadRoot = cfg.DownloadRoot
			}

			conn, err := net.Dial("tcp", cfg.RelayAddr)
			if err != nil {
				return err
			}
			defer conn.Close()

			sess, err := peer.Handshake(conn, channelID, []byte(password), wire.Receiver)
			if err != nil {
				return err
			}
			defer sess.Close()

			confirm := func(info manifest.TransferInfo) bool {
				if yes {
					return true
				}
				fmt.Printf("Incoming %d file(s), %d bytes total. Accept? [y/N] ", len(info.Files), info.TotalSize)
				line, _ := in.ReadString('\n')
				return trimLine(line) == "y" || trimLine(line) == "yes"
			}

			return sess.ReceiveFiles(downloadRoot, confirm, overwrite, func(path string, bytesSoFar int64) {
				fmt.Printf("\r%s: %d bytes", path, bytesSoFar)
			})
		},
	}

	cmd.Flags().StringVar(&channelID, "channel", "", "channel id (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "shared password (prompted if omitted)")
	cmd.Flags().StringVar(&downloadRoot, "out", "", "download directory (default from config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "allow overwriting existing files")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept the transfer without prompting")
	return cmd
}

func trimLine(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
