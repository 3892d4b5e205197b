package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/portalsys/portal/internal/config"
)

var (
	configDir string
	relayAddr string
	cfg       config.Config
)

// Execute builds the portal command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:   "portal",
		Short: "Peer-to-peer encrypted file transfer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configDir == "" {
				dir, err := os.UserConfigDir()
				if err != nil {
					return err
				}
				configDir = filepath.Join(dir, "portal")
			}
			loaded, err := config.Load(config.Path(configDir))
			if err != nil {
				return err
			}
			cfg = loaded
			if relayAddr != "" {
				cfg.RelayAddr = relayAddr
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default OS config dir/portal)")
	root.PersistentFlags().StringVar(&relayAddr, "relay", "", "relay host:port (overrides config)")

	root.AddCommand(sendCmd(), recvCmd(), configCmd())
	return root.Execute()
}
