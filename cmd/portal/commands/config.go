package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portalsys/portal/internal/config"
)

func configCmd() *cobra.Command {
	var newRelayAddr, newDownloadRoot string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or edit the relay address and download root",
		RunE: func(cmd *cobra.Command, args []string) error {
			if newRelayAddr != "" {
				cfg.RelayAddr = newRelayAddr
			}
			if newDownloadRoot != "" {
				cfg.DownloadRoot = newDownloadRoot
			}
			if newRelayAddr != "" || newDownloadRoot != "" {
				if err := config.Save(config.Path(configDir), cfg); err != nil {
					return err
				}
			}
			fmt.Printf("relay_addr: %s\ndownload_root: %s\n", cfg.RelayAddr, cfg.DownloadRoot)
			return nil
		},
	}

	cmd.Flags().StringVar(&newRelayAddr, "relay", "", "set the relay host:port")
	cmd.Flags().StringVar(&newDownloadRoot, "download-root", "", "set the download directory")
	return cmd
}
